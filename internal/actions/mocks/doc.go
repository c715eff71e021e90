// Package mocks provides in-memory registry and publisher fakes for driver
// tests. The registry fake mirrors the real client's prefix filtering and
// removes deleted digests from its fixtures so reruns observe the post-
// deletion state.
package mocks
