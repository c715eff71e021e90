package types

// RegistryClient is the registry surface consumed by the cleanup driver.
//
// Both walk methods paginate lazily: each page is fetched only when the
// previous one has been consumed, and a non-nil error returned from the
// callback stops the walk and is propagated unchanged. Walks are not
// restartable; each invocation paginates fresh.
type RegistryClient interface {
	// WalkRepositories calls fn once for every repository whose name starts
	// with prefix, in the order the registry returns them.
	WalkRepositories(prefix string, fn func(Repository) error) error

	// WalkImages calls fn once for every image in the given repository.
	WalkImages(repo Repository, fn func(Image) error) error

	// BatchDelete deletes the given digests from the repository, splitting
	// them into the batch sizes the registry API permits. Digests from
	// different repositories are never mixed into one call.
	BatchDelete(repo Repository, digests []string) error
}

// ReportPublisher uploads the rendered inventory of kept and ignored images.
type ReportPublisher interface {
	// Publish renders the rows into a single document and stores it under a
	// key derived from label, overwriting any previous report.
	Publish(label string, rows []ReportRow) error
}
