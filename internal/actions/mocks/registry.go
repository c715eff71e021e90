package mocks

import (
	"slices"
	"strings"

	"github.com/opsforge/ecr-janitor/pkg/types"
)

// DeleteCall records one BatchDelete invocation.
type DeleteCall struct {
	Repo    types.Repository
	Digests []string
}

// MockRegistry implements types.RegistryClient over in-memory fixtures.
//
// Deletions remove images from the fixtures, so a second run against the
// same mock observes the registry state left behind by the first.
type MockRegistry struct {
	Repos  []types.Repository
	Images map[string][]types.Image // keyed by repository name

	WalkRepositoriesErr error
	WalkImagesErr       error
	BatchDeleteErr      error

	DeleteCalls []DeleteCall
}

// WalkRepositories yields fixture repositories matching the prefix.
func (m *MockRegistry) WalkRepositories(prefix string, fn func(types.Repository) error) error {
	if m.WalkRepositoriesErr != nil {
		return m.WalkRepositoriesErr
	}

	for _, repo := range m.Repos {
		if !strings.HasPrefix(repo.Name, prefix) {
			continue
		}

		if err := fn(repo); err != nil {
			return err
		}
	}

	return nil
}

// WalkImages yields the fixture images of one repository.
func (m *MockRegistry) WalkImages(repo types.Repository, fn func(types.Image) error) error {
	if m.WalkImagesErr != nil {
		return m.WalkImagesErr
	}

	for _, image := range m.Images[repo.Name] {
		if err := fn(image); err != nil {
			return err
		}
	}

	return nil
}

// BatchDelete records the call and removes the digests from the fixtures.
func (m *MockRegistry) BatchDelete(repo types.Repository, digests []string) error {
	if m.BatchDeleteErr != nil {
		return m.BatchDeleteErr
	}

	m.DeleteCalls = append(m.DeleteCalls, DeleteCall{Repo: repo, Digests: digests})

	remaining := m.Images[repo.Name][:0:0]
	for _, image := range m.Images[repo.Name] {
		if !slices.Contains(digests, image.Digest) {
			remaining = append(remaining, image)
		}
	}

	m.Images[repo.Name] = remaining

	return nil
}

// DeletedDigests flattens every recorded deletion into one slice.
func (m *MockRegistry) DeletedDigests() []string {
	var digests []string
	for _, call := range m.DeleteCalls {
		digests = append(digests, call.Digests...)
	}

	return digests
}
