package testutil

import (
	"path/filepath"
	"testing"

	"ferryman/internal/repository"
)

// SetupTestDB returns a repository on a private in-memory database. It is
// closed when the test ends.
func SetupTestDB(t *testing.T) *repository.Repository {
	t.Helper()
	return openRepo(t, ":memory:")
}

// SetupFileDB places the database in the test's temp dir for tests that
// close and reopen it. The returned path can be passed to repository.New.
func SetupFileDB(t *testing.T) (*repository.Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ferryman.db")
	return openRepo(t, path), path
}

func openRepo(t *testing.T, path string) *repository.Repository {
	t.Helper()

	repo, err := repository.New(path)
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", path, err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}
