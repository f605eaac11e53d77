package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Reserver hands out collision free local file names. A name is taken when
// it exists on disk or when any active run has claimed it. Claims last
// until the run releases them, so files with the same name arriving from
// different directories or concurrent jobs never overwrite each other.
type Reserver struct {
	mu     sync.Mutex
	claims map[string]uuid.UUID
	exists func(path string) bool
}

func NewReserver() *Reserver {
	return &Reserver{
		claims: make(map[string]uuid.UUID),
		exists: func(path string) bool {
			_, err := os.Lstat(path)
			return err == nil
		},
	}
}

// Claim returns dir/name, or the first free dir/name_N.ext.
func (r *Reserver) Claim(runID uuid.UUID, dir, name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	stem, ext := splitExt(name)

	candidate := filepath.Join(dir, name)
	for n := 1; r.taken(candidate); n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
	r.claims[candidate] = runID
	return candidate
}

// splitExt splits off the extension. Leading dots belong to the stem, so
// ".env" has no extension and ".tar.gz" keeps ".gz".
func splitExt(name string) (stem, ext string) {
	ext = filepath.Ext(strings.TrimLeft(name, "."))
	return strings.TrimSuffix(name, ext), ext
}

func (r *Reserver) taken(path string) bool {
	if _, ok := r.claims[path]; ok {
		return true
	}
	return r.exists(path)
}

// Release drops every claim held by runID.
func (r *Reserver) Release(runID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for path, owner := range r.claims {
		if owner == runID {
			delete(r.claims, path)
		}
	}
}

// Held returns the number of active claims.
func (r *Reserver) Held() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.claims)
}
