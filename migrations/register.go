package migrations

import (
	"io/fs"
	"sync"
)

// registry keeps migration filesystems in registration order so host apps
// replay core DDL before any tenant-specific extras they add on top.
type registry struct {
	mu      sync.RWMutex
	sources []fs.FS
}

var defaultRegistry registry

// Register adds a filesystem containing CRM migrations to the shared
// registry. Nil filesystems are ignored. The blank import of this package
// registers the embedded core schema; host applications may register
// additional filesystems for their own tables.
func Register(fsys fs.FS) {
	if fsys == nil {
		return
	}
	defaultRegistry.mu.Lock()
	defaultRegistry.sources = append(defaultRegistry.sources, fsys)
	defaultRegistry.mu.Unlock()
}

// Filesystems returns the registered migration filesystems in the order
// they were added. The returned slice is a copy.
func Filesystems() []fs.FS {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	out := make([]fs.FS, len(defaultRegistry.sources))
	copy(out, defaultRegistry.sources)
	return out
}
