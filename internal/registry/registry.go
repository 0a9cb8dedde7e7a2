// Package registry keeps the named store snapshots of a process. It stands
// in for the directory a durable engine would write to.
package registry

import (
	"errors"
	"sync"

	"github.com/MikhailWahib/dbmemory/internal/memtable"
)

// ErrNotRegistered reports a path with no snapshot.
var ErrNotRegistered = errors.New("no store registered under path")

// Registry maps store paths to the snapshot published when the store was
// last closed. It is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*memtable.Memtable
}

var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		stores: make(map[string]*memtable.Memtable),
	}
}

// Exists reports whether path has a snapshot.
func (r *Registry) Exists(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.stores[path]
	return ok
}

// Load returns a private copy of the snapshot stored under path.
func (r *Registry) Load(path string) (*memtable.Memtable, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mt, ok := r.stores[path]
	if !ok {
		return nil, false
	}
	return mt.Clone(), true
}

// Publish records a copy of mt under path, replacing any earlier snapshot.
func (r *Registry) Publish(path string, mt *memtable.Memtable) {
	snapshot := mt.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.stores[path] = snapshot
}

// Reserve records an empty snapshot under path unless one already exists.
func (r *Registry) Reserve(path string, degree int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[path]; !ok {
		r.stores[path] = memtable.NewMemtable(degree)
	}
}

// Delete drops the snapshot under path. Deleting a missing path is a no-op.
func (r *Registry) Delete(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.stores, path)
}

// Backup copies the snapshot under path to dstPath.
func (r *Registry) Backup(path, dstPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mt, ok := r.stores[path]
	if !ok {
		return ErrNotRegistered
	}
	r.stores[dstPath] = mt.Clone()
	return nil
}
