package discovery

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kalebbroo/extman/pkg/extension"
)

// Source yields instantiated, uninitialized extensions from some supply of
// extension code: a manifest directory, a compiled-in table, or anything
// else that can produce Extension instances. A source never initializes
// what it returns; that is the host's job.
type Source interface {
	Discover(ctx context.Context) ([]extension.Extension, error)
}

// Static is a Source over a fixed set of ready instances. Embedding hosts
// that compile their extensions in use this instead of directory scanning.
type Static struct {
	exts []extension.Extension
}

// NewStatic creates a Source returning the given instances in order.
func NewStatic(exts ...extension.Extension) *Static {
	return &Static{exts: append([]extension.Extension(nil), exts...)}
}

// Discover returns the configured instances.
func (s *Static) Discover(ctx context.Context) ([]extension.Extension, error) {
	return append([]extension.Extension(nil), s.exts...), nil
}

// Factory produces a fresh, uninitialized extension instance.
type Factory func() extension.Extension

// Factories maps manifest IDs to the factories that build them. The scanner
// consults a Factories table to turn an on-disk manifest into a running
// instance.
type Factories struct {
	mu    sync.RWMutex
	m     map[string]Factory
	names []string
}

// NewFactories creates an empty factory table.
func NewFactories() *Factories {
	return &Factories{m: make(map[string]Factory)}
}

// Register adds a factory under an extension ID. Registering an ID twice is
// a programming error.
func (f *Factories) Register(id string, fn Factory) error {
	if fn == nil {
		return fmt.Errorf("discovery: nil factory for %q", id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.m[id]; dup {
		return fmt.Errorf("discovery: factory %q registered twice", id)
	}
	f.m[id] = fn
	f.names = append(f.names, id)
	return nil
}

// Lookup returns the factory for an ID.
func (f *Factories) Lookup(id string) (Factory, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn, ok := f.m[id]
	return fn, ok
}

// IDs returns the registered IDs, sorted.
func (f *Factories) IDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := append([]string(nil), f.names...)
	sort.Strings(ids)
	return ids
}

// defaultFactories is the process-wide table populated by extension
// packages in their init functions, in the manner of database/sql drivers.
var defaultFactories = NewFactories()

// Register adds a factory to the default table. It panics on a duplicate
// ID, since that indicates two extension packages claiming the same
// identity at link time.
func Register(id string, fn Factory) {
	if err := defaultFactories.Register(id, fn); err != nil {
		panic(err)
	}
}

// DefaultFactories returns the process-wide factory table.
func DefaultFactories() *Factories {
	return defaultFactories
}
