package host

import (
	"slices"
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/kalebbroo/extman/pkg/extension"
)

// registry is the live set of currently loaded extensions. Reads never block
// against the orchestrator's inserts and removals, so status queries are
// safe during an in-flight batch. Mutation happens only through the Host.
type registry struct {
	m cmap.ConcurrentMap[string, *extension.Descriptor]
}

func newRegistry() *registry {
	return &registry{m: cmap.New[*extension.Descriptor]()}
}

// insert adds a descriptor if its ID is absent.
func (r *registry) insert(d *extension.Descriptor) bool {
	return r.m.SetIfAbsent(d.ID(), d)
}

// remove deletes and returns the descriptor for id, if present.
func (r *registry) remove(id string) (*extension.Descriptor, bool) {
	return r.m.Pop(id)
}

func (r *registry) get(id string) (*extension.Descriptor, bool) {
	return r.m.Get(id)
}

func (r *registry) has(id string) bool {
	return r.m.Has(id)
}

func (r *registry) count() int {
	return r.m.Count()
}

// snapshot returns the loaded descriptors sorted by ID.
func (r *registry) snapshot() []*extension.Descriptor {
	items := r.m.Items()
	out := make([]*extension.Descriptor, 0, len(items))
	for _, d := range items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// dependentsOf returns the IDs of loaded extensions that declare id as a
// dependency, sorted.
func (r *registry) dependentsOf(id string) []string {
	var deps []string
	for _, d := range r.m.Items() {
		if slices.Contains(d.Manifest().Dependencies, id) {
			deps = append(deps, d.ID())
		}
	}
	sort.Strings(deps)
	return deps
}
