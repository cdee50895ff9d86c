package depgraph

import (
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle detected during Sort. ID is the node
// whose revisit triggered detection; Path is the in-progress chain from the
// DFS root to the point of detection.
type CycleError struct {
	ID   string
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("dependency cycle through %s", e.ID)
	}
	return fmt.Sprintf("dependency cycle through %s (path: %s)", e.ID, strings.Join(e.Path, " -> "))
}

// MissingDep records a dependency that names a node absent from the graph.
// Missing dependencies do not fail the sort; they are load-time
// preconditions checked by the host.
type MissingDep struct {
	ID         string
	Dependency string
}

// visit states for the depth-first sort.
const (
	unvisited = iota
	inProgress
	done
)

// Graph is an ephemeral dependency graph built per load or unload pass.
// Nodes keep insertion order so ties among independent subgraphs resolve
// the same way on every run with the same input.
type Graph struct {
	order   []string
	deps    map[string][]string
	missing []MissingDep
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{deps: make(map[string][]string)}
}

// Add inserts a node with its dependency IDs. Adding an existing node
// replaces its dependencies without changing its position.
func (g *Graph) Add(id string, deps []string) {
	if _, ok := g.deps[id]; !ok {
		g.order = append(g.order, id)
	}
	g.deps[id] = append([]string(nil), deps...)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Sort returns a total order in which every node appears after all of its
// dependencies that exist in the graph. Dependencies naming absent nodes are
// recorded (see Missing) and skipped. A cycle aborts the sort and returns a
// *CycleError; callers must treat that as a failure of the whole batch, not
// a partial result.
func (g *Graph) Sort() ([]string, error) {
	state := make(map[string]int, len(g.order))
	sorted := make([]string, 0, len(g.order))
	g.missing = nil

	var path []string
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case inProgress:
			return &CycleError{ID: id, Path: append([]string(nil), path...)}
		}
		state[id] = inProgress
		path = append(path, id)
		for _, dep := range g.deps[id] {
			if _, ok := g.deps[dep]; !ok {
				g.missing = append(g.missing, MissingDep{ID: id, Dependency: dep})
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		sorted = append(sorted, id)
		return nil
	}

	for _, id := range g.order {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

// Missing returns the dependencies recorded by the most recent Sort that
// named nodes absent from the graph.
func (g *Graph) Missing() []MissingDep {
	return append([]MissingDep(nil), g.missing...)
}

// Reverse returns a new slice with order reversed. The reverse of a load
// order is the corresponding unload order.
func Reverse(order []string) []string {
	out := make([]string, len(order))
	for i, id := range order {
		out[len(order)-1-i] = id
	}
	return out
}
