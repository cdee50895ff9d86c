// Package depgraph resolves load order over a set of extensions from their
// declared dependencies.
//
// The resolver is a depth-first topological sort with three visit states per
// node; revisiting an in-progress node means a cycle, which fails the whole
// sort. Dependencies that name nodes outside the graph are collected rather
// than failing the sort, because whether they matter is decided at load
// time against the registry, not against one discovery batch.
//
// Graphs are ephemeral: build one per load or unload pass from the current
// descriptor set, sort, discard.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package depgraph
