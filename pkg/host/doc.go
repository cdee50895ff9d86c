// Package host drives the extension lifecycle: service registration,
// dependency-ordered initialization, and reverse-order teardown.
//
// A Host owns the registry of currently loaded extensions. Batches run one
// at a time and initialize sequentially in dependency order, which
// guarantees that when extension B's Initialize runs, every dependency A it
// declared has completed its own Initialize and is visible in the registry.
// Lookups (Get, All, Count) never block against a running batch.
//
// # Usage
//
//	h, err := host.New(
//	    host.WithLogger(logger),
//	    host.WithEventHandler(handler),
//	)
//	if err != nil {
//	    return err
//	}
//
//	exts, err := source.Discover(ctx)
//	if err != nil {
//	    return err
//	}
//	loaded, err := h.LoadAll(ctx, exts)
//	...
//	h.UnloadAll(ctx)
//
// Failed loads are not retried; call Load again explicitly if wanted. A
// dependency cycle rejects the whole batch, see LoadAll.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package host
