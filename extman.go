// Package extman provides an embeddable extension lifecycle manager: it
// discovers pluggable modules, resolves their declared dependencies into a
// deterministic load order, brings them up in that order, and tears them
// down in reverse.
//
// Example usage:
//
//	h, err := extman.New(host.WithLogger(log.NewZerologAdapter()))
//	if err != nil {
//	    return err
//	}
//	exts, err := discovery.NewStatic(myExtension).Discover(ctx)
//	if err != nil {
//	    return err
//	}
//	loaded, err := h.LoadAll(ctx, exts)
//	...
//	h.UnloadAll(ctx)
//
// The sub-packages carry the pieces: pkg/extension (the contract),
// pkg/depgraph (the resolver), pkg/discovery (sources), pkg/host (the
// orchestrator), pkg/log (logging abstraction).
package extman

import (
	"github.com/kalebbroo/extman/pkg/extension"
	"github.com/kalebbroo/extman/pkg/host"
)

// Re-export the types an embedding host touches most, for convenient
// access. Sub-packages can also be imported directly.
type (
	// Extension is the contract every pluggable module implements.
	Extension = extension.Extension

	// Manifest describes an extension's identity and dependencies.
	Manifest = extension.Manifest

	// Descriptor pairs an extension with its runtime load state.
	Descriptor = extension.Descriptor

	// ServiceCollection is the DI surface shared with extensions.
	ServiceCollection = extension.ServiceCollection

	// Host is the lifecycle orchestrator.
	Host = host.Host

	// Option configures a Host.
	Option = host.Option
)

// Lifecycle errors, re-exported for errors.Is checks at the facade level.
var (
	ErrAlreadyLoaded     = extension.ErrAlreadyLoaded
	ErrNotLoaded         = extension.ErrNotLoaded
	ErrMissingDependency = extension.ErrMissingDependency
	ErrDependentsLoaded  = extension.ErrDependentsLoaded
	ErrCyclicDependency  = extension.ErrCyclicDependency
)

// New creates a Host with the given options.
func New(opts ...Option) (*Host, error) {
	return host.New(opts...)
}
