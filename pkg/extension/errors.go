package extension

import (
	"errors"
	"fmt"
)

// Lifecycle errors returned by the host's load and unload operations.
// Check with errors.Is.
var (
	// ErrAlreadyLoaded is returned when loading an ID already in the registry.
	ErrAlreadyLoaded = errors.New("extman: extension already loaded")

	// ErrNotLoaded is returned when unloading an ID absent from the registry.
	ErrNotLoaded = errors.New("extman: extension not loaded")

	// ErrMissingDependency is returned when a declared dependency is not loaded.
	ErrMissingDependency = errors.New("extman: missing dependency")

	// ErrDependentsLoaded is returned when unloading an extension that other
	// loaded extensions still depend on.
	ErrDependentsLoaded = errors.New("extman: dependents still loaded")

	// ErrCyclicDependency is returned when a batch's dependency graph
	// contains a cycle. The whole batch is rejected.
	ErrCyclicDependency = errors.New("extman: cyclic dependency")

	// ErrInvalidManifest is returned for manifests that fail validation.
	ErrInvalidManifest = errors.New("extman: invalid manifest")
)

// InitError wraps the cause of a failed Initialize hook, including recovered
// panics and hook timeouts.
type InitError struct {
	// ID identifies the extension whose initialization failed.
	ID string

	// Cause is the underlying failure.
	Cause error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("extman: initialize %s: %v", e.ID, e.Cause)
}

// Unwrap returns the underlying failure.
func (e *InitError) Unwrap() error {
	return e.Cause
}
