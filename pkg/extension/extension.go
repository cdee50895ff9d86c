package extension

import "context"

// Extension is the contract every pluggable module implements.
//
// Initialize performs module-specific setup using the services supplied by
// the host. It is always invoked inside the host's failure boundary: a
// returned error or a panic is captured there and recorded on the
// descriptor, so implementations never need top-level error reporting of
// their own. The context carries the host's per-hook deadline when one is
// configured.
type Extension interface {
	// Manifest returns the extension's identity and dependency declarations.
	Manifest() Manifest

	// Initialize sets up the extension. When it runs, every dependency the
	// manifest declares has already completed its own Initialize and is
	// visible in the host's registry.
	Initialize(ctx context.Context, services *ServiceCollection) error
}

// ServiceRegistrar is implemented by extensions that contribute services to
// the host's collection. RegisterServices runs before any Initialize call in
// a batch, so services registered here can be resolved by other extensions'
// Initialize hooks. A failure is logged by the host and does not block other
// registrations or the batch.
type ServiceRegistrar interface {
	RegisterServices(services *ServiceCollection) error
}

// Shutdowner is implemented by extensions that need teardown. The host calls
// Shutdown at most once per load cycle, inside the same failure boundary as
// Initialize. Extensions without teardown simply omit the method.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}
