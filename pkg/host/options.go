package host

import (
	"time"

	"github.com/kalebbroo/extman/pkg/extension"
	"github.com/kalebbroo/extman/pkg/log"
)

// Option configures optional behavior of a Host.
type Option func(*options)

// options holds the optional configuration for a Host instance.
type options struct {
	logger      log.Logger
	handler     EventHandler
	services    *extension.ServiceCollection
	hookTimeout time.Duration
	regWorkers  int
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for lifecycle events.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.handler = handler
	}
}

// WithServices injects the host application's service collection, so
// extensions register into and resolve from the same container the rest of
// the application uses. If not provided, the Host owns a fresh collection.
func WithServices(services *extension.ServiceCollection) Option {
	return func(o *options) {
		o.services = services
	}
}

// WithHookTimeout bounds each Initialize and Shutdown hook invocation.
// A hook that exceeds the timeout counts as a failed initialization (the
// extension is not added to the registry) or a failed shutdown (the entry
// is still removed). Zero, the default, means no per-hook deadline.
func WithHookTimeout(d time.Duration) Option {
	return func(o *options) {
		o.hookTimeout = d
	}
}

// WithRegistrationWorkers runs the RegisterServices pass of LoadAll on a
// worker pool of the given size. Registration is order-independent: every
// registration still completes before any Initialize call, so the
// dependency ordering guarantee is unaffected. Values below 2 keep the
// pass sequential.
func WithRegistrationWorkers(n int) Option {
	return func(o *options) {
		o.regWorkers = n
	}
}
