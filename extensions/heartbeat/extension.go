// Package heartbeat provides a small built-in extension that registers a
// clock service and emits a periodic liveness log line while loaded. It
// doubles as a reference implementation of the full extension contract:
// manifest, service registration, initialization, and teardown.
package heartbeat

import (
	"context"
	"sync"
	"time"

	"github.com/kalebbroo/extman/pkg/discovery"
	"github.com/kalebbroo/extman/pkg/extension"
	"github.com/kalebbroo/extman/pkg/log"
)

// ID is the extension's identity.
const ID = "heartbeat"

// ServiceClock is the name under which the extension registers its clock.
// The registered value is a Clock.
const ServiceClock = "heartbeat.clock"

// Clock reports the current time. Other extensions resolve it from the
// service collection instead of calling time.Now directly, which keeps them
// testable against a fake clock.
type Clock func() time.Time

// Config holds configuration options for the heartbeat extension.
type Config struct {
	// Interval between heartbeat log lines. Default: 30 seconds.
	Interval time.Duration

	// Logger receives the heartbeat lines. Default: no output.
	Logger log.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 30 * time.Second,
		Logger:   log.NewNoopLogger(),
	}
}

// Extension implements the heartbeat. One instance supports one load cycle
// at a time.
type Extension struct {
	interval time.Duration
	logger   log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a heartbeat extension with the given configuration.
func New(cfg Config) *Extension {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNoopLogger()
	}
	return &Extension{interval: cfg.Interval, logger: cfg.Logger}
}

// Manifest returns the extension's identity.
func (e *Extension) Manifest() extension.Manifest {
	return extension.Manifest{
		ID:          ID,
		Name:        "Heartbeat",
		Version:     "1.0.0",
		Author:      "extman",
		Description: "Registers a clock service and logs a periodic liveness line.",
	}
}

// RegisterServices contributes the clock to the host's collection so that
// extensions depending on heartbeat can resolve it during Initialize.
func (e *Extension) RegisterServices(services *extension.ServiceCollection) error {
	services.Register(ServiceClock, Clock(time.Now))
	return nil
}

// Initialize starts the heartbeat loop.
func (e *Extension) Initialize(ctx context.Context, services *extension.ServiceCollection) error {
	clock := services.MustResolve(ServiceClock).(Clock)

	loopCtx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()

	e.wg.Add(1)
	go e.loop(loopCtx, clock)
	return nil
}

// Shutdown stops the heartbeat loop and waits for it to exit.
func (e *Extension) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
	return nil
}

func (e *Extension) loop(ctx context.Context, clock Clock) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.logger.Info("heartbeat", log.String("at", clock().UTC().Format(time.RFC3339)))
		}
	}
}

func init() {
	discovery.Register(ID, func() extension.Extension {
		return New(DefaultConfig())
	})
}
