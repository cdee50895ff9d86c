package host

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/kalebbroo/extman/pkg/depgraph"
	"github.com/kalebbroo/extman/pkg/discovery"
	"github.com/kalebbroo/extman/pkg/extension"
	"github.com/kalebbroo/extman/pkg/log"
)

// Host is the extension lifecycle orchestrator. It owns the registry of
// loaded extensions, drives service registration and dependency-ordered
// initialization, and tears extensions down in reverse order.
//
// One batch operation (LoadAll, UnloadAll) runs at a time; Get and All are
// safe to call concurrently with an in-flight batch.
type Host struct {
	mu       sync.Mutex
	registry *registry
	services *extension.ServiceCollection
	logger   log.Logger
	events   emitter

	hookTimeout time.Duration
	regWorkers  int

	// registered tracks IDs whose RegisterServices hook already ran, so a
	// reload after unload does not register twice.
	registered map[string]bool

	// loadOrder is the sequence in which currently loaded extensions were
	// initialized. Dependency gates keep it topological, so its reverse is
	// always a valid unload order.
	loadOrder []string
}

// New creates a Host. Returns an error if the module versions this build
// was compiled against are incompatible.
func New(opts ...Option) (*Host, error) {
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	services := o.services
	if services == nil {
		services = extension.NewServiceCollection()
	}

	return &Host{
		registry:    newRegistry(),
		services:    services,
		logger:      o.logger,
		events:      emitter{handler: o.handler},
		hookTimeout: o.hookTimeout,
		regWorkers:  o.regWorkers,
		registered:  make(map[string]bool),
	}, nil
}

// Services returns the service collection extensions register into.
func (h *Host) Services() *extension.ServiceCollection {
	return h.services
}

// LoadAll loads a batch of extensions in dependency order: resolve the
// order, run every RegisterServices hook, then initialize each extension in
// turn. One extension's failure never blocks its siblings. Returns the
// number of extensions loaded.
//
// A dependency cycle rejects the whole batch: nothing is loaded and the
// returned error matches extension.ErrCyclicDependency. A cycle is a
// configuration defect across extensions, so it is surfaced instead of
// loading a partial order that could leave dependents up before their
// dependencies.
func (h *Host) LoadAll(ctx context.Context, exts []extension.Extension) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	byID := make(map[string]*extension.Descriptor, len(exts))
	g := depgraph.New()
	for _, ext := range exts {
		d := extension.NewDescriptor(ext)
		if err := d.Manifest().Validate(); err != nil {
			h.logger.Warn("skipping extension with invalid manifest", log.Err(err))
			continue
		}
		if _, dup := byID[d.ID()]; dup {
			h.logger.Warn("skipping duplicate extension id in batch", log.String("id", d.ID()))
			continue
		}
		byID[d.ID()] = d
		g.Add(d.ID(), d.Manifest().Dependencies)
	}

	order, err := g.Sort()
	if err != nil {
		h.logger.Error("load batch rejected", log.Err(err))
		h.events.batchComplete(BatchLoad, 0, g.Len())
		return 0, fmt.Errorf("%w: %w", extension.ErrCyclicDependency, err)
	}
	for _, m := range g.Missing() {
		h.logger.Debug("dependency not present in batch",
			log.String("id", m.ID),
			log.String("dependency", m.Dependency))
	}

	ordered := make([]*extension.Descriptor, 0, len(order))
	for _, id := range order {
		ordered = append(ordered, byID[id])
	}
	h.registerAll(ordered)

	loaded := 0
	for _, d := range ordered {
		if err := h.loadLocked(ctx, d); err != nil {
			h.logger.Warn("extension not loaded", log.String("id", d.ID()), log.Err(err))
			continue
		}
		loaded++
	}
	h.events.batchComplete(BatchLoad, loaded, g.Len())
	return loaded, nil
}

// Load loads a single extension. It fails with extension.ErrAlreadyLoaded
// if the ID is in the registry and with extension.ErrMissingDependency if
// any declared dependency is not currently loaded. On initialization
// failure the error message is preserved on the descriptor and the
// extension stays out of the registry; no retry is attempted.
func (h *Host) Load(ctx context.Context, ext extension.Extension) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	d := extension.NewDescriptor(ext)
	if err := d.Manifest().Validate(); err != nil {
		return err
	}
	h.registerAll([]*extension.Descriptor{d})
	return h.loadLocked(ctx, d)
}

// Unload removes a single extension. It fails with extension.ErrNotLoaded
// if the ID is not in the registry and with extension.ErrDependentsLoaded
// while other loaded extensions still declare it as a dependency. The
// Shutdown hook runs inside the failure boundary; the registry entry is
// removed even if the hook fails, so teardown can never leak a zombie
// entry.
func (h *Host) Unload(ctx context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unloadLocked(ctx, id)
}

// UnloadAll unloads every loaded extension in reverse load order,
// continuing past individual failures. Returns the number of extensions
// unloaded.
func (h *Host) UnloadAll(ctx context.Context) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	order := depgraph.Reverse(h.loadOrder)
	unloaded := 0
	for _, id := range order {
		if err := h.unloadLocked(ctx, id); err != nil {
			h.logger.Warn("extension not unloaded", log.String("id", id), log.Err(err))
			continue
		}
		unloaded++
	}
	h.events.batchComplete(BatchUnload, unloaded, len(order))
	return unloaded
}

// Get returns the descriptor of a loaded extension.
// Safe to call concurrently with a batch operation.
func (h *Host) Get(id string) (*extension.Descriptor, bool) {
	return h.registry.get(id)
}

// All returns a snapshot of the loaded extensions, sorted by ID.
// Safe to call concurrently with a batch operation.
func (h *Host) All() []*extension.Descriptor {
	return h.registry.snapshot()
}

// Count returns the number of loaded extensions.
func (h *Host) Count() int {
	return h.registry.count()
}

// registerAll runs the RegisterServices hook for each descriptor that has
// not registered yet. All registrations complete before the caller starts
// initializing, so hook order within the pass does not matter; with
// WithRegistrationWorkers the pass runs on an ants pool.
func (h *Host) registerAll(ds []*extension.Descriptor) {
	pending := make([]*extension.Descriptor, 0, len(ds))
	for _, d := range ds {
		if h.registered[d.ID()] {
			continue
		}
		h.registered[d.ID()] = true
		pending = append(pending, d)
	}
	if len(pending) == 0 {
		return
	}

	if h.regWorkers > 1 && len(pending) > 1 {
		pool, err := ants.NewPool(h.regWorkers)
		if err == nil {
			defer pool.Release()
			var wg sync.WaitGroup
			for _, d := range pending {
				d := d
				wg.Add(1)
				if err := pool.Submit(func() {
					defer wg.Done()
					h.registerOne(d)
				}); err != nil {
					wg.Done()
					h.registerOne(d)
				}
			}
			wg.Wait()
			return
		}
		h.logger.Warn("registration pool unavailable, running sequentially", log.Err(err))
	}
	for _, d := range pending {
		h.registerOne(d)
	}
}

// registerOne invokes one RegisterServices hook inside the failure
// boundary. Failures are logged and skipped; they never block other
// registrations or the batch.
func (h *Host) registerOne(d *extension.Descriptor) {
	reg, ok := d.Extension().(extension.ServiceRegistrar)
	if !ok {
		return
	}
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return reg.RegisterServices(h.services)
	}()
	if err != nil {
		h.logger.Warn("service registration failed", log.String("id", d.ID()), log.Err(err))
		return
	}
	h.logger.Debug("services registered", log.String("id", d.ID()))
}

func (h *Host) loadLocked(ctx context.Context, d *extension.Descriptor) error {
	id := d.ID()
	if h.registry.has(id) {
		return fmt.Errorf("%w: %s", extension.ErrAlreadyLoaded, id)
	}
	for _, dep := range d.Manifest().Dependencies {
		if !h.registry.has(dep) {
			err := fmt.Errorf("%w: %s requires %s", extension.ErrMissingDependency, id, dep)
			h.events.failed(id, err)
			return err
		}
	}

	d.ClearError()
	if err := h.invokeInitialize(ctx, d.Extension()); err != nil {
		d.MarkFailed(err.Error())
		h.logger.Error("extension failed to initialize", log.String("id", id), log.Err(err))
		ierr := &extension.InitError{ID: id, Cause: err}
		h.events.failed(id, ierr)
		return ierr
	}

	d.MarkLoaded(time.Now())
	h.registry.insert(d)
	h.loadOrder = append(h.loadOrder, id)
	h.logger.Info("extension loaded",
		log.String("id", id),
		log.String("version", d.Manifest().Version))
	h.events.loaded(id, d.Manifest().Version)
	return nil
}

func (h *Host) unloadLocked(ctx context.Context, id string) error {
	d, ok := h.registry.get(id)
	if !ok {
		return fmt.Errorf("%w: %s", extension.ErrNotLoaded, id)
	}
	if dependents := h.registry.dependentsOf(id); len(dependents) > 0 {
		return fmt.Errorf("%w: %s is required by %s",
			extension.ErrDependentsLoaded, id, strings.Join(dependents, ", "))
	}

	if err := h.invokeShutdown(ctx, d.Extension()); err != nil {
		h.logger.Error("extension shutdown failed", log.String("id", id), log.Err(err))
	}
	h.registry.remove(id)
	d.MarkUnloaded()
	h.dropFromLoadOrder(id)
	h.logger.Info("extension unloaded", log.String("id", id))
	h.events.unloaded(id)
	return nil
}

func (h *Host) dropFromLoadOrder(id string) {
	for i, v := range h.loadOrder {
		if v == id {
			h.loadOrder = append(h.loadOrder[:i], h.loadOrder[i+1:]...)
			return
		}
	}
}

// invokeInitialize runs an Initialize hook inside the failure boundary:
// panics become errors, and the optional hook timeout converts a hung hook
// into an initialization failure.
func (h *Host) invokeInitialize(ctx context.Context, ext extension.Extension) error {
	run := func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return ext.Initialize(ctx, h.services)
	}
	if h.hookTimeout <= 0 {
		return run(ctx)
	}

	hookCtx, cancel := context.WithTimeout(ctx, h.hookTimeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- run(hookCtx) }()
	select {
	case err := <-done:
		return err
	case <-hookCtx.Done():
		return fmt.Errorf("initialize timed out after %s", h.hookTimeout)
	}
}

// invokeShutdown runs an optional Shutdown hook inside the same boundary.
func (h *Host) invokeShutdown(ctx context.Context, ext extension.Extension) error {
	sd, ok := ext.(extension.Shutdowner)
	if !ok {
		return nil
	}
	run := func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return sd.Shutdown(ctx)
	}
	if h.hookTimeout <= 0 {
		return run(ctx)
	}

	hookCtx, cancel := context.WithTimeout(ctx, h.hookTimeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- run(hookCtx) }()
	select {
	case err := <-done:
		return err
	case <-hookCtx.Done():
		return fmt.Errorf("shutdown timed out after %s", h.hookTimeout)
	}
}

// validateModuleVersions checks that all module versions are compatible.
// Returns an error if any module version is below its minimum compatible version.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"log":       {log.Version, log.MinCompatibleVersion},
		"extension": {extension.Version, extension.MinCompatibleVersion},
		"depgraph":  {depgraph.Version, depgraph.MinCompatibleVersion},
		"discovery": {discovery.Version, discovery.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !extension.VersionAtLeast(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}

	return nil
}
