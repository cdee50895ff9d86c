package extension

import (
	"sync"
	"time"
)

// Descriptor pairs an instantiated extension with its manifest and runtime
// load state. Runtime state is mutated only by the host's lifecycle
// orchestrator; all accessors are safe for concurrent use so status queries
// can run against an in-flight batch.
type Descriptor struct {
	manifest Manifest
	ext      Extension

	mu       sync.RWMutex
	loaded   bool
	loadedAt time.Time
	errMsg   string
}

// NewDescriptor wraps an extension in a descriptor. Manifest defaults are
// applied here so every descriptor carries a complete manifest.
func NewDescriptor(ext Extension) *Descriptor {
	m := ext.Manifest()
	m.ApplyDefaults()
	return &Descriptor{manifest: m, ext: ext}
}

// Manifest returns the extension's manifest with defaults applied.
func (d *Descriptor) Manifest() Manifest {
	return d.manifest
}

// ID returns the extension's unique identity.
func (d *Descriptor) ID() string {
	return d.manifest.ID
}

// Extension returns the backing extension instance.
func (d *Descriptor) Extension() Extension {
	return d.ext
}

// IsLoaded reports whether the extension is currently loaded.
func (d *Descriptor) IsLoaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// LoadedAt returns when the extension was loaded. Zero if not loaded.
func (d *Descriptor) LoadedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadedAt
}

// ErrMessage returns the failure message from the most recent load attempt.
// Empty if the last attempt succeeded or none was made.
func (d *Descriptor) ErrMessage() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.errMsg
}

// MarkLoaded records a successful load. Called only by the host.
func (d *Descriptor) MarkLoaded(at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = true
	d.loadedAt = at
	d.errMsg = ""
}

// MarkFailed records a failed load attempt. Called only by the host.
func (d *Descriptor) MarkFailed(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = false
	d.errMsg = msg
}

// MarkUnloaded clears the loaded state. Called only by the host.
func (d *Descriptor) MarkUnloaded() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = false
	d.loadedAt = time.Time{}
}

// ClearError resets the failure message ahead of a load attempt.
// Called only by the host.
func (d *Descriptor) ClearError() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errMsg = ""
}
