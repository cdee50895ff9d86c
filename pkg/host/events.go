package host

// BatchOp identifies which batch operation an event refers to.
type BatchOp string

// Batch operations.
const (
	BatchLoad   BatchOp = "load"
	BatchUnload BatchOp = "unload"
)

// EventHandler receives notifications about lifecycle events. Handlers are
// called synchronously while a batch operation is in progress: they must
// return quickly and must not call Load or Unload operations on the Host.
// Registry lookups (Get, All, Count) are safe from a handler.
type EventHandler interface {
	// OnExtensionLoaded fires after an extension's Initialize succeeded and
	// it was inserted into the registry.
	OnExtensionLoaded(id, version string)

	// OnExtensionFailed fires when a load attempt fails: missing
	// dependency, initialization error, panic, or timeout.
	OnExtensionFailed(id string, err error)

	// OnExtensionUnloaded fires after an extension was removed from the
	// registry.
	OnExtensionUnloaded(id string)

	// OnBatchComplete fires at the end of LoadAll and UnloadAll with the
	// number of extensions that succeeded out of the batch total.
	OnBatchComplete(op BatchOp, succeeded, total int)
}

// emitter wraps an optional EventHandler with nil guards.
type emitter struct {
	handler EventHandler
}

func (e emitter) loaded(id, version string) {
	if e.handler != nil {
		e.handler.OnExtensionLoaded(id, version)
	}
}

func (e emitter) failed(id string, err error) {
	if e.handler != nil {
		e.handler.OnExtensionFailed(id, err)
	}
}

func (e emitter) unloaded(id string) {
	if e.handler != nil {
		e.handler.OnExtensionUnloaded(id)
	}
}

func (e emitter) batchComplete(op BatchOp, succeeded, total int) {
	if e.handler != nil {
		e.handler.OnBatchComplete(op, succeeded, total)
	}
}
