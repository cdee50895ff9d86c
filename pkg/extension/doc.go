// Package extension defines the contract every pluggable extman module
// implements, along with the supporting types shared between an extension
// and its host: the manifest, the runtime descriptor, the service
// collection, and the lifecycle error taxonomy.
//
// An extension implements [Extension] and optionally [ServiceRegistrar] and
// [Shutdowner]:
//
//	type Echo struct{}
//
//	func (Echo) Manifest() extension.Manifest {
//	    return extension.Manifest{
//	        ID:      "echo",
//	        Version: "1.0.0",
//	        Dependencies: []string{"transport"},
//	    }
//	}
//
//	func (Echo) Initialize(ctx context.Context, services *extension.ServiceCollection) error {
//	    // dependencies declared in the manifest are loaded by now
//	    return nil
//	}
//
// Descriptors carry the runtime state (loaded, loaded-at, last error) and
// are owned by the host; extensions never see their own descriptor.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package extension
