// Package discovery locates candidate extensions and produces instantiated,
// uninitialized extension instances for the host to load.
//
// Two sources are provided. [Static] wraps compiled-in instances for
// embedding hosts. [Scanner] walks a directory tree for extension.toml
// manifest files and instantiates each one through a [Factories] table;
// extension packages register their factories at init time via [Register],
// in the manner of database/sql drivers:
//
//	func init() {
//	    discovery.Register("heartbeat", func() extension.Extension {
//	        return heartbeat.New(heartbeat.DefaultConfig())
//	    })
//	}
//
// A failure on one candidate (malformed manifest, unknown factory,
// duplicate ID) is logged and skipped; it never aborts discovery of the
// rest.
//
// [Watcher] adds change monitoring on the manifest root: when manifests
// appear or change, it rescans (debounced) and hands the candidates to a
// callback. It never loads anything itself.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package discovery
