package extension

import (
	"fmt"
)

// DefaultMinHostVersion is the baseline host version advertised by manifests
// that do not declare one.
const DefaultMinHostVersion = "1.0.0"

// Manifest describes an extension's identity, metadata and dependency
// declarations. The ID is the node key in the dependency graph and must be
// unique among all extensions known to a host at any time.
type Manifest struct {
	// ID is the globally unique, stable identity of the extension.
	// Lowercase letters, digits and hyphens only.
	ID string `toml:"id"`

	// Name is the human-readable display name. Cosmetic, not unique.
	Name string `toml:"name"`

	// Version is the extension's semantic version, used for display and
	// diagnostics only.
	Version string `toml:"version"`

	// Author identifies who maintains the extension.
	Author string `toml:"author"`

	// Description summarizes what the extension does.
	Description string `toml:"description"`

	// MinHostVersion is the minimum host version the extension expects.
	// Advisory: the lifecycle core does not enforce it, but discovery and
	// the CLI can check it before a load is attempted.
	MinHostVersion string `toml:"min_host_version"`

	// Dependencies lists IDs of extensions that must be fully loaded
	// before this one initializes. Order is preserved. Entries may name
	// extensions absent from the current discovery set; those are treated
	// as missing dependencies at load time.
	Dependencies []string `toml:"dependencies"`
}

// ApplyDefaults fills in defaulted fields: MinHostVersion and Name.
func (m *Manifest) ApplyDefaults() {
	if m.MinHostVersion == "" {
		m.MinHostVersion = DefaultMinHostVersion
	}
	if m.Name == "" {
		m.Name = m.ID
	}
}

// Validate checks that the manifest carries a usable identity.
func (m Manifest) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidManifest)
	}
	if !validID(m.ID) {
		return fmt.Errorf("%w: id %q must be lowercase letters, digits and hyphens", ErrInvalidManifest, m.ID)
	}
	for _, dep := range m.Dependencies {
		if dep == m.ID {
			return fmt.Errorf("%w: %s depends on itself", ErrInvalidManifest, m.ID)
		}
	}
	return nil
}

// validID reports whether id is non-empty, starts with a lowercase letter,
// and contains only lowercase letters, digits and hyphens.
func validID(id string) bool {
	for i, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9', r == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(id) > 0
}
