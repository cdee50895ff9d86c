package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (EXTMAN_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("dir", os.Getenv("EXTMAN_EXTENSIONS_DIR"), &cfg.ExtensionsDir)
	s.setString("manifest", os.Getenv("EXTMAN_MANIFEST_NAME"), &cfg.ManifestName)
	s.setString("host-version", os.Getenv("EXTMAN_HOST_VERSION"), &cfg.HostVersion)

	if err := s.setDuration("debounce", os.Getenv("EXTMAN_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	s.setBoolFromString("verbose", os.Getenv("EXTMAN_VERBOSE"), &cfg.Verbose)

	return nil
}
