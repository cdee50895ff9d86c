package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/kalebbroo/extman/pkg/discovery"
	hostpkg "github.com/kalebbroo/extman/pkg/host"
)

// Config holds CLI configuration for extman.
type Config struct {
	// ExtensionsDir is the root directory scanned for manifests.
	ExtensionsDir string

	// ManifestName is the manifest file name to match.
	ManifestName string

	// HostVersion is the host version used for MinHostVersion checks.
	HostVersion string

	// Debounce is the watch debounce interval for `extman watch`.
	Debounce time.Duration

	// Verbose enables debug-level logging.
	Verbose bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ExtensionsDir: "extensions",
		ManifestName:  discovery.DefaultManifestName,
		HostVersion:   hostpkg.Version,
		Debounce:      250 * time.Millisecond,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ExtensionsDir == "" {
		return fmt.Errorf("extensions-dir is required")
	}
	if c.ManifestName == "" {
		c.ManifestName = discovery.DefaultManifestName
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	return nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.extman/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".extman", "config.toml")
	}
	return ""
}

// FileExists reports whether path names an existing file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Logger returns the CLI's console logger.
func Logger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}
