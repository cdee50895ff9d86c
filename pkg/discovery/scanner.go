package discovery

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/kalebbroo/extman/pkg/extension"
	"github.com/kalebbroo/extman/pkg/log"
)

// DefaultManifestName is the file name the scanner looks for.
const DefaultManifestName = "extension.toml"

// ScannerConfig configures a manifest directory scanner.
type ScannerConfig struct {
	// Root is the directory walked for manifest files. Required.
	Root string

	// ManifestName is the manifest file name to match.
	// Default: extension.toml
	ManifestName string

	// HostVersion, when set, filters out manifests whose MinHostVersion
	// exceeds it. The lifecycle core itself never enforces MinHostVersion;
	// this is the pre-discovery check the host may opt into.
	HostVersion string

	// Factories resolves manifest IDs to constructors.
	// Default: the process-wide table.
	Factories *Factories

	// Logger receives skip diagnostics. Default: no output.
	Logger log.Logger
}

// Scanner discovers extensions from manifest files under a root directory.
// One malformed candidate never aborts discovery of the others: bad
// manifests, unknown factories and duplicate IDs are logged and skipped.
type Scanner struct {
	cfg ScannerConfig
}

// NewScanner creates a scanner. Missing config fields get defaults.
func NewScanner(cfg ScannerConfig) *Scanner {
	if cfg.ManifestName == "" {
		cfg.ManifestName = DefaultManifestName
	}
	if cfg.Factories == nil {
		cfg.Factories = DefaultFactories()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNoopLogger()
	}
	return &Scanner{cfg: cfg}
}

// Manifests walks the root and returns every parseable, valid manifest in
// walk order. Candidates that fail to parse or validate are logged and
// skipped. The error is non-nil only when the root itself is unreadable.
func (s *Scanner) Manifests(ctx context.Context) ([]extension.Manifest, error) {
	var manifests []extension.Manifest

	err := filepath.WalkDir(s.cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.cfg.Root {
				return err
			}
			s.cfg.Logger.Warn("discovery: skipping unreadable path",
				log.String("path", path),
				log.Err(err))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || d.Name() != s.cfg.ManifestName {
			return nil
		}

		m, perr := s.parseManifest(path)
		if perr != nil {
			s.cfg.Logger.Warn("discovery: skipping malformed manifest",
				log.String("path", path),
				log.Err(perr))
			return nil
		}
		if s.cfg.HostVersion != "" && !extension.VersionAtLeast(s.cfg.HostVersion, m.MinHostVersion) {
			s.cfg.Logger.Warn("discovery: skipping extension requiring newer host",
				log.String("id", m.ID),
				log.String("min_host_version", m.MinHostVersion),
				log.String("host_version", s.cfg.HostVersion))
			return nil
		}
		manifests = append(manifests, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return manifests, nil
}

// Discover implements Source: it parses manifests and instantiates each one
// through the factory table. Manifests without a registered factory, and
// duplicate IDs within one scan, are logged and skipped.
func (s *Scanner) Discover(ctx context.Context) ([]extension.Extension, error) {
	manifests, err := s.Manifests(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(manifests))
	exts := make([]extension.Extension, 0, len(manifests))
	for _, m := range manifests {
		if seen[m.ID] {
			s.cfg.Logger.Warn("discovery: skipping duplicate extension id",
				log.String("id", m.ID))
			continue
		}
		fn, ok := s.cfg.Factories.Lookup(m.ID)
		if !ok {
			s.cfg.Logger.Warn("discovery: no factory registered for manifest",
				log.String("id", m.ID))
			continue
		}
		seen[m.ID] = true
		exts = append(exts, fn())
	}
	return exts, nil
}

// parseManifest reads, decodes and validates one manifest file.
func (s *Scanner) parseManifest(path string) (extension.Manifest, error) {
	var m extension.Manifest
	b, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := toml.Unmarshal(b, &m); err != nil {
		return m, err
	}
	m.ApplyDefaults()
	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}
