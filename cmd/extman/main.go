package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/kalebbroo/extman/internal/cliconfig"
	"github.com/kalebbroo/extman/pkg/depgraph"
	"github.com/kalebbroo/extman/pkg/discovery"
	"github.com/kalebbroo/extman/pkg/extension"
	logpkg "github.com/kalebbroo/extman/pkg/log"
)

const longHelp = `Inspect and validate an extension directory before a host loads it.

extman walks a directory tree for extension.toml manifests, resolves the
declared dependencies into a load order, and reports anything a host would
refuse to load: dependency cycles, dependencies on extensions that are not
present, and extensions requiring a newer host version.`

var exampleUsage = strings.TrimSpace(`
  extman list --dir ./extensions
  extman plan --dir ./extensions
  extman validate --dir ./extensions --host-version 1.0.0
  extman watch --dir ./extensions --debounce 500ms
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "extman",
		Short:   "Inspect and validate an extension directory",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Build set of changed flags, then layer file and env config
			// under them: defaults < file < env < flags.
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			return cfg.Validate()
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default $HOME/.extman/config.toml)")
	root.PersistentFlags().StringVar(&cfg.ExtensionsDir, "dir", cfg.ExtensionsDir, "extension directory to scan")
	root.PersistentFlags().StringVar(&cfg.ManifestName, "manifest", cfg.ManifestName, "manifest file name to match")
	root.PersistentFlags().StringVar(&cfg.HostVersion, "host-version", cfg.HostVersion, "host version for min_host_version checks")
	root.PersistentFlags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "quiet period before rescanning after a change")
	root.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable debug logging")

	root.AddCommand(listCmd(&cfg))
	root.AddCommand(planCmd(&cfg))
	root.AddCommand(validateCmd(&cfg))
	root.AddCommand(watchCmd(&cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("extman failed")
		os.Exit(1)
	}
}

// newScanner builds the manifest scanner shared by the subcommands.
func newScanner(cfg *cliconfig.Config) *discovery.Scanner {
	var logger logpkg.Logger = logpkg.NewNoopLogger()
	if cfg.Verbose {
		logger = logpkg.NewZerologAdapter()
	}
	return discovery.NewScanner(discovery.ScannerConfig{
		Root:         cfg.ExtensionsDir,
		ManifestName: cfg.ManifestName,
		Logger:       logger,
	})
}

func listCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered extension manifests",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifests, err := newScanner(cfg).Manifests(cmd.Context())
			if err != nil {
				return err
			}
			if len(manifests) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no extensions found")
				return nil
			}
			w := cmd.OutOrStdout()
			for _, m := range manifests {
				fmt.Fprintf(w, "%-20s %-10s %s\n", m.ID, m.Version, m.Name)
				if m.Description != "" {
					fmt.Fprintf(w, "%-20s %s\n", "", m.Description)
				}
				if len(m.Dependencies) > 0 {
					fmt.Fprintf(w, "%-20s depends on: %s\n", "", strings.Join(m.Dependencies, ", "))
				}
			}
			fmt.Fprintf(w, "\n%d extension(s)\n", len(manifests))
			return nil
		},
	}
}

func planCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the resolved load and unload order",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifests, err := newScanner(cfg).Manifests(cmd.Context())
			if err != nil {
				return err
			}

			g := depgraph.New()
			for _, m := range manifests {
				g.Add(m.ID, m.Dependencies)
			}
			order, err := g.Sort()
			if err != nil {
				return fmt.Errorf("%w: %w", extension.ErrCyclicDependency, err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "load order:")
			for i, id := range order {
				fmt.Fprintf(w, "  %d. %s\n", i+1, id)
			}
			fmt.Fprintln(w, "unload order:")
			for i, id := range depgraph.Reverse(order) {
				fmt.Fprintf(w, "  %d. %s\n", i+1, id)
			}
			for _, m := range g.Missing() {
				fmt.Fprintf(w, "warning: %s depends on %s, which is not present\n", m.ID, m.Dependency)
			}
			return nil
		},
	}
}

func watchCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the extension directory and report manifest changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			scanner := newScanner(cfg)

			// The CLI inspects manifests rather than instantiating
			// extensions, so each change triggers a manifest rescan.
			watcher := discovery.NewWatcher(scanner, discovery.WatcherConfig{Debounce: cfg.Debounce},
				func(ctx context.Context, _ []extension.Extension) {
					manifests, err := scanner.Manifests(ctx)
					if err != nil {
						fmt.Fprintf(w, "rescan failed: %v\n", err)
						return
					}
					ids := make([]string, 0, len(manifests))
					for _, m := range manifests {
						ids = append(ids, m.ID)
					}
					fmt.Fprintf(w, "%d extension(s): %s\n", len(ids), strings.Join(ids, ", "))
				})
			if err := watcher.Start(cmd.Context()); err != nil {
				return err
			}
			defer watcher.Stop()

			fmt.Fprintf(w, "watching %s (debounce %s)\n", cfg.ExtensionsDir, cfg.Debounce)
			<-cmd.Context().Done()
			return nil
		},
	}
}

func validateCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the extension set; non-zero exit on defects",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifests, err := newScanner(cfg).Manifests(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			defects := 0

			g := depgraph.New()
			for _, m := range manifests {
				g.Add(m.ID, m.Dependencies)
			}
			if _, err := g.Sort(); err != nil {
				fmt.Fprintf(w, "defect: %v\n", err)
				defects++
			} else {
				for _, m := range g.Missing() {
					fmt.Fprintf(w, "defect: %s depends on %s, which is not present\n", m.ID, m.Dependency)
					defects++
				}
			}

			for _, m := range manifests {
				if !extension.VersionAtLeast(cfg.HostVersion, m.MinHostVersion) {
					fmt.Fprintf(w, "defect: %s requires host %s, have %s\n", m.ID, m.MinHostVersion, cfg.HostVersion)
					defects++
				}
			}

			if defects > 0 {
				return fmt.Errorf("%d defect(s) found", defects)
			}
			fmt.Fprintf(w, "%d extension(s) valid\n", len(manifests))
			return nil
		},
	}
}
