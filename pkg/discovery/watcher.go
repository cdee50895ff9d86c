package discovery

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kalebbroo/extman/pkg/extension"
	"github.com/kalebbroo/extman/pkg/log"
)

// CandidateFunc receives the result of a rescan triggered by a manifest
// directory change. The watcher only reports candidates; whether any of
// them is loaded is the caller's decision, so running extensions are never
// touched behind the host's back.
type CandidateFunc func(ctx context.Context, exts []extension.Extension)

// WatcherConfig configures a manifest directory watcher.
type WatcherConfig struct {
	// Debounce is the quiet period after a file event before rescanning.
	// Default: 250ms.
	Debounce time.Duration

	// Logger receives watcher diagnostics. Default: no output.
	Logger log.Logger
}

// Watcher monitors a scanner's root directory for manifest changes and
// invokes a callback with freshly scanned candidates. Events are debounced
// so a burst of writes produces one rescan.
type Watcher struct {
	scanner  *Scanner
	cfg      WatcherConfig
	onChange CandidateFunc

	mu       sync.Mutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// NewWatcher creates a watcher over the scanner's root.
func NewWatcher(scanner *Scanner, cfg WatcherConfig, onChange CandidateFunc) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNoopLogger()
	}
	return &Watcher{scanner: scanner, cfg: cfg, onChange: onChange}
}

// Start begins watching in the background. It returns once the filesystem
// watch is established.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	root := w.scanner.cfg.Root
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return err
	}
	// fsnotify is not recursive; watch the existing first-level extension
	// directories and pick up new ones from create events.
	if entries, err := os.ReadDir(root); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				if err := fsw.Add(filepath.Join(root, e.Name())); err != nil {
					w.cfg.Logger.Warn("discovery: failed to watch directory",
						log.String("path", filepath.Join(root, e.Name())),
						log.Err(err))
				}
			}
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go w.watchLoop(watchCtx, fsw)
	return nil
}

// Stop ends watching and waits for the watch loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) watchLoop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fsw.Add(event.Name); err != nil {
						w.cfg.Logger.Warn("discovery: failed to watch new directory",
							log.String("path", event.Name),
							log.Err(err))
					}
				}
			}
			if !w.relevant(event) {
				continue
			}
			w.scheduleRescan(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.cfg.Logger.Error("discovery: watcher error", log.Err(err))
		}
	}
}

// relevant reports whether an event concerns a manifest file or a directory
// that could contain one.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if filepath.Base(event.Name) == w.scanner.cfg.ManifestName {
		return true
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

func (w *Watcher) scheduleRescan(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.cfg.Debounce, func() {
		exts, err := w.scanner.Discover(ctx)
		if err != nil {
			w.cfg.Logger.Error("discovery: rescan failed", log.Err(err))
			return
		}
		w.onChange(ctx, exts)
	})
}
