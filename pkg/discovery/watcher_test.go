package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalebbroo/extman/pkg/extension"
)

func TestWatcher_RescanOnManifestWrite(t *testing.T) {
	root := t.TempDir()

	factories := NewFactories()
	require.NoError(t, factories.Register("fresh", factoryFor("fresh")))

	s := NewScanner(ScannerConfig{Root: root, Factories: factories})

	results := make(chan []extension.Extension, 4)
	w := NewWatcher(s, WatcherConfig{Debounce: 50 * time.Millisecond},
		func(ctx context.Context, exts []extension.Extension) {
			results <- exts
		})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeManifest(t, root, "fresh", `
id = "fresh"
version = "1.0.0"
`)

	select {
	case exts := <-results:
		require.Len(t, exts, 1)
		assert.Equal(t, "fresh", exts[0].Manifest().ID)
	case <-time.After(5 * time.Second):
		t.Fatal("no rescan after manifest write")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	s := NewScanner(ScannerConfig{Root: root, Factories: NewFactories()})

	rescans := make(chan struct{}, 16)
	w := NewWatcher(s, WatcherConfig{Debounce: 150 * time.Millisecond},
		func(ctx context.Context, exts []extension.Extension) {
			rescans <- struct{}{}
		})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// A burst of writes inside the quiet period collapses into one rescan.
	for i := 0; i < 5; i++ {
		writeManifest(t, root, "burst", `
id = "burst"
version = "1.0.0"
`)
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-rescans:
	case <-time.After(5 * time.Second):
		t.Fatal("no rescan after burst")
	}
	select {
	case <-rescans:
		t.Fatal("burst produced more than one rescan")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_StopEndsWatching(t *testing.T) {
	root := t.TempDir()
	s := NewScanner(ScannerConfig{Root: root, Factories: NewFactories()})

	w := NewWatcher(s, WatcherConfig{Debounce: 20 * time.Millisecond},
		func(ctx context.Context, exts []extension.Extension) {})
	require.NoError(t, w.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}
