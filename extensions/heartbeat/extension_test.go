package heartbeat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalebbroo/extman/pkg/discovery"
	"github.com/kalebbroo/extman/pkg/extension"
	"github.com/kalebbroo/extman/pkg/host"
)

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	h, err := host.New()
	require.NoError(t, err)

	require.NoError(t, h.Load(ctx, New(DefaultConfig())))

	d, ok := h.Get(ID)
	require.True(t, ok)
	assert.True(t, d.IsLoaded())

	v, ok := h.Services().Resolve(ServiceClock)
	require.True(t, ok)
	clock, ok := v.(Clock)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), clock(), time.Minute)

	require.NoError(t, h.Unload(ctx, ID))
	assert.Equal(t, 0, h.Count())
}

func TestShutdownWithoutInitialize(t *testing.T) {
	e := New(DefaultConfig())
	assert.NoError(t, e.Shutdown(context.Background()))
}

func TestFactoryRegistered(t *testing.T) {
	fn, ok := discovery.DefaultFactories().Lookup(ID)
	require.True(t, ok, "heartbeat must self-register")
	ext := fn()
	assert.Equal(t, ID, ext.Manifest().ID)
}

func TestManifestValid(t *testing.T) {
	m := New(DefaultConfig()).Manifest()
	m.ApplyDefaults()
	require.NoError(t, m.Validate())
	assert.Equal(t, extension.DefaultMinHostVersion, m.MinHostVersion)
}
