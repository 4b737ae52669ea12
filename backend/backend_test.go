package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/recording"
	"github.com/gogpu/g3d/subsystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	name string
	err  error
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) NewDevice(_ g3d.Surface, opts ...g3d.DeviceOption) (*g3d.Device, error) {
	if a.err != nil {
		return nil, a.err
	}
	return g3d.NewDevice(recording.New(), opts...), nil
}

func TestFactoryRegistry(t *testing.T) {
	Register("fake-a", func() Adapter { return &fakeAdapter{name: "fake-a"} })
	Register("fake-b", func() Adapter { return &fakeAdapter{name: "fake-b"} })
	t.Cleanup(func() {
		Unregister("fake-a")
		Unregister("fake-b")
	})

	assert.True(t, IsRegistered("fake-a"))
	assert.Subset(t, Available(), []string{"fake-a", "fake-b"})
	assert.Equal(t, "fake-b", Get("fake-b").Name())
	assert.Nil(t, Get("missing"))
	assert.NotNil(t, Default())

	Unregister("fake-a")
	assert.False(t, IsRegistered("fake-a"))
}

func TestGraphicsRequiresExactlyOneAdapter(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		g := NewGraphics()
		assert.ErrorIs(t, g.PostInit(), ErrNoAdapter)
		_, err := g.CreateDevice(nil)
		assert.ErrorIs(t, err, ErrNoAdapter)
	})

	t.Run("two", func(t *testing.T) {
		g := NewGraphics()
		require.NoError(t, g.Register(&fakeAdapter{name: "a"}))
		require.NoError(t, g.Register(&fakeAdapter{name: "b"}))
		err := g.PostInit()
		assert.ErrorIs(t, err, ErrMultipleAdapters)
		assert.Contains(t, err.Error(), "[a b]")
	})

	t.Run("duplicate", func(t *testing.T) {
		g := NewGraphics()
		require.NoError(t, g.Register(&fakeAdapter{name: "a"}))
		assert.ErrorIs(t, g.Register(&fakeAdapter{name: "a"}), ErrDuplicateAdapter)
	})
}

func TestGraphicsLifecycle(t *testing.T) {
	m := subsystem.NewManager()
	g := NewGraphics()
	require.NoError(t, m.Load("graphics", g))
	require.NoError(t, g.Register(&fakeAdapter{name: "fake"}))
	require.NoError(t, m.Startup())

	found, err := subsystem.Get[*Graphics](m)
	require.NoError(t, err)
	assert.Same(t, g, found)

	a, err := g.Adapter()
	require.NoError(t, err)
	assert.Equal(t, "fake", a.Name())

	dev, err := g.CreateDevice(&recording.Surface{W: 1, H: 1})
	require.NoError(t, err)
	assert.Equal(t, "recording", dev.Backend().Name())

	m.Shutdown()
	assert.Empty(t, g.Adapters())
	_, err = g.Adapter()
	assert.ErrorIs(t, err, ErrNoAdapter)
}

func TestCreateDeviceWrapsAdapterError(t *testing.T) {
	boom := errors.New("no context")
	g := NewGraphics()
	require.NoError(t, g.Register(&fakeAdapter{name: "broken", err: boom}))
	require.NoError(t, g.PostInit())

	_, err := g.CreateDevice(nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}
