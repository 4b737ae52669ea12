package platform

import (
	"testing"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/config"
	"github.com/gogpu/g3d/recording"
	"github.com/gogpu/gpucontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.Default().Window)
	assert.Equal(t, WindowConfig{APIMajor: 3, DepthBits: 32, StencilBits: 8}, cfg)
}

func TestHeadlessClosesAfterMaxFrames(t *testing.T) {
	h := NewHeadless(320, 240, WindowConfig{DepthBits: 24})
	h.MaxFrames = 2

	w, hh := h.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, hh)
	assert.Equal(t, 1.0, h.ScaleFactor())
	assert.Equal(t, 24, h.Config().DepthBits)

	require.NoError(t, h.SwapBuffers())
	assert.False(t, h.ShouldClose())
	require.NoError(t, h.SwapBuffers())
	assert.True(t, h.ShouldClose())
	assert.Equal(t, 2, h.Frames())
}

func TestHeadlessWindowTarget(t *testing.T) {
	h := NewHeadless(8, 8, WindowConfig{})
	dev := g3d.NewDevice(recording.New())
	target, err := NewWindowTarget(h, dev)
	require.NoError(t, err)

	require.NoError(t, target.SwapBuffers())
	assert.Equal(t, 1, h.Frames())

	h.SetCursorMode(gpucontext.CursorModeLocked)
	assert.Equal(t, gpucontext.CursorModeLocked, h.CursorMode())
	h.Close()
	h.Close()
	assert.True(t, h.ShouldClose())
}
