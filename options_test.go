package g3d

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
)

func TestDeviceOptions(t *testing.T) {
	blended := DefaultRenderState().AlphaBlended()
	proj := mgl32.Perspective(mgl32.DegToRad(75), 4.0/3.0, 0.1, 1000)
	cam := mgl32.Translate3D(0, -6, 0)

	tests := []struct {
		name  string
		opts  []DeviceOption
		check func(t *testing.T, o deviceOptions)
	}{
		{"defaults", nil, func(t *testing.T, o deviceOptions) {
			assert.Equal(t, DefaultRenderState(), o.state)
			assert.Equal(t, mgl32.Ident4(), o.projection)
			assert.Equal(t, mgl32.Ident4(), o.camera)
			assert.True(t, o.viewport.Empty())
		}},
		{"viewport", []DeviceOption{WithViewport(image.Rect(0, 0, 800, 600))}, func(t *testing.T, o deviceOptions) {
			assert.Equal(t, image.Rect(0, 0, 800, 600), o.viewport)
		}},
		{"render state", []DeviceOption{WithRenderState(blended)}, func(t *testing.T, o deviceOptions) {
			assert.Equal(t, blended, o.state)
		}},
		{"transforms", []DeviceOption{WithProjection(proj), WithCamera(cam)}, func(t *testing.T, o deviceOptions) {
			assert.Equal(t, proj, o.projection)
			assert.Equal(t, cam, o.camera)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultDeviceOptions()
			for _, opt := range tt.opts {
				opt(&o)
			}
			tt.check(t, o)
		})
	}
}

// nopBackend satisfies Backend for tests that never reach the driver.
type nopBackend struct{ Backend }

func (nopBackend) Name() string { return "nop" }

func TestNewDeviceAppliesOptions(t *testing.T) {
	s := DefaultRenderState()
	s.Depth.Compare = gputypes.CompareFunctionLess
	cam := mgl32.Translate3D(1, 2, 3)
	d := NewDevice(nopBackend{}, WithRenderState(s), WithCamera(cam), WithViewport(image.Rect(0, 0, 4, 4)))
	assert.Equal(t, cam, d.CameraTransform())
	assert.Equal(t, s, d.state)
	assert.Equal(t, image.Rect(0, 0, 4, 4), d.viewport)
	assert.Equal(t, DirtyAll, d.Dirty())
}
