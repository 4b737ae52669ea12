package g3d

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// DeviceOption configures a Device during creation.
//
// Example:
//
//	dev := g3d.NewDevice(backend,
//	    g3d.WithViewport(image.Rect(0, 0, 800, 600)),
//	    g3d.WithProjection(mgl32.Perspective(mgl32.DegToRad(75), 4.0/3.0, 0.1, 1000)),
//	)
type DeviceOption func(*deviceOptions)

type deviceOptions struct {
	viewport   image.Rectangle
	state      RenderState
	projection mgl32.Mat4
	camera     mgl32.Mat4
}

func defaultDeviceOptions() deviceOptions {
	return deviceOptions{
		state:      DefaultRenderState(),
		projection: mgl32.Ident4(),
		camera:     mgl32.Ident4(),
	}
}

// WithViewport sets the initial viewport.
func WithViewport(r image.Rectangle) DeviceOption {
	return func(o *deviceOptions) {
		o.viewport = r
	}
}

// WithRenderState sets the initial render state instead of
// DefaultRenderState.
func WithRenderState(s RenderState) DeviceOption {
	return func(o *deviceOptions) {
		o.state = s
	}
}

// WithProjection sets the initial projection transform.
func WithProjection(m mgl32.Mat4) DeviceOption {
	return func(o *deviceOptions) {
		o.projection = m
	}
}

// WithCamera sets the initial camera (view) transform.
func WithCamera(m mgl32.Mat4) DeviceOption {
	return func(o *deviceOptions) {
		o.camera = m
	}
}
