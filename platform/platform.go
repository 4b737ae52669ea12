// Package platform defines the window the engine renders into and a
// headless implementation for tests and offscreen runs. Native windows live
// in sub-packages such as platform/glfw.
package platform

import (
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/config"
	"github.com/gogpu/gpucontext"
)

// WindowConfig is the framebuffer configuration a window was created
// with. Drivers may grant more than was requested.
type WindowConfig struct {
	APIMajor          int
	APIMinor          int
	DepthBits         int
	StencilBits       int
	AntialiasingLevel int
}

// FromConfig returns the requested framebuffer configuration of w.
func FromConfig(w config.Window) WindowConfig {
	return WindowConfig{
		APIMajor:          w.APIMajor,
		APIMinor:          w.APIMinor,
		DepthBits:         w.DepthBits,
		StencilBits:       w.StencilBits,
		AntialiasingLevel: w.Antialiasing,
	}
}

// Window is a presentable surface with an input source. Size is in
// pixels. Methods must be called from the goroutine that created the
// window.
type Window interface {
	gpucontext.WindowProvider
	g3d.Surface

	// Config returns the granted framebuffer configuration.
	Config() WindowConfig
	// Events returns the window's input callbacks.
	Events() gpucontext.EventSource
	// SetCursorMode switches between a free and a captured cursor.
	SetCursorMode(m gpucontext.CursorMode)
	PollEvents()
	ShouldClose() bool
	// Close destroys the window. It is safe to call more than once.
	Close()
}

// NewWindowTarget creates a device target presenting to w.
func NewWindowTarget(w Window, d *g3d.Device) (*g3d.WindowTarget, error) {
	return d.NewWindowTarget(w)
}
