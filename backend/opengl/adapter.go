package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/backend"
)

func init() {
	backend.Register(backend.NameOpenGL, func() backend.Adapter { return Adapter{} })
}

// Adapter creates devices on the GL context current on the calling
// goroutine. The window that owns the context must be made current before
// NewDevice.
type Adapter struct{}

// Name returns backend.NameOpenGL.
func (Adapter) Name() string { return backend.NameOpenGL }

// NewDevice loads the GL entry points of the current context and wraps a
// Backend in a device.
func (Adapter) NewDevice(_ g3d.Surface, opts ...g3d.DeviceOption) (*g3d.Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: opengl: %w", backend.ErrNotAvailable, err)
	}
	g3d.Logger().Info("opengl: device created",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return g3d.NewDevice(New(), opts...), nil
}
