package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
)

// Backend drives the fixed-function pipeline of the GL context current on
// the calling goroutine. All methods must run on that goroutine.
type Backend struct {
	vb *VertexBuffer
	ib *IndexBuffer

	depthWrite bool
}

var _ g3d.Backend = (*Backend)(nil)

// New returns a backend for the current context. gl.Init must have been
// called for that context.
func New() *Backend {
	return &Backend{depthWrite: true}
}

// Name returns "opengl".
func (b *Backend) Name() string { return Name }

func toggle(enable bool, capability uint32) {
	if enable {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (b *Backend) ApplyColorMask(m gputypes.ColorWriteMask) error {
	gl.ColorMask(colorMask(m))
	return checkError("ColorMask")
}

func (b *Backend) ApplyDepthTest(enable bool) error {
	toggle(enable, gl.DEPTH_TEST)
	return checkError("DepthTest")
}

func (b *Backend) ApplyDepthWrite(enable bool) error {
	gl.DepthMask(enable)
	if err := checkError("DepthMask"); err != nil {
		return err
	}
	b.depthWrite = enable
	return nil
}

func (b *Backend) ApplyDepthCompare(fn gputypes.CompareFunction) error {
	gl.DepthFunc(compareFunc(fn))
	return checkError("DepthFunc")
}

// ApplyDepthBias uses bias as both the slope factor and the constant units.
func (b *Backend) ApplyDepthBias(bias int32) error {
	if bias == 0 {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
		return checkError("PolygonOffset")
	}
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(float32(bias), float32(bias))
	return checkError("PolygonOffset")
}

func (b *Backend) ApplyBlend(s g3d.BlendState) error {
	toggle(s.Enable, gl.BLEND)
	if s.Enable {
		gl.BlendFuncSeparate(
			blendFactor(s.Color.SrcFactor), blendFactor(s.Color.DstFactor),
			blendFactor(s.Alpha.SrcFactor), blendFactor(s.Alpha.DstFactor))
		gl.BlendEquationSeparate(blendEquation(s.Color.Operation), blendEquation(s.Alpha.Operation))
	}
	return checkError("Blend")
}

func (b *Backend) ApplyCull(s g3d.CullState) error {
	gl.FrontFace(frontFace(s.FrontFace))
	face, ok := cullFace(s.Mode)
	toggle(ok, gl.CULL_FACE)
	if ok {
		gl.CullFace(face)
	}
	return checkError("Cull")
}

// UpdateTransforms loads camera*model into the modelview matrix and the
// projection into the projection matrix, leaving modelview selected.
func (b *Backend) UpdateTransforms(model, camera, projection mgl32.Mat4) error {
	modelView := camera.Mul4(model)
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadMatrixf(&projection[0])
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadMatrixf(&modelView[0])
	return checkError("UpdateTransforms")
}

// UpdateViewport sets the viewport. GL places the origin at the bottom
// left of the target.
func (b *Backend) UpdateViewport(r image.Rectangle) error {
	gl.Viewport(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()))
	return checkError("Viewport")
}

func (b *Backend) DrawPrimitive(t g3d.Topology, vertexStart, vertexCount int) error {
	vb := b.vb
	if vb == nil {
		return ErrNoVertexBuffer
	}
	if vertexStart < 0 || vertexStart+vertexCount > vb.count {
		return fmt.Errorf("opengl: draw of %d+%d exceeds %d vertices: %w",
			vertexStart, vertexCount, vb.count, g3d.ErrInvalidArgument)
	}
	gl.DrawArrays(primitiveMode(t), int32(vertexStart), int32(vertexCount))
	return checkError("DrawArrays")
}

// DrawIndexed offsets the client arrays by baseVertex for the duration of
// the draw; 2.1 contexts have no base vertex draw call.
func (b *Backend) DrawIndexed(t g3d.Topology, baseVertex, indexStart, indexCount int) error {
	vb, ib := b.vb, b.ib
	if vb == nil {
		return ErrNoVertexBuffer
	}
	if ib == nil {
		return ErrNoIndexBuffer
	}
	if indexStart < 0 || indexStart+indexCount > ib.count || baseVertex < 0 {
		return fmt.Errorf("opengl: indexed draw of %d+%d exceeds %d indices: %w",
			indexStart, indexCount, ib.count, g3d.ErrInvalidArgument)
	}
	if baseVertex != 0 {
		vb.pointers(baseVertex)
		defer vb.pointers(0)
	}
	offset := gl.PtrOffset(indexStart * g3d.IndexSize(ib.format))
	gl.DrawElements(primitiveMode(t), int32(indexCount), indexType(ib.format), offset)
	return checkError("DrawElements")
}

// Clear enables depth writes for the clear and restores the render state's
// depth write flag afterwards.
func (b *Backend) Clear(flags g3d.ClearFlags, c g3d.Color, depth float32, stencil uint32) error {
	gl.DepthMask(true)
	gl.ClearDepth(float64(depth))
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.ClearStencil(int32(stencil))
	gl.Clear(clearMask(flags))
	gl.DepthMask(b.depthWrite)
	return checkError("Clear")
}

func (b *Backend) BeginFrame() error { return nil }

func (b *Backend) EndFrame() error { return checkError("EndFrame") }

// Release forgets the bound buffers. GL objects die with the context.
func (b *Backend) Release() {
	b.vb, b.ib = nil, nil
}
