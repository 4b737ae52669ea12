package g3d

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

// Backend is implemented by each native API adapter. The Device calls it
// only while reconciling state or issuing draws, never from setters.
type Backend interface {
	StateApplier

	// Name identifies the backend in logs and errors.
	Name() string

	NewVertexBuffer(format *VertexFormat, count int, lifetime Lifetime) (VertexBuffer, error)
	NewIndexBuffer(format gputypes.IndexFormat, count int, lifetime Lifetime) (IndexBuffer, error)
	NewTexture(desc TextureDescriptor) (Texture, error)
	NewTargetBinding() (TargetBinding, error)
	NewWindowBinding(s Surface) (WindowBinding, error)

	// UpdateTransforms loads the combined model-view and projection.
	UpdateTransforms(model, camera, projection mgl32.Mat4) error
	UpdateViewport(r image.Rectangle) error

	// DrawPrimitive draws vertexCount vertices starting at vertexStart from
	// the selected vertex buffer.
	DrawPrimitive(t Topology, vertexStart, vertexCount int) error
	// DrawIndexed draws indexCount indices starting at indexStart from the
	// selected index buffer, offset by baseVertex.
	DrawIndexed(t Topology, baseVertex, indexStart, indexCount int) error
	Clear(flags ClearFlags, c Color, depth float32, stencil uint32) error

	BeginFrame() error
	EndFrame() error
	Release()
}

// ClearFlags selects the buffers Clear touches.
type ClearFlags uint8

const (
	ClearColor   ClearFlags = 1
	ClearDepth   ClearFlags = 2
	ClearStencil ClearFlags = 4

	ClearAll = ClearColor | ClearDepth | ClearStencil
)
