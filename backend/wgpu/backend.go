package wgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/shader"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Errors reported for draws the backend cannot issue.
var (
	ErrNoTarget       = errors.New("wgpu: no render target selected")
	ErrNoVertexBuffer = errors.New("wgpu: draw without a selected vertex buffer")
	ErrNoIndexBuffer  = errors.New("wgpu: indexed draw without a selected index buffer")
)

const name = "wgpu"

// Backend is a g3d.Backend recording into hal command encoders.
type Backend struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	compiler  *shader.Compiler
	pipelines *pipelineCache

	state    g3d.RenderState
	uniforms [shader.UniformSize]byte
	bind     hal.BindGroup // uniforms of the current transforms, nil when stale
	viewport image.Rectangle

	vb     *VertexBuffer
	ib     *IndexBuffer
	target attachmentSet

	encoder    hal.CommandEncoder
	pass       hal.RenderPassEncoder
	generation uint64 // bumped per submitted encoder

	garbage *graveyard
}

var _ g3d.Backend = (*Backend)(nil)

func newBackend(instance hal.Instance, device hal.Device, queue hal.Queue, cacheSize int) (*Backend, error) {
	b := &Backend{
		instance: instance,
		device:   device,
		queue:    queue,
		compiler: shader.NewCompiler(cacheSize),
		state:    g3d.DefaultRenderState(),
		garbage:  newGraveyard(),
		// generation 0 means never used
		generation: 1,
	}
	p, err := newPipelineCache(device, b.compiler, cacheSize, b.garbage, func() uint64 { return b.generation })
	if err != nil {
		return nil, err
	}
	b.pipelines = p
	return b, nil
}

// NewBackend wraps an already opened hal device. instance may be nil, in
// which case window targets render offscreen.
func NewBackend(instance hal.Instance, device hal.Device, queue hal.Queue) (*Backend, error) {
	return newBackend(instance, device, queue, DefaultPipelineCache)
}

// Name returns "wgpu".
func (b *Backend) Name() string { return name }

// Pipelines returns the number of cached render pipelines.
func (b *Backend) Pipelines() int { return b.pipelines.Len() }

// Render state is baked into pipelines, so applying it only records the
// field for the next pipeline lookup and cannot fail.

func (b *Backend) ApplyColorMask(m gputypes.ColorWriteMask) error {
	b.state.ColorMask = m
	return nil
}

func (b *Backend) ApplyDepthTest(enable bool) error {
	b.state.Depth.Enable = enable
	return nil
}

func (b *Backend) ApplyDepthWrite(enable bool) error {
	b.state.Depth.Write = enable
	return nil
}

func (b *Backend) ApplyDepthCompare(fn gputypes.CompareFunction) error {
	b.state.Depth.Compare = fn
	return nil
}

func (b *Backend) ApplyDepthBias(bias int32) error {
	b.state.Depth.Bias = bias
	return nil
}

func (b *Backend) ApplyBlend(s g3d.BlendState) error {
	b.state.Blend = s
	return nil
}

func (b *Backend) ApplyCull(s g3d.CullState) error {
	b.state.Cull = s
	return nil
}

// UpdateTransforms packs projection*camera*model and model into the
// uniform block of the following draws.
func (b *Backend) UpdateTransforms(model, camera, projection mgl32.Mat4) error {
	mvp := projection.Mul4(camera).Mul4(model)
	putMat4(b.uniforms[:64], mvp)
	putMat4(b.uniforms[64:], model)
	b.bind = nil
	return nil
}

func putMat4(dst []byte, m mgl32.Mat4) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

// UpdateViewport sets the viewport, clamped to the selected target.
func (b *Backend) UpdateViewport(r image.Rectangle) error {
	b.viewport = r
	if b.pass != nil {
		b.applyViewport()
	}
	return nil
}

func (b *Backend) applyViewport() {
	w, h := b.target.size()
	r := b.viewport.Intersect(image.Rect(0, 0, w, h))
	if r.Empty() {
		r = image.Rect(0, 0, w, h)
	}
	b.pass.SetViewport(float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 0, 1)
}

// DrawPrimitive draws vertexCount vertices from the selected vertex buffer.
func (b *Backend) DrawPrimitive(t g3d.Topology, vertexStart, vertexCount int) error {
	if b.vb == nil {
		return ErrNoVertexBuffer
	}
	if vertexStart < 0 || vertexStart+vertexCount > b.vb.count {
		return fmt.Errorf("wgpu: draw %d+%d of %d vertices: %w", vertexStart, vertexCount, b.vb.count, g3d.ErrInvalidArgument)
	}
	rp, err := b.prepareDraw(t, nil)
	if err != nil {
		return err
	}
	rp.Draw(uint32(vertexCount), 1, uint32(vertexStart), 0)
	return nil
}

// DrawIndexed draws indexCount indices from the selected index buffer.
func (b *Backend) DrawIndexed(t g3d.Topology, baseVertex, indexStart, indexCount int) error {
	if b.vb == nil {
		return ErrNoVertexBuffer
	}
	if b.ib == nil {
		return ErrNoIndexBuffer
	}
	if indexStart < 0 || indexStart+indexCount > b.ib.count {
		return fmt.Errorf("wgpu: draw %d+%d of %d indices: %w", indexStart, indexCount, b.ib.count, g3d.ErrInvalidArgument)
	}
	rp, err := b.prepareDraw(t, b.ib)
	if err != nil {
		return err
	}
	rp.SetIndexBuffer(b.ib.buf, b.ib.format, 0)
	rp.DrawIndexed(uint32(indexCount), 1, uint32(indexStart), int32(baseVertex), 0)
	return nil
}

// prepareDraw binds the pipeline, uniforms and vertex buffer for a draw
// of topology t, opening a render pass if needed.
func (b *Backend) prepareDraw(t g3d.Topology, ib *IndexBuffer) (hal.RenderPassEncoder, error) {
	topo, ok := t.GPU()
	if !ok {
		return nil, fmt.Errorf("wgpu: topology %s: %w", t, g3d.ErrUnsupported)
	}
	if b.target == nil {
		return nil, ErrNoTarget
	}
	key := pipelineKey{
		format:   b.vb.format.String(),
		state:    b.state,
		topology: topo,
		color:    b.target.colorFormats(),
		depth:    b.target.depthFormat(),
	}
	if ib != nil && (topo == gputypes.PrimitiveTopologyLineStrip || topo == gputypes.PrimitiveTopologyTriangleStrip) {
		key.stripIndex = ib.format
	}
	pipeline, err := b.pipelines.get(key, b.vb.format)
	if err != nil {
		return nil, err
	}
	rp, err := b.renderPass(nil)
	if err != nil {
		return nil, err
	}
	bind, err := b.uniformBindGroup()
	if err != nil {
		return nil, err
	}
	b.vb.usedIn = b.generation
	if ib != nil {
		ib.usedIn = b.generation
	}
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, bind, nil)
	rp.SetVertexBuffer(0, b.vb.buf, 0)
	return rp, nil
}

// uniformBindGroup uploads the current transforms once per change.
func (b *Backend) uniformBindGroup() (hal.BindGroup, error) {
	if b.bind != nil {
		return b.bind, nil
	}
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "g3d_transforms",
		Size:  shader.UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create uniform buffer: %w", err)
	}
	if err := b.queue.WriteBuffer(buf, 0, b.uniforms[:]); err != nil {
		b.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("wgpu: write uniforms: %w", err)
	}
	bind, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "g3d_transforms",
		Layout: b.pipelines.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: shader.UniformSize,
			}},
		},
	})
	if err != nil {
		b.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("wgpu: create uniform bind group: %w", err)
	}
	b.garbage.bury(b.generation, func() {
		b.device.DestroyBindGroup(bind)
		b.device.DestroyBuffer(buf)
	})
	b.bind = bind
	return bind, nil
}

// Clear clears the selected target. A partial clear keeps the contents of
// the buffers it does not name.
func (b *Backend) Clear(flags g3d.ClearFlags, c g3d.Color, depth float32, stencil uint32) error {
	if b.target == nil {
		return ErrNoTarget
	}
	b.endPass()
	_, err := b.renderPass(&clearOp{flags: flags, color: c.GPU(), depth: depth, stencil: stencil})
	return err
}

// BeginFrame reclaims resources of completed submissions.
func (b *Backend) BeginFrame() error {
	b.garbage.collect(b.queue.PollCompleted())
	return nil
}

// EndFrame submits the recorded commands.
func (b *Backend) EndFrame() error {
	return b.submit()
}

// Release waits for the GPU and destroys every resource the backend owns.
// Buffers, textures and targets must be released by their owners first.
func (b *Backend) Release() {
	if b.encoder != nil {
		b.endPass()
		b.encoder.DiscardEncoding()
		b.encoder = nil
	}
	if err := b.device.WaitIdle(); err != nil {
		g3d.Logger().Warn("wgpu: wait idle failed", "err", err)
	}
	b.pipelines.purge()
	b.garbage.collectAll()
	b.pipelines.destroy()
	b.vb, b.ib, b.target, b.bind = nil, nil, nil, nil
	b.device.Destroy()
	if b.instance != nil {
		b.instance.Destroy()
	}
}
