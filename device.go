package g3d

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

// MaxModelStack is the depth of the model transform stack.
const MaxModelStack = 16

// DirtyFlags marks state categories with changes not yet sent to the
// backend.
type DirtyFlags uint16

const (
	DirtyModel DirtyFlags = 1 << iota
	DirtyProjection
	DirtyCamera
	DirtyRenderState
	DirtyVertexBuffer
	DirtyIndexBuffer
	DirtyRenderTarget
	DirtyViewport
	// DirtyAny is set together with any other flag and cleared once a
	// reconciliation completes.
	DirtyAny

	DirtyTransforms = DirtyModel | DirtyProjection | DirtyCamera
	DirtyAll        = DirtyTransforms | DirtyRenderState | DirtyVertexBuffer |
		DirtyIndexBuffer | DirtyRenderTarget | DirtyViewport | DirtyAny
)

// Stats are per-frame counters, reset by BeginFrame.
type Stats struct {
	PolyCount     int
	DrawCalls     int
	TargetChanges int
}

// Device is the rendering context. Setters record state and mark it dirty;
// UpdateState sends exactly the dirty categories to the backend in a fixed
// order. A Device is not safe for concurrent use; confine it to the
// goroutine that owns the native context.
type Device struct {
	backend Backend

	model      [MaxModelStack]mgl32.Mat4
	modelTop   int
	projection mgl32.Mat4
	camera     mgl32.Mat4

	state      RenderState
	committed  RenderState
	hasCommit  bool
	stateStack []RenderState

	vb, prevVB VertexBuffer
	ib, prevIB IndexBuffer

	target, prevTarget RenderTarget
	targetStack        []RenderTarget

	viewport image.Rectangle

	dirty   DirtyFlags
	stats   Stats
	formats map[StandardFormat]*VertexFormat
}

// NewDevice creates a device on top of b. Every category starts dirty so
// the first UpdateState pushes the full state.
func NewDevice(b Backend, opts ...DeviceOption) *Device {
	o := defaultDeviceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := &Device{
		backend:    b,
		projection: o.projection,
		camera:     o.camera,
		state:      o.state,
		viewport:   o.viewport,
		dirty:      DirtyAll,
		formats:    make(map[StandardFormat]*VertexFormat),
	}
	d.model[0] = mgl32.Ident4()
	Logger().Info("g3d: device created", "backend", b.Name())
	return d
}

// Backend returns the backend the device drives.
func (d *Device) Backend() Backend { return d.backend }

// Dirty returns the pending dirty flags.
func (d *Device) Dirty() DirtyFlags { return d.dirty }

func (d *Device) markDirty(f DirtyFlags) { d.dirty |= f | DirtyAny }

// ModelTransform returns the top of the model stack.
func (d *Device) ModelTransform() mgl32.Mat4 { return d.model[d.modelTop] }

// SetModelTransform replaces the top of the model stack.
func (d *Device) SetModelTransform(m mgl32.Mat4) {
	d.model[d.modelTop] = m
	d.markDirty(DirtyModel)
}

// MulModelTransform post-multiplies the top of the model stack by m.
func (d *Device) MulModelTransform(m mgl32.Mat4) {
	d.SetModelTransform(d.model[d.modelTop].Mul4(m))
}

// PushModelTransform duplicates the top of the model stack. It panics when
// the stack is full.
func (d *Device) PushModelTransform() {
	if d.modelTop+1 >= MaxModelStack {
		panic("g3d: model transform stack overflow")
	}
	d.model[d.modelTop+1] = d.model[d.modelTop]
	d.modelTop++
}

// PopModelTransform discards the top of the model stack. It panics at the
// base of the stack.
func (d *Device) PopModelTransform() {
	if d.modelTop == 0 {
		panic("g3d: model transform stack underflow")
	}
	d.modelTop--
	d.markDirty(DirtyModel)
}

// ModelDepth returns the number of pushed model transforms.
func (d *Device) ModelDepth() int { return d.modelTop }

func (d *Device) ProjectionTransform() mgl32.Mat4 { return d.projection }

func (d *Device) SetProjectionTransform(m mgl32.Mat4) {
	d.projection = m
	d.markDirty(DirtyProjection)
}

func (d *Device) CameraTransform() mgl32.Mat4 { return d.camera }

func (d *Device) SetCameraTransform(m mgl32.Mat4) {
	d.camera = m
	d.markDirty(DirtyCamera)
}

// RenderState returns the pending render state.
func (d *Device) RenderState() RenderState { return d.state }

// SetRenderState records s. It is a no-op when s equals the pending state.
func (d *Device) SetRenderState(s RenderState) {
	if s == d.state {
		return
	}
	d.state = s
	d.markDirty(DirtyRenderState)
}

// PushRenderState saves the pending render state.
func (d *Device) PushRenderState() {
	d.stateStack = append(d.stateStack, d.state)
}

// PopRenderState restores the last pushed render state. It panics when
// nothing was pushed.
func (d *Device) PopRenderState() {
	n := len(d.stateStack)
	if n == 0 {
		panic("g3d: render state stack underflow")
	}
	d.SetRenderState(d.stateStack[n-1])
	d.stateStack = d.stateStack[:n-1]
}

// VertexBuffer returns the pending vertex buffer.
func (d *Device) VertexBuffer() VertexBuffer { return d.vb }

// SetVertexBuffer selects buf for subsequent draws. While a change is
// already pending the pending buffer is replaced without being deselected,
// since it was never bound.
func (d *Device) SetVertexBuffer(buf VertexBuffer) {
	if buf == d.vb {
		return
	}
	if d.dirty&DirtyVertexBuffer == 0 {
		if d.prevVB != nil {
			d.warnDeselect("vertex buffer", d.prevVB.Deselect())
		}
		d.prevVB = d.vb
	}
	d.vb = buf
	d.markDirty(DirtyVertexBuffer)
}

// DeselectVertexBuffer unbinds buf if it is the current buffer. A committed
// buffer is deselected immediately so the device cache stays consistent.
func (d *Device) DeselectVertexBuffer(buf VertexBuffer) error {
	if buf == nil || d.vb != buf {
		return nil
	}
	if d.dirty&DirtyVertexBuffer != 0 {
		d.vb = nil
		return nil
	}
	d.vb = nil
	return buf.Deselect()
}

// IndexBuffer returns the pending index buffer.
func (d *Device) IndexBuffer() IndexBuffer { return d.ib }

// SetIndexBuffer selects buf for indexed draws, with the same discipline as
// SetVertexBuffer.
func (d *Device) SetIndexBuffer(buf IndexBuffer) {
	if buf == d.ib {
		return
	}
	if d.dirty&DirtyIndexBuffer == 0 {
		if d.prevIB != nil {
			d.warnDeselect("index buffer", d.prevIB.Deselect())
		}
		d.prevIB = d.ib
	}
	d.ib = buf
	d.markDirty(DirtyIndexBuffer)
}

// DeselectIndexBuffer unbinds buf if it is the current index buffer, like
// DeselectVertexBuffer.
func (d *Device) DeselectIndexBuffer(buf IndexBuffer) error {
	if buf == nil || d.ib != buf {
		return nil
	}
	d.ib = nil
	if d.dirty&DirtyIndexBuffer != 0 {
		return nil
	}
	return buf.Deselect()
}

// RenderTarget returns the pending render target.
func (d *Device) RenderTarget() RenderTarget { return d.target }

// SetRenderTarget selects t for subsequent draws. It panics if t was
// created by another device.
func (d *Device) SetRenderTarget(t RenderTarget) {
	if t == d.target {
		return
	}
	if o, ok := t.(interface{ Owner() *Device }); ok {
		if owner := o.Owner(); owner != nil && owner != d {
			panic("g3d: render target belongs to another device")
		}
	}
	if d.dirty&DirtyRenderTarget == 0 {
		if d.prevTarget != nil {
			d.warnDeselect("render target", d.prevTarget.Deselect())
		}
		d.prevTarget = d.target
	}
	d.target = t
	d.markDirty(DirtyRenderTarget)
}

// PushRenderTarget saves the pending render target.
func (d *Device) PushRenderTarget() {
	d.targetStack = append(d.targetStack, d.target)
}

// PopRenderTarget restores the last pushed render target. It panics when
// nothing was pushed.
func (d *Device) PopRenderTarget() {
	n := len(d.targetStack)
	if n == 0 {
		panic("g3d: render target stack underflow")
	}
	d.SetRenderTarget(d.targetStack[n-1])
	d.targetStack = d.targetStack[:n-1]
}

func (d *Device) Viewport() image.Rectangle { return d.viewport }

// SetViewport always marks the viewport dirty.
func (d *Device) SetViewport(r image.Rectangle) {
	d.viewport = r
	d.markDirty(DirtyViewport)
}

func (d *Device) warnDeselect(what string, err error) {
	if err != nil {
		Logger().Warn("g3d: deselect of stale "+what+" failed", "err", err)
	}
}

// UpdateState sends pending state to the backend in the order transforms,
// render state, vertex buffer, index buffer, render target, viewport. Each
// flag is cleared as soon as its category is done. With force every
// category is sent regardless of its flag. On error the remaining
// categories stay dirty.
func (d *Device) UpdateState(force bool) error {
	if !force && d.dirty&DirtyAny == 0 {
		return nil
	}

	if force || d.dirty&DirtyTransforms != 0 {
		if err := d.backend.UpdateTransforms(d.model[d.modelTop], d.camera, d.projection); err != nil {
			return fmt.Errorf("g3d: update transforms: %w", err)
		}
		d.dirty &^= DirtyTransforms
	}

	if force || d.dirty&DirtyRenderState != 0 {
		var prev *RenderState
		if d.hasCommit && !force {
			prev = &d.committed
		}
		if _, err := ApplyRenderState(d.backend, prev, d.state); err != nil {
			// the backend holds a partial state; diff against nothing next time
			d.hasCommit = false
			return fmt.Errorf("g3d: apply render state: %w", err)
		}
		d.committed, d.hasCommit = d.state, true
		d.dirty &^= DirtyRenderState
	}

	if force || d.dirty&DirtyVertexBuffer != 0 {
		if err := reconcileBuffer(&d.prevVB, d.vb); err != nil {
			return fmt.Errorf("g3d: select vertex buffer: %w", err)
		}
		d.dirty &^= DirtyVertexBuffer
	}

	if force || d.dirty&DirtyIndexBuffer != 0 {
		if err := reconcileBuffer(&d.prevIB, d.ib); err != nil {
			return fmt.Errorf("g3d: select index buffer: %w", err)
		}
		d.dirty &^= DirtyIndexBuffer
	}

	if force || d.dirty&DirtyRenderTarget != 0 {
		if d.prevTarget != nil {
			if err := d.prevTarget.Deselect(); err != nil {
				return fmt.Errorf("g3d: deselect render target: %w", err)
			}
			d.prevTarget = nil
		}
		if d.target != nil {
			if err := d.target.Select(); err != nil {
				return fmt.Errorf("g3d: select render target: %w", err)
			}
			d.stats.TargetChanges++
		}
		d.dirty &^= DirtyRenderTarget
	}

	if force || d.dirty&DirtyViewport != 0 {
		if err := d.backend.UpdateViewport(d.viewport); err != nil {
			return fmt.Errorf("g3d: update viewport: %w", err)
		}
		d.dirty &^= DirtyViewport
	}

	d.dirty = 0
	return nil
}

type selectable interface {
	comparable
	Select() error
	Deselect() error
}

// reconcileBuffer deselects and forgets *prev, then selects cur.
func reconcileBuffer[T selectable](prev *T, cur T) error {
	var zero T
	if *prev != zero {
		if err := (*prev).Deselect(); err != nil {
			return err
		}
		*prev = zero
	}
	if cur != zero {
		return cur.Select()
	}
	return nil
}

// BeginFrame resets the statistics, reconciles pending state and starts a
// backend frame.
func (d *Device) BeginFrame() error {
	d.stats = Stats{}
	if err := d.UpdateState(false); err != nil {
		return err
	}
	return d.backend.BeginFrame()
}

// EndFrame ends the backend frame.
func (d *Device) EndFrame() error {
	return d.backend.EndFrame()
}

// Stats returns the counters of the current frame.
func (d *Device) Stats() Stats { return d.stats }

// DrawPrimitive reconciles pending state and draws primitiveCount
// primitives from the selected vertex buffer.
func (d *Device) DrawPrimitive(t Topology, vertexStart, primitiveCount int) error {
	if err := d.UpdateState(false); err != nil {
		return err
	}
	if err := d.backend.DrawPrimitive(t, vertexStart, t.VertexCount(primitiveCount)); err != nil {
		return err
	}
	d.stats.DrawCalls++
	d.stats.PolyCount += primitiveCount
	return nil
}

// DrawIndexedPrimitive reconciles pending state and draws primitiveCount
// primitives through the selected index buffer.
func (d *Device) DrawIndexedPrimitive(t Topology, baseVertex, indexStart, primitiveCount int) error {
	if err := d.UpdateState(false); err != nil {
		return err
	}
	if err := d.backend.DrawIndexed(t, baseVertex, indexStart, t.VertexCount(primitiveCount)); err != nil {
		return err
	}
	d.stats.DrawCalls++
	d.stats.PolyCount += primitiveCount
	return nil
}

// Clear reconciles pending state and clears the selected target.
func (d *Device) Clear(flags ClearFlags, c Color, depth float32, stencil uint32) error {
	if err := d.UpdateState(false); err != nil {
		return err
	}
	return d.backend.Clear(flags, c, depth, stencil)
}

// NewVertexBuffer allocates a vertex buffer and freezes its format.
func (d *Device) NewVertexBuffer(f *VertexFormat, count int, lifetime Lifetime) (VertexBuffer, error) {
	if count <= 0 {
		return nil, fmt.Errorf("g3d: vertex buffer of %d vertices", count)
	}
	f.Freeze()
	return d.backend.NewVertexBuffer(f, count, lifetime)
}

// NewIndexBuffer allocates an index buffer.
func (d *Device) NewIndexBuffer(f gputypes.IndexFormat, count int, lifetime Lifetime) (IndexBuffer, error) {
	if count <= 0 {
		return nil, fmt.Errorf("g3d: index buffer of %d indices", count)
	}
	return d.backend.NewIndexBuffer(f, count, lifetime)
}

// NewTexture allocates a texture.
func (d *Device) NewTexture(desc TextureDescriptor) (Texture, error) {
	desc = desc.Normalized()
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("g3d: texture size %dx%d", desc.Width, desc.Height)
	}
	return d.backend.NewTexture(desc)
}

// NewTextureTarget creates an empty texture target.
func (d *Device) NewTextureTarget() (*TextureTarget, error) {
	b, err := d.backend.NewTargetBinding()
	if err != nil {
		return nil, err
	}
	return newTextureTarget(d, b), nil
}

// NewWindowTarget creates a target presenting to s.
func (d *Device) NewWindowTarget(s Surface) (*WindowTarget, error) {
	b, err := d.backend.NewWindowBinding(s)
	if err != nil {
		return nil, err
	}
	return newWindowTarget(d, b), nil
}

// StandardFormat returns the device's shared instance of a standard format.
func (d *Device) StandardFormat(s StandardFormat) *VertexFormat {
	f, ok := d.formats[s]
	if !ok {
		f = NewStandardFormat(s)
		d.formats[s] = f
	}
	return f
}

// Release forgets the current buffers and target without deselecting them
// and frees the backend. Resources created through the device are owned by
// their callers and must be released before the device, so the bindings it
// drops may already be gone.
func (d *Device) Release() {
	d.vb, d.ib, d.target = nil, nil, nil
	d.prevVB, d.prevIB, d.prevTarget = nil, nil, nil
	d.backend.Release()
	Logger().Info("g3d: device released", "backend", d.backend.Name())
}
