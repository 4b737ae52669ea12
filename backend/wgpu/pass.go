package wgpu

import (
	"fmt"

	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// maxColorTargets is the number of color slots of a texture target.
const maxColorTargets = g3d.NumSlots - 1

// clearOp turns the load operations of a new render pass into clears.
type clearOp struct {
	flags   g3d.ClearFlags
	color   gputypes.Color
	depth   float32
	stencil uint32
}

// attachmentSet is a bound render target as seen by a render pass.
type attachmentSet interface {
	size() (w, h int)
	colorFormats() [maxColorTargets]gputypes.TextureFormat
	depthFormat() gputypes.TextureFormat
	passDescriptor(c *clearOp) (*hal.RenderPassDescriptor, error)
	markUsed(generation uint64)
}

func colorAttachment(view hal.TextureView, c *clearOp) hal.RenderPassColorAttachment {
	a := hal.RenderPassColorAttachment{
		View:    view,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	if c != nil && c.flags&g3d.ClearColor != 0 {
		a.LoadOp = gputypes.LoadOpClear
		a.ClearValue = c.color
	}
	return a
}

func depthAttachment(view hal.TextureView, format gputypes.TextureFormat, c *clearOp) *hal.RenderPassDepthStencilAttachment {
	a := &hal.RenderPassDepthStencilAttachment{
		View:            view,
		DepthLoadOp:     gputypes.LoadOpLoad,
		DepthStoreOp:    gputypes.StoreOpStore,
		DepthClearValue: 1,
	}
	if c != nil && c.flags&g3d.ClearDepth != 0 {
		a.DepthLoadOp = gputypes.LoadOpClear
		a.DepthClearValue = c.depth
	}
	if format.HasStencil() {
		a.StencilLoadOp = gputypes.LoadOpLoad
		a.StencilStoreOp = gputypes.StoreOpStore
		if c != nil && c.flags&g3d.ClearStencil != 0 {
			a.StencilLoadOp = gputypes.LoadOpClear
			a.StencilClearValue = c.stencil
		}
	}
	return a
}

func (b *Backend) ensureEncoder() error {
	if b.encoder != nil {
		return nil
	}
	enc, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "g3d_frame"})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding("g3d_frame"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	b.encoder = enc
	return nil
}

// renderPass returns the open render pass on the selected target, starting
// one with the load operations of c if none is open.
func (b *Backend) renderPass(c *clearOp) (hal.RenderPassEncoder, error) {
	if b.pass != nil {
		return b.pass, nil
	}
	if b.target == nil {
		return nil, ErrNoTarget
	}
	if err := b.ensureEncoder(); err != nil {
		return nil, err
	}
	desc, err := b.target.passDescriptor(c)
	if err != nil {
		return nil, err
	}
	b.target.markUsed(b.generation)
	b.pass = b.encoder.BeginRenderPass(desc)
	b.applyViewport()
	return b.pass, nil
}

func (b *Backend) endPass() {
	if b.pass != nil {
		b.pass.End()
		b.pass = nil
	}
}

// submit finishes the open encoder and hands it to the queue.
func (b *Backend) submit() error {
	if b.encoder == nil {
		return nil
	}
	b.endPass()
	enc := b.encoder
	b.encoder = nil
	b.bind = nil

	gen := b.generation
	b.generation++

	cmd, err := enc.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	idx, err := b.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		b.device.FreeCommandBuffer(cmd)
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	b.garbage.bury(gen, func() { b.device.FreeCommandBuffer(cmd) })
	b.garbage.seal(gen, idx)
	b.garbage.collect(b.queue.PollCompleted())
	return nil
}

// flushIfUsed submits pending work that reads from a resource last used in
// generation gen, so that a queue write to it lands after those reads.
func (b *Backend) flushIfUsed(gen uint64) error {
	if b.encoder != nil && gen == b.generation {
		return b.submit()
	}
	return nil
}
