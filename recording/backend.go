package recording

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
)

// Errors reported by the recording backend for misuse the device should
// have prevented.
var (
	ErrNoVertexBuffer = errors.New("recording: draw without a selected vertex buffer")
	ErrNoIndexBuffer  = errors.New("recording: indexed draw without a selected index buffer")
	ErrOutOfRange     = errors.New("recording: draw range exceeds buffer")
)

// Backend records calls as Commands. The zero value is not usable; call New.
type Backend struct {
	commands []Command
	failures map[CommandType]error
	nextID   int

	vertexBuffer *VertexBuffer
	indexBuffer  *IndexBuffer
	inFrame      bool
	released     bool
}

var _ g3d.Backend = (*Backend)(nil)

// New returns an empty recording backend.
func New() *Backend {
	return &Backend{
		commands: make([]Command, 0, 64),
		failures: make(map[CommandType]error),
	}
}

// Name returns "recording".
func (b *Backend) Name() string { return "recording" }

// Commands returns the recorded commands in call order.
func (b *Backend) Commands() []Command { return b.commands }

// Types returns the types of the recorded commands in call order.
func (b *Backend) Types() []CommandType {
	types := make([]CommandType, len(b.commands))
	for i, c := range b.commands {
		types[i] = c.Type()
	}
	return types
}

// Count returns how many commands of type t were recorded.
func (b *Backend) Count(t CommandType) int {
	n := 0
	for _, c := range b.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Last returns the most recent command of type t.
func (b *Backend) Last(t CommandType) (Command, bool) {
	for i := len(b.commands) - 1; i >= 0; i-- {
		if b.commands[i].Type() == t {
			return b.commands[i], true
		}
	}
	return nil, false
}

// Reset forgets the recorded commands. Bound buffers stay bound.
func (b *Backend) Reset() {
	b.commands = b.commands[:0]
}

// FailOn makes every later command of type t return err. A nil err clears
// the failure.
func (b *Backend) FailOn(t CommandType, err error) {
	if err == nil {
		delete(b.failures, t)
		return
	}
	b.failures[t] = err
}

// InFrame reports whether BeginFrame was called without a matching EndFrame.
func (b *Backend) InFrame() bool { return b.inFrame }

// Released reports whether Release was called.
func (b *Backend) Released() bool { return b.released }

func (b *Backend) record(c Command) error {
	if err := b.failures[c.Type()]; err != nil {
		return err
	}
	b.commands = append(b.commands, c)
	return nil
}

func (b *Backend) id() int {
	b.nextID++
	return b.nextID
}

func (b *Backend) ApplyColorMask(m gputypes.ColorWriteMask) error {
	return b.record(ColorMaskCommand{Mask: m})
}

func (b *Backend) ApplyDepthTest(enable bool) error {
	return b.record(DepthTestCommand{Enable: enable})
}

func (b *Backend) ApplyDepthWrite(enable bool) error {
	return b.record(DepthWriteCommand{Enable: enable})
}

func (b *Backend) ApplyDepthCompare(fn gputypes.CompareFunction) error {
	return b.record(DepthCompareCommand{Func: fn})
}

func (b *Backend) ApplyDepthBias(bias int32) error {
	return b.record(DepthBiasCommand{Bias: bias})
}

func (b *Backend) ApplyBlend(s g3d.BlendState) error {
	return b.record(BlendCommand{Blend: s})
}

func (b *Backend) ApplyCull(s g3d.CullState) error {
	return b.record(CullCommand{Cull: s})
}

func (b *Backend) UpdateTransforms(model, camera, projection mgl32.Mat4) error {
	return b.record(UpdateTransformsCommand{Model: model, Camera: camera, Projection: projection})
}

func (b *Backend) UpdateViewport(r image.Rectangle) error {
	return b.record(ViewportCommand{Rect: r})
}

func (b *Backend) DrawPrimitive(t g3d.Topology, vertexStart, vertexCount int) error {
	vb := b.vertexBuffer
	if vb == nil {
		return ErrNoVertexBuffer
	}
	if vertexStart < 0 || vertexStart+vertexCount > vb.count {
		return fmt.Errorf("%w: %d+%d of %d vertices", ErrOutOfRange, vertexStart, vertexCount, vb.count)
	}
	return b.record(DrawCommand{Topology: t, Start: vertexStart, Count: vertexCount, Buffer: vb.id})
}

func (b *Backend) DrawIndexed(t g3d.Topology, baseVertex, indexStart, indexCount int) error {
	if b.vertexBuffer == nil {
		return ErrNoVertexBuffer
	}
	ib := b.indexBuffer
	if ib == nil {
		return ErrNoIndexBuffer
	}
	if indexStart < 0 || indexStart+indexCount > ib.count {
		return fmt.Errorf("%w: %d+%d of %d indices", ErrOutOfRange, indexStart, indexCount, ib.count)
	}
	return b.record(DrawIndexedCommand{
		Topology: t, BaseVertex: baseVertex, Start: indexStart, Count: indexCount, Buffer: ib.id,
	})
}

func (b *Backend) Clear(flags g3d.ClearFlags, c g3d.Color, depth float32, stencil uint32) error {
	return b.record(ClearCommand{Flags: flags, Color: c, Depth: depth, Stencil: stencil})
}

func (b *Backend) BeginFrame() error {
	if err := b.record(FrameCommand{Cmd: CmdBeginFrame}); err != nil {
		return err
	}
	b.inFrame = true
	return nil
}

func (b *Backend) EndFrame() error {
	if err := b.record(FrameCommand{Cmd: CmdEndFrame}); err != nil {
		return err
	}
	b.inFrame = false
	return nil
}

func (b *Backend) Release() {
	b.released = true
	b.vertexBuffer, b.indexBuffer = nil, nil
}
