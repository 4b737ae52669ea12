package wgpu

import (
	"fmt"

	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// gpuBuffer is a hal buffer with a CPU shadow copy. Lock hands out the
// shadow; Unlock uploads it with a queue write.
type gpuBuffer struct {
	g3d.MapState
	backend *Backend
	buf     hal.Buffer
	shadow  []byte // padded to a multiple of 4
	size    int
	usedIn  uint64 // generation of the last draw, 0 if never drawn
}

func (b *Backend) newGPUBuffer(label string, size int, usage gputypes.BufferUsage) (gpuBuffer, error) {
	padded := (size + 3) &^ 3
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(padded),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return gpuBuffer{}, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	return gpuBuffer{backend: b, buf: buf, shadow: make([]byte, padded), size: size}, nil
}

func (g *gpuBuffer) Lock() ([]byte, error) {
	if err := g.BeginMap(); err != nil {
		return nil, err
	}
	return g.shadow[:g.size], nil
}

// Unlock uploads the shadow copy. If the pending submission already draws
// from the buffer it is submitted first, so those draws see the old data.
func (g *gpuBuffer) Unlock() error {
	if err := g.EndMap(); err != nil {
		return err
	}
	if err := g.backend.flushIfUsed(g.usedIn); err != nil {
		return err
	}
	if err := g.backend.queue.WriteBuffer(g.buf, 0, g.shadow); err != nil {
		return fmt.Errorf("wgpu: upload buffer: %w", err)
	}
	return nil
}

func (g *gpuBuffer) release() bool {
	if !g.MarkReleased() {
		return false
	}
	dev, buf := g.backend.device, g.buf
	g.backend.garbage.bury(g.usedIn, func() { dev.DestroyBuffer(buf) })
	return true
}

// VertexBuffer is a vertex buffer in GPU memory.
type VertexBuffer struct {
	gpuBuffer
	format   *g3d.VertexFormat
	count    int
	lifetime g3d.Lifetime
}

func (b *Backend) NewVertexBuffer(f *g3d.VertexFormat, count int, lifetime g3d.Lifetime) (g3d.VertexBuffer, error) {
	g, err := b.newGPUBuffer("g3d_vertices", count*f.Size(), gputypes.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	return &VertexBuffer{gpuBuffer: g, format: f, count: count, lifetime: lifetime}, nil
}

func (v *VertexBuffer) Format() *g3d.VertexFormat { return v.format }
func (v *VertexBuffer) Count() int                { return v.count }
func (v *VertexBuffer) Lifetime() g3d.Lifetime    { return v.lifetime }

func (v *VertexBuffer) Select() error {
	if err := v.CheckSelect(); err != nil {
		return err
	}
	v.backend.vb = v
	return nil
}

func (v *VertexBuffer) Deselect() error {
	if v.backend.vb == v {
		v.backend.vb = nil
	}
	return nil
}

func (v *VertexBuffer) Release() {
	if v.release() && v.backend.vb == v {
		v.backend.vb = nil
	}
}

// IndexBuffer is an index buffer in GPU memory.
type IndexBuffer struct {
	gpuBuffer
	format   gputypes.IndexFormat
	count    int
	lifetime g3d.Lifetime
}

func (b *Backend) NewIndexBuffer(f gputypes.IndexFormat, count int, lifetime g3d.Lifetime) (g3d.IndexBuffer, error) {
	g, err := b.newGPUBuffer("g3d_indices", count*g3d.IndexSize(f), gputypes.BufferUsageIndex)
	if err != nil {
		return nil, err
	}
	return &IndexBuffer{gpuBuffer: g, format: f, count: count, lifetime: lifetime}, nil
}

func (i *IndexBuffer) IndexFormat() gputypes.IndexFormat { return i.format }
func (i *IndexBuffer) Count() int                        { return i.count }
func (i *IndexBuffer) Lifetime() g3d.Lifetime            { return i.lifetime }

func (i *IndexBuffer) Select() error {
	if err := i.CheckSelect(); err != nil {
		return err
	}
	i.backend.ib = i
	return nil
}

func (i *IndexBuffer) Deselect() error {
	if i.backend.ib == i {
		i.backend.ib = nil
	}
	return nil
}

func (i *IndexBuffer) Release() {
	if i.release() && i.backend.ib == i {
		i.backend.ib = nil
	}
}
