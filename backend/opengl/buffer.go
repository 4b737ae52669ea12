package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
)

// preserveBinding records the buffer bound to target and returns a func
// that rebinds it.
func preserveBinding(target, query uint32) func() {
	var prev int32
	gl.GetIntegerv(query, &prev)
	return func() { gl.BindBuffer(target, uint32(prev)) }
}

// glBuffer is a buffer object written through glMapBuffer.
type glBuffer struct {
	g3d.MapState
	backend *Backend
	target  uint32
	query   uint32
	handle  uint32
	size    int
}

func (b *Backend) newBuffer(target, query uint32, size int, l g3d.Lifetime) (glBuffer, error) {
	buf := glBuffer{backend: b, target: target, query: query, size: size}
	restore := preserveBinding(target, query)
	defer restore()

	gl.GenBuffers(1, &buf.handle)
	gl.BindBuffer(target, buf.handle)
	gl.BufferData(target, size, nil, bufferUsage(l))
	if err := checkError("BufferData"); err != nil {
		gl.DeleteBuffers(1, &buf.handle)
		return glBuffer{}, err
	}
	return buf, nil
}

func (g *glBuffer) Lock() ([]byte, error) {
	if err := g.BeginMap(); err != nil {
		return nil, err
	}
	restore := preserveBinding(g.target, g.query)
	defer restore()

	gl.BindBuffer(g.target, g.handle)
	p := gl.MapBuffer(g.target, gl.WRITE_ONLY)
	if p == nil {
		_ = g.EndMap()
		if err := checkError("MapBuffer"); err != nil {
			return nil, err
		}
		return nil, &g3d.BackendError{Backend: Name, Op: "MapBuffer", Kind: g3d.KindResourceExhausted}
	}
	return unsafe.Slice((*byte)(p), g.size), nil
}

func (g *glBuffer) Unlock() error {
	if err := g.EndMap(); err != nil {
		return err
	}
	restore := preserveBinding(g.target, g.query)
	defer restore()

	gl.BindBuffer(g.target, g.handle)
	if !gl.UnmapBuffer(g.target) {
		// The data store was lost while mapped, typically on a mode switch.
		return fmt.Errorf("opengl: buffer %d contents lost during mapping: %w", g.handle, g3d.ErrResourceExhausted)
	}
	return checkError("UnmapBuffer")
}

func (g *glBuffer) release() bool {
	if !g.MarkReleased() {
		return false
	}
	gl.DeleteBuffers(1, &g.handle)
	return true
}

// VertexBuffer feeds the fixed-function client arrays from a buffer object.
type VertexBuffer struct {
	glBuffer
	format   *g3d.VertexFormat
	count    int
	lifetime g3d.Lifetime
}

var _ g3d.VertexBuffer = (*VertexBuffer)(nil)

// NewVertexBuffer allocates count vertices of f.
func (b *Backend) NewVertexBuffer(f *g3d.VertexFormat, count int, l g3d.Lifetime) (g3d.VertexBuffer, error) {
	buf, err := b.newBuffer(gl.ARRAY_BUFFER, gl.ARRAY_BUFFER_BINDING, count*f.Size(), l)
	if err != nil {
		return nil, err
	}
	return &VertexBuffer{glBuffer: buf, format: f, count: count, lifetime: l}, nil
}

func (v *VertexBuffer) Format() *g3d.VertexFormat { return v.format }
func (v *VertexBuffer) Count() int                { return v.count }
func (v *VertexBuffer) Lifetime() g3d.Lifetime    { return v.lifetime }

// Select binds the buffer and enables one client array per element.
func (v *VertexBuffer) Select() error {
	if err := v.CheckSelect(); err != nil {
		return err
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, v.handle)
	for _, e := range v.format.Elements() {
		switch e.Meaning {
		case g3d.MeaningPosition:
			gl.EnableClientState(gl.VERTEX_ARRAY)
		case g3d.MeaningNormal:
			gl.EnableClientState(gl.NORMAL_ARRAY)
		case g3d.MeaningColor:
			gl.EnableClientState(gl.COLOR_ARRAY)
		}
	}
	for i := range v.format.TexCoords() {
		gl.ClientActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.EnableClientState(gl.TEXTURE_COORD_ARRAY)
	}
	gl.ClientActiveTexture(gl.TEXTURE0)
	v.pointers(0)
	if err := checkError("SelectVertexBuffer"); err != nil {
		return err
	}
	v.backend.vb = v
	return nil
}

// pointers aims every enabled array at vertex base.
func (v *VertexBuffer) pointers(base int) {
	stride := int32(v.format.Size())
	origin := base * v.format.Size()
	texture := uint32(0)
	for _, e := range v.format.Elements() {
		n := int32(e.Type.Components())
		at := gl.PtrOffset(origin + e.Offset)
		switch e.Meaning {
		case g3d.MeaningPosition:
			gl.VertexPointer(n, gl.FLOAT, stride, at)
		case g3d.MeaningNormal:
			gl.NormalPointer(gl.FLOAT, stride, at)
		case g3d.MeaningColor:
			gl.ColorPointer(n, elementType(e.Type), stride, at)
		case g3d.MeaningTexCoord:
			gl.ClientActiveTexture(gl.TEXTURE0 + texture)
			gl.TexCoordPointer(n, elementType(e.Type), stride, at)
			texture++
		}
	}
	if texture > 0 {
		gl.ClientActiveTexture(gl.TEXTURE0)
	}
}

// Deselect disables the client arrays Select enabled.
func (v *VertexBuffer) Deselect() error {
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if v.format.HasNormal() {
		gl.DisableClientState(gl.NORMAL_ARRAY)
	}
	if v.format.HasColor() {
		gl.DisableClientState(gl.COLOR_ARRAY)
	}
	for i := range v.format.TexCoords() {
		gl.ClientActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.DisableClientState(gl.TEXTURE_COORD_ARRAY)
	}
	gl.ClientActiveTexture(gl.TEXTURE0)
	gl.DisableClientState(gl.VERTEX_ARRAY)
	if v.backend.vb == v {
		v.backend.vb = nil
	}
	return checkError("DeselectVertexBuffer")
}

func (v *VertexBuffer) Release() {
	if v.release() && v.backend.vb == v {
		v.backend.vb = nil
	}
}

// IndexBuffer is an element array buffer object.
type IndexBuffer struct {
	glBuffer
	format   gputypes.IndexFormat
	count    int
	lifetime g3d.Lifetime
}

var _ g3d.IndexBuffer = (*IndexBuffer)(nil)

// NewIndexBuffer allocates count indices of format f.
func (b *Backend) NewIndexBuffer(f gputypes.IndexFormat, count int, l g3d.Lifetime) (g3d.IndexBuffer, error) {
	buf, err := b.newBuffer(gl.ELEMENT_ARRAY_BUFFER, gl.ELEMENT_ARRAY_BUFFER_BINDING, count*g3d.IndexSize(f), l)
	if err != nil {
		return nil, err
	}
	return &IndexBuffer{glBuffer: buf, format: f, count: count, lifetime: l}, nil
}

func (i *IndexBuffer) IndexFormat() gputypes.IndexFormat { return i.format }
func (i *IndexBuffer) Count() int                        { return i.count }
func (i *IndexBuffer) Lifetime() g3d.Lifetime            { return i.lifetime }

func (i *IndexBuffer) Select() error {
	if err := i.CheckSelect(); err != nil {
		return err
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, i.handle)
	i.backend.ib = i
	return checkError("SelectIndexBuffer")
}

func (i *IndexBuffer) Deselect() error {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
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
