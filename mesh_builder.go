package g3d

import (
	"encoding/binary"
	"math"
)

// MeshBuilder writes interleaved vertex data into a locked vertex buffer.
// Setters write the current vertex; Advance moves to the next one. Writes
// for elements the format lacks are ignored. Close unlocks the buffer and
// must be called exactly once.
type MeshBuilder struct {
	buf    VertexBuffer
	data   []byte
	stride int
	count  int
	vertex int

	position element
	normal   element
	color    element
	texCoord []element
}

// element is a cursor for one vertex element; offset is -1 when absent.
type element struct {
	offset int
	typ    DataType
}

var noElement = element{offset: -1}

// NewMeshBuilder locks buf and positions the cursors on vertex 0.
func NewMeshBuilder(buf VertexBuffer) (*MeshBuilder, error) {
	data, err := buf.Lock()
	if err != nil {
		return nil, err
	}
	f := buf.Format()
	b := &MeshBuilder{
		buf:      buf,
		data:     data,
		stride:   f.Size(),
		count:    buf.Count(),
		position: noElement,
		normal:   noElement,
		color:    noElement,
	}
	for _, e := range f.Elements() {
		c := element{offset: e.Offset, typ: e.Type}
		switch e.Meaning {
		case MeaningPosition:
			b.position = c
		case MeaningNormal:
			b.normal = c
		case MeaningColor:
			b.color = c
		case MeaningTexCoord:
			b.texCoord = append(b.texCoord, c)
		}
	}
	return b, nil
}

// Vertex returns the index of the current vertex.
func (b *MeshBuilder) Vertex() int { return b.vertex }

func (b *MeshBuilder) base() int {
	if b.vertex >= b.count {
		panic("g3d: mesh builder wrote past the last vertex")
	}
	return b.vertex * b.stride
}

func (b *MeshBuilder) putFloats(e element, v [4]float32) {
	if e.offset < 0 {
		return
	}
	at := b.base() + e.offset
	if e.typ == Byte4 {
		c := Color{v[0], v[1], v[2], v[3]}.Bytes()
		copy(b.data[at:at+4], c[:])
		return
	}
	for i := 0; i < e.typ.Components(); i++ {
		binary.LittleEndian.PutUint32(b.data[at+4*i:], math.Float32bits(v[i]))
	}
}

// Position sets the position of the current vertex.
func (b *MeshBuilder) Position(x, y, z float32) *MeshBuilder {
	b.putFloats(b.position, [4]float32{x, y, z, 1})
	return b
}

// Normal sets the normal of the current vertex.
func (b *MeshBuilder) Normal(x, y, z float32) *MeshBuilder {
	b.putFloats(b.normal, [4]float32{x, y, z, 0})
	return b
}

// Color sets the color of the current vertex. Byte4 color elements store
// each component scaled to 0..255.
func (b *MeshBuilder) Color(c Color) *MeshBuilder {
	b.putFloats(b.color, [4]float32{c.R, c.G, c.B, c.A})
	return b
}

// ColorBytes sets the color from 8-bit components.
func (b *MeshBuilder) ColorBytes(r, g, bl, a uint8) *MeshBuilder {
	if b.color.offset < 0 {
		return b
	}
	if b.color.typ == Byte4 {
		at := b.base() + b.color.offset
		copy(b.data[at:at+4], []byte{r, g, bl, a})
		return b
	}
	return b.Color(Color{float32(r) / 255, float32(g) / 255, float32(bl) / 255, float32(a) / 255})
}

// TexCoord sets texture coordinate set i of the current vertex.
func (b *MeshBuilder) TexCoord(i int, u, v float32) *MeshBuilder {
	if i < 0 || i >= len(b.texCoord) {
		return b
	}
	b.putFloats(b.texCoord[i], [4]float32{u, v, 0, 1})
	return b
}

// Advance moves every cursor to the next vertex.
func (b *MeshBuilder) Advance() *MeshBuilder {
	b.vertex++
	return b
}

// Close unlocks the buffer.
func (b *MeshBuilder) Close() error {
	if b.buf == nil {
		return ErrNotLocked
	}
	err := b.buf.Unlock()
	b.buf, b.data = nil, nil
	return err
}
