package scene

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
)

// Drawable is anything a scene node can draw. *g3d.Mesh and *IndexedMesh
// implement it.
type Drawable interface {
	Draw() error
	Release()
}

var (
	_ Drawable = (*g3d.Mesh)(nil)
	_ Drawable = (*IndexedMesh)(nil)
)

// IndexedMesh draws primitives through an index buffer. It owns both
// buffers.
type IndexedMesh struct {
	device     *g3d.Device
	topology   g3d.Topology
	primitives int
	vb         g3d.VertexBuffer
	ib         g3d.IndexBuffer
}

// NewIndexedMesh allocates vertexCount vertices and the indices of
// primitiveCount primitives. Indices are 16 bit when every vertex fits.
func NewIndexedMesh(d *g3d.Device, f *g3d.VertexFormat, t g3d.Topology, vertexCount, primitiveCount int, lifetime g3d.Lifetime) (*IndexedMesh, error) {
	vb, err := d.NewVertexBuffer(f, vertexCount, lifetime)
	if err != nil {
		return nil, fmt.Errorf("vertex buffer: %w", err)
	}
	format := gputypes.IndexFormatUint16
	if vertexCount > 1<<16 {
		format = gputypes.IndexFormatUint32
	}
	ib, err := d.NewIndexBuffer(format, t.VertexCount(primitiveCount), lifetime)
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("index buffer: %w", err)
	}
	return &IndexedMesh{device: d, topology: t, primitives: primitiveCount, vb: vb, ib: ib}, nil
}

func (m *IndexedMesh) Topology() g3d.Topology         { return m.topology }
func (m *IndexedMesh) PrimitiveCount() int            { return m.primitives }
func (m *IndexedMesh) VertexBuffer() g3d.VertexBuffer { return m.vb }
func (m *IndexedMesh) IndexBuffer() g3d.IndexBuffer   { return m.ib }

// SetIndices writes idx into the index buffer. len(idx) must equal its
// count.
func (m *IndexedMesh) SetIndices(idx []uint32) error {
	if len(idx) != m.ib.Count() {
		return fmt.Errorf("%d indices for a buffer of %d: %w", len(idx), m.ib.Count(), g3d.ErrInvalidArgument)
	}
	data, err := m.ib.Lock()
	if err != nil {
		return err
	}
	size := g3d.IndexSize(m.ib.IndexFormat())
	for i, v := range idx {
		if size == 2 {
			binary.LittleEndian.PutUint16(data[2*i:], uint16(v))
		} else {
			binary.LittleEndian.PutUint32(data[4*i:], v)
		}
	}
	return m.ib.Unlock()
}

// Draw selects both buffers, draws every primitive and deselects them.
func (m *IndexedMesh) Draw() error {
	m.device.SetVertexBuffer(m.vb)
	m.device.SetIndexBuffer(m.ib)
	if err := m.device.DrawIndexedPrimitive(m.topology, 0, 0, m.primitives); err != nil {
		return err
	}
	if err := m.device.DeselectIndexBuffer(m.ib); err != nil {
		return err
	}
	return m.device.DeselectVertexBuffer(m.vb)
}

// Release frees both buffers.
func (m *IndexedMesh) Release() {
	if err := m.device.DeselectVertexBuffer(m.vb); err != nil {
		g3d.Logger().Warn("scene: deselect on mesh release", "err", err)
	}
	if err := m.device.DeselectIndexBuffer(m.ib); err != nil {
		g3d.Logger().Warn("scene: deselect on mesh release", "err", err)
	}
	m.vb.Release()
	m.ib.Release()
}
