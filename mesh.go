package g3d

import "fmt"

// Mesh couples a topology with a vertex buffer sized for exactly its
// primitive count. The mesh owns the buffer.
type Mesh struct {
	device     *Device
	topology   Topology
	primitives int
	buf        VertexBuffer
}

// NewMesh allocates the vertex buffer for primitiveCount primitives of
// topology t.
func NewMesh(d *Device, f *VertexFormat, t Topology, primitiveCount int, lifetime Lifetime) (*Mesh, error) {
	if !t.Valid() {
		panic(fmt.Sprintf("g3d: unknown topology %d", t))
	}
	if primitiveCount <= 0 {
		return nil, fmt.Errorf("g3d: mesh of %d primitives", primitiveCount)
	}
	buf, err := d.NewVertexBuffer(f, t.VertexCount(primitiveCount), lifetime)
	if err != nil {
		return nil, fmt.Errorf("g3d: mesh vertex buffer: %w", err)
	}
	return &Mesh{device: d, topology: t, primitives: primitiveCount, buf: buf}, nil
}

func (m *Mesh) Topology() Topology         { return m.topology }
func (m *Mesh) PrimitiveCount() int        { return m.primitives }
func (m *Mesh) VertexCount() int           { return m.buf.Count() }
func (m *Mesh) Format() *VertexFormat      { return m.buf.Format() }
func (m *Mesh) VertexBuffer() VertexBuffer { return m.buf }

// Builder locks the mesh's buffer for writing. Close the builder before
// drawing.
func (m *Mesh) Builder() (*MeshBuilder, error) {
	return NewMeshBuilder(m.buf)
}

// Draw selects the mesh's buffer, draws every primitive and deselects the
// buffer again.
func (m *Mesh) Draw() error {
	m.device.SetVertexBuffer(m.buf)
	if err := m.device.DrawPrimitive(m.topology, 0, m.primitives); err != nil {
		return err
	}
	return m.device.DeselectVertexBuffer(m.buf)
}

// Release frees the vertex buffer.
func (m *Mesh) Release() {
	if err := m.device.DeselectVertexBuffer(m.buf); err != nil {
		Logger().Warn("g3d: deselect on mesh release", "err", err)
	}
	m.buf.Release()
}
