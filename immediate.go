package g3d

import "github.com/go-gl/mathgl/mgl32"

// Immediate-mode helpers. Each call writes a fresh volatile buffer in the
// StdPC format, draws it and releases it. Coordinates are in whatever space
// the current transforms map them from; overlays usually set an
// orthographic projection first.

// pixel centre offset and half line width of rectangle outlines
const (
	rectOffset    = 0.5
	rectHalfWidth = 0.5
)

func (d *Device) drawVolatile(t Topology, primitives int, verts []mgl32.Vec3, c Color) error {
	buf, err := d.NewVertexBuffer(d.StandardFormat(StdPC), len(verts), LifetimeVolatile)
	if err != nil {
		return err
	}
	defer func() {
		// no-op unless the draw failed with buf still selected
		d.warnDeselect("immediate buffer", d.DeselectVertexBuffer(buf))
		buf.Release()
	}()

	b, err := NewMeshBuilder(buf)
	if err != nil {
		return err
	}
	for _, v := range verts {
		b.Position(v[0], v[1], v[2]).Color(c).Advance()
	}
	if err := b.Close(); err != nil {
		return err
	}

	d.SetVertexBuffer(buf)
	if err := d.DrawPrimitive(t, 0, primitives); err != nil {
		return err
	}
	return d.DeselectVertexBuffer(buf)
}

// DrawRect outlines the rectangle from ul to lr with a one unit wide
// border, as a ten vertex triangle strip.
func (d *Device) DrawRect(ul, lr mgl32.Vec2, c Color) error {
	const off, hw = rectOffset, rectHalfWidth
	verts := []mgl32.Vec3{
		{ul.X() + hw + off, ul.Y() + off + hw, 0},
		{ul.X() + hw + off, ul.Y() + off - hw, 0},
		{lr.X() + hw, ul.Y() + off + hw, 0},
		{lr.X() - hw, ul.Y() + off - hw, 0},
		{lr.X() - hw, lr.Y() - hw, 0},
		{lr.X() + hw, lr.Y() + hw, 0},
		{ul.X() - hw + off, lr.Y() - hw, 0},
		{ul.X() + hw + off, lr.Y() + hw, 0},
		{ul.X() + hw + off, ul.Y() + off + hw, 0},
		{ul.X() - hw + off, ul.Y() + off - hw, 0},
	}
	return d.drawVolatile(TriangleStrip, 8, verts, c)
}

// FillRect fills the rectangle from ul to lr as a two triangle strip.
func (d *Device) FillRect(ul, lr mgl32.Vec2, c Color) error {
	const off, hw = rectOffset, rectHalfWidth
	verts := []mgl32.Vec3{
		{ul.X() + hw + off, ul.Y() + off + hw, 0},
		{lr.X() + hw, ul.Y() + off + hw, 0},
		{ul.X() - hw + off, lr.Y() + off - hw, 0},
		{lr.X() - hw, lr.Y() - hw, 0},
	}
	return d.drawVolatile(TriangleStrip, 2, verts, c)
}

// DrawLine draws a single line segment.
func (d *Device) DrawLine(from, to mgl32.Vec2, c Color) error {
	verts := []mgl32.Vec3{
		{from.X(), from.Y(), 0},
		{to.X(), to.Y(), 0},
	}
	return d.drawVolatile(Lines, 1, verts, c)
}
