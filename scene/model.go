package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d"
	"gopkg.in/yaml.v3"
)

// ErrInvalidModel is wrapped by every model validation error.
var ErrInvalidModel = errors.New("scene: invalid model")

// Model is a static mesh description as stored in a YAML model file:
//
//	name: pyramid
//	topology: triangles
//	format: pnc
//	color: "#c08040"
//	translate: [20, 0, 0]
//	rotate: [0, 45, 0]
//	scale: 4
//	vertices:
//	  - {position: [-1, 0, -1]}
//	  - {position: [1, 0, -1], color: [1, 0, 0, 1]}
//	indices: [0, 1, 2]
//
// Colors are "#RRGGBB[AA]" strings or lists of three or four floats. A
// vertex without a color takes the model color. Triangle lists without
// normals get them computed.
type Model struct {
	Name     string   `yaml:"name"`
	Topology string   `yaml:"topology"`
	Format   string   `yaml:"format"`
	Lifetime string   `yaml:"lifetime,omitempty"`
	Color    *Color   `yaml:"color,omitempty"`
	Vertices []Vertex `yaml:"vertices"`
	Indices  []uint32 `yaml:"indices,omitempty"`

	Translate []float32 `yaml:"translate,omitempty"`
	Rotate    []float32 `yaml:"rotate,omitempty"` // degrees about X, Y and Z
	Scale     float32   `yaml:"scale,omitempty"`
}

// Vertex is one vertex of a Model.
type Vertex struct {
	Position []float32 `yaml:"position"`
	Normal   []float32 `yaml:"normal,omitempty"`
	Color    *Color    `yaml:"color,omitempty"`
}

// Color is a g3d.Color that unmarshals from a hex string or a float list.
type Color g3d.Color

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*c = Color(g3d.Hex(s))
		return nil
	}
	var f []float32
	if err := value.Decode(&f); err != nil {
		return err
	}
	switch len(f) {
	case 3:
		*c = Color{f[0], f[1], f[2], 1}
	case 4:
		*c = Color{f[0], f[1], f[2], f[3]}
	default:
		return fmt.Errorf("%w: color has %d components", ErrInvalidModel, len(f))
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	return []float32{c.R, c.G, c.B, c.A}, nil
}

var formats = map[string]g3d.StandardFormat{
	"pc":  g3d.StdPC,
	"pnc": g3d.StdPNC,
}

var lifetimes = map[string]g3d.Lifetime{
	"":         g3d.LifetimeStatic,
	"static":   g3d.LifetimeStatic,
	"dynamic":  g3d.LifetimeDynamic,
	"volatile": g3d.LifetimeVolatile,
}

// ParseTopology looks a topology up by its case-insensitive name, with or
// without underscores ("triangle_strip", "TriangleStrip").
func ParseTopology(name string) (g3d.Topology, bool) {
	key := strings.ReplaceAll(strings.ToLower(name), "_", "")
	for t := g3d.Points; t.Valid(); t++ {
		if strings.ToLower(t.String()) == key {
			return t, true
		}
	}
	return 0, false
}

// PrimitiveCount returns the number of primitives of topology t that
// exactly n vertices assemble, or false when n does not fit t.
func PrimitiveCount(t g3d.Topology, n int) (int, bool) {
	var p int
	switch t {
	case g3d.Points, g3d.LineLoop:
		p = n
	case g3d.Polygon:
		if n < 3 {
			return 0, false
		}
		p = n
	case g3d.Lines:
		p = n / 2
	case g3d.LineStrip:
		p = n - 1
	case g3d.Triangles:
		p = n / 3
	case g3d.TriangleStrip, g3d.TriangleFan:
		p = n - 2
	case g3d.Quads:
		p = n / 4
	case g3d.QuadStrip:
		p = n/2 - 1
	default:
		return 0, false
	}
	if p <= 0 || t.VertexCount(p) != n {
		return 0, false
	}
	return p, true
}

// LoadModel reads and validates the model file at path.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	m, err := ParseModel(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return m, nil
}

// ParseModel decodes a model and validates it. Unknown keys are errors.
func ParseModel(r io.Reader) (*Model, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	m := &Model{}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Write encodes the model as YAML.
func (m *Model) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks names, vector sizes, index ranges and that the vertex
// or index count assembles whole primitives.
func (m *Model) Validate() error {
	t, ok := ParseTopology(m.Topology)
	if !ok {
		return fmt.Errorf("%w: topology %q", ErrInvalidModel, m.Topology)
	}
	if _, ok := formats[strings.ToLower(m.Format)]; !ok {
		return fmt.Errorf("%w: format %q", ErrInvalidModel, m.Format)
	}
	if _, ok := lifetimes[strings.ToLower(m.Lifetime)]; !ok {
		return fmt.Errorf("%w: lifetime %q", ErrInvalidModel, m.Lifetime)
	}
	if len(m.Vertices) == 0 {
		return fmt.Errorf("%w: no vertices", ErrInvalidModel)
	}
	for i, v := range m.Vertices {
		if len(v.Position) != 3 {
			return fmt.Errorf("%w: vertex %d position has %d components", ErrInvalidModel, i, len(v.Position))
		}
		if v.Normal != nil && len(v.Normal) != 3 {
			return fmt.Errorf("%w: vertex %d normal has %d components", ErrInvalidModel, i, len(v.Normal))
		}
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d refers to vertex %d of %d", ErrInvalidModel, i, idx, len(m.Vertices))
		}
	}
	if m.Translate != nil && len(m.Translate) != 3 {
		return fmt.Errorf("%w: translate has %d components", ErrInvalidModel, len(m.Translate))
	}
	if m.Rotate != nil && len(m.Rotate) != 3 {
		return fmt.Errorf("%w: rotate has %d components", ErrInvalidModel, len(m.Rotate))
	}
	if m.Scale < 0 {
		return fmt.Errorf("%w: scale %g", ErrInvalidModel, m.Scale)
	}
	n := len(m.Vertices)
	if m.Indexed() {
		n = len(m.Indices)
	}
	if _, ok := PrimitiveCount(t, n); !ok {
		return fmt.Errorf("%w: %d vertices do not assemble %s", ErrInvalidModel, n, t)
	}
	return nil
}

// Indexed reports whether the model draws through an index buffer.
func (m *Model) Indexed() bool { return len(m.Indices) > 0 }

// Transform returns scale, then rotation about X, Y and Z, then
// translation.
func (m *Model) Transform() mgl32.Mat4 {
	xf := mgl32.Ident4()
	if len(m.Translate) == 3 {
		xf = mgl32.Translate3D(m.Translate[0], m.Translate[1], m.Translate[2])
	}
	if len(m.Rotate) == 3 {
		xf = xf.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(m.Rotate[2]))).
			Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(m.Rotate[1]))).
			Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(m.Rotate[0])))
	}
	if m.Scale > 0 {
		xf = xf.Mul4(mgl32.Scale3D(m.Scale, m.Scale, m.Scale))
	}
	return xf
}

func vec3(f []float32) mgl32.Vec3 { return mgl32.Vec3{f[0], f[1], f[2]} }

// normals returns one normal per vertex: the given one, or for triangle
// lists the normalized sum of the normals of every face using the vertex.
func (m *Model) normals(t g3d.Topology) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(m.Vertices))
	if t == g3d.Triangles {
		order := m.Indices
		if !m.Indexed() {
			order = make([]uint32, len(m.Vertices))
			for i := range order {
				order[i] = uint32(i)
			}
		}
		for i := 0; i+2 < len(order); i += 3 {
			a, b, c := order[i], order[i+1], order[i+2]
			pa, pb, pc := vec3(m.Vertices[a].Position), vec3(m.Vertices[b].Position), vec3(m.Vertices[c].Position)
			n := pb.Sub(pa).Cross(pc.Sub(pa))
			out[a], out[b], out[c] = out[a].Add(n), out[b].Add(n), out[c].Add(n)
		}
	}
	for i, v := range m.Vertices {
		switch {
		case v.Normal != nil:
			out[i] = vec3(v.Normal)
		case out[i].Len() > 0:
			out[i] = out[i].Normalize()
		default:
			out[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	return out
}

// Build uploads the model to d. The result owns its buffers.
func (m *Model) Build(d *g3d.Device) (Drawable, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	t, _ := ParseTopology(m.Topology)
	format := d.StandardFormat(formats[strings.ToLower(m.Format)])
	lifetime := lifetimes[strings.ToLower(m.Lifetime)]

	if !m.Indexed() {
		n, _ := PrimitiveCount(t, len(m.Vertices))
		mesh, err := g3d.NewMesh(d, format, t, n, lifetime)
		if err != nil {
			return nil, fmt.Errorf("scene: model %q: %w", m.Name, err)
		}
		if err := m.fill(mesh.VertexBuffer(), t); err != nil {
			mesh.Release()
			return nil, fmt.Errorf("scene: model %q: %w", m.Name, err)
		}
		return mesh, nil
	}

	n, _ := PrimitiveCount(t, len(m.Indices))
	im, err := NewIndexedMesh(d, format, t, len(m.Vertices), n, lifetime)
	if err != nil {
		return nil, fmt.Errorf("scene: model %q: %w", m.Name, err)
	}
	if err := m.fill(im.VertexBuffer(), t); err != nil {
		im.Release()
		return nil, fmt.Errorf("scene: model %q: %w", m.Name, err)
	}
	if err := im.SetIndices(m.Indices); err != nil {
		im.Release()
		return nil, fmt.Errorf("scene: model %q: %w", m.Name, err)
	}
	return im, nil
}

func (m *Model) fill(vb g3d.VertexBuffer, t g3d.Topology) error {
	b, err := g3d.NewMeshBuilder(vb)
	if err != nil {
		return err
	}
	base := g3d.White
	if m.Color != nil {
		base = g3d.Color(*m.Color)
	}
	normals := m.normals(t)
	for i, v := range m.Vertices {
		c := base
		if v.Color != nil {
			c = g3d.Color(*v.Color)
		}
		n := normals[i]
		b.Position(v.Position[0], v.Position[1], v.Position[2]).
			Normal(n[0], n[1], n[2]).
			Color(c).
			Advance()
	}
	return b.Close()
}
