package scene

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/recording"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopology(t *testing.T) {
	tests := []struct {
		in   string
		want g3d.Topology
		ok   bool
	}{
		{"triangles", g3d.Triangles, true},
		{"Triangles", g3d.Triangles, true},
		{"triangle_strip", g3d.TriangleStrip, true},
		{"TriangleFan", g3d.TriangleFan, true},
		{"quad_strip", g3d.QuadStrip, true},
		{"points", g3d.Points, true},
		{"line_loop", g3d.LineLoop, true},
		{"hexagons", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTopology(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrimitiveCount(t *testing.T) {
	tests := []struct {
		topology g3d.Topology
		n, want  int
		ok       bool
	}{
		{g3d.Points, 5, 5, true},
		{g3d.Lines, 4, 2, true},
		{g3d.Lines, 5, 0, false},
		{g3d.LineStrip, 4, 3, true},
		{g3d.LineStrip, 1, 0, false},
		{g3d.Triangles, 9, 3, true},
		{g3d.Triangles, 8, 0, false},
		{g3d.TriangleStrip, 5, 3, true},
		{g3d.TriangleFan, 2, 0, false},
		{g3d.Quads, 8, 2, true},
		{g3d.QuadStrip, 6, 2, true},
		{g3d.QuadStrip, 7, 0, false},
		{g3d.Polygon, 5, 5, true},
		{g3d.Polygon, 2, 0, false},
		{g3d.Topology(99), 3, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.topology.String(), func(t *testing.T) {
			got, ok := PrimitiveCount(tt.topology, tt.n)
			assert.Equal(t, tt.ok, ok, "%d vertices", tt.n)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadModel(t *testing.T) {
	m, err := LoadModel("testdata/pyramid.yaml")
	require.NoError(t, err)
	assert.Equal(t, "pyramid", m.Name)
	assert.Len(t, m.Vertices, 5)
	assert.Len(t, m.Indices, 18)
	assert.True(t, m.Indexed())
	require.NotNil(t, m.Color)
	assert.Equal(t, g3d.Hex("#c08040"), g3d.Color(*m.Color))
	require.NotNil(t, m.Vertices[4].Color)
	assert.Equal(t, Color{1, 1, 0.5, 1}, *m.Vertices[4].Color)

	// scale 4, 45 degrees about Y, then translate.
	p := m.Transform().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	s := float32(4 * math.Sqrt2 / 2)
	assertNear(t, mgl32.Vec3{40 + s, 0, -s}, p, 1e-4)
}

func TestLoadModelMissingFile(t *testing.T) {
	_, err := LoadModel("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestParseModelErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"topology", "topology: hexagons\nformat: pc\nvertices: [{position: [0, 0, 0]}]\n"},
		{"format", "topology: points\nformat: xyz\nvertices: [{position: [0, 0, 0]}]\n"},
		{"lifetime", "topology: points\nformat: pc\nlifetime: forever\nvertices: [{position: [0, 0, 0]}]\n"},
		{"no vertices", "topology: points\nformat: pc\n"},
		{"short position", "topology: points\nformat: pc\nvertices: [{position: [0, 0]}]\n"},
		{"short normal", "topology: points\nformat: pnc\nvertices: [{position: [0, 0, 0], normal: [1]}]\n"},
		{"index range", "topology: points\nformat: pc\nvertices: [{position: [0, 0, 0]}]\nindices: [1]\n"},
		{"partial triangle", "topology: triangles\nformat: pc\nvertices: [{position: [0, 0, 0]}, {position: [1, 0, 0]}]\n"},
		{"color components", "topology: points\nformat: pc\ncolor: [1, 0]\nvertices: [{position: [0, 0, 0]}]\n"},
		{"translate", "topology: points\nformat: pc\ntranslate: [1]\nvertices: [{position: [0, 0, 0]}]\n"},
		{"scale", "topology: points\nformat: pc\nscale: -1\nvertices: [{position: [0, 0, 0]}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModel(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidModel)
		})
	}
}

func TestParseModelUnknownKey(t *testing.T) {
	_, err := ParseModel(strings.NewReader("topology: points\nformat: pc\ncolour: red\nvertices: [{position: [0, 0, 0]}]\n"))
	assert.Error(t, err)
}

func TestComputedNormals(t *testing.T) {
	m := &Model{
		Topology: "triangles",
		Format:   "pnc",
		Vertices: []Vertex{
			{Position: []float32{0, 0, 0}},
			{Position: []float32{0, 0, 1}},
			{Position: []float32{1, 0, 0}},
			{Position: []float32{5, 5, 5}, Normal: []float32{1, 0, 0}},
		},
		Indices: []uint32{0, 1, 2},
	}
	n := m.normals(g3d.Triangles)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, n[0])
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, n[2])
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, n[3])
}

func readFloat(b []byte, at int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[at:]))
}

func TestBuildMesh(t *testing.T) {
	dev := g3d.NewDevice(recording.New())
	m, err := ParseModel(strings.NewReader(`
name: tri
topology: triangles
format: pc
color: [0, 1, 0]
vertices:
  - {position: [1, 2, 3]}
  - {position: [4, 5, 6], color: "#ff0000"}
  - {position: [7, 8, 9]}
`))
	require.NoError(t, err)
	d, err := m.Build(dev)
	require.NoError(t, err)
	mesh, ok := d.(*g3d.Mesh)
	require.True(t, ok)
	assert.Equal(t, 1, mesh.PrimitiveCount())

	data := mesh.VertexBuffer().(*recording.VertexBuffer).Bytes()
	stride := mesh.Format().Size()
	assert.Equal(t, float32(4), readFloat(data, stride))
	assert.Equal(t, float32(9), readFloat(data, 2*stride+8))
	// color follows the float3 position
	assert.Equal(t, float32(1), readFloat(data, 16))        // vertex 0 green
	assert.Equal(t, float32(1), readFloat(data, stride+12)) // vertex 1 red
	assert.Equal(t, float32(0), readFloat(data, stride+16)) // vertex 1 not green
	assert.False(t, mesh.VertexBuffer().Locked())
}

func TestBuildIndexedMesh(t *testing.T) {
	rec := recording.New()
	dev := g3d.NewDevice(rec)
	m, err := LoadModel("testdata/pyramid.yaml")
	require.NoError(t, err)
	d, err := m.Build(dev)
	require.NoError(t, err)
	im, ok := d.(*IndexedMesh)
	require.True(t, ok)
	assert.Equal(t, 6, im.PrimitiveCount())
	assert.Equal(t, gputypes.IndexFormatUint16, im.IndexBuffer().IndexFormat())
	idx := im.IndexBuffer().(*recording.IndexBuffer).Bytes()
	assert.Equal(t, uint16(4), binary.LittleEndian.Uint16(idx[2:]))

	require.NoError(t, im.Draw())
	cmd, ok := rec.Last(recording.CmdDrawIndexed)
	require.True(t, ok)
	assert.Equal(t, 18, cmd.(recording.DrawIndexedCommand).Count)
	assert.Nil(t, dev.IndexBuffer())
	assert.Nil(t, dev.VertexBuffer())
	assert.Equal(t, 6, dev.Stats().PolyCount)

	im.Release()
}

func TestSetIndicesCount(t *testing.T) {
	dev := g3d.NewDevice(recording.New())
	im, err := NewIndexedMesh(dev, dev.StandardFormat(g3d.StdPC), g3d.Triangles, 3, 1, g3d.LifetimeStatic)
	require.NoError(t, err)
	assert.ErrorIs(t, im.SetIndices([]uint32{0, 1}), g3d.ErrInvalidArgument)
	require.NoError(t, im.SetIndices([]uint32{0, 1, 2}))
}

func TestCubeModel(t *testing.T) {
	m := Cube("crate", 2, Color(g3d.White))
	require.NoError(t, m.Validate())
	assert.Len(t, m.Vertices, 24)
	assert.Len(t, m.Indices, 36)
	for _, v := range m.Vertices {
		for _, c := range v.Position {
			assert.Equal(t, float32(1), float32(math.Abs(float64(c))))
		}
	}

	// Every face winds counter-clockwise seen from outside.
	n := m.normals(g3d.Triangles)
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		pa, pb, pc := vec3(m.Vertices[a].Position), vec3(m.Vertices[b].Position), vec3(m.Vertices[c].Position)
		face := pb.Sub(pa).Cross(pc.Sub(pa)).Normalize()
		assertNear(t, face, n[a], 1e-5)
	}

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))
	back, err := ParseModel(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Indices, back.Indices)
}

func TestGridModel(t *testing.T) {
	m := Grid("floor", 32, 16, Color(g3d.White))
	require.NoError(t, m.Validate())
	assert.Len(t, m.Vertices, 5*4)
	n, ok := PrimitiveCount(g3d.Lines, len(m.Vertices))
	assert.True(t, ok)
	assert.Equal(t, 10, n)
}
