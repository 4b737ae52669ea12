package shader

import (
	"testing"

	"github.com/gogpu/g3d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWGSLInputsFollowLayout(t *testing.T) {
	f := g3d.NewStandardFormat(g3d.StdPNC)
	src, err := WGSL(f)
	require.NoError(t, err)

	for _, want := range []string{
		"@location(0) position: vec3<f32>",
		"@location(1) normal: vec3<f32>",
		"@location(2) color: vec4<f32>",
		"fn vs_main(",
		"fn fs_main(",
		"let shade",
	} {
		assert.Contains(t, src, want)
	}

	// Every input location must match the pipeline layout.
	layout := f.Layout()
	require.Len(t, layout.Attributes, 3)
	assert.EqualValues(t, g3d.LocationNormal, layout.Attributes[1].ShaderLocation)
}

func TestWGSLVariants(t *testing.T) {
	tests := []struct {
		name    string
		format  func() *g3d.VertexFormat
		want    []string
		notWant []string
	}{
		{
			name:    "position color is unlit",
			format:  func() *g3d.VertexFormat { return g3d.NewStandardFormat(g3d.StdPC) },
			want:    []string{"vec4<f32>(in.position, 1.0)", "var color = in.color;"},
			notWant: []string{"normal", "shade"},
		},
		{
			name: "position only is white",
			format: func() *g3d.VertexFormat {
				return g3d.NewVertexFormat().AddElement(g3d.MeaningPosition, g3d.Float2)
			},
			want: []string{
				"vec4<f32>(in.position, 0.0, 1.0)",
				"var color = vec4<f32>(1.0, 1.0, 1.0, 1.0);",
			},
		},
		{
			name: "texcoords take consecutive locations",
			format: func() *g3d.VertexFormat {
				return g3d.NewVertexFormat().
					AddElement(g3d.MeaningPosition, g3d.Float3).
					AddElement(g3d.MeaningTexCoord, g3d.Float2).
					AddElement(g3d.MeaningTexCoord, g3d.Float2)
			},
			want: []string{"@location(3) uv0: vec2<f32>", "@location(4) uv1: vec2<f32>"},
		},
		{
			name: "three component color gets opaque alpha",
			format: func() *g3d.VertexFormat {
				return g3d.NewVertexFormat().
					AddElement(g3d.MeaningPosition, g3d.Float3).
					AddElement(g3d.MeaningColor, g3d.Float3)
			},
			want: []string{"var color = vec4<f32>(in.color, 1.0);"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := WGSL(tt.format())
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, src, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, src, w)
			}
		})
	}
}

func TestWGSLRequiresPosition(t *testing.T) {
	f := g3d.NewVertexFormat().AddElement(g3d.MeaningColor, g3d.Float4)
	_, err := WGSL(f)
	assert.Error(t, err)
}

func TestWords(t *testing.T) {
	words := Words([]byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00, 0xff})
	assert.Equal(t, []uint32{0x07230203, 0x00010000}, words)
}

func TestCompilerCachesPerFormat(t *testing.T) {
	c := NewCompiler(4)
	pc := g3d.NewStandardFormat(g3d.StdPC)

	first, err := c.SPIRV(pc)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, uint32(0x07230203), first[0], "SPIR-V magic")

	again, err := c.SPIRV(g3d.NewStandardFormat(g3d.StdPC))
	require.NoError(t, err)
	assert.Equal(t, first, again)

	s := c.Stats()
	assert.Equal(t, 1, s.Len)
	assert.EqualValues(t, 1, s.Hits)
	assert.EqualValues(t, 1, s.Misses)
}

func TestCompilerDoesNotCacheFailures(t *testing.T) {
	c := NewCompiler(4)
	_, err := c.SPIRV(g3d.NewVertexFormat())
	require.Error(t, err)
	assert.Equal(t, 0, c.Stats().Len)
}
