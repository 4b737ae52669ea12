// Package shader generates the vertex-colored, optionally lit shader that
// the wgpu backend uses for every draw, and compiles it with naga.
//
// The shader is specialized per vertex format: inputs are declared for the
// elements the format has, at the locations VertexFormat.Layout assigns.
// Formats with a normal get a fixed directional light; formats without a
// color element render white.
//
// Both stages read one uniform block at group 0, binding 0:
//
//	struct Transforms {
//	    mvp:   mat4x4<f32>, // projection * camera * model
//	    model: mat4x4<f32>,
//	}
package shader

import (
	"encoding/binary"
	"fmt"
	"strings"
	"text/template"

	"github.com/gogpu/g3d"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
)

// Entry points of the generated module.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// UniformSize is the size in bytes of the Transforms uniform block.
const UniformSize = 2 * 16 * 4

type input struct {
	Name     string
	Location int
	Type     string
}

type variant struct {
	Inputs   []input
	Position string // expression yielding vec4<f32>
	Color    string
	Normal   string // empty when unlit
}

var vecTypes = [...]string{"", "f32", "vec2<f32>", "vec3<f32>", "vec4<f32>"}

var moduleTemplate = template.Must(template.New("wgsl").Parse(`struct Transforms {
    mvp: mat4x4<f32>,
    model: mat4x4<f32>,
}

@group(0) @binding(0) var<uniform> transforms: Transforms;

struct VertexInput {
{{- range .Inputs}}
    @location({{.Location}}) {{.Name}}: {{.Type}},
{{- end}}
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = transforms.mvp * {{.Position}};
    var color = {{.Color}};
{{- if .Normal}}
    let n = normalize((transforms.model * vec4<f32>({{.Normal}}, 0.0)).xyz);
    let light = normalize(vec3<f32>(0.3, 1.0, 0.5));
    let shade = 0.25 + 0.75 * max(dot(n, light), 0.0);
    color = vec4<f32>(color.rgb * shade, color.a);
{{- end}}
    out.color = color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return in.color;
}
`))

// widen returns an expression extending a value with n components to
// vec4<f32>, filling missing components from tail.
func widen(expr string, n int, tail [3]string) string {
	switch n {
	case 1:
		return fmt.Sprintf("vec4<f32>(%s, %s, %s, %s)", expr, tail[0], tail[1], tail[2])
	case 2:
		return fmt.Sprintf("vec4<f32>(%s, %s, %s)", expr, tail[1], tail[2])
	case 3:
		return fmt.Sprintf("vec4<f32>(%s, %s)", expr, tail[2])
	}
	return expr
}

func newVariant(f *g3d.VertexFormat) (variant, error) {
	v := variant{Color: "vec4<f32>(1.0, 1.0, 1.0, 1.0)"}
	seen := map[g3d.Meaning]bool{}
	tex := 0
	for _, e := range f.Elements() {
		n := e.Type.Components()
		in := input{Type: vecTypes[n]}
		switch e.Meaning {
		case g3d.MeaningPosition:
			in.Name, in.Location = "position", g3d.LocationPosition
			v.Position = widen("in.position", n, [3]string{"0.0", "0.0", "1.0"})
		case g3d.MeaningNormal:
			in.Name, in.Location = "normal", g3d.LocationNormal
			switch n {
			case 3:
				v.Normal = "in.normal"
			case 4:
				v.Normal = "in.normal.xyz"
			}
		case g3d.MeaningColor:
			in.Name, in.Location = "color", g3d.LocationColor
			v.Color = widen("in.color", n, [3]string{"0.0", "0.0", "1.0"})
		case g3d.MeaningTexCoord:
			in.Name, in.Location = fmt.Sprintf("uv%d", tex), g3d.LocationTexCoord+tex
			tex++
		}
		if e.Meaning != g3d.MeaningTexCoord {
			if seen[e.Meaning] {
				return variant{}, fmt.Errorf("shader: format %s repeats %s", f, e.Meaning)
			}
			seen[e.Meaning] = true
		}
		v.Inputs = append(v.Inputs, in)
	}
	if v.Position == "" {
		return variant{}, fmt.Errorf("shader: format %q has no position", f.String())
	}
	return v, nil
}

// WGSL returns the shader module source for vertex format f.
func WGSL(f *g3d.VertexFormat) (string, error) {
	v, err := newVariant(f)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := moduleTemplate.Execute(&sb, v); err != nil {
		return "", fmt.Errorf("shader: %w", err)
	}
	return sb.String(), nil
}

// SPIRV compiles the shader for f to SPIR-V words.
func SPIRV(f *g3d.VertexFormat) ([]uint32, error) {
	src, err := WGSL(f)
	if err != nil {
		return nil, err
	}
	code, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("shader: compile %s: %w", f, err)
	}
	return Words(code), nil
}

// Words converts little-endian SPIR-V bytes to words. Trailing bytes that
// do not fill a word are dropped.
func Words(code []byte) []uint32 {
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words
}

// GLSL translates one entry point of the shader for f to GLSL 3.30.
func GLSL(f *g3d.VertexFormat, entry string) (string, error) {
	src, err := WGSL(f)
	if err != nil {
		return "", err
	}
	ast, err := naga.Parse(src)
	if err != nil {
		return "", fmt.Errorf("shader: parse %s: %w", f, err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return "", fmt.Errorf("shader: lower %s: %w", f, err)
	}
	opts := glsl.DefaultOptions()
	opts.EntryPoint = entry
	out, _, err := glsl.Compile(module, opts)
	if err != nil {
		return "", fmt.Errorf("shader: glsl %s %s: %w", f, entry, err)
	}
	return out, nil
}
