// Command g3dshader prints the shader the wgpu backend generates for a
// vertex format, as WGSL, as GLSL 3.30 or as a SPIR-V size summary.
//
//	g3dshader -format pnc
//	g3dshader -format position:float2,color:byte4 -lang glsl -stage fragment
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/shader"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "g3dshader:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("g3dshader", flag.ContinueOnError)
	var (
		format = fs.String("format", "pnc", "vertex format: pc, pnc or meaning:type,...")
		lang   = fs.String("lang", "wgsl", "output language: wgsl, glsl or spirv")
		stage  = fs.String("stage", "vertex", "GLSL stage: vertex or fragment")
		output = fs.String("o", "", "write to this file instead of stdout")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := parseFormat(*format)
	if err != nil {
		return err
	}
	out, err := generate(f, *lang, *stage)
	if err != nil {
		return err
	}

	if *output == "" {
		_, err = io.WriteString(stdout, out)
		return err
	}
	return os.WriteFile(*output, []byte(out), 0o644)
}

func parseFormat(s string) (*g3d.VertexFormat, error) {
	switch s {
	case "pc":
		return g3d.NewStandardFormat(g3d.StdPC), nil
	case "pnc":
		return g3d.NewStandardFormat(g3d.StdPNC), nil
	}
	return g3d.ParseVertexFormat(s)
}

func generate(f *g3d.VertexFormat, lang, stage string) (string, error) {
	switch lang {
	case "wgsl":
		return shader.WGSL(f)
	case "glsl":
		entry := shader.VertexEntry
		switch stage {
		case "vertex":
		case "fragment":
			entry = shader.FragmentEntry
		default:
			return "", fmt.Errorf("unknown stage %q", stage)
		}
		return shader.GLSL(f, entry)
	case "spirv":
		words, err := shader.SPIRV(f)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("format:  %s\nwords:   %d\nbytes:   %d\nuniform: %d bytes\n",
			f, len(words), len(words)*4, shader.UniformSize), nil
	}
	return "", fmt.Errorf("unknown language %q", lang)
}
