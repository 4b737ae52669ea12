package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWGSL(t *testing.T) {
	tests := []struct {
		format string
		want   []string
		absent []string
	}{
		{"pc", []string{"@location(0) position: vec3<f32>", "@location(2) color: vec4<f32>"}, []string{"normal"}},
		{"pnc", []string{"@location(1) normal: vec3<f32>", "let shade"}, nil},
		{"position:float2", []string{"vec4<f32>(in.position, 0.0, 1.0)", "var color = vec4<f32>(1.0, 1.0, 1.0, 1.0);"}, []string{"@location(2)", "normal"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, run([]string{"-format", tt.format}, &out))
			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
			for _, w := range tt.absent {
				assert.NotContains(t, out.String(), w)
			}
		})
	}
}

func TestRunSPIRVSummary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-format", "pc", "-lang", "spirv"}, &out))
	assert.Contains(t, out.String(), "format:  position:float3,color:float4\n")
	assert.Contains(t, out.String(), "uniform: 128 bytes\n")
}

func TestRunWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pnc.wgsl")
	var out bytes.Buffer
	require.NoError(t, run([]string{"-o", path}, &out))
	assert.Zero(t, out.Len())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fn vs_main")
}

func TestRunErrors(t *testing.T) {
	tests := [][]string{
		{"-format", "normal:float3"},
		{"-format", "position:float9"},
		{"-lang", "hlsl"},
		{"-lang", "glsl", "-stage", "geometry"},
		{"-bogus"},
	}
	for _, args := range tests {
		var out bytes.Buffer
		assert.Error(t, run(args, &out), "%v", args)
	}
}
