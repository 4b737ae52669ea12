package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/cache"
	"github.com/gogpu/g3d/shader"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultPipelineCache is the default number of render pipelines a backend
// keeps before evicting the least recently used.
const DefaultPipelineCache = 64

// pipelineKey identifies a render pipeline. Everything WebGPU bakes into a
// pipeline is part of it.
type pipelineKey struct {
	format     string
	state      g3d.RenderState
	topology   gputypes.PrimitiveTopology
	stripIndex gputypes.IndexFormat
	color      [maxColorTargets]gputypes.TextureFormat
	depth      gputypes.TextureFormat
}

// pipelineCache builds render pipelines on demand. Shader modules are
// compiled once per vertex format and live as long as the cache.
type pipelineCache struct {
	device   hal.Device
	compiler *shader.Compiler

	uniformLayout hal.BindGroupLayout
	layout        hal.PipelineLayout

	mu        sync.Mutex
	modules   map[string]hal.ShaderModule
	pipelines *cache.LRU[pipelineKey, hal.RenderPipeline]
}

// newPipelineCache creates the shared layouts. Evicted pipelines are
// handed to g under the generation reported by gen.
func newPipelineCache(device hal.Device, compiler *shader.Compiler, capacity int, g *graveyard, gen func() uint64) (*pipelineCache, error) {
	uniformLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "g3d_transforms_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create uniform layout: %w", err)
	}
	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "g3d_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{uniformLayout},
	})
	if err != nil {
		device.DestroyBindGroupLayout(uniformLayout)
		return nil, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	c := &pipelineCache{
		device:        device,
		compiler:      compiler,
		uniformLayout: uniformLayout,
		layout:        layout,
		modules:       make(map[string]hal.ShaderModule),
	}
	// evicted pipelines may still be referenced by recorded commands
	c.pipelines = cache.New[pipelineKey, hal.RenderPipeline](capacity, func(_ pipelineKey, p hal.RenderPipeline) {
		g.bury(gen(), func() { device.DestroyRenderPipeline(p) })
	})
	return c, nil
}

// Len returns the number of cached pipelines.
func (c *pipelineCache) Len() int { return c.pipelines.Len() }

func (c *pipelineCache) get(key pipelineKey, f *g3d.VertexFormat) (hal.RenderPipeline, error) {
	return c.pipelines.GetOrCreate(key, func() (hal.RenderPipeline, error) {
		module, err := c.module(f)
		if err != nil {
			return nil, err
		}
		p, err := c.device.CreateRenderPipeline(pipelineDescriptor(key, f, c.layout, module))
		if err != nil {
			return nil, fmt.Errorf("wgpu: create pipeline for %s: %w", key.format, err)
		}
		g3d.Logger().Debug("wgpu: pipeline created", "format", key.format, "topology", key.topology)
		return p, nil
	})
}

func (c *pipelineCache) module(f *g3d.VertexFormat) (hal.ShaderModule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := f.String()
	if m, ok := c.modules[key]; ok {
		return m, nil
	}
	src, err := shader.WGSL(f)
	if err != nil {
		return nil, err
	}
	spirv, err := c.compiler.SPIRV(f)
	if err != nil {
		return nil, err
	}
	m, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "g3d_" + key,
		Source: hal.ShaderSource{WGSL: src, SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module for %s: %w", key, err)
	}
	c.modules[key] = m
	return m, nil
}

// pipelineDescriptor translates a key into a render pipeline description.
func pipelineDescriptor(key pipelineKey, f *g3d.VertexFormat, layout hal.PipelineLayout, module hal.ShaderModule) *hal.RenderPipelineDescriptor {
	s := key.state

	var blend *gputypes.BlendState
	if s.Blend.Enable {
		blend = &gputypes.BlendState{Color: s.Blend.Color, Alpha: s.Blend.Alpha}
	}
	var targets []gputypes.ColorTargetState
	for i, format := range key.color {
		if format == gputypes.TextureFormatUndefined {
			continue
		}
		t := gputypes.ColorTargetState{Format: format, Blend: blend, WriteMask: s.ColorMask}
		if i > 0 {
			// the shader only writes location 0
			t.WriteMask = gputypes.ColorWriteMaskNone
		}
		targets = append(targets, t)
	}

	desc := &hal.RenderPipelineDescriptor{
		Label:  "g3d_" + key.format,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: shader.VertexEntry,
			Buffers:    []gputypes.VertexBufferLayout{f.Layout()},
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: shader.FragmentEntry,
			Targets:    targets,
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  key.topology,
			FrontFace: s.Cull.FrontFace,
			CullMode:  s.Cull.Mode,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	}
	if key.stripIndex != gputypes.IndexFormatUndefined {
		format := key.stripIndex
		desc.Primitive.StripIndexFormat = &format
	}
	if key.depth != gputypes.TextureFormatUndefined {
		desc.DepthStencil = depthStencilState(s.Depth, key.depth)
	}
	return desc
}

// depthStencilState maps the depth block. A disabled depth test still has
// an attachment, so it becomes an always-pass compare without writes.
func depthStencilState(d g3d.DepthState, format gputypes.TextureFormat) *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	ds := &hal.DepthStencilState{
		Format:       format,
		DepthCompare: gputypes.CompareFunctionAlways,
		StencilFront: keep,
		StencilBack:  keep,
	}
	if d.Enable {
		ds.DepthWriteEnabled = d.Write
		ds.DepthCompare = d.Compare
	}
	if d.Bias != 0 {
		ds.DepthBias = d.Bias
		ds.DepthBiasSlopeScale = float32(d.Bias)
	}
	return ds
}

// purge evicts every pipeline.
func (c *pipelineCache) purge() { c.pipelines.Purge() }

// destroy releases the shader modules and layouts. Pipelines must have been
// purged and destroyed first.
func (c *pipelineCache) destroy() {
	c.mu.Lock()
	for k, m := range c.modules {
		c.device.DestroyShaderModule(m)
		delete(c.modules, k)
	}
	c.mu.Unlock()
	c.device.DestroyPipelineLayout(c.layout)
	c.device.DestroyBindGroupLayout(c.uniformLayout)
}
