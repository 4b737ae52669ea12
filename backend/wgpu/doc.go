// Package wgpu implements the g3d backend on the gogpu/wgpu hardware
// abstraction layer (Vulkan, Metal, DX12, GLES, or the noop device in
// tests).
//
// WebGPU has no fixed-function state, so the backend folds the render
// state, vertex format, primitive topology and attachment formats into a
// pipeline key and builds one render pipeline per distinct key, caching
// them in an LRU. Every draw carries its own uniform block holding the
// combined transform and the model matrix.
//
// Commands are recorded into a command encoder and submitted when the frame
// ends, when a window target is presented, or before a buffer that was
// already drawn from in the pending submission is rewritten. Resources
// released while work is in flight are destroyed once the queue reports the
// submission complete.
//
// Topologies without a WebGPU equivalent (fans, loops, quads, quad strips
// and polygons) return g3d.ErrUnsupported. Mip chains of texture targets
// are not regenerated.
//
// Importing the package registers the adapter under backend.NameWGPU.
// Programs must also import the hal backends they want, typically
// github.com/gogpu/wgpu/hal/allbackends.
package wgpu
