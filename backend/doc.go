// Package backend connects g3d devices to native graphics APIs.
//
// An Adapter creates devices for one API. Adapter packages register a
// factory under their name when imported:
//
//	import _ "github.com/gogpu/g3d/backend/opengl"
//
//	a := backend.Get("opengl")
//
// The Graphics subsystem holds the adapter an application chose. Exactly
// one adapter must be registered with it by the end of startup; PostInit
// reports ErrNoAdapter or ErrMultipleAdapters otherwise.
//
// Sub-packages:
//
//   - opengl: fixed-function OpenGL 2.1 through go-gl, rendering into the
//     current context of a window.
//   - wgpu: WebGPU HAL through gogpu/wgpu with WGSL shaders compiled by
//     naga. Runs headless on the noop HAL backend.
package backend
