// Package g3d is a small 3D rendering engine core: a backend-agnostic
// graphics device that records state changes and commits them lazily.
//
// # Overview
//
// A [Device] holds transforms, a render state, the bound vertex and index
// buffers, a render target and a viewport. Setters only mark categories
// dirty. [Device.UpdateState] sends exactly the dirty categories to the
// [Backend] in a fixed order:
//
//	transforms -> render state -> vertex buffer -> index buffer -> render target -> viewport
//
// Draw calls reconcile pending state first, so application code never
// talks to the backend directly.
//
// # Quick Start
//
//	dev, err := graphics.CreateDevice() // see package backend
//	format := g3d.NewStandardFormat(g3d.StdPNC)
//	mesh, _ := g3d.NewMesh(dev, format, g3d.TriangleStrip, 4, g3d.LifetimeStatic)
//	b, _ := mesh.Builder()
//	b.Position(0, 0, 0).Normal(0, 0, 1).Color(g3d.White).Advance()
//	// ... five more vertices
//	b.Close()
//
//	dev.BeginFrame()
//	dev.Clear(g3d.ClearAll, g3d.Black, 1, 0)
//	mesh.Draw()
//	dev.EndFrame()
//
// # Backends
//
// Backends live in sub-packages: backend/opengl drives OpenGL 2.1 through
// go-gl, backend/wgpu drives the gogpu WebGPU HAL, and recording captures
// calls for tests.
//
// # Errors
//
// Unbalanced push/pop, unknown enums and writing past a mesh end panic.
// Backend failures are returned as [*BackendError] values classified by
// [ErrorKind]. Invalid texture target attachments surface as
// [ErrIncompleteTarget] when the target is selected.
package g3d
