// Package recording provides a g3d backend that records every call it
// receives instead of talking to a GPU.
//
// Commands are typed structs, so tests can assert on the exact sequence the
// device produced:
//
//	rec := recording.New()
//	dev := g3d.NewDevice(rec)
//	dev.UpdateState(true)
//	rec.Count(recording.CmdUpdateTransforms) // 1
//
// Vertex and index buffers keep their contents in memory, so data written
// through a MeshBuilder can be read back with VertexBuffer.Bytes.
// FailOn injects an error into a command type to exercise error paths.
package recording
