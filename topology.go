package g3d

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Topology is the primitive assembly mode of a draw.
type Topology uint8

const (
	Points Topology = iota
	Lines
	LineStrip
	LineLoop
	Triangles
	TriangleStrip
	TriangleFan
	Quads
	QuadStrip
	Polygon
)

var topologyNames = [...]string{
	Points:        "Points",
	Lines:         "Lines",
	LineStrip:     "LineStrip",
	LineLoop:      "LineLoop",
	Triangles:     "Triangles",
	TriangleStrip: "TriangleStrip",
	TriangleFan:   "TriangleFan",
	Quads:         "Quads",
	QuadStrip:     "QuadStrip",
	Polygon:       "Polygon",
}

// String returns the topology name.
func (t Topology) String() string {
	if int(t) < len(topologyNames) {
		return topologyNames[t]
	}
	return "Unknown"
}

// Valid reports whether t is a known topology.
func (t Topology) Valid() bool {
	return int(t) < len(topologyNames)
}

// VertexCount returns the number of vertices (or indices) needed to
// assemble n primitives. It panics on an unknown topology.
func (t Topology) VertexCount(n int) int {
	switch t {
	case Points, LineLoop, Polygon:
		return n
	case Lines:
		return 2 * n
	case LineStrip:
		return n + 1
	case Triangles:
		return 3 * n
	case TriangleStrip, TriangleFan:
		return n + 2
	case Quads:
		return 4 * n
	case QuadStrip:
		return 2 * (n + 1)
	}
	panic(fmt.Sprintf("g3d: unknown topology %d", t))
}

// GPU maps the topology onto the WebGPU vocabulary. Fans, loops, quads,
// quad strips and polygons have no WebGPU equivalent and report false.
func (t Topology) GPU() (gputypes.PrimitiveTopology, bool) {
	switch t {
	case Points:
		return gputypes.PrimitiveTopologyPointList, true
	case Lines:
		return gputypes.PrimitiveTopologyLineList, true
	case LineStrip:
		return gputypes.PrimitiveTopologyLineStrip, true
	case Triangles:
		return gputypes.PrimitiveTopologyTriangleList, true
	case TriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip, true
	}
	return 0, false
}
