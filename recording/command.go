package recording

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
)

// CommandType identifies a recorded backend call.
type CommandType uint8

const (
	// Reconciliation
	CmdUpdateTransforms CommandType = iota
	CmdColorMask
	CmdDepthTest
	CmdDepthWrite
	CmdDepthCompare
	CmdDepthBias
	CmdBlend
	CmdCull
	CmdSelectVertexBuffer
	CmdDeselectVertexBuffer
	CmdSelectIndexBuffer
	CmdDeselectIndexBuffer
	CmdApplyTarget
	CmdSelectTarget
	CmdDeselectTarget
	CmdResolveTarget
	CmdViewport

	// Drawing
	CmdDraw
	CmdDrawIndexed
	CmdClear

	// Frame
	CmdBeginFrame
	CmdEndFrame
	CmdPresent
)

var commandTypeNames = [...]string{
	CmdUpdateTransforms:     "UpdateTransforms",
	CmdColorMask:            "ColorMask",
	CmdDepthTest:            "DepthTest",
	CmdDepthWrite:           "DepthWrite",
	CmdDepthCompare:         "DepthCompare",
	CmdDepthBias:            "DepthBias",
	CmdBlend:                "Blend",
	CmdCull:                 "Cull",
	CmdSelectVertexBuffer:   "SelectVertexBuffer",
	CmdDeselectVertexBuffer: "DeselectVertexBuffer",
	CmdSelectIndexBuffer:    "SelectIndexBuffer",
	CmdDeselectIndexBuffer:  "DeselectIndexBuffer",
	CmdApplyTarget:          "ApplyTarget",
	CmdSelectTarget:         "SelectTarget",
	CmdDeselectTarget:       "DeselectTarget",
	CmdResolveTarget:        "ResolveTarget",
	CmdViewport:             "Viewport",
	CmdDraw:                 "Draw",
	CmdDrawIndexed:          "DrawIndexed",
	CmdClear:                "Clear",
	CmdBeginFrame:           "BeginFrame",
	CmdEndFrame:             "EndFrame",
	CmdPresent:              "Present",
}

// String returns the command name.
func (t CommandType) String() string {
	if int(t) < len(commandTypeNames) {
		return commandTypeNames[t]
	}
	return "Unknown"
}

// Command is a recorded backend call.
type Command interface {
	Type() CommandType
}

// UpdateTransformsCommand records the matrices sent to the backend.
type UpdateTransformsCommand struct {
	Model, Camera, Projection mgl32.Mat4
}

func (UpdateTransformsCommand) Type() CommandType { return CmdUpdateTransforms }

type ColorMaskCommand struct{ Mask gputypes.ColorWriteMask }

func (ColorMaskCommand) Type() CommandType { return CmdColorMask }

type DepthTestCommand struct{ Enable bool }

func (DepthTestCommand) Type() CommandType { return CmdDepthTest }

type DepthWriteCommand struct{ Enable bool }

func (DepthWriteCommand) Type() CommandType { return CmdDepthWrite }

type DepthCompareCommand struct{ Func gputypes.CompareFunction }

func (DepthCompareCommand) Type() CommandType { return CmdDepthCompare }

type DepthBiasCommand struct{ Bias int32 }

func (DepthBiasCommand) Type() CommandType { return CmdDepthBias }

type BlendCommand struct{ Blend g3d.BlendState }

func (BlendCommand) Type() CommandType { return CmdBlend }

type CullCommand struct{ Cull g3d.CullState }

func (CullCommand) Type() CommandType { return CmdCull }

// BufferCommand records selection changes of a vertex or index buffer.
type BufferCommand struct {
	Cmd CommandType
	ID  int
}

func (c BufferCommand) Type() CommandType { return c.Cmd }

// TargetCommand records apply, select, deselect, resolve and present of a
// render target.
type TargetCommand struct {
	Cmd CommandType
	ID  int
}

func (c TargetCommand) Type() CommandType { return c.Cmd }

type ViewportCommand struct{ Rect image.Rectangle }

func (ViewportCommand) Type() CommandType { return CmdViewport }

// DrawCommand records a non-indexed draw. Count is in vertices.
type DrawCommand struct {
	Topology g3d.Topology
	Start    int
	Count    int
	Buffer   int
}

func (DrawCommand) Type() CommandType { return CmdDraw }

// DrawIndexedCommand records an indexed draw. Count is in indices.
type DrawIndexedCommand struct {
	Topology   g3d.Topology
	BaseVertex int
	Start      int
	Count      int
	Buffer     int
}

func (DrawIndexedCommand) Type() CommandType { return CmdDrawIndexed }

type ClearCommand struct {
	Flags   g3d.ClearFlags
	Color   g3d.Color
	Depth   float32
	Stencil uint32
}

func (ClearCommand) Type() CommandType { return CmdClear }

// FrameCommand records BeginFrame and EndFrame.
type FrameCommand struct{ Cmd CommandType }

func (c FrameCommand) Type() CommandType { return c.Cmd }
