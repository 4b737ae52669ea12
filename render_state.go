package g3d

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// DepthState is the depth test block of a RenderState.
type DepthState struct {
	Enable  bool
	Write   bool
	Compare gputypes.CompareFunction
	// Bias is applied as both slope factor and units. Zero disables it.
	Bias int32
}

// BlendState enables blending with a WebGPU blend description.
type BlendState struct {
	Enable bool
	Color  gputypes.BlendComponent
	Alpha  gputypes.BlendComponent
}

// CullState selects face culling.
type CullState struct {
	Mode      gputypes.CullMode
	FrontFace gputypes.FrontFace
}

// RenderState is the fixed-function state of a draw. It is a comparable
// value; the device diffs it field by field against the last committed
// state.
type RenderState struct {
	ColorMask gputypes.ColorWriteMask
	Depth     DepthState
	Blend     BlendState
	Cull      CullState
}

// DefaultRenderState writes all channels, tests and writes depth with
// less-or-equal, and disables bias, blending and culling.
func DefaultRenderState() RenderState {
	replace := gputypes.BlendStateReplace()
	return RenderState{
		ColorMask: gputypes.ColorWriteMaskAll,
		Depth: DepthState{
			Enable:  true,
			Write:   true,
			Compare: gputypes.CompareFunctionLessEqual,
		},
		Blend: BlendState{Color: replace.Color, Alpha: replace.Alpha},
		Cull:  CullState{Mode: gputypes.CullModeNone, FrontFace: gputypes.FrontFaceCCW},
	}
}

// AlphaBlended returns s with standard straight-alpha blending enabled.
func (s RenderState) AlphaBlended() RenderState {
	b := gputypes.BlendStateAlpha()
	s.Blend = BlendState{Enable: true, Color: b.Color, Alpha: b.Alpha}
	return s
}

// StateApplier receives render state changes. Backends implement it; the
// device decides which methods to call. Each method reports the native
// failure of its own change.
type StateApplier interface {
	ApplyColorMask(mask gputypes.ColorWriteMask) error
	ApplyDepthTest(enable bool) error
	ApplyDepthWrite(enable bool) error
	ApplyDepthCompare(fn gputypes.CompareFunction) error
	ApplyDepthBias(bias int32) error
	ApplyBlend(b BlendState) error
	ApplyCull(c CullState) error
}

// ApplyRenderState sends next to a. With prev nil every field is applied,
// otherwise only the fields that differ from *prev. It returns the number
// of applier calls made and stops at the first failing call.
func ApplyRenderState(a StateApplier, prev *RenderState, next RenderState) (int, error) {
	all := prev == nil
	if all {
		prev = &RenderState{}
	}
	steps := []struct {
		changed bool
		what    string
		apply   func() error
	}{
		{prev.ColorMask != next.ColorMask, "color mask", func() error { return a.ApplyColorMask(next.ColorMask) }},
		{prev.Depth.Enable != next.Depth.Enable, "depth test", func() error { return a.ApplyDepthTest(next.Depth.Enable) }},
		{prev.Depth.Write != next.Depth.Write, "depth write", func() error { return a.ApplyDepthWrite(next.Depth.Write) }},
		{prev.Depth.Compare != next.Depth.Compare, "depth compare", func() error { return a.ApplyDepthCompare(next.Depth.Compare) }},
		{prev.Depth.Bias != next.Depth.Bias, "depth bias", func() error { return a.ApplyDepthBias(next.Depth.Bias) }},
		{prev.Blend != next.Blend, "blend", func() error { return a.ApplyBlend(next.Blend) }},
		{prev.Cull != next.Cull, "cull", func() error { return a.ApplyCull(next.Cull) }},
	}
	calls := 0
	for _, st := range steps {
		if !all && !st.changed {
			continue
		}
		calls++
		if err := st.apply(); err != nil {
			return calls, fmt.Errorf("%s: %w", st.what, err)
		}
	}
	return calls, nil
}
