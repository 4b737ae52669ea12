package g3d

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type applierLog struct {
	calls []string
	fail  string
}

var errApply = errors.New("apply failed")

func (l *applierLog) record(name string) error {
	l.calls = append(l.calls, name)
	if name == l.fail {
		return errApply
	}
	return nil
}

func (l *applierLog) ApplyColorMask(gputypes.ColorWriteMask) error { return l.record("mask") }
func (l *applierLog) ApplyDepthTest(bool) error                    { return l.record("test") }
func (l *applierLog) ApplyDepthWrite(bool) error                   { return l.record("write") }
func (l *applierLog) ApplyDepthCompare(gputypes.CompareFunction) error {
	return l.record("compare")
}
func (l *applierLog) ApplyDepthBias(int32) error  { return l.record("bias") }
func (l *applierLog) ApplyBlend(BlendState) error { return l.record("blend") }
func (l *applierLog) ApplyCull(CullState) error   { return l.record("cull") }

func TestApplyRenderState(t *testing.T) {
	base := DefaultRenderState()

	tests := []struct {
		name   string
		prev   *RenderState
		mutate func(*RenderState)
		want   []string
	}{
		{
			name:   "first application applies everything",
			prev:   nil,
			mutate: func(*RenderState) {},
			want:   []string{"mask", "test", "write", "compare", "bias", "blend", "cull"},
		},
		{
			name:   "unchanged applies nothing",
			prev:   &base,
			mutate: func(*RenderState) {},
			want:   nil,
		},
		{
			name:   "color mask only",
			prev:   &base,
			mutate: func(s *RenderState) { s.ColorMask = gputypes.ColorWriteMaskRed },
			want:   []string{"mask"},
		},
		{
			name: "depth write and bias",
			prev: &base,
			mutate: func(s *RenderState) {
				s.Depth.Write = false
				s.Depth.Bias = 2
			},
			want: []string{"write", "bias"},
		},
		{
			name:   "blend toggle",
			prev:   &base,
			mutate: func(s *RenderState) { *s = s.AlphaBlended() },
			want:   []string{"blend"},
		},
		{
			name:   "cull",
			prev:   &base,
			mutate: func(s *RenderState) { s.Cull.Mode = gputypes.CullModeBack },
			want:   []string{"cull"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := base
			tt.mutate(&next)
			var log applierLog
			n, err := ApplyRenderState(&log, tt.prev, next)
			require.NoError(t, err)
			assert.Equal(t, tt.want, log.calls)
			assert.Equal(t, len(tt.want), n)
		})
	}
}

func TestApplyRenderStateStopsAtFailure(t *testing.T) {
	log := applierLog{fail: "write"}
	n, err := ApplyRenderState(&log, nil, DefaultRenderState())
	require.ErrorIs(t, err, errApply)
	assert.Contains(t, err.Error(), "depth write")
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"mask", "test", "write"}, log.calls)
}

func TestDefaultRenderState(t *testing.T) {
	s := DefaultRenderState()
	assert.Equal(t, gputypes.ColorWriteMaskAll, s.ColorMask)
	assert.True(t, s.Depth.Enable)
	assert.True(t, s.Depth.Write)
	assert.Equal(t, gputypes.CompareFunctionLessEqual, s.Depth.Compare)
	assert.Zero(t, s.Depth.Bias)
	assert.False(t, s.Blend.Enable)
	assert.True(t, s.AlphaBlended().Blend.Enable)
}
