package g3d_test

import (
	"encoding/binary"
	"errors"
	"image"
	"math"
	"runtime"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/recording"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newClean returns a device whose initial state has already been committed.
func newClean(t *testing.T) (*g3d.Device, *recording.Backend) {
	t.Helper()
	rec := recording.New()
	dev := g3d.NewDevice(rec, g3d.WithViewport(image.Rect(0, 0, 800, 600)))
	require.NoError(t, dev.UpdateState(false))
	require.Zero(t, dev.Dirty())
	rec.Reset()
	return dev, rec
}

func newVB(t *testing.T, dev *g3d.Device, n int) g3d.VertexBuffer {
	t.Helper()
	vb, err := dev.NewVertexBuffer(g3d.NewStandardFormat(g3d.StdPC), n, g3d.LifetimeStatic)
	require.NoError(t, err)
	return vb
}

func TestNewDeviceStartsDirty(t *testing.T) {
	rec := recording.New()
	dev := g3d.NewDevice(rec)
	assert.Equal(t, g3d.DirtyAll, dev.Dirty())

	require.NoError(t, dev.UpdateState(false))
	assert.Equal(t, []recording.CommandType{
		recording.CmdUpdateTransforms,
		recording.CmdColorMask,
		recording.CmdDepthTest,
		recording.CmdDepthWrite,
		recording.CmdDepthCompare,
		recording.CmdDepthBias,
		recording.CmdBlend,
		recording.CmdCull,
		recording.CmdViewport,
	}, rec.Types())
}

func TestModelStackIdentity(t *testing.T) {
	dev, _ := newClean(t)
	base := mgl32.Translate3D(1, 2, 3)
	dev.SetModelTransform(base)

	for depth := 1; depth < g3d.MaxModelStack; depth++ {
		t.Run("", func(t *testing.T) {
			for i := 0; i < depth; i++ {
				top := dev.ModelTransform()
				dev.PushModelTransform()
				assert.Equal(t, top, dev.ModelTransform())
				dev.MulModelTransform(mgl32.Scale3D(2, 2, 2))
			}
			for i := 0; i < depth; i++ {
				dev.PopModelTransform()
			}
			assert.Equal(t, base, dev.ModelTransform())
			assert.Zero(t, dev.ModelDepth())
		})
	}
}

func TestModelStackBounds(t *testing.T) {
	dev, _ := newClean(t)
	assert.PanicsWithValue(t, "g3d: model transform stack underflow", dev.PopModelTransform)

	for i := 0; i < g3d.MaxModelStack-1; i++ {
		dev.PushModelTransform()
	}
	before := dev.Dirty()
	assert.PanicsWithValue(t, "g3d: model transform stack overflow", dev.PushModelTransform)
	assert.Equal(t, before, dev.Dirty(), "overflow must not mark dirty")
}

func TestPushDoesNotDirtyPopDoes(t *testing.T) {
	dev, _ := newClean(t)
	dev.PushModelTransform()
	assert.Zero(t, dev.Dirty())
	dev.PopModelTransform()
	assert.Equal(t, g3d.DirtyModel|g3d.DirtyAny, dev.Dirty())
}

func TestUpdateStateCleanIsNoop(t *testing.T) {
	dev, rec := newClean(t)
	require.NoError(t, dev.UpdateState(false))
	assert.Empty(t, rec.Commands())
}

func TestUpdateStateForceReconcilesAll(t *testing.T) {
	dev, rec := newClean(t)
	surface := &recording.Surface{W: 800, H: 600}
	win, err := dev.NewWindowTarget(surface)
	require.NoError(t, err)
	ib, err := dev.NewIndexBuffer(gputypes.IndexFormatUint16, 6, g3d.LifetimeStatic)
	require.NoError(t, err)

	dev.SetVertexBuffer(newVB(t, dev, 3))
	dev.SetIndexBuffer(ib)
	dev.SetRenderTarget(win)
	require.NoError(t, dev.UpdateState(false))
	rec.Reset()

	require.NoError(t, dev.UpdateState(true))
	assert.Zero(t, dev.Dirty())
	assert.Equal(t, []recording.CommandType{
		recording.CmdUpdateTransforms,
		recording.CmdColorMask,
		recording.CmdDepthTest,
		recording.CmdDepthWrite,
		recording.CmdDepthCompare,
		recording.CmdDepthBias,
		recording.CmdBlend,
		recording.CmdCull,
		recording.CmdSelectVertexBuffer,
		recording.CmdSelectIndexBuffer,
		recording.CmdSelectTarget,
		recording.CmdViewport,
	}, rec.Types())
}

func TestUpdateStateOrder(t *testing.T) {
	dev, rec := newClean(t)
	win, err := dev.NewWindowTarget(&recording.Surface{W: 1, H: 1})
	require.NoError(t, err)

	// Set in reverse order; reconciliation order is fixed.
	dev.SetViewport(image.Rect(0, 0, 10, 10))
	dev.SetRenderTarget(win)
	dev.SetVertexBuffer(newVB(t, dev, 1))
	dev.SetRenderState(dev.RenderState().AlphaBlended())
	dev.SetCameraTransform(mgl32.Translate3D(0, -6, 0))

	require.NoError(t, dev.UpdateState(false))
	assert.Equal(t, []recording.CommandType{
		recording.CmdUpdateTransforms,
		recording.CmdBlend,
		recording.CmdSelectVertexBuffer,
		recording.CmdSelectTarget,
		recording.CmdViewport,
	}, rec.Types())
}

func TestSetVertexBufferIdempotent(t *testing.T) {
	dev, rec := newClean(t)
	vb := newVB(t, dev, 3)

	dev.SetVertexBuffer(vb)
	flags := dev.Dirty()
	dev.SetVertexBuffer(vb)
	assert.Equal(t, flags, dev.Dirty())

	require.NoError(t, dev.UpdateState(false))
	dev.SetVertexBuffer(vb)
	assert.Zero(t, dev.Dirty())
	assert.Equal(t, 1, rec.Count(recording.CmdSelectVertexBuffer))
	assert.Zero(t, rec.Count(recording.CmdDeselectVertexBuffer))
}

func TestSetVertexBufferLastPendingWins(t *testing.T) {
	dev, rec := newClean(t)
	a, b, c := newVB(t, dev, 1), newVB(t, dev, 1), newVB(t, dev, 1)

	dev.SetVertexBuffer(a)
	require.NoError(t, dev.UpdateState(false))
	rec.Reset()

	// b is replaced before it is ever committed: it is neither selected nor
	// deselected, and a is deselected exactly once.
	dev.SetVertexBuffer(b)
	dev.SetVertexBuffer(c)
	require.NoError(t, dev.UpdateState(false))

	id := func(v g3d.VertexBuffer) int { return v.(*recording.VertexBuffer).ID() }
	assert.Equal(t, []recording.Command{
		recording.BufferCommand{Cmd: recording.CmdDeselectVertexBuffer, ID: id(a)},
		recording.BufferCommand{Cmd: recording.CmdSelectVertexBuffer, ID: id(c)},
	}, rec.Commands())
}

func TestDeselectIndexBuffer(t *testing.T) {
	dev, rec := newClean(t)
	ib, err := dev.NewIndexBuffer(gputypes.IndexFormatUint16, 3, g3d.LifetimeStatic)
	require.NoError(t, err)

	// Pending only: dropped without a backend call.
	dev.SetIndexBuffer(ib)
	require.NoError(t, dev.DeselectIndexBuffer(ib))
	assert.Nil(t, dev.IndexBuffer())
	require.NoError(t, dev.UpdateState(false))
	assert.Zero(t, rec.Count(recording.CmdSelectIndexBuffer))

	// Committed: deselected at once.
	dev.SetIndexBuffer(ib)
	require.NoError(t, dev.UpdateState(false))
	require.NoError(t, dev.DeselectIndexBuffer(ib))
	assert.Equal(t, 1, rec.Count(recording.CmdDeselectIndexBuffer))
	assert.Zero(t, dev.Dirty())

	// Another buffer is left alone.
	require.NoError(t, dev.DeselectIndexBuffer(nil))
	assert.Equal(t, 1, rec.Count(recording.CmdDeselectIndexBuffer))
}

func TestRenderTargetPushPop(t *testing.T) {
	dev, rec := newClean(t)
	win, err := dev.NewWindowTarget(&recording.Surface{W: 4, H: 4})
	require.NoError(t, err)
	tt, err := dev.NewTextureTarget()
	require.NoError(t, err)
	color, err := dev.NewTexture(g3d.TextureDescriptor{Width: 4, Height: 4})
	require.NoError(t, err)
	tt.Attach(g3d.SlotColor0, color, 0, 0)

	dev.SetRenderTarget(win)
	require.NoError(t, dev.UpdateState(false))

	dev.PushRenderTarget()
	dev.SetRenderTarget(tt)
	require.NoError(t, dev.UpdateState(false))
	assert.Same(t, tt, dev.RenderTarget())

	dev.PopRenderTarget()
	assert.Same(t, win, dev.RenderTarget())
	require.NoError(t, dev.UpdateState(false))
	assert.Equal(t, 3, dev.Stats().TargetChanges)
	assert.Equal(t, 2, rec.Count(recording.CmdDeselectTarget))

	assert.PanicsWithValue(t, "g3d: render target stack underflow", dev.PopRenderTarget)
}

func TestRenderTargetFromOtherDevicePanics(t *testing.T) {
	dev, _ := newClean(t)
	other, _ := newClean(t)
	win, err := other.NewWindowTarget(&recording.Surface{W: 1, H: 1})
	require.NoError(t, err)
	assert.Panics(t, func() { dev.SetRenderTarget(win) })
	runtime.KeepAlive(other)
}

func TestRenderStatePushPopRestores(t *testing.T) {
	dev, rec := newClean(t)
	orig := dev.RenderState()

	dev.PushRenderState()
	s := orig
	s.ColorMask = gputypes.ColorWriteMaskRed | gputypes.ColorWriteMaskAlpha
	s.Depth = g3d.DepthState{Enable: false, Write: false, Compare: gputypes.CompareFunctionGreater, Bias: 3}
	dev.SetRenderState(s)
	require.NoError(t, dev.UpdateState(false))

	dev.PopRenderState()
	assert.Equal(t, orig, dev.RenderState())
	rec.Reset()
	require.NoError(t, dev.UpdateState(false))

	assert.Equal(t, []recording.Command{
		recording.ColorMaskCommand{Mask: orig.ColorMask},
		recording.DepthTestCommand{Enable: true},
		recording.DepthWriteCommand{Enable: true},
		recording.DepthCompareCommand{Func: gputypes.CompareFunctionLessEqual},
		recording.DepthBiasCommand{Bias: 0},
	}, rec.Commands())

	assert.PanicsWithValue(t, "g3d: render state stack underflow", dev.PopRenderState)
}

func TestTextureTargetDeferredValidation(t *testing.T) {
	tex := func(t *testing.T, dev *g3d.Device, w, h, mips int) g3d.Texture {
		t.Helper()
		x, err := dev.NewTexture(g3d.TextureDescriptor{Width: w, Height: h, MipLevels: mips})
		require.NoError(t, err)
		return x
	}

	t.Run("depth before matching color succeeds", func(t *testing.T) {
		dev, rec := newClean(t)
		tt, err := dev.NewTextureTarget()
		require.NoError(t, err)
		tt.Attach(g3d.SlotDepthStencil, tex(t, dev, 64, 64, 1), 0, 0)
		tt.Attach(g3d.SlotColor0, tex(t, dev, 64, 64, 1), 0, 0)
		assert.True(t, tt.Changes().Pending())

		dev.SetRenderTarget(tt)
		require.NoError(t, dev.UpdateState(false))
		assert.False(t, tt.Changes().Pending())
		assert.True(t, tt.Selected())
		assert.Equal(t, 1, rec.Count(recording.CmdApplyTarget))
	})

	t.Run("mismatched sizes fail at select", func(t *testing.T) {
		dev, rec := newClean(t)
		tt, err := dev.NewTextureTarget()
		require.NoError(t, err)
		tt.Attach(g3d.SlotColor0, tex(t, dev, 64, 64, 1), 0, 0)
		tt.Attach(g3d.SlotDepthStencil, tex(t, dev, 32, 64, 1), 0, 0)

		dev.SetRenderTarget(tt)
		err = dev.UpdateState(false)
		assert.ErrorIs(t, err, g3d.ErrIncompleteTarget)
		assert.NotZero(t, dev.Dirty()&g3d.DirtyRenderTarget)
		assert.Zero(t, rec.Count(recording.CmdApplyTarget))
	})

	t.Run("depth without color fails", func(t *testing.T) {
		dev, _ := newClean(t)
		tt, err := dev.NewTextureTarget()
		require.NoError(t, err)
		tt.Attach(g3d.SlotDepthStencil, tex(t, dev, 8, 8, 1), 0, 0)
		dev.SetRenderTarget(tt)
		assert.ErrorIs(t, dev.UpdateState(false), g3d.ErrIncompleteTarget)
	})

	t.Run("mipmapped color resolves on deselect", func(t *testing.T) {
		dev, rec := newClean(t)
		tt, err := dev.NewTextureTarget()
		require.NoError(t, err)
		tt.Attach(g3d.SlotColor0, tex(t, dev, 16, 16, 5), 0, 0)
		dev.SetRenderTarget(tt)
		require.NoError(t, dev.UpdateState(false))

		dev.SetRenderTarget(nil)
		require.NoError(t, dev.UpdateState(false))
		assert.Equal(t, 1, rec.Count(recording.CmdResolveTarget))
		assert.False(t, tt.Selected())
	})
}

func TestEndToEndMeshDraw(t *testing.T) {
	dev, rec := newClean(t)
	format := g3d.NewVertexFormat().
		AddElement(g3d.MeaningPosition, g3d.Float3).
		AddElement(g3d.MeaningNormal, g3d.Float3).
		AddElement(g3d.MeaningColor, g3d.Byte4)
	require.Equal(t, 28, format.Size())

	mesh, err := g3d.NewMesh(dev, format, g3d.TriangleStrip, 4, g3d.LifetimeStatic)
	require.NoError(t, err)
	require.Equal(t, 6, mesh.VertexCount())
	assert.True(t, format.Frozen())

	b, err := mesh.Builder()
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		b.Position(float32(i), float32(i%2), 0).Normal(0, 0, 1).Color(g3d.RGB(1, 0, 0)).Advance()
	}
	require.NoError(t, b.Close())
	assert.Panics(t, func() { b.Position(0, 0, 0) })

	require.NoError(t, dev.BeginFrame())
	require.NoError(t, mesh.Draw())
	require.NoError(t, dev.EndFrame())

	assert.Equal(t, 1, rec.Count(recording.CmdDraw))
	cmd, ok := rec.Last(recording.CmdDraw)
	require.True(t, ok)
	draw := cmd.(recording.DrawCommand)
	assert.Equal(t, g3d.TriangleStrip, draw.Topology)
	assert.Equal(t, 6, draw.Count)
	assert.Equal(t, 0, draw.Start)

	assert.Equal(t, g3d.Stats{PolyCount: 4, DrawCalls: 1}, dev.Stats())
	assert.Nil(t, dev.VertexBuffer(), "mesh draw deselects its buffer")
	assert.Equal(t, 1, rec.Count(recording.CmdDeselectVertexBuffer))

	data := mesh.VertexBuffer().(*recording.VertexBuffer).Bytes()
	x := math.Float32frombits(binary.LittleEndian.Uint32(data[28*5:]))
	assert.Equal(t, float32(5), x)
	assert.Equal(t, []byte{255, 0, 0, 255}, data[28*5+24:28*5+28])
}

func TestMeshBuilderLockedBufferCannotDraw(t *testing.T) {
	dev, _ := newClean(t)
	mesh, err := g3d.NewMesh(dev, g3d.NewStandardFormat(g3d.StdPC), g3d.Triangles, 1, g3d.LifetimeDynamic)
	require.NoError(t, err)
	b, err := mesh.Builder()
	require.NoError(t, err)

	_, err = mesh.Builder()
	assert.ErrorIs(t, err, g3d.ErrAlreadyLocked)
	assert.ErrorIs(t, mesh.Draw(), g3d.ErrBufferMapped)

	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Close(), g3d.ErrNotLocked)
}

func TestBeginFrameResetsStats(t *testing.T) {
	dev, rec := newClean(t)
	require.NoError(t, dev.FillRect(mgl32.Vec2{0, 0}, mgl32.Vec2{10, 10}, g3d.White))
	assert.Equal(t, 1, dev.Stats().DrawCalls)

	dev.SetViewport(image.Rect(0, 0, 100, 100))
	rec.Reset()
	require.NoError(t, dev.BeginFrame())
	assert.Equal(t, g3d.Stats{}, dev.Stats())
	assert.Equal(t, []recording.CommandType{recording.CmdViewport, recording.CmdBeginFrame}, rec.Types())
	assert.True(t, rec.InFrame())

	require.NoError(t, dev.EndFrame())
	assert.False(t, rec.InFrame())
}

func TestImmediateMode(t *testing.T) {
	tests := []struct {
		name  string
		draw  func(*g3d.Device) error
		topo  g3d.Topology
		count int
		polys int
	}{
		{"DrawRect", func(d *g3d.Device) error {
			return d.DrawRect(mgl32.Vec2{10, 10}, mgl32.Vec2{50, 40}, g3d.White)
		}, g3d.TriangleStrip, 10, 8},
		{"FillRect", func(d *g3d.Device) error {
			return d.FillRect(mgl32.Vec2{10, 10}, mgl32.Vec2{50, 40}, g3d.White)
		}, g3d.TriangleStrip, 4, 2},
		{"DrawLine", func(d *g3d.Device) error {
			return d.DrawLine(mgl32.Vec2{0, 0}, mgl32.Vec2{5, 5}, g3d.Black)
		}, g3d.Lines, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, rec := newClean(t)
			require.NoError(t, tt.draw(dev))
			cmd, ok := rec.Last(recording.CmdDraw)
			require.True(t, ok)
			assert.Equal(t, tt.topo, cmd.(recording.DrawCommand).Topology)
			assert.Equal(t, tt.count, cmd.(recording.DrawCommand).Count)
			assert.Equal(t, tt.polys, dev.Stats().PolyCount)
			assert.Nil(t, dev.VertexBuffer())
		})
	}
}

func TestImmediateModeDrawErrorDeselects(t *testing.T) {
	dev, rec := newClean(t)
	boom := errors.New("boom")
	rec.FailOn(recording.CmdDraw, boom)
	require.ErrorIs(t, dev.FillRect(mgl32.Vec2{0, 0}, mgl32.Vec2{4, 4}, g3d.White), boom)
	assert.Nil(t, dev.VertexBuffer())
	assert.Equal(t, 1, rec.Count(recording.CmdDeselectVertexBuffer))

	rec.FailOn(recording.CmdDraw, nil)
	require.NoError(t, dev.FillRect(mgl32.Vec2{0, 0}, mgl32.Vec2{4, 4}, g3d.White))
	assert.Equal(t, 2, rec.Count(recording.CmdDeselectVertexBuffer), "only the second buffer is deselected")
	assert.Equal(t, 2, rec.Count(recording.CmdSelectVertexBuffer))
}

func TestStandardFormatCached(t *testing.T) {
	dev, _ := newClean(t)
	assert.Same(t, dev.StandardFormat(g3d.StdPC), dev.StandardFormat(g3d.StdPC))
	assert.NotSame(t, dev.StandardFormat(g3d.StdPC), dev.StandardFormat(g3d.StdPNC))
}

func TestIndexedDraw(t *testing.T) {
	dev, rec := newClean(t)
	vb := newVB(t, dev, 4)
	ib, err := dev.NewIndexBuffer(gputypes.IndexFormatUint16, 6, g3d.LifetimeStatic)
	require.NoError(t, err)

	dev.SetVertexBuffer(vb)
	assert.ErrorIs(t, dev.DrawIndexedPrimitive(g3d.Triangles, 0, 0, 2), recording.ErrNoIndexBuffer)

	dev.SetIndexBuffer(ib)
	require.NoError(t, dev.DrawIndexedPrimitive(g3d.Triangles, 0, 0, 2))
	cmd, ok := rec.Last(recording.CmdDrawIndexed)
	require.True(t, ok)
	assert.Equal(t, 6, cmd.(recording.DrawIndexedCommand).Count)

	assert.ErrorIs(t, dev.DrawIndexedPrimitive(g3d.Triangles, 0, 0, 3), recording.ErrOutOfRange)
}

func TestBackendErrorLeavesCategoryDirty(t *testing.T) {
	dev, rec := newClean(t)
	boom := errors.New("boom")
	rec.FailOn(recording.CmdUpdateTransforms, boom)

	dev.SetProjectionTransform(mgl32.Perspective(mgl32.DegToRad(75), 4.0/3.0, 0.1, 100))
	dev.SetViewport(image.Rect(0, 0, 1, 1))
	assert.ErrorIs(t, dev.UpdateState(false), boom)
	assert.NotZero(t, dev.Dirty()&g3d.DirtyProjection)
	assert.NotZero(t, dev.Dirty()&g3d.DirtyViewport)

	rec.FailOn(recording.CmdUpdateTransforms, nil)
	require.NoError(t, dev.UpdateState(false))
	assert.Zero(t, dev.Dirty())
}

func TestRenderStateErrorLeavesStateDirty(t *testing.T) {
	dev, rec := newClean(t)
	boom := errors.New("boom")
	rec.FailOn(recording.CmdColorMask, boom)

	s := dev.RenderState()
	s.ColorMask = gputypes.ColorWriteMaskRed
	s.Cull.Mode = gputypes.CullModeBack
	dev.SetRenderState(s)
	dev.SetViewport(image.Rect(0, 0, 1, 1))

	err := dev.UpdateState(false)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "color mask")
	assert.NotZero(t, dev.Dirty()&g3d.DirtyRenderState)
	assert.NotZero(t, dev.Dirty()&g3d.DirtyViewport)
	assert.Zero(t, rec.Count(recording.CmdCull))
	assert.Zero(t, rec.Count(recording.CmdViewport))

	// The failed commit left the backend half applied, so the retry sends
	// every field instead of a diff.
	rec.FailOn(recording.CmdColorMask, nil)
	rec.Reset()
	require.NoError(t, dev.UpdateState(false))
	assert.Zero(t, dev.Dirty())
	assert.Equal(t, []recording.CommandType{
		recording.CmdColorMask,
		recording.CmdDepthTest,
		recording.CmdDepthWrite,
		recording.CmdDepthCompare,
		recording.CmdDepthBias,
		recording.CmdBlend,
		recording.CmdCull,
		recording.CmdViewport,
	}, rec.Types())
}

func TestReleaseDropsBindingsUntouched(t *testing.T) {
	dev, rec := newClean(t)
	vb := newVB(t, dev, 3)
	dev.SetVertexBuffer(vb)
	require.NoError(t, dev.UpdateState(false))

	// Callers release their resources first; the device must not reach
	// back into them.
	vb.Release()
	rec.Reset()
	dev.Release()
	assert.Zero(t, rec.Count(recording.CmdDeselectVertexBuffer))
	assert.Nil(t, dev.VertexBuffer())
	assert.True(t, rec.Released())
}

func TestClear(t *testing.T) {
	dev, rec := newClean(t)
	require.NoError(t, dev.Clear(g3d.ClearColor|g3d.ClearDepth, g3d.Hex("#336699"), 1, 0))
	assert.Equal(t, []recording.Command{recording.ClearCommand{
		Flags: g3d.ClearColor | g3d.ClearDepth, Color: g3d.Hex("#336699"), Depth: 1,
	}}, rec.Commands())
}

func TestWindowTargetSwap(t *testing.T) {
	dev, rec := newClean(t)
	s := &recording.Surface{W: 2, H: 2}
	win, err := dev.NewWindowTarget(s)
	require.NoError(t, err)
	assert.Same(t, dev, win.Owner())

	require.NoError(t, win.SwapBuffers())
	assert.Equal(t, 1, s.Swaps)
	assert.Equal(t, 1, rec.Count(recording.CmdPresent))
	assert.Zero(t, dev.Dirty(), "swap is not dirty tracked")
}
