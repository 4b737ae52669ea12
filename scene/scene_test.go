package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/recording"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDrawable counts calls.
type fakeDrawable struct {
	draws, releases int
	err             error
}

func (f *fakeDrawable) Draw() error { f.draws++; return f.err }
func (f *fakeDrawable) Release()    { f.releases++ }

func TestSceneNodes(t *testing.T) {
	s := New()
	assert.True(t, s.IsEmpty())
	a, b := &fakeDrawable{}, &fakeDrawable{}
	na := s.Add("a", a, mgl32.Ident4())
	s.Add("b", b, mgl32.Ident4())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, uint64(2), s.Version())
	assert.Same(t, na, s.Find("a"))
	assert.Nil(t, s.Find("c"))

	assert.True(t, s.Remove(na))
	assert.False(t, s.Remove(na))
	assert.Equal(t, 1, a.releases)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, uint64(3), s.Version())

	s.Release()
	assert.Equal(t, 1, b.releases)
	assert.True(t, s.IsEmpty())
}

func TestSceneDrawPushesTransforms(t *testing.T) {
	rec := recording.New()
	dev := g3d.NewDevice(rec)
	dev.SetModelTransform(mgl32.Translate3D(0, 1, 0))

	s := New()
	n, err := s.AddModel(dev, Cube("crate", 2, Color(g3d.White)))
	require.NoError(t, err)
	n.Transform = mgl32.Translate3D(10, 0, 0)
	hidden := &fakeDrawable{}
	s.Add("hidden", hidden, mgl32.Ident4()).Hidden = true

	require.NoError(t, s.Draw(dev))
	assert.Zero(t, hidden.draws)
	assert.Equal(t, 0, dev.ModelDepth())
	assert.Equal(t, mgl32.Translate3D(0, 1, 0), dev.ModelTransform())

	cmd, ok := rec.Last(recording.CmdUpdateTransforms)
	require.True(t, ok)
	assert.Equal(t, mgl32.Translate3D(10, 1, 0), cmd.(recording.UpdateTransformsCommand).Model)
	assert.Equal(t, 1, rec.Count(recording.CmdDrawIndexed))
	assert.Equal(t, 12, dev.Stats().PolyCount)

	s.Release()
}

func TestSceneDrawErrorRestoresStack(t *testing.T) {
	dev := g3d.NewDevice(recording.New())
	boom := errors.New("boom")
	s := New()
	s.Add("broken", &fakeDrawable{err: boom}, mgl32.Translate3D(1, 2, 3))
	after := &fakeDrawable{}
	s.Add("after", after, mgl32.Ident4())

	err := s.Draw(dev)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"broken"`)
	assert.Zero(t, after.draws)
	assert.Equal(t, 0, dev.ModelDepth())
}

func TestSceneAddModelInvalid(t *testing.T) {
	dev := g3d.NewDevice(recording.New())
	s := New()
	_, err := s.AddModel(dev, &Model{Topology: "triangles", Format: "pc"})
	assert.ErrorIs(t, err, ErrInvalidModel)
	assert.True(t, s.IsEmpty())
}

func TestGridDraws(t *testing.T) {
	rec := recording.New()
	dev := g3d.NewDevice(rec)
	s := New()
	_, err := s.AddModel(dev, Grid("floor", 32, 16, Color(g3d.White)))
	require.NoError(t, err)
	require.NoError(t, s.Draw(dev))
	cmd, ok := rec.Last(recording.CmdDraw)
	require.True(t, ok)
	assert.Equal(t, g3d.Lines, cmd.(recording.DrawCommand).Topology)
	assert.Equal(t, 20, cmd.(recording.DrawCommand).Count)
}
