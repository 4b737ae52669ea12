package recording

import (
	"errors"
	"testing"

	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTypeString(t *testing.T) {
	assert.Equal(t, "UpdateTransforms", CmdUpdateTransforms.String())
	assert.Equal(t, "Present", CmdPresent.String())
	assert.Equal(t, "Unknown", CommandType(255).String())
	for i := CmdUpdateTransforms; i <= CmdPresent; i++ {
		assert.NotEmpty(t, commandTypeNames[i], "command type %d", i)
	}
}

func TestDrawRequiresSelectedBuffer(t *testing.T) {
	b := New()
	assert.ErrorIs(t, b.DrawPrimitive(g3d.Triangles, 0, 3), ErrNoVertexBuffer)

	vb, err := b.NewVertexBuffer(g3d.NewStandardFormat(g3d.StdPC), 3, g3d.LifetimeStatic)
	require.NoError(t, err)
	require.NoError(t, vb.Select())
	require.NoError(t, b.DrawPrimitive(g3d.Triangles, 0, 3))
	assert.ErrorIs(t, b.DrawPrimitive(g3d.Triangles, 1, 3), ErrOutOfRange)

	require.NoError(t, vb.Deselect())
	assert.ErrorIs(t, b.DrawPrimitive(g3d.Triangles, 0, 3), ErrNoVertexBuffer)
}

func TestBufferLockDiscipline(t *testing.T) {
	b := New()
	ib, err := b.NewIndexBuffer(gputypes.IndexFormatUint32, 4, g3d.LifetimeDynamic)
	require.NoError(t, err)

	data, err := ib.Lock()
	require.NoError(t, err)
	assert.Len(t, data, 16)
	_, err = ib.Lock()
	assert.ErrorIs(t, err, g3d.ErrAlreadyLocked)
	assert.ErrorIs(t, ib.Select(), g3d.ErrBufferMapped)

	require.NoError(t, ib.Unlock())
	require.NoError(t, ib.Select())
	ib.Release()
	assert.Nil(t, b.indexBuffer)
	assert.ErrorIs(t, ib.Select(), g3d.ErrReleased)
}

func TestFailOn(t *testing.T) {
	b := New()
	boom := errors.New("boom")
	b.FailOn(CmdBeginFrame, boom)

	assert.ErrorIs(t, b.BeginFrame(), boom)
	assert.False(t, b.InFrame())
	assert.Empty(t, b.Commands())

	b.FailOn(CmdBeginFrame, nil)
	require.NoError(t, b.BeginFrame())
	assert.True(t, b.InFrame())
	assert.Equal(t, []CommandType{CmdBeginFrame}, b.Types())
}

func TestTargetBindingRecordsAttachments(t *testing.T) {
	b := New()
	tb, err := b.NewTargetBinding()
	require.NoError(t, err)
	tex, err := b.NewTexture(g3d.TextureDescriptor{Width: 8, Height: 8})
	require.NoError(t, err)

	var a g3d.Attachments
	a[g3d.SlotColor0] = g3d.Attachment{Texture: tex}
	require.NoError(t, tb.Apply(&a))
	assert.Same(t, tex, tb.(*TargetBinding).Applied()[g3d.SlotColor0].Texture)
	assert.Equal(t, 1, tex.MipLevels())
}

func TestReleaseClearsBindings(t *testing.T) {
	b := New()
	vb, err := b.NewVertexBuffer(g3d.NewStandardFormat(g3d.StdPNC), 1, g3d.LifetimeStatic)
	require.NoError(t, err)
	require.NoError(t, vb.Select())

	b.Release()
	assert.True(t, b.Released())
	assert.Nil(t, b.vertexBuffer)
}
