package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/gogpu/g3d"
)

// TargetBinding renders texture targets through a framebuffer object.
type TargetBinding struct {
	backend *Backend
	fbo     uint32
	buffers []uint32
}

var _ g3d.TargetBinding = (*TargetBinding)(nil)

// NewTargetBinding creates an empty framebuffer object.
func (b *Backend) NewTargetBinding() (g3d.TargetBinding, error) {
	t := &TargetBinding{backend: b}
	gl.GenFramebuffers(1, &t.fbo)
	if err := checkError("GenFramebuffers"); err != nil {
		return nil, err
	}
	return t, nil
}

// Apply attaches every slot of a to the framebuffer and checks its
// completeness. Empty slots are detached.
func (t *TargetBinding) Apply(a *g3d.Attachments) error {
	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	t.buffers = t.buffers[:0]
	for slot := g3d.SlotColor0; int(slot) < g3d.NumSlots; slot++ {
		point := gl.COLOR_ATTACHMENT0 + uint32(slot.ColorIndex())
		if err := attach(point, a[slot]); err != nil {
			return fmt.Errorf("%s: %w", slot, err)
		}
		if a[slot].Attached() {
			t.buffers = append(t.buffers, point)
		}
	}

	ds := a[g3d.SlotDepthStencil]
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.TEXTURE_2D, 0, 0)
	if ds.Attached() {
		if err := attach(depthAttachment(ds.Texture.Format()), ds); err != nil {
			return fmt.Errorf("%s: %w", g3d.SlotDepthStencil, err)
		}
	}

	if len(t.buffers) > 0 {
		gl.DrawBuffers(int32(len(t.buffers)), &t.buffers[0])
		gl.ReadBuffer(t.buffers[0])
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}
	if err := framebufferError(gl.CheckFramebufferStatus(gl.FRAMEBUFFER)); err != nil {
		return err
	}
	g3d.Logger().Debug("opengl: framebuffer rebuilt", "fbo", t.fbo, "colors", len(t.buffers), "depth", ds.Attached())
	return checkError("ApplyTarget")
}

// attach binds one attachment point. A detached slot clears the point.
func attach(point uint32, a g3d.Attachment) error {
	if !a.Attached() {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, point, gl.TEXTURE_2D, 0, 0)
		return nil
	}
	tex, ok := a.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("%w: %w", g3d.ErrIncompleteTarget, ErrForeignTexture)
	}
	if tex.released {
		return fmt.Errorf("%w: %w", g3d.ErrIncompleteTarget, g3d.ErrReleased)
	}
	if a.MipLevel >= tex.desc.MipLevels || a.DepthOffset >= tex.desc.Depth {
		return fmt.Errorf("%w: mip %d layer %d outside texture", g3d.ErrIncompleteTarget, a.MipLevel, a.DepthOffset)
	}
	if tex.binding == gl.TEXTURE_3D {
		gl.FramebufferTexture3D(gl.FRAMEBUFFER, point, tex.binding, tex.handle, int32(a.MipLevel), int32(a.DepthOffset))
	} else {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, point, tex.binding, tex.handle, int32(a.MipLevel))
	}
	return nil
}

// Bind makes the framebuffer the draw and read target.
func (t *TargetBinding) Bind() error {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, t.fbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	return checkError("BindFramebuffer")
}

// Unbind returns drawing to the default framebuffer.
func (t *TargetBinding) Unbind() error {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return nil
}

// Resolve regenerates the mip chain of color below its rendered level.
func (t *TargetBinding) Resolve(color g3d.Attachment) error {
	tex, ok := color.Texture.(*Texture)
	if !ok {
		return ErrForeignTexture
	}
	gl.ActiveTexture(gl.TEXTURE0)
	var prev int32
	gl.GetIntegerv(textureBindingQuery(tex.binding), &prev)
	gl.BindTexture(tex.binding, tex.handle)
	gl.GenerateMipmap(tex.binding)
	gl.BindTexture(tex.binding, uint32(prev))
	return checkError("GenerateMipmap")
}

func (t *TargetBinding) Release() {
	if t.fbo == 0 {
		return
	}
	gl.DeleteFramebuffers(1, &t.fbo)
	t.fbo = 0
}

// WindowBinding targets the default framebuffer of the current context.
type WindowBinding struct {
	backend *Backend
	surface g3d.Surface
}

var _ g3d.WindowBinding = (*WindowBinding)(nil)

// NewWindowBinding returns a binding that presents by swapping s.
func (b *Backend) NewWindowBinding(s g3d.Surface) (g3d.WindowBinding, error) {
	return &WindowBinding{backend: b, surface: s}, nil
}

func (w *WindowBinding) Bind() error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.DrawBuffer(gl.BACK)
	gl.ReadBuffer(gl.BACK)
	return checkError("BindWindow")
}

func (w *WindowBinding) Unbind() error { return nil }

// Present swaps the window's buffers.
func (w *WindowBinding) Present() error {
	gl.Flush()
	return w.surface.SwapBuffers()
}

func (w *WindowBinding) Release() {}
