package wgpu

import (
	"fmt"

	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture is a 2D texture or 2D array. Layers stand in for the depth of a
// 3D texture because WebGPU cannot render into 3D textures.
type Texture struct {
	backend  *Backend
	tex      hal.Texture
	desc     g3d.TextureDescriptor
	usedIn   uint64
	released bool
}

func (b *Backend) NewTexture(desc g3d.TextureDescriptor) (g3d.Texture, error) {
	desc = desc.Normalized()
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: uint32(desc.Depth),
		},
		MipLevelCount: uint32(desc.MipLevels),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage: gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %dx%d: %w", desc.Width, desc.Height, err)
	}
	return &Texture{backend: b, tex: tex, desc: desc}, nil
}

func (t *Texture) Width() int                     { return t.desc.Width }
func (t *Texture) Height() int                    { return t.desc.Height }
func (t *Texture) Depth() int                     { return t.desc.Depth }
func (t *Texture) MipLevels() int                 { return t.desc.MipLevels }
func (t *Texture) Format() gputypes.TextureFormat { return t.desc.Format }

func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	dev, tex := t.backend.device, t.tex
	t.backend.garbage.bury(t.usedIn, func() { dev.DestroyTexture(tex) })
}

// view creates a single mip, single layer view for an attachment.
func (t *Texture) view(a g3d.Attachment) (hal.TextureView, error) {
	if t.released {
		return nil, g3d.ErrReleased
	}
	if a.MipLevel < 0 || a.MipLevel >= t.desc.MipLevels || a.DepthOffset < 0 || a.DepthOffset >= t.desc.Depth {
		return nil, fmt.Errorf("wgpu: attachment mip %d layer %d outside texture: %w",
			a.MipLevel, a.DepthOffset, g3d.ErrIncompleteTarget)
	}
	v, err := t.backend.device.CreateTextureView(t.tex, &hal.TextureViewDescriptor{
		Label:           t.desc.Label,
		Format:          t.desc.Format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		BaseMipLevel:    uint32(a.MipLevel),
		MipLevelCount:   1,
		BaseArrayLayer:  uint32(a.DepthOffset),
		ArrayLayerCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture view: %w", err)
	}
	return v, nil
}

func mipSize(size, level int) int {
	return max(size>>level, 1)
}

// TargetBinding holds the views of a texture target's attachments.
type TargetBinding struct {
	backend *Backend
	colors  [maxColorTargets]hal.TextureView
	formats [maxColorTargets]gputypes.TextureFormat
	depth   hal.TextureView
	dformat gputypes.TextureFormat
	w, h    int
	used    []*Texture
	usedIn  uint64
	warned  bool
}

var _ attachmentSet = (*TargetBinding)(nil)

func (b *Backend) NewTargetBinding() (g3d.TargetBinding, error) {
	return &TargetBinding{backend: b}, nil
}

// Apply replaces the attachment views. Color attachments must share the
// size of the first one.
func (t *TargetBinding) Apply(a *g3d.Attachments) error {
	if t.backend.target == t {
		t.backend.endPass()
	}
	t.releaseViews()

	t.w, t.h = 0, 0
	for slot := g3d.SlotColor0; int(slot) < g3d.NumSlots; slot++ {
		att := a[slot]
		if !att.Attached() {
			continue
		}
		tex, ok := att.Texture.(*Texture)
		if !ok {
			return fmt.Errorf("wgpu: %s holds a foreign texture: %w", slot, g3d.ErrIncompleteTarget)
		}
		w, h := mipSize(tex.Width(), att.MipLevel), mipSize(tex.Height(), att.MipLevel)
		if t.w == 0 {
			t.w, t.h = w, h
		} else if w != t.w || h != t.h {
			return fmt.Errorf("wgpu: %s is %dx%d, expected %dx%d: %w", slot, w, h, t.w, t.h, g3d.ErrIncompleteTarget)
		}
		v, err := tex.view(att)
		if err != nil {
			return err
		}
		i := slot.ColorIndex()
		t.colors[i], t.formats[i] = v, tex.Format()
		t.used = append(t.used, tex)
	}
	if ds := a[g3d.SlotDepthStencil]; ds.Attached() {
		tex, ok := ds.Texture.(*Texture)
		if !ok {
			return fmt.Errorf("wgpu: %s holds a foreign texture: %w", g3d.SlotDepthStencil, g3d.ErrIncompleteTarget)
		}
		v, err := tex.view(ds)
		if err != nil {
			return err
		}
		t.depth, t.dformat = v, tex.Format()
		t.used = append(t.used, tex)
	}
	return nil
}

func (t *TargetBinding) releaseViews() {
	dev := t.backend.device
	var views []hal.TextureView
	for i, v := range t.colors {
		if v != nil {
			views = append(views, v)
		}
		t.colors[i], t.formats[i] = nil, gputypes.TextureFormatUndefined
	}
	if t.depth != nil {
		views = append(views, t.depth)
	}
	t.depth, t.dformat = nil, gputypes.TextureFormatUndefined
	t.used = t.used[:0]
	t.backend.garbage.bury(t.usedIn, func() {
		for _, v := range views {
			dev.DestroyTextureView(v)
		}
	})
}

func (t *TargetBinding) Bind() error {
	if t.colors[0] == nil {
		return fmt.Errorf("wgpu: texture target without %s: %w", g3d.SlotColor0, g3d.ErrIncompleteTarget)
	}
	t.backend.bindTarget(t)
	return nil
}

func (t *TargetBinding) Unbind() error {
	t.backend.unbindTarget(t)
	return nil
}

// Resolve does not regenerate mips; WebGPU has no built-in mip generation.
func (t *TargetBinding) Resolve(g3d.Attachment) error {
	if !t.warned {
		t.warned = true
		g3d.Logger().Warn("wgpu: mip chain of texture target not regenerated")
	}
	return nil
}

func (t *TargetBinding) Release() {
	t.backend.unbindTarget(t)
	t.releaseViews()
}

func (t *TargetBinding) size() (int, int) { return t.w, t.h }

func (t *TargetBinding) colorFormats() [maxColorTargets]gputypes.TextureFormat { return t.formats }

func (t *TargetBinding) depthFormat() gputypes.TextureFormat { return t.dformat }

func (t *TargetBinding) markUsed(gen uint64) {
	t.usedIn = gen
	for _, tex := range t.used {
		tex.usedIn = gen
	}
}

func (t *TargetBinding) passDescriptor(c *clearOp) (*hal.RenderPassDescriptor, error) {
	desc := &hal.RenderPassDescriptor{Label: "g3d_texture_pass"}
	for _, v := range t.colors {
		if v != nil {
			desc.ColorAttachments = append(desc.ColorAttachments, colorAttachment(v, c))
		}
	}
	if len(desc.ColorAttachments) == 0 {
		return nil, fmt.Errorf("wgpu: texture target has no color attachment: %w", g3d.ErrIncompleteTarget)
	}
	if t.depth != nil {
		desc.DepthStencilAttachment = depthAttachment(t.depth, t.dformat, c)
	}
	return desc, nil
}

// bindTarget makes t the destination of following passes.
func (b *Backend) bindTarget(t attachmentSet) {
	if b.target != t {
		b.endPass()
		b.target = t
	}
}

func (b *Backend) unbindTarget(t attachmentSet) {
	if b.target == t {
		b.endPass()
		b.target = nil
	}
}
