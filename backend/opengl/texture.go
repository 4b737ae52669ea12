package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
)

// Texture is a GL texture object. Textures with a depth above one are 3D
// textures; their layers are attached by depth offset.
type Texture struct {
	desc     g3d.TextureDescriptor
	handle   uint32
	binding  uint32
	released bool
}

var _ g3d.Texture = (*Texture)(nil)

// NewTexture allocates storage for every mip level of desc.
func (b *Backend) NewTexture(desc g3d.TextureDescriptor) (g3d.Texture, error) {
	desc = desc.Normalized()
	pf, ok := textureFormat(desc.Format)
	if !ok {
		return nil, fmt.Errorf("opengl: texture format %s: %w", desc.Format, g3d.ErrUnsupported)
	}
	t := &Texture{desc: desc, binding: gl.TEXTURE_2D}
	if desc.Depth > 1 {
		t.binding = gl.TEXTURE_3D
	}

	var prev int32
	gl.GetIntegerv(textureBindingQuery(t.binding), &prev)
	defer gl.BindTexture(t.binding, uint32(prev))

	gl.GenTextures(1, &t.handle)
	gl.BindTexture(t.binding, t.handle)
	for level := range desc.MipLevels {
		w, h, d := mipExtent(desc.Width, level), mipExtent(desc.Height, level), mipExtent(desc.Depth, level)
		if t.binding == gl.TEXTURE_3D {
			gl.TexImage3D(t.binding, int32(level), pf.internal, int32(w), int32(h), int32(d), 0, pf.format, pf.xtype, nil)
		} else {
			gl.TexImage2D(t.binding, int32(level), pf.internal, int32(w), int32(h), 0, pf.format, pf.xtype, nil)
		}
	}
	gl.TexParameteri(t.binding, gl.TEXTURE_MAX_LEVEL, int32(desc.MipLevels-1))
	gl.TexParameteri(t.binding, gl.TEXTURE_MIN_FILTER, minFilter(desc.MipLevels))
	gl.TexParameteri(t.binding, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if err := checkError("TexImage"); err != nil {
		gl.DeleteTextures(1, &t.handle)
		return nil, err
	}
	g3d.Logger().Debug("opengl: texture created",
		"width", desc.Width, "height", desc.Height, "depth", desc.Depth, "mips", desc.MipLevels)
	return t, nil
}

func textureBindingQuery(binding uint32) uint32 {
	if binding == gl.TEXTURE_3D {
		return gl.TEXTURE_BINDING_3D
	}
	return gl.TEXTURE_BINDING_2D
}

func minFilter(mips int) int32 {
	if mips > 1 {
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return gl.LINEAR
}

// mipExtent returns the size of level in a chain whose base size is n.
func mipExtent(n, level int) int {
	return max(n>>level, 1)
}

func (t *Texture) Width() int                     { return t.desc.Width }
func (t *Texture) Height() int                    { return t.desc.Height }
func (t *Texture) Depth() int                     { return t.desc.Depth }
func (t *Texture) MipLevels() int                 { return t.desc.MipLevels }
func (t *Texture) Format() gputypes.TextureFormat { return t.desc.Format }

// Handle returns the GL texture name.
func (t *Texture) Handle() uint32 { return t.handle }

func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	gl.DeleteTextures(1, &t.handle)
}
