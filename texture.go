package g3d

import "github.com/gogpu/gputypes"

// TextureDescriptor describes a texture to create.
type TextureDescriptor struct {
	Label     string
	Width     int
	Height    int
	Depth     int // 0 or 1 for 2D textures
	MipLevels int // 0 means 1
	Format    gputypes.TextureFormat
}

// Normalized fills defaults: depth and mip level count of at least 1 and
// RGBA8 when no format is given.
func (d TextureDescriptor) Normalized() TextureDescriptor {
	if d.Depth < 1 {
		d.Depth = 1
	}
	if d.MipLevels < 1 {
		d.MipLevels = 1
	}
	if d.Format == gputypes.TextureFormatUndefined {
		d.Format = gputypes.TextureFormatRGBA8Unorm
	}
	return d
}

// Texture is a GPU image that can back a texture target attachment.
type Texture interface {
	Width() int
	Height() int
	Depth() int
	MipLevels() int
	Format() gputypes.TextureFormat
	Release()
}
