package wgpu

import (
	"fmt"

	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// NativeWindow is implemented by surfaces that can hand out the native
// display and window handles a hal surface is created from.
type NativeWindow interface {
	NativeHandles() (display, window uintptr)
}

// Formats of window targets.
const (
	WindowColorFormat = gputypes.TextureFormatBGRA8Unorm
	WindowDepthFormat = gputypes.TextureFormatDepth24PlusStencil8
)

// WindowBinding renders into a hal surface, or into an offscreen texture
// when the surface has no native window.
type WindowBinding struct {
	backend *Backend
	surface g3d.Surface
	native  hal.Surface // nil when offscreen

	w, h       int // configured size
	configured bool

	acquired  hal.SurfaceTexture // native frame being drawn
	offscreen hal.Texture
	color     hal.TextureView
	depthTex  hal.Texture
	depth     hal.TextureView
	usedIn    uint64
}

var _ attachmentSet = (*WindowBinding)(nil)

func (b *Backend) NewWindowBinding(s g3d.Surface) (g3d.WindowBinding, error) {
	wb := &WindowBinding{backend: b, surface: s}
	nw, ok := s.(NativeWindow)
	if !ok || b.instance == nil {
		return wb, nil
	}
	if display, window := nw.NativeHandles(); window != 0 {
		hs, err := b.instance.CreateSurface(display, window)
		if err != nil {
			return nil, fmt.Errorf("wgpu: create surface: %w", err)
		}
		wb.native = hs
	}
	return wb, nil
}

func (w *WindowBinding) Bind() error {
	w.backend.bindTarget(w)
	return nil
}

func (w *WindowBinding) Unbind() error {
	w.backend.unbindTarget(w)
	return nil
}

// Present submits the frame, shows it and swaps the surface.
func (w *WindowBinding) Present() error {
	b := w.backend
	if b.target == w {
		b.endPass()
	}
	if err := b.submit(); err != nil {
		return err
	}
	if w.native != nil && w.acquired != nil {
		tex := w.acquired
		w.dropColor()
		if err := b.queue.Present(w.native, tex, nil); err != nil {
			return fmt.Errorf("wgpu: present: %w", err)
		}
	}
	return w.surface.SwapBuffers()
}

func (w *WindowBinding) Release() {
	w.backend.unbindTarget(w)
	if w.acquired != nil {
		w.native.DiscardTexture(w.acquired)
	}
	w.dropColor()
	w.dropDepth()
	w.dropOffscreen()
	if w.native != nil {
		dev, s := w.backend.device, w.native
		w.backend.garbage.bury(w.usedIn, func() {
			s.Unconfigure(dev)
			s.Destroy()
		})
		w.native = nil
	}
}

// prepare makes sure the window has a color and depth view of the current
// surface size.
func (w *WindowBinding) prepare() error {
	sw, sh := w.surface.Size()
	if sw <= 0 || sh <= 0 {
		return fmt.Errorf("wgpu: window size %dx%d: %w", sw, sh, g3d.ErrIncompleteTarget)
	}
	if !w.configured || sw != w.w || sh != w.h {
		if err := w.resize(sw, sh); err != nil {
			return err
		}
	}
	if w.color != nil {
		return nil
	}
	dev := w.backend.device
	tex := w.offscreen
	if w.native != nil {
		st, err := w.native.AcquireTexture(nil)
		if err != nil {
			return fmt.Errorf("wgpu: acquire surface texture: %w", err)
		}
		w.acquired = st.Texture
		tex = st.Texture
	}
	v, err := dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "g3d_window_color",
		Format:          WindowColorFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create window view: %w", err)
	}
	w.color = v
	return nil
}

func (w *WindowBinding) resize(width, height int) error {
	b := w.backend
	if b.target == w {
		b.endPass()
	}
	w.dropColor()
	w.dropDepth()
	w.dropOffscreen()
	if w.native != nil {
		err := w.native.Configure(b.device, &hal.SurfaceConfiguration{
			Width:       uint32(width),
			Height:      uint32(height),
			Format:      WindowColorFormat,
			Usage:       gputypes.TextureUsageRenderAttachment,
			PresentMode: gputypes.PresentModeFifo,
			AlphaMode:   gputypes.CompositeAlphaModeOpaque,
		})
		if err != nil {
			return fmt.Errorf("wgpu: configure surface %dx%d: %w", width, height, err)
		}
	} else {
		tex, err := w.texture("g3d_window_offscreen", width, height, WindowColorFormat)
		if err != nil {
			return err
		}
		w.offscreen = tex
	}
	depth, err := w.texture("g3d_window_depth", width, height, WindowDepthFormat)
	if err != nil {
		return err
	}
	view, err := b.device.CreateTextureView(depth, &hal.TextureViewDescriptor{
		Label:           "g3d_window_depth",
		Format:          WindowDepthFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(depth)
		return fmt.Errorf("wgpu: create window depth view: %w", err)
	}
	w.depthTex, w.depth = depth, view
	w.w, w.h, w.configured = width, height, true
	g3d.Logger().Debug("wgpu: window target resized", "width", width, "height", height, "native", w.native != nil)
	return nil
}

func (w *WindowBinding) texture(label string, width, height int, format gputypes.TextureFormat) (hal.Texture, error) {
	tex, err := w.backend.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s: %w", label, err)
	}
	return tex, nil
}

func (w *WindowBinding) dropColor() {
	if w.color != nil {
		dev, v := w.backend.device, w.color
		w.backend.garbage.bury(w.usedIn, func() { dev.DestroyTextureView(v) })
		w.color = nil
	}
	w.acquired = nil
}

func (w *WindowBinding) dropDepth() {
	if w.depth != nil {
		dev, v, tex := w.backend.device, w.depth, w.depthTex
		w.backend.garbage.bury(w.usedIn, func() {
			dev.DestroyTextureView(v)
			dev.DestroyTexture(tex)
		})
		w.depth, w.depthTex = nil, nil
	}
}

func (w *WindowBinding) dropOffscreen() {
	if w.offscreen != nil {
		dev, tex := w.backend.device, w.offscreen
		w.backend.garbage.bury(w.usedIn, func() { dev.DestroyTexture(tex) })
		w.offscreen = nil
	}
}

func (w *WindowBinding) size() (int, int) { return w.w, w.h }

func (w *WindowBinding) colorFormats() [maxColorTargets]gputypes.TextureFormat {
	return [maxColorTargets]gputypes.TextureFormat{WindowColorFormat}
}

func (w *WindowBinding) depthFormat() gputypes.TextureFormat { return WindowDepthFormat }

func (w *WindowBinding) markUsed(gen uint64) { w.usedIn = gen }

func (w *WindowBinding) passDescriptor(c *clearOp) (*hal.RenderPassDescriptor, error) {
	if err := w.prepare(); err != nil {
		return nil, err
	}
	return &hal.RenderPassDescriptor{
		Label:                  "g3d_window_pass",
		ColorAttachments:       []hal.RenderPassColorAttachment{colorAttachment(w.color, c)},
		DepthStencilAttachment: depthAttachment(w.depth, WindowDepthFormat, c),
	}, nil
}
