package g3d

import (
	"fmt"
	"weak"
)

// RenderTarget is a place to draw. The device selects and deselects
// targets while reconciling state; nothing else should call Select or
// Deselect directly.
type RenderTarget interface {
	Select() error
	Deselect() error
}

// Slot is an attachment point of a texture target.
type Slot uint8

const (
	SlotDepthStencil Slot = iota
	SlotColor0
	SlotColor1
	SlotColor2
	SlotColor3
	SlotColor4

	NumSlots = int(SlotColor4) + 1
)

var slotNames = [...]string{"DEPTH_STENCIL", "COLOR0", "COLOR1", "COLOR2", "COLOR3", "COLOR4"}

func (s Slot) String() string {
	if int(s) < len(slotNames) {
		return slotNames[s]
	}
	return fmt.Sprintf("Slot(%d)", s)
}

// ColorIndex returns the color attachment index of s, or -1 for the
// depth/stencil slot.
func (s Slot) ColorIndex() int {
	return int(s) - int(SlotColor0)
}

// Attachment is a texture bound to a slot. DepthOffset selects the layer
// of a 3D texture.
type Attachment struct {
	Texture     Texture
	MipLevel    int
	DepthOffset int
}

// Attached reports whether a texture is bound.
func (a Attachment) Attached() bool { return a.Texture != nil }

// Attachments holds one attachment per slot.
type Attachments [NumSlots]Attachment

// Validate checks that a depth/stencil attachment has a COLOR0 companion of
// the same width and height. It runs when attachments are applied, not when
// they are attached, so intermediate states inside a batch are allowed.
func (a *Attachments) Validate() error {
	ds := a[SlotDepthStencil]
	if !ds.Attached() {
		return nil
	}
	c0 := a[SlotColor0]
	if !c0.Attached() {
		return incompleteTarget("%s attached without %s", SlotDepthStencil, SlotColor0)
	}
	dw, dh := ds.Texture.Width(), ds.Texture.Height()
	cw, ch := c0.Texture.Width(), c0.Texture.Height()
	if dw != cw || dh != ch {
		return incompleteTarget("%s is %dx%d but %s is %dx%d", SlotDepthStencil, dw, dh, SlotColor0, cw, ch)
	}
	return nil
}

// ChangeTracker counts changes so a consumer can tell whether anything
// happened since it last committed.
type ChangeTracker struct {
	current uint64
	applied uint64
}

// RecordChange bumps the change counter.
func (c *ChangeTracker) RecordChange() { c.current++ }

// Pending reports whether changes were recorded since the last Commit.
func (c *ChangeTracker) Pending() bool { return c.current != c.applied }

// Commit marks every recorded change as applied.
func (c *ChangeTracker) Commit() { c.applied = c.current }

// Generation returns the change counter.
func (c *ChangeTracker) Generation() uint64 { return c.current }

// TargetBinding is the backend half of a texture target.
type TargetBinding interface {
	// Apply rebuilds the native attachments. The attachments are valid.
	Apply(a *Attachments) error
	Bind() error
	Unbind() error
	// Resolve regenerates the mip chain of a color attachment.
	Resolve(color Attachment) error
	Release()
}

// TextureTarget renders into textures attached to slots.
type TextureTarget struct {
	binding  TargetBinding
	slots    Attachments
	changes  ChangeTracker
	owner    weak.Pointer[Device]
	selected bool
}

func newTextureTarget(owner *Device, b TargetBinding) *TextureTarget {
	return &TextureTarget{binding: b, owner: weak.Make(owner)}
}

// Attach binds tex to slot. A nil texture clears the slot. Validation is
// deferred until the target is selected.
func (t *TextureTarget) Attach(slot Slot, tex Texture, mipLevel, depthOffset int) {
	if int(slot) >= NumSlots {
		panic(fmt.Sprintf("g3d: invalid texture target slot %d", slot))
	}
	if tex == nil {
		t.slots[slot] = Attachment{}
	} else {
		t.slots[slot] = Attachment{Texture: tex, MipLevel: mipLevel, DepthOffset: depthOffset}
	}
	t.changes.RecordChange()
}

// Detach clears slot.
func (t *TextureTarget) Detach(slot Slot) { t.Attach(slot, nil, 0, 0) }

// Attachment returns the attachment in slot.
func (t *TextureTarget) Attachment(slot Slot) Attachment { return t.slots[slot] }

// Changes exposes the attachment change counter.
func (t *TextureTarget) Changes() *ChangeTracker { return &t.changes }

// Selected reports whether the target is bound.
func (t *TextureTarget) Selected() bool { return t.selected }

// Owner returns the device that created the target, or nil once that device
// is unreachable.
func (t *TextureTarget) Owner() *Device { return t.owner.Value() }

// Select applies pending attachment changes and binds the target.
func (t *TextureTarget) Select() error {
	if t.changes.Pending() {
		if err := t.slots.Validate(); err != nil {
			return err
		}
		if err := t.binding.Apply(&t.slots); err != nil {
			return err
		}
		t.changes.Commit()
	}
	if err := t.binding.Bind(); err != nil {
		return err
	}
	t.selected = true
	return nil
}

// Deselect unbinds the target and resolves a mipmapped COLOR0.
func (t *TextureTarget) Deselect() error {
	if err := t.binding.Unbind(); err != nil {
		return err
	}
	t.selected = false
	c0 := t.slots[SlotColor0]
	if c0.Attached() && c0.Texture.MipLevels() > 1 {
		return t.binding.Resolve(c0)
	}
	return nil
}

// Release frees the native framebuffer. Attached textures are not released.
func (t *TextureTarget) Release() { t.binding.Release() }

// Surface is the window side of a window target.
type Surface interface {
	Size() (width, height int)
	SwapBuffers() error
}

// WindowBinding is the backend half of a window target.
type WindowBinding interface {
	Bind() error
	Unbind() error
	// Present finishes the frame and shows it on the surface.
	Present() error
	Release()
}

// WindowTarget renders into a window's swap chain.
type WindowTarget struct {
	binding WindowBinding
	owner   weak.Pointer[Device]
}

func newWindowTarget(owner *Device, b WindowBinding) *WindowTarget {
	return &WindowTarget{binding: b, owner: weak.Make(owner)}
}

func (w *WindowTarget) Select() error   { return w.binding.Bind() }
func (w *WindowTarget) Deselect() error { return w.binding.Unbind() }

// SwapBuffers presents the window. It bypasses dirty tracking.
func (w *WindowTarget) SwapBuffers() error { return w.binding.Present() }

// Owner returns the device that created the target, or nil once that device
// is unreachable.
func (w *WindowTarget) Owner() *Device { return w.owner.Value() }

// Release frees backend resources held for the window.
func (w *WindowTarget) Release() { w.binding.Release() }
