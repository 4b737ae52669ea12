package recording

import (
	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
)

// VertexBuffer is an in-memory vertex buffer.
type VertexBuffer struct {
	g3d.MapState
	backend  *Backend
	id       int
	format   *g3d.VertexFormat
	count    int
	lifetime g3d.Lifetime
	data     []byte
}

func (b *Backend) NewVertexBuffer(f *g3d.VertexFormat, count int, lifetime g3d.Lifetime) (g3d.VertexBuffer, error) {
	return &VertexBuffer{
		backend:  b,
		id:       b.id(),
		format:   f,
		count:    count,
		lifetime: lifetime,
		data:     make([]byte, count*f.Size()),
	}, nil
}

func (v *VertexBuffer) ID() int                   { return v.id }
func (v *VertexBuffer) Format() *g3d.VertexFormat { return v.format }
func (v *VertexBuffer) Count() int                { return v.count }
func (v *VertexBuffer) Lifetime() g3d.Lifetime    { return v.lifetime }
func (v *VertexBuffer) Bytes() []byte             { return v.data }

func (v *VertexBuffer) Lock() ([]byte, error) {
	if err := v.BeginMap(); err != nil {
		return nil, err
	}
	return v.data, nil
}

func (v *VertexBuffer) Unlock() error { return v.EndMap() }

func (v *VertexBuffer) Select() error {
	if err := v.CheckSelect(); err != nil {
		return err
	}
	if err := v.backend.record(BufferCommand{Cmd: CmdSelectVertexBuffer, ID: v.id}); err != nil {
		return err
	}
	v.backend.vertexBuffer = v
	return nil
}

func (v *VertexBuffer) Deselect() error {
	if err := v.backend.record(BufferCommand{Cmd: CmdDeselectVertexBuffer, ID: v.id}); err != nil {
		return err
	}
	if v.backend.vertexBuffer == v {
		v.backend.vertexBuffer = nil
	}
	return nil
}

func (v *VertexBuffer) Release() {
	if v.MarkReleased() && v.backend.vertexBuffer == v {
		v.backend.vertexBuffer = nil
	}
}

// IndexBuffer is an in-memory index buffer.
type IndexBuffer struct {
	g3d.MapState
	backend  *Backend
	id       int
	format   gputypes.IndexFormat
	count    int
	lifetime g3d.Lifetime
	data     []byte
}

func (b *Backend) NewIndexBuffer(f gputypes.IndexFormat, count int, lifetime g3d.Lifetime) (g3d.IndexBuffer, error) {
	return &IndexBuffer{
		backend:  b,
		id:       b.id(),
		format:   f,
		count:    count,
		lifetime: lifetime,
		data:     make([]byte, count*g3d.IndexSize(f)),
	}, nil
}

func (i *IndexBuffer) ID() int                           { return i.id }
func (i *IndexBuffer) IndexFormat() gputypes.IndexFormat { return i.format }
func (i *IndexBuffer) Count() int                        { return i.count }
func (i *IndexBuffer) Lifetime() g3d.Lifetime            { return i.lifetime }
func (i *IndexBuffer) Bytes() []byte                     { return i.data }

func (i *IndexBuffer) Lock() ([]byte, error) {
	if err := i.BeginMap(); err != nil {
		return nil, err
	}
	return i.data, nil
}

func (i *IndexBuffer) Unlock() error { return i.EndMap() }

func (i *IndexBuffer) Select() error {
	if err := i.CheckSelect(); err != nil {
		return err
	}
	if err := i.backend.record(BufferCommand{Cmd: CmdSelectIndexBuffer, ID: i.id}); err != nil {
		return err
	}
	i.backend.indexBuffer = i
	return nil
}

func (i *IndexBuffer) Deselect() error {
	if err := i.backend.record(BufferCommand{Cmd: CmdDeselectIndexBuffer, ID: i.id}); err != nil {
		return err
	}
	if i.backend.indexBuffer == i {
		i.backend.indexBuffer = nil
	}
	return nil
}

func (i *IndexBuffer) Release() {
	if i.MarkReleased() && i.backend.indexBuffer == i {
		i.backend.indexBuffer = nil
	}
}

// Texture is a texture that only remembers its descriptor.
type Texture struct {
	desc     g3d.TextureDescriptor
	released bool
}

func (b *Backend) NewTexture(desc g3d.TextureDescriptor) (g3d.Texture, error) {
	return &Texture{desc: desc.Normalized()}, nil
}

func (t *Texture) Width() int                     { return t.desc.Width }
func (t *Texture) Height() int                    { return t.desc.Height }
func (t *Texture) Depth() int                     { return t.desc.Depth }
func (t *Texture) MipLevels() int                 { return t.desc.MipLevels }
func (t *Texture) Format() gputypes.TextureFormat { return t.desc.Format }
func (t *Texture) Released() bool                 { return t.released }
func (t *Texture) Release()                       { t.released = true }

// TargetBinding records texture target operations.
type TargetBinding struct {
	backend *Backend
	id      int
	applied g3d.Attachments
}

func (b *Backend) NewTargetBinding() (g3d.TargetBinding, error) {
	return &TargetBinding{backend: b, id: b.id()}, nil
}

// Applied returns the attachments of the most recent Apply.
func (t *TargetBinding) Applied() g3d.Attachments { return t.applied }

func (t *TargetBinding) Apply(a *g3d.Attachments) error {
	if err := t.backend.record(TargetCommand{Cmd: CmdApplyTarget, ID: t.id}); err != nil {
		return err
	}
	t.applied = *a
	return nil
}

func (t *TargetBinding) Bind() error {
	return t.backend.record(TargetCommand{Cmd: CmdSelectTarget, ID: t.id})
}

func (t *TargetBinding) Unbind() error {
	return t.backend.record(TargetCommand{Cmd: CmdDeselectTarget, ID: t.id})
}

func (t *TargetBinding) Resolve(g3d.Attachment) error {
	return t.backend.record(TargetCommand{Cmd: CmdResolveTarget, ID: t.id})
}

func (t *TargetBinding) Release() {}

// WindowBinding records window target operations and swaps the surface on
// Present.
type WindowBinding struct {
	backend *Backend
	id      int
	surface g3d.Surface
}

func (b *Backend) NewWindowBinding(s g3d.Surface) (g3d.WindowBinding, error) {
	return &WindowBinding{backend: b, id: b.id(), surface: s}, nil
}

func (w *WindowBinding) Bind() error {
	return w.backend.record(TargetCommand{Cmd: CmdSelectTarget, ID: w.id})
}

func (w *WindowBinding) Unbind() error {
	return w.backend.record(TargetCommand{Cmd: CmdDeselectTarget, ID: w.id})
}

func (w *WindowBinding) Present() error {
	if err := w.backend.record(TargetCommand{Cmd: CmdPresent, ID: w.id}); err != nil {
		return err
	}
	return w.surface.SwapBuffers()
}

func (w *WindowBinding) Release() {}

// Surface is a window stand-in that counts swaps.
type Surface struct {
	W, H  int
	Swaps int
}

func (s *Surface) Size() (int, int) { return s.W, s.H }

func (s *Surface) SwapBuffers() error {
	s.Swaps++
	return nil
}
