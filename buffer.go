package g3d

import "github.com/gogpu/gputypes"

// VertexBuffer is a GPU array of vertices laid out by a VertexFormat.
//
// Lock maps the whole buffer for writing and returns the mapping; Unlock
// commits it. Only one mapping may be outstanding. Select and Deselect are
// called by the Device while it reconciles state; application code routes
// buffers through Device.SetVertexBuffer instead.
type VertexBuffer interface {
	Format() *VertexFormat
	Count() int
	Lifetime() Lifetime
	Lock() ([]byte, error)
	Unlock() error
	Locked() bool
	Select() error
	Deselect() error
	Release()
}

// IndexBuffer is a GPU array of 16 or 32 bit vertex indices.
type IndexBuffer interface {
	IndexFormat() gputypes.IndexFormat
	Count() int
	Lifetime() Lifetime
	Lock() ([]byte, error)
	Unlock() error
	Locked() bool
	Select() error
	Deselect() error
	Release()
}

// MapState tracks the exclusive write mapping of a buffer. Backends embed
// it in their buffer types.
type MapState struct {
	mapped   bool
	released bool
}

// BeginMap marks the buffer mapped.
func (m *MapState) BeginMap() error {
	switch {
	case m.released:
		return ErrReleased
	case m.mapped:
		return ErrAlreadyLocked
	}
	m.mapped = true
	return nil
}

// EndMap marks the buffer unmapped.
func (m *MapState) EndMap() error {
	if !m.mapped {
		return ErrNotLocked
	}
	m.mapped = false
	return nil
}

// CheckSelect returns an error if the buffer cannot be bound for drawing.
func (m *MapState) CheckSelect() error {
	switch {
	case m.released:
		return ErrReleased
	case m.mapped:
		return ErrBufferMapped
	}
	return nil
}

// Locked reports whether a mapping is outstanding.
func (m *MapState) Locked() bool { return m.mapped }

// MarkReleased records that the buffer was released. It reports false if
// the buffer had already been released.
func (m *MapState) MarkReleased() bool {
	if m.released {
		return false
	}
	m.released = true
	m.mapped = false
	return true
}

// IndexSize returns the size of one index in bytes.
func IndexSize(f gputypes.IndexFormat) int {
	if f == gputypes.IndexFormatUint32 {
		return 4
	}
	return 2
}
