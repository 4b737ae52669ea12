package event

import (
	"math"
	"sync"

	"github.com/gogpu/gpucontext"
)

// Binder turns callbacks of a gpucontext.EventSource into queued events.
// Absolute cursor positions become DX and DY deltas and vertical scroll
// becomes DZ. Nothing is pushed while the queue is inactive.
type Binder struct {
	queue *Queue

	mu     sync.Mutex
	x, y   float64
	hasPos bool
}

// Bind registers callbacks on src that feed q.
func Bind(src gpucontext.EventSource, q *Queue) *Binder {
	b := &Binder{queue: q}
	src.OnKeyPress(func(k gpucontext.Key, _ gpucontext.Modifiers) { b.key(k, Down) })
	src.OnKeyRelease(func(k gpucontext.Key, _ gpucontext.Modifiers) { b.key(k, Up) })
	src.OnMouseMove(b.MouseMoved)
	src.OnScroll(func(_, dy float64) { b.Scrolled(dy) })
	return b
}

func (b *Binder) key(k gpucontext.Key, sub Subtype) {
	code, ok := FromGPUContext(k)
	if !ok || !b.queue.Active() {
		return
	}
	b.queue.Push(Event{Type: Key, Subtype: sub, Data: int(code)})
}

// MouseMoved records the cursor at (x, y) and queues the delta from the
// previous position. The first position only sets the reference.
func (b *Binder) MouseMoved(x, y float64) {
	b.mu.Lock()
	dx, dy := int(math.Round(x-b.x)), int(math.Round(y-b.y))
	first := !b.hasPos
	b.x, b.y, b.hasPos = x, y, true
	b.mu.Unlock()

	if first || !b.queue.Active() {
		return
	}
	if dx != 0 {
		b.queue.Push(MouseMove(DX, dx))
	}
	if dy != 0 {
		b.queue.Push(MouseMove(DY, dy))
	}
}

// Scrolled queues a DZ event for a vertical wheel movement.
func (b *Binder) Scrolled(dy float64) {
	dz := int(math.Round(dy))
	if dz == 0 || !b.queue.Active() {
		return
	}
	b.queue.Push(MouseMove(DZ, dz))
}

// Recenter moves the reference position without queueing a delta. Mouse
// capture calls it after warping the cursor back to the window centre.
func (b *Binder) Recenter(x, y float64) {
	b.mu.Lock()
	b.x, b.y, b.hasPos = x, y, true
	b.mu.Unlock()
}
