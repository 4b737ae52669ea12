package event

import (
	"sync"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/subsystem"
)

// QueueSize is the capacity of a Queue.
const QueueSize = 256

// Queue is a ring buffer of events. It is safe for concurrent use, so
// platform callbacks may push from another goroutine.
//
// Queue is also the input subsystem: PostInit activates it and PreShutdown
// deactivates and clears it. Producers check Active before pushing.
type Queue struct {
	subsystem.Base

	mu      sync.Mutex
	ring    [QueueSize]Event
	head    int
	n       int
	dropped uint64
	active  bool
}

var _ subsystem.Subsystem = (*Queue)(nil)

// NewQueue returns an empty, inactive queue.
func NewQueue() *Queue { return &Queue{} }

// Push appends ev, dropping the oldest event when the queue is full.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.n == QueueSize {
		q.head = (q.head + 1) % QueueSize
		q.n--
		q.dropped++
	}
	q.ring[(q.head+q.n)%QueueSize] = ev
	q.n++
}

// More reports whether Get would return an event.
func (q *Queue) More() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n > 0
}

// Get removes and returns the oldest event, or an event of type None when
// the queue is empty.
func (q *Queue) Get() Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.n == 0 {
		return Event{}
	}
	ev := q.ring[q.head]
	q.head = (q.head + 1) % QueueSize
	q.n--
	return ev
}

// Drain calls fn for every queued event in order.
func (q *Queue) Drain(fn func(Event)) {
	for q.More() {
		fn(q.Get())
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Dropped returns how many events were lost to overflow.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Clear discards every queued event.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.head, q.n = 0, 0
}

// Active reports whether the queue accepts input.
func (q *Queue) Active() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active
}

// PostInit activates the queue.
func (q *Queue) PostInit() error {
	q.mu.Lock()
	q.active = true
	q.mu.Unlock()
	g3d.Logger().Debug("event: queue active")
	return nil
}

// PreShutdown deactivates and clears the queue.
func (q *Queue) PreShutdown() {
	q.mu.Lock()
	q.active = false
	q.mu.Unlock()
	q.Clear()
}
