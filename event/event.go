// Package event carries input from the platform layer to the game loop.
//
// Platform callbacks push Events into a fixed-size Queue; the main loop
// drains it once per frame. The queue keeps the most recent QueueSize
// events and silently drops the oldest on overflow.
package event

import "fmt"

// Type is the event class.
type Type uint8

const (
	None Type = iota
	Mouse
	Key
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Mouse:
		return "mouse"
	case Key:
		return "key"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Subtype refines Type. Mouse events use DX, DY and DZ; key events use
// Down and Up.
type Subtype uint8

const (
	DX Subtype = iota
	DY
	DZ
)

const (
	Down Subtype = iota
	Up
)

// Event is one input event. Data is the movement delta for mouse events
// and the KeyCode for key events.
type Event struct {
	Type    Type
	Subtype Subtype
	Data    int
}

// MouseMove returns a mouse delta event along axis.
func MouseMove(axis Subtype, delta int) Event {
	return Event{Type: Mouse, Subtype: axis, Data: delta}
}

// KeyDown returns a key press event.
func KeyDown(k KeyCode) Event { return Event{Type: Key, Subtype: Down, Data: int(k)} }

// KeyUp returns a key release event.
func KeyUp(k KeyCode) Event { return Event{Type: Key, Subtype: Up, Data: int(k)} }

// KeyCode returns Data as a key code.
func (e Event) KeyCode() KeyCode { return KeyCode(e.Data) }

func (e Event) String() string {
	switch e.Type {
	case Mouse:
		axis := [...]string{"dx", "dy", "dz"}
		if int(e.Subtype) < len(axis) {
			return fmt.Sprintf("mouse %s %d", axis[e.Subtype], e.Data)
		}
	case Key:
		dir := "down"
		if e.Subtype == Up {
			dir = "up"
		}
		return fmt.Sprintf("key %s %s", dir, e.KeyCode())
	}
	return fmt.Sprintf("%s %d %d", e.Type, e.Subtype, e.Data)
}
