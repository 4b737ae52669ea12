package platform

import (
	"sync/atomic"

	"github.com/gogpu/gpucontext"
)

// Headless is a Window without a display. It closes itself after
// MaxFrames presented frames when MaxFrames is positive.
type Headless struct {
	gpucontext.NullWindowProvider
	gpucontext.NullEventSource

	MaxFrames int

	cfg    WindowConfig
	frames atomic.Int64
	mode   gpucontext.CursorMode
	closed atomic.Bool
}

var _ Window = (*Headless)(nil)

// NewHeadless returns a headless window of the given size.
func NewHeadless(width, height int, cfg WindowConfig) *Headless {
	return &Headless{
		NullWindowProvider: gpucontext.NullWindowProvider{W: width, H: height},
		cfg:                cfg,
	}
}

func (h *Headless) Config() WindowConfig                  { return h.cfg }
func (h *Headless) Events() gpucontext.EventSource        { return h.NullEventSource }
func (h *Headless) SetCursorMode(m gpucontext.CursorMode) { h.mode = m }
func (h *Headless) CursorMode() gpucontext.CursorMode     { return h.mode }
func (h *Headless) PollEvents()                           {}
func (h *Headless) Close()                                { h.closed.Store(true) }

// Frames returns the number of presented frames.
func (h *Headless) Frames() int { return int(h.frames.Load()) }

// SwapBuffers counts a presented frame.
func (h *Headless) SwapBuffers() error {
	n := h.frames.Add(1)
	if h.MaxFrames > 0 && n >= int64(h.MaxFrames) {
		h.closed.Store(true)
	}
	return nil
}

func (h *Headless) ShouldClose() bool { return h.closed.Load() }
