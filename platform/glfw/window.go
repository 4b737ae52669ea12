package glfw

import (
	"fmt"
	"runtime"

	glfw3 "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/config"
	"github.com/gogpu/g3d/platform"
	"github.com/gogpu/gpucontext"
)

// GLFW requires its calls on the main thread.
func init() {
	runtime.LockOSThread()
}

// maxDepthBits caps the requested default framebuffer depth. Most
// drivers expose no 32 bit depth visual.
const maxDepthBits = 24

// Options configure a new window.
type Options struct {
	Width, Height int
	Title         string
	Config        platform.WindowConfig
	// OpenGL creates the window with a current GL context. Without it the
	// window has no client API and is presented by wgpu.
	OpenGL bool
	VSync  bool
}

// OptionsFromConfig builds window options from the application
// configuration. The GL context is requested for the opengl adapter only.
func OptionsFromConfig(c *config.Config) Options {
	return Options{
		Width:  c.Window.Width,
		Height: c.Window.Height,
		Title:  c.Window.Title,
		Config: platform.FromConfig(c.Window),
		OpenGL: c.Adapter == config.AdapterOpenGL,
		VSync:  c.Window.VSync,
	}
}

// Window is a GLFW window. It is its own event source: callbacks
// registered through the gpucontext.EventSource methods run inside
// PollEvents.
type Window struct {
	gpucontext.NullEventSource

	win    *glfw3.Window
	cfg    platform.WindowConfig
	opengl bool
	mode   gpucontext.CursorMode
	closed bool

	keyPress   []func(gpucontext.Key, gpucontext.Modifiers)
	keyRelease []func(gpucontext.Key, gpucontext.Modifiers)
	text       []func(string)
	mouseMove  []func(x, y float64)
	mousePress []func(gpucontext.MouseButton, float64, float64)
	mouseUp    []func(gpucontext.MouseButton, float64, float64)
	scroll     []func(dx, dy float64)
	resize     []func(w, h int)
	focus      []func(bool)
}

var _ platform.Window = (*Window)(nil)

// Open initializes GLFW and creates a window. With o.OpenGL the window's
// context is made current on the calling thread.
func Open(o Options) (*Window, error) {
	if err := glfw3.Init(); err != nil {
		return nil, fmt.Errorf("glfw: init: %w", err)
	}
	glfw3.WindowHint(glfw3.Resizable, glfw3.True)
	if o.OpenGL {
		glfw3.WindowHint(glfw3.ClientAPI, glfw3.OpenGLAPI)
		if o.Config.APIMajor > 0 {
			glfw3.WindowHint(glfw3.ContextVersionMajor, o.Config.APIMajor)
			glfw3.WindowHint(glfw3.ContextVersionMinor, o.Config.APIMinor)
		}
		o.Config.DepthBits = min(o.Config.DepthBits, maxDepthBits)
		glfw3.WindowHint(glfw3.DepthBits, o.Config.DepthBits)
		glfw3.WindowHint(glfw3.StencilBits, o.Config.StencilBits)
		glfw3.WindowHint(glfw3.Samples, o.Config.AntialiasingLevel)
	} else {
		glfw3.WindowHint(glfw3.ClientAPI, glfw3.NoAPI)
	}

	win, err := glfw3.CreateWindow(o.Width, o.Height, o.Title, nil, nil)
	if err != nil {
		glfw3.Terminate()
		return nil, fmt.Errorf("glfw: create window: %w", err)
	}
	w := &Window{win: win, cfg: o.Config, opengl: o.OpenGL}
	if o.OpenGL {
		win.MakeContextCurrent()
		interval := 0
		if o.VSync {
			interval = 1
		}
		glfw3.SwapInterval(interval)
		w.cfg.APIMajor = win.GetAttrib(glfw3.ContextVersionMajor)
		w.cfg.APIMinor = win.GetAttrib(glfw3.ContextVersionMinor)
	}
	w.install()

	fw, fh := win.GetFramebufferSize()
	g3d.Logger().Info("glfw: window opened",
		"width", fw, "height", fh, "opengl", o.OpenGL,
		"api", fmt.Sprintf("%d.%d", w.cfg.APIMajor, w.cfg.APIMinor))
	return w, nil
}

func (w *Window) install() {
	w.win.SetKeyCallback(func(_ *glfw3.Window, k glfw3.Key, _ int, action glfw3.Action, m glfw3.ModifierKey) {
		key, mods := translateKey(k), translateMods(m)
		switch action {
		case glfw3.Press:
			for _, fn := range w.keyPress {
				fn(key, mods)
			}
		case glfw3.Release:
			for _, fn := range w.keyRelease {
				fn(key, mods)
			}
		}
	})
	w.win.SetCharCallback(func(_ *glfw3.Window, r rune) {
		for _, fn := range w.text {
			fn(string(r))
		}
	})
	w.win.SetCursorPosCallback(func(_ *glfw3.Window, x, y float64) {
		for _, fn := range w.mouseMove {
			fn(x, y)
		}
	})
	w.win.SetMouseButtonCallback(func(gw *glfw3.Window, b glfw3.MouseButton, action glfw3.Action, _ glfw3.ModifierKey) {
		x, y := gw.GetCursorPos()
		fns := w.mousePress
		if action == glfw3.Release {
			fns = w.mouseUp
		}
		for _, fn := range fns {
			fn(translateButton(b), x, y)
		}
	})
	w.win.SetScrollCallback(func(_ *glfw3.Window, dx, dy float64) {
		for _, fn := range w.scroll {
			fn(dx, dy)
		}
	})
	w.win.SetFramebufferSizeCallback(func(_ *glfw3.Window, width, height int) {
		for _, fn := range w.resize {
			fn(width, height)
		}
	})
	w.win.SetFocusCallback(func(_ *glfw3.Window, focused bool) {
		for _, fn := range w.focus {
			fn(focused)
		}
	})
}

func (w *Window) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	w.keyPress = append(w.keyPress, fn)
}

func (w *Window) OnKeyRelease(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	w.keyRelease = append(w.keyRelease, fn)
}

func (w *Window) OnTextInput(fn func(string)) { w.text = append(w.text, fn) }

func (w *Window) OnMouseMove(fn func(x, y float64)) { w.mouseMove = append(w.mouseMove, fn) }

func (w *Window) OnMousePress(fn func(gpucontext.MouseButton, float64, float64)) {
	w.mousePress = append(w.mousePress, fn)
}

func (w *Window) OnMouseRelease(fn func(gpucontext.MouseButton, float64, float64)) {
	w.mouseUp = append(w.mouseUp, fn)
}

func (w *Window) OnScroll(fn func(dx, dy float64)) { w.scroll = append(w.scroll, fn) }

func (w *Window) OnResize(fn func(width, height int)) { w.resize = append(w.resize, fn) }

func (w *Window) OnFocus(fn func(bool)) { w.focus = append(w.focus, fn) }

// Size returns the framebuffer size in pixels.
func (w *Window) Size() (int, int) { return w.win.GetFramebufferSize() }

func (w *Window) ScaleFactor() float64 {
	x, _ := w.win.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

// RequestRedraw wakes a blocked event wait.
func (w *Window) RequestRedraw() { glfw3.PostEmptyEvent() }

// Config returns the framebuffer configuration. The context version is
// the one granted by the driver.
func (w *Window) Config() platform.WindowConfig { return w.cfg }

func (w *Window) Events() gpucontext.EventSource { return w }

// SetCursorMode hides and locks the cursor for CursorModeLocked, using raw
// motion where the platform supports it.
func (w *Window) SetCursorMode(m gpucontext.CursorMode) {
	w.mode = m
	w.win.SetInputMode(glfw3.CursorMode, cursorInputMode(m))
	if glfw3.RawMouseMotionSupported() {
		raw := glfw3.False
		if m == gpucontext.CursorModeLocked {
			raw = glfw3.True
		}
		w.win.SetInputMode(glfw3.RawMouseMotion, raw)
	}
}

func (w *Window) CursorMode() gpucontext.CursorMode { return w.mode }

// SwapBuffers presents the GL back buffer. Windows without a GL context
// are presented by their wgpu surface and ignore it.
func (w *Window) SwapBuffers() error {
	if w.opengl {
		w.win.SwapBuffers()
	}
	return nil
}

func (w *Window) PollEvents() { glfw3.PollEvents() }

func (w *Window) ShouldClose() bool { return w.closed || w.win.ShouldClose() }

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.win.Destroy()
	glfw3.Terminate()
}
