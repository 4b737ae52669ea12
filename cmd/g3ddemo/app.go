package main

import (
	"fmt"
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/g3d/config"
	"github.com/gogpu/g3d/event"
	"github.com/gogpu/g3d/platform"
	"github.com/gogpu/g3d/scene"
	"github.com/gogpu/g3d/subsystem"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// World layout.
const (
	arena     = 256
	gridStep  = 16
	statEvery = 120 // frames between statistics log lines
)

var (
	floorColor   = scene.Color(g3d.RGB(0.35, 0.35, 0.4))
	crateColor   = scene.Color(g3d.Hex("#b08850"))
	overlayColor = g3d.RGBA(1, 1, 1, 0.6)
)

// app is the running demo.
type app struct {
	cfg    *config.Config
	win    platform.Window
	dev    *g3d.Device
	target *g3d.WindowTarget
	queue  *event.Queue
	world  *scene.Scene
	cam    *scene.Camera
	player *scene.Player

	size    image.Point
	resized bool
	quit    bool
	frames  int
}

// run starts the subsystems, builds the scene and loops until the window
// closes.
func run(cfg *config.Config, win platform.Window, a backend.Adapter) error {
	mgr := subsystem.NewManager()
	graphics := backend.NewGraphics()
	queue := event.NewQueue()
	if err := mgr.Load("graphics", graphics); err != nil {
		return err
	}
	if err := mgr.Load("input", queue); err != nil {
		return err
	}
	if err := graphics.Register(a); err != nil {
		return err
	}
	if err := mgr.Startup(); err != nil {
		return err
	}
	defer mgr.Shutdown()

	w, h := win.Size()
	dev, err := graphics.CreateDevice(win, g3d.WithViewport(image.Rect(0, 0, w, h)))
	if err != nil {
		return err
	}
	defer dev.Release()

	target, err := platform.NewWindowTarget(win, dev)
	if err != nil {
		return err
	}
	defer target.Release()

	ap := &app{
		cfg:    cfg,
		win:    win,
		dev:    dev,
		target: target,
		queue:  queue,
		world:  scene.New(),
		cam:    scene.NewCamera(),
		size:   image.Pt(w, h),
	}
	defer ap.world.Release()

	if err := ap.populate(); err != nil {
		return err
	}
	ap.player = scene.NewPlayer(ap.cam)
	ap.player.Sensitivity = cfg.Input.Sensitivity
	ap.player.Arena = arena
	ap.updateProjection()

	ap.bindInput()
	return ap.loop()
}

// populate adds the floor and either the configured model or a crate.
func (a *app) populate() error {
	if _, err := a.world.AddModel(a.dev, scene.Grid("floor", arena, gridStep, floorColor)); err != nil {
		return err
	}
	if a.cfg.Model != "" {
		m, err := scene.LoadModel(a.cfg.Model)
		if err != nil {
			return err
		}
		_, err = a.world.AddModel(a.dev, m)
		return err
	}
	crate := scene.Cube("crate", 16, crateColor)
	crate.Translate = []float32{64, 8, 0}
	crate.Rotate = []float32{0, 30, 0}
	_, err := a.world.AddModel(a.dev, crate)
	return err
}

func (a *app) bindInput() {
	src := a.win.Events()
	event.Bind(src, a.queue)
	src.OnResize(func(w, h int) {
		a.size, a.resized = image.Pt(w, h), true
	})
	if a.cfg.Input.CaptureMouse {
		a.win.SetCursorMode(gpucontext.CursorModeLocked)
	}
}

func (a *app) updateProjection() {
	vp := image.Rectangle{Max: a.size}
	c := a.cfg.Camera
	a.cam.UpdateProjection(vp, c.Near, c.Far, c.FOV)
}

func (a *app) loop() error {
	budget := a.cfg.Window.FrameDuration()
	last := time.Now()
	for !a.quit && !a.win.ShouldClose() {
		start := time.Now()
		a.win.PollEvents()
		a.queue.Drain(a.handle)
		if a.resized {
			a.updateProjection()
			a.resized = false
		}
		a.player.Update(start.Sub(last))
		last = start

		if err := a.frame(); err != nil {
			return fmt.Errorf("frame %d: %w", a.frames, err)
		}
		a.frames++
		if a.frames%statEvery == 0 {
			s := a.dev.Stats()
			g3d.Logger().Debug("g3ddemo: frame statistics",
				"frame", a.frames, "draws", s.DrawCalls, "polys", s.PolyCount, "dropped_events", a.queue.Dropped())
		}

		if budget > 0 {
			if rest := budget - time.Since(start); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
	g3d.Logger().Info("g3ddemo: exiting", "frames", a.frames)
	return nil
}

func (a *app) handle(ev event.Event) {
	if ev.Type == event.Key && ev.Subtype == event.Down && ev.KeyCode() == event.KeyEscape {
		a.quit = true
		return
	}
	a.player.HandleEvent(ev)
}

// worldState is the render state of the lit scene.
func worldState() g3d.RenderState {
	s := g3d.DefaultRenderState()
	s.Depth.Compare = gputypes.CompareFunctionLess
	s.Cull = g3d.CullState{Mode: gputypes.CullModeBack, FrontFace: gputypes.FrontFaceCCW}
	return s
}

// overlayState draws blended without depth.
func overlayState() g3d.RenderState {
	s := g3d.DefaultRenderState().AlphaBlended()
	s.Depth = g3d.DepthState{Compare: gputypes.CompareFunctionAlways}
	return s
}

func (a *app) frame() error {
	d := a.dev
	if err := d.BeginFrame(); err != nil {
		return err
	}
	d.SetRenderTarget(a.target)
	a.cam.Apply(d)
	d.SetRenderState(worldState())
	if err := d.Clear(g3d.ClearAll, g3d.Black, 1, 0); err != nil {
		return err
	}
	if err := a.world.Draw(d); err != nil {
		return err
	}
	if err := a.overlay(); err != nil {
		return err
	}
	if err := d.EndFrame(); err != nil {
		return err
	}
	return a.target.SwapBuffers()
}

// overlay frames the viewport and marks its centre in pixel coordinates.
func (a *app) overlay() error {
	d := a.dev
	w, h := float32(a.size.X), float32(a.size.Y)
	d.PushRenderState()
	defer d.PopRenderState()
	d.SetRenderState(overlayState())
	d.SetProjectionTransform(mgl32.Ortho2D(0, w, h, 0))
	d.SetCameraTransform(mgl32.Ident4())

	if err := d.DrawRect(mgl32.Vec2{8, 8}, mgl32.Vec2{w - 8, h - 8}, overlayColor); err != nil {
		return err
	}
	cx, cy := w/2, h/2
	return d.FillRect(mgl32.Vec2{cx - 2, cy - 2}, mgl32.Vec2{cx + 2, cy + 2}, overlayColor)
}
