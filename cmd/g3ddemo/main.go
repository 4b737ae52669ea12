// Command g3ddemo walks a first person camera around a small scene.
//
// It loads an optional YAML configuration, opens a GLFW window (or a
// headless one), creates a device through the configured adapter and runs
// the frame loop until the window closes or Escape is pressed. WASD or the
// arrow keys walk, space jumps and the mouse looks around.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/backend"
	_ "github.com/gogpu/g3d/backend/opengl"
	"github.com/gogpu/g3d/backend/wgpu"
	"github.com/gogpu/g3d/config"
	"github.com/gogpu/g3d/platform"
	"github.com/gogpu/g3d/platform/glfw"
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		adapter    = flag.String("adapter", "", "graphics adapter (opengl or wgpu), overrides the configuration")
		model      = flag.String("model", "", "YAML model file, overrides the configuration")
		headless   = flag.Int("headless", 0, "render this many frames without a window through wgpu")
		dump       = flag.Bool("dump-config", false, "print the effective configuration and exit")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *headless > 0 {
		cfg.Adapter = config.AdapterWGPU
	}
	if *adapter != "" {
		cfg.Adapter = *adapter
	}
	if *model != "" {
		cfg.Model = *model
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if *dump {
		if err := cfg.Write(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	g3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel.Slog()})))

	a, err := newAdapter(cfg)
	if err != nil {
		log.Fatal(err)
	}
	win, err := openWindow(cfg, *headless)
	if err != nil {
		log.Fatal(err)
	}
	defer win.Close()

	if err := run(cfg, win, a); err != nil {
		log.Fatalf("g3ddemo: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newAdapter returns the adapter named by the configuration.
func newAdapter(cfg *config.Config) (backend.Adapter, error) {
	if cfg.Adapter == config.AdapterWGPU {
		v, err := wgpu.ParseBackend(cfg.WGPUBackend)
		if err != nil {
			return nil, err
		}
		return wgpu.NewAdapter(wgpu.WithBackend(v)), nil
	}
	a := backend.Get(cfg.Adapter)
	if a == nil {
		return nil, fmt.Errorf("unknown adapter %q, have %v", cfg.Adapter, backend.Available())
	}
	return a, nil
}

func openWindow(cfg *config.Config, headless int) (platform.Window, error) {
	if headless > 0 {
		h := platform.NewHeadless(cfg.Window.Width, cfg.Window.Height, platform.FromConfig(cfg.Window))
		h.MaxFrames = headless
		return h, nil
	}
	return glfw.Open(glfw.OptionsFromConfig(cfg))
}
