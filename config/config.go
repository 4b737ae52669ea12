// Package config loads the application configuration from YAML.
//
// A missing key keeps its Default value, so a file only lists what it
// changes:
//
//	window:
//	  width: 1280
//	  height: 720
//	adapter: wgpu
//	log_level: debug
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Adapter names accepted in the adapter key.
const (
	AdapterOpenGL = "opengl"
	AdapterWGPU   = "wgpu"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Config is the application configuration.
type Config struct {
	Window  Window `yaml:"window"`
	Input   Input  `yaml:"input"`
	Adapter string `yaml:"adapter"`
	// WGPUBackend selects the HAL backend of the wgpu adapter by name,
	// such as "vulkan" or "gl". Empty picks the first registered.
	WGPUBackend string `yaml:"wgpu_backend"`
	LogLevel    Level  `yaml:"log_level"`
	Model       string `yaml:"model"`
	Camera      Camera `yaml:"camera"`
}

// Window describes the main window and its rendering context.
type Window struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Title        string `yaml:"title"`
	APIMajor     int    `yaml:"api_major"`
	APIMinor     int    `yaml:"api_minor"`
	DepthBits    int    `yaml:"depth_bits"`
	StencilBits  int    `yaml:"stencil_bits"`
	Antialiasing int    `yaml:"antialiasing"`
	// FrameRate limits the main loop. Zero disables the limit.
	FrameRate int  `yaml:"frame_rate"`
	VSync     bool `yaml:"vsync"`
}

// FrameDuration returns the minimum duration of a frame, or zero when the
// frame rate is unlimited.
func (w Window) FrameDuration() time.Duration {
	if w.FrameRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(w.FrameRate)
}

// Input configures the input glue.
type Input struct {
	CaptureMouse bool    `yaml:"capture_mouse"`
	Sensitivity  float32 `yaml:"sensitivity"`
}

// Camera configures the first person camera of the demo.
type Camera struct {
	FOV  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// Level is a slog level spelled as debug, info, warn or error.
type Level slog.Level

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, s)
	}
	*l = Level(lv)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l Level) MarshalYAML() (any, error) {
	return slog.Level(l).String(), nil
}

// Slog returns the level as a slog.Level.
func (l Level) Slog() slog.Level { return slog.Level(l) }

// Default returns the built-in configuration: an 800x600 window titled
// "Trillek m1 test" with a 32 bit depth buffer, 8 bit stencil and a 30
// frames per second limit, rendered through OpenGL.
func Default() *Config {
	return &Config{
		Window: Window{
			Width:       800,
			Height:      600,
			Title:       "Trillek m1 test",
			APIMajor:    3,
			APIMinor:    0,
			DepthBits:   32,
			StencilBits: 8,
			FrameRate:   30,
		},
		Input:    Input{CaptureMouse: true, Sensitivity: 0.2},
		Adapter:  AdapterOpenGL,
		LogLevel: Level(slog.LevelInfo),
		Camera:   Camera{FOV: 75, Near: 1, Far: 4096},
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are errors.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	w := c.Window
	switch {
	case w.Width <= 0 || w.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, w.Width, w.Height)
	case w.DepthBits < 0 || w.StencilBits < 0 || w.Antialiasing < 0:
		return fmt.Errorf("%w: negative framebuffer bits", ErrInvalid)
	case w.FrameRate < 0:
		return fmt.Errorf("%w: frame_rate %d", ErrInvalid, w.FrameRate)
	case c.Adapter != AdapterOpenGL && c.Adapter != AdapterWGPU:
		return fmt.Errorf("%w: adapter %q", ErrInvalid, c.Adapter)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: camera fov %g", ErrInvalid, c.Camera.FOV)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera clip planes %g..%g", ErrInvalid, c.Camera.Near, c.Camera.Far)
	}
	return nil
}

// Write encodes c as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
