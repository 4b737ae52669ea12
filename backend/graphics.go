package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/subsystem"
	"github.com/gogpu/gpucontext"
)

// Graphics is the graphics subsystem. It collects adapters during startup
// and, once PostInit has validated that exactly one was registered,
// creates devices from it.
type Graphics struct {
	subsystem.Base

	adapters *gpucontext.Registry[Adapter]

	mu     sync.Mutex
	active Adapter
}

var _ subsystem.Subsystem = (*Graphics)(nil)

// NewGraphics returns a graphics subsystem with no adapters.
func NewGraphics() *Graphics {
	return &Graphics{adapters: gpucontext.NewRegistry[Adapter]()}
}

// Register adds a to the subsystem.
func (g *Graphics) Register(a Adapter) error {
	name := a.Name()
	if g.adapters.Has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateAdapter, name)
	}
	g.adapters.Register(name, func() Adapter { return a })
	g3d.Logger().Debug("backend: adapter registered", "adapter", name)
	return nil
}

// Adapters returns the names of the registered adapters, sorted.
func (g *Graphics) Adapters() []string {
	names := g.adapters.Available()
	sort.Strings(names)
	return names
}

// PostInit selects the single registered adapter.
func (g *Graphics) PostInit() error {
	switch n := g.adapters.Count(); {
	case n == 0:
		return ErrNoAdapter
	case n > 1:
		return fmt.Errorf("%w: %v", ErrMultipleAdapters, g.Adapters())
	}
	a := g.adapters.Best()

	g.mu.Lock()
	g.active = a
	g.mu.Unlock()
	g3d.Logger().Info("backend: graphics adapter selected", "adapter", a.Name())
	return nil
}

// PreShutdown forgets every adapter.
func (g *Graphics) PreShutdown() {
	for _, name := range g.adapters.Available() {
		g.adapters.Unregister(name)
	}
	g.mu.Lock()
	g.active = nil
	g.mu.Unlock()
}

// Adapter returns the adapter selected by PostInit.
func (g *Graphics) Adapter() (Adapter, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == nil {
		return nil, ErrNoAdapter
	}
	return g.active, nil
}

// CreateDevice creates a device from the selected adapter.
func (g *Graphics) CreateDevice(s g3d.Surface, opts ...g3d.DeviceOption) (*g3d.Device, error) {
	a, err := g.Adapter()
	if err != nil {
		return nil, err
	}
	d, err := a.NewDevice(s, opts...)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: create device: %w", a.Name(), err)
	}
	return d, nil
}
