package backend

import (
	"errors"
	"sort"

	"github.com/gogpu/g3d"
	"github.com/gogpu/gpucontext"
)

// Adapter names.
const (
	NameOpenGL = "opengl"
	NameWGPU   = "wgpu"
)

// Errors reported by the adapter registry and the Graphics subsystem.
var (
	ErrNoAdapter        = errors.New("backend: no graphics adapters registered")
	ErrMultipleAdapters = errors.New("backend: more than one graphics adapter registered")
	ErrDuplicateAdapter = errors.New("backend: adapter already registered")
	ErrNotAvailable     = errors.New("backend: adapter not available")
)

// Adapter creates devices for one native graphics API.
type Adapter interface {
	// Name returns the adapter identifier, such as "opengl".
	Name() string

	// NewDevice creates a device whose window targets present to s. The
	// caller releases the device.
	NewDevice(s g3d.Surface, opts ...g3d.DeviceOption) (*g3d.Device, error)
}

// Factory builds an adapter.
type Factory func() Adapter

var factories = gpucontext.NewRegistry[Adapter](
	gpucontext.WithPriority(NameWGPU, NameOpenGL),
)

// Register makes an adapter factory available under name, replacing any
// previous factory of that name. Adapter packages call it from init.
func Register(name string, f Factory) {
	factories.Register(name, f)
}

// Unregister removes the factory registered under name.
func Unregister(name string) {
	factories.Unregister(name)
}

// Get builds the adapter registered under name. It returns nil when no
// such adapter is registered.
func Get(name string) Adapter {
	return factories.Get(name)
}

// Default builds the highest priority registered adapter, preferring wgpu
// over opengl. It returns nil when nothing is registered.
func Default() Adapter {
	return factories.Best()
}

// Available returns the registered adapter names, sorted.
func Available() []string {
	names := factories.Available()
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a factory is registered under name.
func IsRegistered(name string) bool {
	return factories.Has(name)
}
