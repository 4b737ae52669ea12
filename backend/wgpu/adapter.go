package wgpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/g3d"
	"github.com/gogpu/g3d/backend"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func init() {
	backend.Register(backend.NameWGPU, func() backend.Adapter { return NewAdapter() })
}

// Adapter opens hal devices. The zero variant picks the most capable
// registered hal backend.
type Adapter struct {
	variant gputypes.Backend
	cache   int
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithBackend selects the hal backend variant.
func WithBackend(v gputypes.Backend) Option {
	return func(a *Adapter) { a.variant = v }
}

// WithPipelineCache sets how many render pipelines a device keeps.
func WithPipelineCache(n int) Option {
	return func(a *Adapter) { a.cache = n }
}

// NewAdapter returns an adapter with the given options applied.
func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{cache: DefaultPipelineCache}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Name returns backend.NameWGPU.
func (a *Adapter) Name() string { return backend.NameWGPU }

// NewDevice opens a hal device and wraps it in a g3d device.
func (a *Adapter) NewDevice(_ g3d.Surface, opts ...g3d.DeviceOption) (*g3d.Device, error) {
	b, err := Open(a.variant, a.cache)
	if err != nil {
		return nil, err
	}
	return g3d.NewDevice(b, opts...), nil
}

var backendNames = map[string]gputypes.Backend{
	"":       gputypes.BackendEmpty,
	"auto":   gputypes.BackendEmpty,
	"vulkan": gputypes.BackendVulkan,
	"metal":  gputypes.BackendMetal,
	"dx12":   gputypes.BackendDX12,
	"gl":     gputypes.BackendGL,
	"gles":   gputypes.BackendGL,
}

// ParseBackend maps a configuration name such as "vulkan" to a hal
// variant. "" and "auto" select automatically.
func ParseBackend(name string) (gputypes.Backend, error) {
	v, ok := backendNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("wgpu: unknown hal backend %q", name)
	}
	return v, nil
}

// Open creates an instance of the hal backend variant, opens its first
// GPU adapter and returns a backend for it. The zero variant selects the
// best registered backend.
func Open(variant gputypes.Backend, pipelineCache int) (*Backend, error) {
	var hb hal.Backend
	if variant == gputypes.BackendEmpty {
		best, err := hal.SelectBestBackend()
		if err != nil {
			return nil, fmt.Errorf("wgpu: %w", err)
		}
		hb = best
	} else {
		b, ok := hal.GetBackend(variant)
		if !ok {
			return nil, fmt.Errorf("wgpu: hal backend %s not registered: %w", variant, backend.ErrNotAvailable)
		}
		hb = b
	}

	instance, err := hb.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: no %s adapters found: %w", hb.Variant(), backend.ErrNotAvailable)
	}
	selected := &adapters[0]
	for i := range adapters {
		t := adapters[i].Info.DeviceType
		if t == gputypes.DeviceTypeDiscreteGPU || t == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	b, err := newBackend(instance, open.Device, open.Queue, pipelineCache)
	if err != nil {
		open.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	g3d.Logger().Info("wgpu: device opened",
		"backend", hb.Variant().String(), "adapter", selected.Info.Name, "driver", selected.Info.Driver)
	return b, nil
}
