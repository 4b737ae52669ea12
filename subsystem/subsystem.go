// Package subsystem runs the startup and shutdown phases of the engine's
// subsystems and lets them find each other by capability.
//
// A Manager is built by the application and passed to every subsystem's
// Init. Startup runs PreInit, then Init, then PostInit across all
// subsystems in load order; Shutdown runs PreShutdown and then Shutdown in
// reverse load order.
package subsystem

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/g3d"
)

// Errors returned by Manager.
var (
	ErrDuplicate = errors.New("subsystem: name already loaded")
	ErrNotFound  = errors.New("subsystem: not found")
	ErrStarted   = errors.New("subsystem: manager already started")
)

// Subsystem is a component with a staged lifecycle.
type Subsystem interface {
	PreInit() error
	// Init may look up other subsystems; they have all finished PreInit.
	Init(m *Manager) error
	PostInit() error
	PreShutdown()
	Shutdown()
}

// Base implements every phase as a no-op. Embed it to implement only the
// phases a subsystem needs.
type Base struct{}

func (Base) PreInit() error      { return nil }
func (Base) Init(*Manager) error { return nil }
func (Base) PostInit() error     { return nil }
func (Base) PreShutdown()        {}
func (Base) Shutdown()           {}

type entry struct {
	name string
	sub  Subsystem
}

// Manager owns the loaded subsystems. Load and lookups are safe for
// concurrent use; Startup and Shutdown are not.
type Manager struct {
	mu      sync.RWMutex
	order   []entry
	byName  map[string]Subsystem
	started bool
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{byName: make(map[string]Subsystem)}
}

// Load registers s under name. Subsystems cannot be loaded after Startup.
func (m *Manager) Load(name string, s Subsystem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return fmt.Errorf("%w: cannot load %q", ErrStarted, name)
	}
	if _, ok := m.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	m.byName[name] = s
	m.order = append(m.order, entry{name: name, sub: s})
	return nil
}

// Lookup returns the subsystem loaded under name.
func (m *Manager) Lookup(name string) (Subsystem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byName[name]
	return s, ok
}

// Names returns the loaded names in load order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.order))
	for i, e := range m.order {
		names[i] = e.name
	}
	return names
}

// Get returns the first loaded subsystem that implements T.
func Get[T any](m *Manager) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.order {
		if t, ok := e.sub.(T); ok {
			return t, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: no subsystem implements %T", ErrNotFound, (*T)(nil))
}

// MustGet is like Get but panics when nothing implements T.
func MustGet[T any](m *Manager) T {
	t, err := Get[T](m)
	if err != nil {
		panic(err)
	}
	return t
}

func (m *Manager) snapshot() []entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]entry(nil), m.order...)
}

// Startup runs PreInit, Init and PostInit over every subsystem. It stops
// at the first error, which names the failing subsystem and phase.
func (m *Manager) Startup() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrStarted
	}
	m.started = true
	m.mu.Unlock()

	subs := m.snapshot()
	for _, e := range subs {
		if err := e.sub.PreInit(); err != nil {
			return fmt.Errorf("subsystem %s: pre-init: %w", e.name, err)
		}
	}
	for _, e := range subs {
		if err := e.sub.Init(m); err != nil {
			return fmt.Errorf("subsystem %s: init: %w", e.name, err)
		}
	}
	for _, e := range subs {
		if err := e.sub.PostInit(); err != nil {
			return fmt.Errorf("subsystem %s: post-init: %w", e.name, err)
		}
	}
	g3d.Logger().Info("subsystem: started", "count", len(subs))
	return nil
}

// Shutdown runs PreShutdown and then Shutdown over every subsystem in
// reverse load order.
func (m *Manager) Shutdown() {
	subs := m.snapshot()
	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].sub.PreShutdown()
	}
	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].sub.Shutdown()
	}
	m.mu.Lock()
	m.started = false
	m.mu.Unlock()
	g3d.Logger().Info("subsystem: shut down", "count", len(subs))
}
