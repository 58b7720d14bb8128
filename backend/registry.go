// Package backend maintains the registry of rendering devices. Device
// packages register themselves from init(); importing one for its side
// effect makes it available:
//
//	import _ "github.com/gogpu/splot/backend/soft"
package backend

import (
	"errors"
	"sync"

	"github.com/gogpu/splot/gpudev"
)

// Device names used by the built-in backends.
const (
	// NameWgpu is the GPU device built on github.com/gogpu/wgpu.
	NameWgpu = "wgpu"
	// NameSoft is the CPU reference device.
	NameSoft = "soft"
)

// ErrNoBackend is returned when no device backend is registered or none
// initializes successfully.
var ErrNoBackend = errors.New("backend: no device backend available")

// Factory creates a new, uninitialized device instance.
type Factory func() gpudev.Device

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for default selection (first available wins).
	// Hardware first, CPU reference as fallback.
	priority = []string{NameWgpu, NameSoft}
)

// Register registers a device factory with the given name, replacing any
// previous registration. Typically called from init() in device packages.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a device from the registry. Useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered device names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks whether a device with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Get returns a new device instance by name, or nil if the name is not
// registered. The device is not initialized.
func Get(name string) gpudev.Device {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := factories[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns a new instance of the best available device based on
// priority, or nil when nothing is registered.
func Default() gpudev.Device {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range priority {
		if factory, ok := factories[name]; ok {
			if d := factory(); d != nil {
				return d
			}
		}
	}

	// Fallback: first registered factory.
	for _, factory := range factories {
		if d := factory(); d != nil {
			return d
		}
	}
	return nil
}

// InitDefault creates and initializes the default device, walking the
// priority list until one initializes successfully.
func InitDefault() (gpudev.Device, error) {
	registryMu.RLock()
	ordered := make([]Factory, 0, len(factories))
	for _, name := range priority {
		if f, ok := factories[name]; ok {
			ordered = append(ordered, f)
		}
	}
	for name, f := range factories {
		if !inPriority(name) {
			ordered = append(ordered, f)
		}
	}
	registryMu.RUnlock()

	var firstErr error
	for _, factory := range ordered {
		d := factory()
		if d == nil {
			continue
		}
		if err := d.Init(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return d, nil
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, ErrNoBackend
}

func inPriority(name string) bool {
	for _, p := range priority {
		if p == name {
			return true
		}
	}
	return false
}
