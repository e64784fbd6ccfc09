package backend

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/rawview"
)

// Factory creates a new host instance.
type Factory func() rawview.Host

// registry holds registered hosts.
var (
	registryMu sync.RWMutex
	hosts      = make(map[string]Factory)
	// Priority order for host selection (first available wins).
	// Native windows first; the headless software host is the fallback.
	hostPriority = []string{BackendGoGPU, BackendGStreamer, BackendSoftware}
)

// Register registers a host factory with the given name.
// This is typically called from init() functions in backend packages.
// If a host with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	hosts[name] = factory
}

// Unregister removes a host from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(hosts, name)
}

// Available returns the registered host names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(hosts))
	for name := range hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a host with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := hosts[name]
	return ok
}

// Get returns a host instance by name.
// Returns nil if the host is not registered.
func Get(name string) rawview.Host {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := hosts[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available host based on priority.
// Priority order: gogpu > gstreamer > software.
// Returns nil if no hosts are registered.
func Default() rawview.Host {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range hostPriority {
		if factory, ok := hosts[name]; ok {
			if h := factory(); h != nil {
				return h
			}
		}
	}

	// Fallback: first registered name in sorted order, for determinism.
	names := make([]string, 0, len(hosts))
	for name := range hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if h := hosts[name](); h != nil {
			return h
		}
	}
	return nil
}

// Open returns the host named name. An empty name or "auto" selects
// Default().
func Open(name string) (rawview.Host, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == BackendAuto {
		if h := Default(); h != nil {
			return h, nil
		}
		return nil, ErrBackendNotAvailable
	}
	if h := Get(name); h != nil {
		return h, nil
	}
	return nil, fmt.Errorf("%w: %q (registered: %s)", ErrBackendNotAvailable, name, strings.Join(Available(), ", "))
}
