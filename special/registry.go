package special

import (
	"fmt"
	"sort"
	"sync"
)

// GammaFactory creates a Gamma provider instance.
type GammaFactory func() GammaProvider

// DefaultGamma is the provider used when none is configured.
const DefaultGamma = "lanczos"

// registry holds registered Gamma provider factories.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]GammaFactory)
)

func init() {
	Register("lanczos", NewLanczos)
	Register("stirling", NewStirling)
}

// Register adds a Gamma provider factory to the registry.
// If a provider with the same name is already registered, it will be overwritten.
//
//	special.Register("table", func() special.GammaProvider {
//	    return newTableGamma()
//	})
func Register(name string, factory GammaFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a provider factory by name.
// Returns nil if the provider is not registered.
func Get(name string) GammaFactory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// Create creates a new provider instance by name.
// An empty name selects DefaultGamma.
func Create(name string) (GammaProvider, error) {
	if name == "" {
		name = DefaultGamma
	}
	factory := Get(name)
	if factory == nil {
		return nil, fmt.Errorf("unknown gamma provider: %s (available: %v)", name, List())
	}
	return factory(), nil
}

// List returns the names of all registered providers in sorted order.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered returns true if a provider with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}
