package world

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Driver opens a Connection from configuration.
type Driver func(ctx context.Context, cfg *Config) (Connection, error)

type registry struct {
	drivers map[string]Driver
	mu      sync.RWMutex
}

var register = &registry{
	drivers: make(map[string]Driver),
}

// Register adds a driver to the global registry.
// Returns ErrDriverExists if a driver with the same name is already registered.
func Register(name string, driver Driver) error {
	if name == "" {
		return ErrEmptyDriverName
	}

	register.mu.Lock()
	defer register.mu.Unlock()

	if _, exists := register.drivers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDriverExists, name)
	}

	register.drivers[name] = driver
	return nil
}

// Drivers returns the names of all registered drivers, sorted.
func Drivers() []string {
	register.mu.RLock()
	defer register.mu.RUnlock()

	names := make([]string, 0, len(register.drivers))
	for name := range register.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates a Connection using the driver named in cfg, falling back to
// DefaultDriver when none is set.
func Open(ctx context.Context, cfg *Config) (Connection, error) {
	name := cfg.Driver
	if name == "" {
		name = DefaultDriver
	}

	register.mu.RLock()
	driver, exists := register.drivers[name]
	register.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, name)
	}

	conn, err := driver(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open world via %s: %w", name, err)
	}
	return conn, nil
}
