package exchange

import (
	"fmt"
	"sync"
)

// Container is a thread-safe registry of connector instances keyed by
// venue name.
type Container struct {
	mu         sync.RWMutex
	connectors map[string]Connector
}

// NewContainer creates and returns a new empty container.
func NewContainer() *Container {
	return &Container{
		connectors: make(map[string]Connector),
	}
}

// Register adds a connector under the given name, overwriting any
// previous entry.
func (c *Container) Register(name string, conn Connector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectors[name] = conn
}

// Get retrieves a connector by name.
func (c *Container) Get(name string) (Connector, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	conn, exists := c.connectors[name]
	if !exists {
		return nil, fmt.Errorf("connector %q not found", name)
	}
	return conn, nil
}

// Names returns the names of all registered connectors.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.connectors))
	for name := range c.connectors {
		names = append(names, name)
	}
	return names
}

// Unregister removes a connector by name.
func (c *Container) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.connectors, name)
}

// Close closes every registered connector, returning the first error.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for name, conn := range c.connectors {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", name, err)
		}
	}
	c.connectors = make(map[string]Connector)
	return firstErr
}
