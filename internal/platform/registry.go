package platform

import (
	"fmt"
	"sort"
	"sync"
)

// SourceFactory builds a DocumentSource on demand. Headless sources launch a
// browser, so construction is deferred until the source is selected.
type SourceFactory func() (DocumentSource, error)

var (
	registry = make(map[string]SourceFactory)
	mu       sync.RWMutex
)

// Register makes a source available under name, replacing any previous one.
func Register(name string, factory SourceFactory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = factory
}

// Get builds the source registered under name.
func Get(name string) (DocumentSource, error) {
	mu.RLock()
	factory, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("source %q not registered (have %v)", name, List())
	}
	return factory()
}

// List returns registered source names in sorted order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
