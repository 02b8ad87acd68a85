package cluster

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps provider tags to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry. Tests use it to avoid touching the
// process-wide one.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds factory under tag. A tag can be registered only once.
func (r *Registry) Register(tag string, factory Factory) error {
	if tag == "" {
		return fmt.Errorf("cluster provider tag must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("cluster provider %q: factory must not be nil", tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[tag]; exists {
		return &DuplicateProviderError{Provider: tag}
	}
	r.factories[tag] = factory
	return nil
}

// Lookup returns the factory registered under tag.
func (r *Registry) Lookup(tag string) (Factory, error) {
	r.mu.RLock()
	factory, ok := r.factories[tag]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownProviderError{Provider: tag, Known: r.Providers()}
	}
	return factory, nil
}

// Create builds a cluster with the factory registered under tag.
func (r *Registry) Create(tag, server string, data Data) (Cluster, error) {
	factory, err := r.Lookup(tag)
	if err != nil {
		return nil, err
	}

	c, err := factory.Create(server, data.Clone())
	if err != nil {
		return nil, fmt.Errorf("create %s cluster: %w", tag, err)
	}
	return c, nil
}

// CreateFromName builds a cluster from a short name. The provider must
// implement NameFactory.
func (r *Registry) CreateFromName(tag, name string, data Data) (Cluster, error) {
	factory, err := r.Lookup(tag)
	if err != nil {
		return nil, err
	}

	nf, ok := factory.(NameFactory)
	if !ok {
		return nil, fmt.Errorf("cluster provider %q cannot derive a server URL from a cluster name", tag)
	}

	c, err := nf.CreateFromName(name, data.Clone())
	if err != nil {
		return nil, fmt.Errorf("create %s cluster: %w", tag, err)
	}
	return c, nil
}

// Providers returns the registered tags in sorted order.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a factory to the process-wide registry.
func Register(tag string, factory Factory) error {
	return defaultRegistry.Register(tag, factory)
}

// MustRegister is Register for init functions; it panics on error.
func MustRegister(tag string, factory Factory) {
	if err := Register(tag, factory); err != nil {
		panic(err)
	}
}

// Create builds a cluster through the process-wide registry.
func Create(tag, server string, data Data) (Cluster, error) {
	return defaultRegistry.Create(tag, server, data)
}

// CreateFromName builds a cluster from a short name through the process-wide registry.
func CreateFromName(tag, name string, data Data) (Cluster, error) {
	return defaultRegistry.CreateFromName(tag, name, data)
}
