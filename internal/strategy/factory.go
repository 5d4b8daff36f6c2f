package strategy

import (
	"fmt"
	"slices"
	"sync"
)

// Factory resolves strategies by name.
type Factory interface {
	// List returns the registered names in ascending order.
	List() []string
	// Get returns the strategy registered under name.
	Get(name string) (Strategy, error)
	// GetAll returns every registered strategy, ordered by name.
	GetAll() []Strategy
}

// Registry is a concurrency-safe Factory that strategies can be added to.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// NewDefaultFactory returns a registry holding the pool, queue and
// sequential strategies.
func NewDefaultFactory() *Registry {
	r := NewRegistry()
	for _, s := range []Strategy{PoolStrategy{}, QueueStrategy{}, SequentialStrategy{}} {
		_ = r.Register(s)
	}
	return r
}

// Register adds s under s.Name(). Registering a name twice is an error.
func (r *Registry) Register(s Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.strategies[s.Name()]; exists {
		return fmt.Errorf("strategy %q already registered", s.Name())
	}
	r.strategies[s.Name()] = s
	return nil
}

// List implements Factory.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get implements Factory.
func (r *Registry) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return s, nil
}

// GetAll implements Factory.
func (r *Registry) GetAll() []Strategy {
	names := r.List()
	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		if s, err := r.Get(name); err == nil {
			out = append(out, s)
		}
	}
	return out
}
