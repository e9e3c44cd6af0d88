package strategy

import (
	"sort"
	"sync"

	"prizepool/domain/interfaces"
)

// Registry holds the strategies the treasury may switch between, by name
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]interfaces.Strategy
}

// NewRegistry creates a registry holding the given strategies
func NewRegistry(strategies ...interfaces.Strategy) *Registry {
	r := &Registry{strategies: make(map[string]interfaces.Strategy)}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a strategy
func (r *Registry) Register(s interfaces.Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Name()] = s
}

// Get returns the strategy registered under name
func (r *Registry) Get(name string) (interfaces.Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	return s, ok
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
