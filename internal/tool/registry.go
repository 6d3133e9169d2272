package tool

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
)

// Registry is a name-keyed, thread-safe mapping of tools, populated at
// bootstrap and read concurrently thereafter. Within a single goal, the
// kernel invokes Execute serially, but the registry itself must be safe
// to share across goals.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. If a tool with the same name already exists, it
// is overwritten and a warning is logged.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; exists {
		log.Printf("[Registry] WARNING: overwriting existing tool %q", t.Name())
	}
	r.tools[t.Name()] = t
}

// Unregister removes a tool by name. It is a no-op if the name is not
// registered, closing the tool first if it implements Closer.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tools[name]
	if !ok {
		return
	}
	if closer, ok := t.(Closer); ok {
		if err := closer.Close(); err != nil {
			log.Printf("[Registry] error closing tool %s: %v", name, err)
		}
	}
	delete(r.tools, name)
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Descriptor is the {name, description, parameters_schema} triple the
// model dispatch layer attaches to provider requests.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  []byte `json:"parameters_schema"`
}

// Descriptors returns a Descriptor per registered tool, sorted by name.
func (r *Registry) Descriptors() []Descriptor {
	tools := r.List()
	out := make([]Descriptor, len(tools))
	for i, t := range tools {
		out[i] = Descriptor{Name: t.Name(), Description: t.Description(), Parameters: t.Parameters()}
	}
	return out
}

// InitAll initializes every registered tool that implements Initializer.
func (r *Registry) InitAll(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, t := range r.tools {
		if init, ok := t.(Initializer); ok {
			if err := init.Init(ctx); err != nil {
				return fmt.Errorf("init tool %q: %w", name, err)
			}
		}
	}
	log.Printf("[Registry] initialized %d tools", len(r.tools))
	return nil
}

// CloseAll closes every registered tool that implements Closer, logging
// errors rather than failing.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, t := range r.tools {
		if closer, ok := t.(Closer); ok {
			if err := closer.Close(); err != nil {
				log.Printf("[Registry] error closing tool %s: %v", name, err)
			}
		}
	}
}
