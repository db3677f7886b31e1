package observability

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages the sinks an emitter writes to
type Registry struct {
	sinks map[string]Sink
	mu    sync.RWMutex
}

// NewRegistry creates an empty sink registry
func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[string]Sink),
	}
}

// RegisterSink validates and adds a sink
func (r *Registry) RegisterSink(sink Sink) error {
	if sink == nil {
		return fmt.Errorf("sink cannot be nil")
	}

	sinkType := sink.GetType()
	if sinkType == "" {
		return fmt.Errorf("sink type cannot be empty")
	}

	if err := sink.Validate(); err != nil {
		return fmt.Errorf("sink validation failed; %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sinks[sinkType]; exists {
		return fmt.Errorf("sink type %q is already registered", sinkType)
	}

	r.sinks[sinkType] = sink
	return nil
}

// GetSink retrieves a sink by type
func (r *Registry) GetSink(sinkType string) (Sink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sink, exists := r.sinks[sinkType]
	if !exists {
		return nil, fmt.Errorf("sink type %q not found", sinkType)
	}

	return sink, nil
}

// ListSinks returns the registered sink types in sorted order
func (r *Registry) ListSinks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sinks))
	for sinkType := range r.sinks {
		names = append(names, sinkType)
	}
	sort.Strings(names)

	return names
}

// HasSink checks if a sink type is registered
func (r *Registry) HasSink(sinkType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.sinks[sinkType]
	return exists
}
