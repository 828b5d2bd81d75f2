package pipeline

import (
	"fmt"
	"sync"
)

// Factory creates a new pipeline instance.
type Factory func(cfg Config) Pipeline

// registry holds registered pipeline factories.
var (
	registryMu sync.RWMutex
	factories  = make(map[Method]Factory)

	// Priority order for default selection (first available wins).
	// GPU-side expansion beats CPU-side; native lines are the fallback.
	methodPriority = []Method{MethodTexBuffer, MethodInstanced, MethodGeometry, MethodCPU, MethodNative}
)

func init() {
	Register(MethodNative, func(cfg Config) Pipeline { return NewNative(cfg) })
	Register(MethodCPU, func(cfg Config) Pipeline { return NewCPU(cfg) })
	Register(MethodGeometry, func(cfg Config) Pipeline { return NewGeometry(cfg) })
	Register(MethodTexBuffer, func(cfg Config) Pipeline { return NewTexBuffer(cfg) })
	Register(MethodInstanced, func(cfg Config) Pipeline { return NewInstanced(cfg) })
}

// Register registers a pipeline factory for a method. Registering the same
// method again replaces the previous factory; this is useful for tests and
// for hosts substituting a specialized implementation.
func Register(m Method, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[m] = factory
}

// Available returns the registered methods in priority order.
func Available() []Method {
	registryMu.RLock()
	defer registryMu.RUnlock()

	methods := make([]Method, 0, len(factories))
	for _, m := range methodPriority {
		if _, ok := factories[m]; ok {
			methods = append(methods, m)
		}
	}
	return methods
}

// New creates a pipeline for the given method with the given configuration.
func New(m Method, cfg Config) (Pipeline, error) {
	registryMu.RLock()
	factory, ok := factories[m]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("pipeline: method %s not registered", m)
	}
	return factory(cfg), nil
}

// Default returns the highest-priority registered pipeline with the default
// configuration, or nil if nothing is registered.
func Default() Pipeline {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, m := range methodPriority {
		if factory, ok := factories[m]; ok {
			return factory(DefaultConfig())
		}
	}
	return nil
}
