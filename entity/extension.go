package entity

import (
	"fmt"
	"sync"
)

// Dependency is a subsystem ticked in a fixed order by its owner.
type Dependency interface {
	Initialize(owner *Entity)
	Handle(dt float64)
}

// UpdateOrder places an extension in the entity tick.
type UpdateOrder int

const (
	OrderDefault UpdateOrder = iota
	OrderPreProcess
	OrderPostProcess
)

// Extension is an optional per-entity add-on.
type Extension interface {
	Dependency
	Order() UpdateOrder
}

// Destroyer is implemented by extensions that release resources on despawn.
type Destroyer interface {
	Destroy()
}

// ExtensionFactory creates a fresh extension for one entity.
type ExtensionFactory func() Extension

// ExtensionRegistry is a static table of extension factories consulted on
// spawn. Registration order is preserved.
type ExtensionRegistry struct {
	mu        sync.RWMutex
	names     []string
	factories map[string]ExtensionFactory
}

func NewExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{factories: make(map[string]ExtensionFactory)}
}

func (r *ExtensionRegistry) Register(name string, factory ExtensionFactory) error {
	if factory == nil {
		return fmt.Errorf("entity: extension %q: %w", name, ErrNilTemplate)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("entity: extension %q already registered", name)
	}
	r.names = append(r.names, name)
	r.factories[name] = factory
	return nil
}

func (r *ExtensionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Create instantiates one of every registered extension.
func (r *ExtensionRegistry) Create() []Extension {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Extension, 0, len(r.names))
	for _, name := range r.names {
		if ext := r.factories[name](); ext != nil {
			out = append(out, ext)
		}
	}
	return out
}

func (r *ExtensionRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = nil
	r.factories = make(map[string]ExtensionFactory)
}

var defaultExtensions = NewExtensionRegistry()

// Extensions returns the process-wide extension registry.
func Extensions() *ExtensionRegistry { return defaultExtensions }

// ExtensionOf returns the first extension of e assignable to T.
func ExtensionOf[T any](e *Entity) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	for _, ext := range e.allExtensions() {
		if v, ok := ext.(T); ok {
			return v, true
		}
	}
	return zero, false
}
