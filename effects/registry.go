package effects

import (
	"fmt"
	"sync"

	"github.com/milk9111/mandible/entity"
)

// Registry is the catalog of effect data, indexed by the effect type each
// entry creates.
type Registry struct {
	mu     sync.RWMutex
	data   []EffectData
	byType map[string]EffectData
}

func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]EffectData)}
}

// Add registers data. Adding the same entry twice is a no-op; a second entry
// for an already registered effect type fails with ErrDuplicateEffectType.
func (r *Registry) Add(data EffectData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(data)
}

func (r *Registry) add(data EffectData) error {
	if data == nil {
		return ErrNilData
	}
	for _, d := range r.data {
		if d == data {
			return nil
		}
	}
	key := typeOf(data)
	if key == "" {
		return fmt.Errorf("effects: %q creates no effect", data.Base().Name)
	}
	if existing, ok := r.byType[key]; ok {
		return fmt.Errorf("%w: %s (%q already registered, rejected %q)", ErrDuplicateEffectType, key, existing.Base().Name, data.Base().Name)
	}
	r.data = append(r.data, data)
	r.byType[key] = data
	return nil
}

// Update swaps before for after. Either may be nil. Nothing changes when
// after is invalid or would collide with another registered type.
func (r *Registry) Update(before, after EffectData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if after != nil && after != before {
		key := typeOf(after)
		if key == "" {
			return fmt.Errorf("effects: %q creates no effect", after.Base().Name)
		}
		if existing, ok := r.byType[key]; ok && existing != before {
			return fmt.Errorf("%w: %s", ErrDuplicateEffectType, key)
		}
	}
	if before != nil {
		r.remove(before)
	}
	if after == nil {
		return nil
	}
	return r.add(after)
}

func (r *Registry) Remove(data EffectData) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remove(data)
}

func (r *Registry) remove(data EffectData) bool {
	for i, d := range r.data {
		if d != data {
			continue
		}
		r.data = append(r.data[:i], r.data[i+1:]...)
		key := typeOf(data)
		if r.byType[key] == data {
			delete(r.byType, key)
		}
		return true
	}
	return false
}

func (r *Registry) ByType(key string) (EffectData, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byType[key]
	return d, ok
}

func (r *Registry) ByName(name string) (EffectData, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.data {
		if d.Base().Name == name {
			return d, true
		}
	}
	return nil, false
}

// Effect creates a runtime effect of type key for owner, or nil.
func (r *Registry) Effect(key string, owner *entity.Entity) StatusEffect {
	d, ok := r.ByType(key)
	if !ok {
		return nil
	}
	return d.CreateEffect(owner)
}

// EffectByName creates a runtime effect from the entry called name, or nil.
func (r *Registry) EffectByName(name string, owner *entity.Entity) StatusEffect {
	d, ok := r.ByName(name)
	if !ok {
		return nil
	}
	return d.CreateEffect(owner)
}

func (r *Registry) Has(key string) bool {
	_, ok := r.ByType(key)
	return ok
}

// All returns the entries in registration order.
func (r *Registry) All() []EffectData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]EffectData(nil), r.data...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = nil
	r.byType = make(map[string]EffectData)
}

// Replace swaps the whole catalog. On error the registry is unchanged.
func (r *Registry) Replace(data ...EffectData) error {
	next := NewRegistry()
	for _, d := range data {
		if err := next.add(d); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data, r.byType = next.data, next.byType
	return nil
}

var std = NewRegistry()

// Default is the process-wide registry used by handlers created without one.
func Default() *Registry { return std }

// Init replaces the process-wide catalog.
func Init(data ...EffectData) error { return std.Replace(data...) }

// Reset empties the process-wide catalog.
func Reset() { std.Reset() }
