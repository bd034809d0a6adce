package ecs

import "strconv"

// Entity packs a slot id (low 32 bits) with the generation the slot had when
// the handle was created (high 32 bits). The zero Entity is never alive.
type Entity uint64

type (
	entityID   uint32
	generation uint32
)

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<32 | uint64(id))
}

func (e Entity) id() entityID           { return entityID(e) }
func (e Entity) generation() generation { return generation(e >> 32) }

func (e Entity) Valid() bool { return e.id() != 0 }

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

// Registry tracks entity generations and free ids.
type Registry struct {
	gen   []generation
	free  []entityID
	alive int
}

// Create allocates a handle, reusing freed slots with a bumped generation.
func (r *Registry) Create() Entity {
	if r == nil {
		return 0
	}
	var id entityID
	if n := len(r.free); n > 0 {
		id = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.gen = append(r.gen, 0)
		id = entityID(len(r.gen))
	}
	r.alive++
	return makeEntity(id, r.gen[id-1])
}

// Destroy invalidates a handle. It reports false for stale or unknown handles.
func (r *Registry) Destroy(e Entity) bool {
	if !r.IsAlive(e) {
		return false
	}
	idx := e.id() - 1
	r.gen[idx]++
	r.free = append(r.free, e.id())
	r.alive--
	return true
}

func (r *Registry) IsAlive(e Entity) bool {
	if r == nil || !e.Valid() || int(e.id()) > len(r.gen) {
		return false
	}
	return r.gen[e.id()-1] == e.generation()
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.alive
}
