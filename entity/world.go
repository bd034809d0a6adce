package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/mandible/ecs"
	"github.com/milk9111/mandible/logger"
)

const (
	EventSpawned      = "spawned"
	EventDespawned    = "despawned"
	EventDied         = "died"
	EventStateChanged = "state_changed"
)

// StateChangedEvent is the payload of EventStateChanged.
type StateChangedEvent struct {
	Entity *Entity
	Change StateChange
}

type Option func(*World)

func WithSpatialQuery(q SpatialQuery) Option {
	return func(w *World) { w.spatial = q }
}

func WithVisuals(v Visuals) Option {
	return func(w *World) { w.visuals = v }
}

// WithExtensionRegistry overrides the process-wide extension registry.
func WithExtensionRegistry(r *ExtensionRegistry) Option {
	return func(w *World) { w.extensions = r }
}

// World owns spawned entities and ticks them once per Update.
type World struct {
	registry ecs.Registry
	entities ecs.SparseSet[*Entity]
	order    []*Entity
	systems  *ecs.Scheduler
	events   ecs.EventQueue

	spatial    SpatialQuery
	visuals    Visuals
	extensions *ExtensionRegistry

	now float64
	log *logrus.Entry
}

func NewWorld(opts ...Option) *World {
	w := &World{
		extensions: Extensions(),
		log:        logger.For("world"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.spatial == nil {
		w.spatial = bruteForce{w: w}
	}
	w.systems = ecs.NewScheduler(ecs.SystemFunc(w.tickEntities))
	return w
}

// AddSystem runs sys after the entity tick every Update.
func (w *World) AddSystem(sys ecs.System) { w.systems.Add(sys) }

func (w *World) SetSpatialQuery(q SpatialQuery) {
	if q == nil {
		q = bruteForce{w: w}
	}
	w.spatial = q
}

func (w *World) Spatial() SpatialQuery { return w.spatial }

func (w *World) Visuals() Visuals {
	if w.visuals == nil {
		return noopVisuals{}
	}
	return w.visuals
}

func (w *World) Now() float64 { return w.now }

// Events returns the queue of events emitted since the last Update.
func (w *World) Events() *ecs.EventQueue { return &w.events }

func (w *World) emit(kind string, data any) {
	w.events.Push(ecs.Event{Type: kind, Data: data})
}

// Spawn registers e and initializes its subsystems.
func (w *World) Spawn(e *Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	if e.world != nil {
		return fmt.Errorf("%w: %s", ErrAlreadySpawned, e.Name)
	}

	e.handle = w.registry.Create()
	e.world = w
	w.entities.Set(e.handle, e)
	w.order = append(w.order, e)

	e.StateMachine.OnStateChanged(func(change StateChange) {
		if e.world != nil {
			e.world.emit(EventStateChanged, StateChangedEvent{Entity: e, Change: change})
		}
	})

	var exts []Extension
	if w.extensions != nil {
		exts = w.extensions.Create()
	}
	e.initialize(exts)

	w.emit(EventSpawned, e)
	w.log.WithFields(logrus.Fields{"entity": e.Name, "handle": e.handle.String()}).Debug("spawned")
	return nil
}

// Despawn tears e down. Pending tasks are cancelled before extensions run
// their remove hooks.
func (w *World) Despawn(e *Entity) bool {
	if e == nil || e.world != w || !w.registry.IsAlive(e.handle) {
		return false
	}
	e.destroy()
	w.entities.Remove(e.handle)
	w.registry.Destroy(e.handle)
	for i, other := range w.order {
		if other == e {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	e.world = nil
	w.emit(EventDespawned, e)
	return true
}

// Entity resolves an ecs handle.
func (w *World) Entity(h ecs.Entity) (*Entity, bool) {
	return w.entities.Get(h)
}

// Entities returns the spawned entities in spawn order.
func (w *World) Entities() []*Entity { return append([]*Entity(nil), w.order...) }

func (w *World) Len() int { return len(w.order) }

// Update advances the clock by dt and runs every system.
func (w *World) Update(dt float64) {
	w.events.Flush()
	w.now += dt
	w.systems.Update(dt)
}

func (w *World) tickEntities(dt float64) {
	for _, e := range w.Entities() {
		if e.world != w {
			continue
		}
		w.tick(e, dt)
	}
}

// tick isolates one entity so a panic does not stall the rest.
func (w *World) tick(e *Entity, dt float64) {
	defer func() {
		if r := recover(); r != nil {
			w.log.WithField("entity", e.Name).Errorf("tick panicked: %v", r)
		}
	}()
	e.tick(dt)
}

// bruteForce is the spatial query used when no physics space is attached.
// Nothing obstructs rays.
type bruteForce struct {
	w *World
}

func (b bruteForce) QueryRadius(center cp.Vector, radius float64, mask uint) []*Entity {
	var out []*Entity
	for _, e := range b.w.order {
		if e.layer&mask == 0 {
			continue
		}
		if e.Position().Distance(center) <= radius {
			out = append(out, e)
		}
	}
	return out
}

func (bruteForce) Raycast(cp.Vector, cp.Vector, uint) RayHit { return RayHit{} }
