package entity

import (
	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/mandible/ecs"
	"github.com/milk9111/mandible/logger"
	"github.com/milk9111/mandible/schedule"
)

const DefaultMaxHealth = 100

// Config describes a new entity.
type Config struct {
	Name      string
	MaxHealth float64
	HitType   HitType
	// Layer is the entity's category bit for spatial masks.
	Layer    uint
	Position cp.Vector

	Body     Body
	Animator Animator

	Decisions []Decision
	States    []State
	// Targeting is used as given; nil means DefaultTargetingConfig.
	Targeting *TargetingConfig
	Movement  MovementConfig

	// Extensions are added on top of the world's extension registry.
	Extensions []Extension
}

// Entity orchestrates one agent: movement, AI, state machine and extensions,
// ticked in a fixed order.
type Entity struct {
	ID   uuid.UUID
	Name string

	handle ecs.Entity
	world  *World
	log    *logrus.Entry

	maxHealth float64
	health    float64
	dead      bool
	hitType   HitType
	layer     uint

	body     Body
	animator Animator
	position cp.Vector
	angle    float64

	Movement     *Movement
	AI           *AI
	StateMachine *StateMachine

	dependencies []Dependency
	pending      []Extension
	pre          []Extension
	defaults     []Extension
	post         []Extension

	tasks       schedule.Scheduler
	onDamage    []func(amount float64)
	initialized bool
}

func New(cfg Config) *Entity {
	if cfg.MaxHealth <= 0 {
		cfg.MaxHealth = DefaultMaxHealth
	}
	if cfg.Layer == 0 {
		cfg.Layer = 1
	}
	if cfg.Name == "" {
		cfg.Name = "entity"
	}
	targeting := DefaultTargetingConfig()
	if cfg.Targeting != nil {
		targeting = *cfg.Targeting
	}

	e := &Entity{
		ID:        uuid.New(),
		Name:      cfg.Name,
		maxHealth: cfg.MaxHealth,
		health:    cfg.MaxHealth,
		hitType:   cfg.HitType,
		layer:     cfg.Layer,
		body:      cfg.Body,
		animator:  cfg.Animator,
		position:  cfg.Position,
		pending:   append([]Extension(nil), cfg.Extensions...),
	}
	e.log = logger.For("entity").WithField("entity", e.Name)

	e.Movement = NewMovement(cfg.Movement)
	e.AI = NewAI(NewTargeting(targeting), cfg.Decisions)
	e.StateMachine = NewStateMachine(cfg.States)
	e.dependencies = []Dependency{e.Movement, e.AI, e.StateMachine}
	return e
}

// initialize runs once on spawn.
func (e *Entity) initialize(exts []Extension) {
	if e.initialized {
		return
	}
	e.initialized = true

	for _, dep := range e.dependencies {
		dep.Initialize(e)
	}

	for _, ext := range append(e.pending, exts...) {
		if ext == nil {
			continue
		}
		ext.Initialize(e)
		switch ext.Order() {
		case OrderPreProcess:
			e.pre = append(e.pre, ext)
		case OrderPostProcess:
			e.post = append(e.post, ext)
		default:
			e.defaults = append(e.defaults, ext)
		}
	}
	e.pending = nil

	e.StateMachine.Start()
	e.AI.Start()
}

func (e *Entity) tick(dt float64) {
	for _, ext := range e.pre {
		ext.Handle(dt)
	}
	for _, dep := range e.dependencies {
		dep.Handle(dt)
	}
	for _, ext := range e.defaults {
		ext.Handle(dt)
	}
	for _, ext := range e.post {
		ext.Handle(dt)
	}
	e.tasks.Advance(dt)
}

// destroy cancels multi-frame work and lets extensions clean up.
func (e *Entity) destroy() {
	e.tasks.CancelAll()
	for _, ext := range e.allExtensions() {
		if d, ok := ext.(Destroyer); ok {
			d.Destroy()
		}
	}
}

func (e *Entity) allExtensions() []Extension {
	out := make([]Extension, 0, len(e.pre)+len(e.defaults)+len(e.post)+len(e.pending))
	out = append(out, e.pre...)
	out = append(out, e.defaults...)
	out = append(out, e.post...)
	return append(out, e.pending...)
}

// Extensions returns the entity's extensions in tick order.
func (e *Entity) Extensions() []Extension { return e.allExtensions() }

// Ref is the ecs handle assigned on spawn.
func (e *Entity) Ref() ecs.Entity { return e.handle }

// World is nil until the entity is spawned.
func (e *Entity) World() *World { return e.world }

func (e *Entity) Spawned() bool { return e.world != nil }

func (e *Entity) Log() *logrus.Entry { return e.log }

// Tasks is the entity's multi-frame task scheduler.
func (e *Entity) Tasks() *schedule.Scheduler { return &e.tasks }

func (e *Entity) Body() Body { return e.body }

func (e *Entity) Animator() Animator { return e.animator }

func (e *Entity) Layer() uint { return e.layer }

func (e *Entity) Position() cp.Vector {
	if e.body != nil {
		return e.body.Position()
	}
	return e.position
}

func (e *Entity) SetPosition(p cp.Vector) {
	if e.body != nil {
		e.body.SetPosition(p)
		return
	}
	e.position = p
}

func (e *Entity) Angle() float64 {
	if e.body != nil {
		return e.body.Angle()
	}
	return e.angle
}

// Visuals returns the world's visuals, or a no-op when unspawned.
func (e *Entity) Visuals() Visuals {
	if e.world == nil || e.world.visuals == nil {
		return noopVisuals{}
	}
	return e.world.visuals
}

// Now is the world clock, zero when unspawned.
func (e *Entity) Now() float64 {
	if e.world == nil {
		return 0
	}
	return e.world.Now()
}

func (e *Entity) Health() float64 { return e.health }

func (e *Entity) MaxHealth() float64 { return e.maxHealth }

func (e *Entity) HealthPercentage() float64 {
	if e.maxHealth <= 0 {
		return 0
	}
	return e.health / e.maxHealth
}

func (e *Entity) IsDead() bool { return e.health <= 0 }

func (e *Entity) HitType() HitType { return e.hitType }

// OnDamage registers fn to run on every TakeDamage call.
func (e *Entity) OnDamage(fn func(amount float64)) {
	if fn != nil {
		e.onDamage = append(e.onDamage, fn)
	}
}

func (e *Entity) TakeDamage(amount float64) {
	e.health -= amount
	if e.health > e.maxHealth {
		e.health = e.maxHealth
	}
	for _, fn := range e.onDamage {
		fn(amount)
	}
	if e.health <= 0 {
		e.Kill()
	}
}

// Kill zeroes health. The died event is emitted once per life.
func (e *Entity) Kill() {
	e.health = 0
	if e.dead {
		return
	}
	e.dead = true
	e.log.Debug("died")
	if e.world != nil {
		e.world.emit(EventDied, e)
	}
}

func (e *Entity) Revive() {
	e.health = e.maxHealth
	e.dead = false
	e.AI.enable()
}

func (e *Entity) AddStatusEffectContribution(c Contribution) {
	for _, ext := range e.allExtensions() {
		if r, ok := ext.(ContributionReceiver); ok {
			r.AddEffectContribution(c.Name, c.Value)
		}
	}
}

func (e *Entity) String() string { return e.Name + "#" + e.handle.String() }
