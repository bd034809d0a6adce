package entity

import (
	"github.com/jakecoffman/cp"
)

type scoreDecision struct {
	DecisionBase
	score float64
}

func (d *scoreDecision) Evaluate(*AI) float64 { return d.score }

func (d *scoreDecision) Clone() Decision {
	c := *d
	return &c
}

func score(tag string, weight, score float64) *scoreDecision {
	return &scoreDecision{DecisionBase: DecisionBase{StateTag: tag, DecisionWeight: weight}, score: score}
}

// needsTarget scores 1 while the AI has a target.
type needsTarget struct {
	DecisionBase
}

func (d *needsTarget) Evaluate(ai *AI) float64 {
	if ai.Target() != nil {
		return 1
	}
	return 0
}

func (d *needsTarget) Clone() Decision {
	c := *d
	return &c
}

type recordingState struct {
	StateBase
	log     *[]string
	updates int
}

func (s *recordingState) OnEnter() { *s.log = append(*s.log, "enter:"+s.StateTag) }

func (s *recordingState) OnExit() { *s.log = append(*s.log, "exit:"+s.StateTag) }

func (s *recordingState) OnUpdate(float64) {
	s.updates++
	*s.log = append(*s.log, "update:"+s.StateTag)
}

func (s *recordingState) Clone() State {
	c := *s
	return &c
}

func recording(tag string, log *[]string) *recordingState {
	return &recordingState{StateBase: StateBase{StateTag: tag}, log: log}
}

type fakeAnimator struct {
	triggers []string
	disabled bool
}

func (a *fakeAnimator) SetTrigger(name string) { a.triggers = append(a.triggers, name) }

func (a *fakeAnimator) SetEnabled(enabled bool) { a.disabled = !enabled }

type fakeBody struct {
	pos     cp.Vector
	vel     cp.Vector
	angle   float64
	forces  []cp.Vector
	ragdoll bool
}

func (b *fakeBody) Position() cp.Vector          { return b.pos }
func (b *fakeBody) SetPosition(p cp.Vector)      { b.pos = p }
func (b *fakeBody) Velocity() cp.Vector          { return b.vel }
func (b *fakeBody) Angle() float64               { return b.angle }
func (b *fakeBody) EnableRagdoll()               { b.ragdoll = true }
func (b *fakeBody) MoveRotation(a, _, _ float64) { b.angle = a }

func (b *fakeBody) AddForce(v cp.Vector, _ ForceMode) { b.forces = append(b.forces, v) }

// fakeSpatial returns candidates in a settable order and reports blocked
// entities as hidden behind wall.
type fakeSpatial struct {
	entities []*Entity
	blocked  map[*Entity]bool
	wall     *Entity
}

func (f *fakeSpatial) QueryRadius(center cp.Vector, radius float64, _ uint) []*Entity {
	var out []*Entity
	for _, e := range f.entities {
		if e.Position().Distance(center) <= radius {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeSpatial) Raycast(_, to cp.Vector, _ uint) RayHit {
	for _, e := range f.entities {
		if e.Position() == to && f.blocked[e] {
			return RayHit{Hit: true, Entity: f.wall, Point: to}
		}
	}
	return RayHit{}
}

type orderedExtension struct {
	name  string
	order UpdateOrder
	log   *[]string
	owner *Entity
	gone  bool
}

func (x *orderedExtension) Initialize(owner *Entity) { x.owner = owner }
func (x *orderedExtension) Handle(float64)           { *x.log = append(*x.log, x.name) }
func (x *orderedExtension) Order() UpdateOrder       { return x.order }
func (x *orderedExtension) Destroy()                 { x.gone = true }

type contributionSink struct {
	orderedExtension
	got []Contribution
}

func (c *contributionSink) AddEffectContribution(name string, amount float64) {
	c.got = append(c.got, Contribution{Name: name, Value: amount})
}

func newTestWorld(opts ...Option) *World {
	return NewWorld(append([]Option{WithExtensionRegistry(NewExtensionRegistry())}, opts...)...)
}

func mustSpawn(w *World, e *Entity) *Entity {
	if err := w.Spawn(e); err != nil {
		panic(err)
	}
	return e
}
