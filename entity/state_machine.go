package entity

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/mandible/logger"
)

// DamageTrigger is the animator trigger fired on every hit.
const DamageTrigger = "Damage"

// StateChange describes one ChangeState request. Found is false when the
// requested tag is not registered, in which case Current equals Previous.
type StateChange struct {
	Requested string
	Previous  State
	Current   State
	Found     bool
}

// StateMachine holds per-owner state instances keyed by tag.
type StateMachine struct {
	owner *Entity
	log   *logrus.Entry

	templates []State
	states    []State
	byTag     map[string]State
	current   State
	started   bool

	listeners []func(StateChange)
}

func NewStateMachine(templates []State) *StateMachine {
	return &StateMachine{
		templates: append([]State(nil), templates...),
		byTag:     make(map[string]State),
		log:       logger.For("state_machine"),
	}
}

func (sm *StateMachine) Initialize(owner *Entity) {
	sm.owner = owner
	sm.log = logger.For("state_machine").WithField("entity", owner.Name)
	sm.instantiate()
	owner.OnDamage(func(float64) { sm.OnDamageDefault() })
}

func (sm *StateMachine) instantiate() {
	sm.states = sm.states[:0]
	sm.byTag = make(map[string]State, len(sm.templates))
	for _, tmpl := range sm.templates {
		if tmpl == nil {
			continue
		}
		s := tmpl.Clone()
		s.Initialize(sm.owner)
		sm.states = append(sm.states, s)
		if _, dup := sm.byTag[s.Tag()]; dup {
			sm.log.WithField("tag", s.Tag()).Debug("duplicate state tag, last registration wins")
		}
		sm.byTag[s.Tag()] = s
	}
}

// Start enters the first registered state.
func (sm *StateMachine) Start() {
	sm.started = true
	if sm.current != nil || len(sm.states) == 0 {
		return
	}
	sm.ChangeState(sm.states[0].Tag())
}

func (sm *StateMachine) Handle(dt float64) {
	if sm.current != nil {
		sm.current.OnUpdate(dt)
	}
}

// ChangeState exits the current state and enters the one registered under
// tag. An unknown tag leaves the machine untouched.
func (sm *StateMachine) ChangeState(tag string) (State, bool) {
	previous := sm.current
	next, ok := sm.byTag[tag]
	if !ok {
		sm.log.WithField("tag", tag).Warn("state not found")
		sm.notify(StateChange{Requested: tag, Previous: previous, Current: previous})
		return nil, false
	}

	if previous != nil {
		previous.OnExit()
	}
	sm.current = next
	next.OnEnter()

	sm.notify(StateChange{Requested: tag, Previous: previous, Current: next, Found: true})
	return next, true
}

func (sm *StateMachine) ClearState() {
	if sm.current != nil {
		sm.current.OnExit()
	}
	sm.current = nil
}

// SetStates replaces the templates. A started machine exits its current
// state and restarts on the new set.
func (sm *StateMachine) SetStates(templates []State) {
	sm.templates = append([]State(nil), templates...)
	if sm.owner == nil {
		return
	}
	sm.ClearState()
	sm.instantiate()
	if sm.started {
		sm.Start()
	}
}

func (sm *StateMachine) State(tag string) (State, bool) {
	s, ok := sm.byTag[tag]
	return s, ok
}

func (sm *StateMachine) Current() State { return sm.current }

// States returns the instances in registration order.
func (sm *StateMachine) States() []State { return append([]State(nil), sm.states...) }

func (sm *StateMachine) OnStateChanged(fn func(StateChange)) {
	if fn != nil {
		sm.listeners = append(sm.listeners, fn)
	}
}

func (sm *StateMachine) notify(change StateChange) {
	for _, fn := range sm.listeners {
		fn(change)
	}
}

func (sm *StateMachine) OnDamageDefault() {
	if sm.owner == nil || sm.owner.animator == nil {
		return
	}
	sm.owner.animator.SetTrigger(DamageTrigger)
}

// OnDeathDefault stops animation and lets the body go limp.
func (sm *StateMachine) OnDeathDefault() {
	if sm.owner == nil {
		return
	}
	if sm.owner.animator != nil {
		sm.owner.animator.SetEnabled(false)
	}
	if r, ok := sm.owner.body.(Ragdoller); ok {
		r.EnableRagdoll()
	}
}
