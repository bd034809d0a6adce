package entity

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/mandible/logger"
)

// DeadStateTag is requested when the owner dies.
const DeadStateTag = "Dead"

// AI selects the highest scoring decision every tick and asks the state
// machine for its state.
type AI struct {
	owner     *Entity
	targeting *Targeting
	log       *logrus.Entry

	templates []Decision
	decisions []Decision

	current  Decision
	previous Decision
	disabled bool
}

func NewAI(targeting *Targeting, templates []Decision) *AI {
	if targeting == nil {
		targeting = NewTargeting(TargetingConfig{})
	}
	return &AI{
		targeting: targeting,
		templates: append([]Decision(nil), templates...),
		log:       logger.For("ai"),
	}
}

func (a *AI) Initialize(owner *Entity) {
	a.owner = owner
	a.log = logger.For("ai").WithField("entity", owner.Name)
	a.targeting.Initialize(owner)
}

// Start requests the first decision's state.
func (a *AI) Start() {
	a.instantiate()
	for _, d := range a.decisions {
		if d != nil {
			a.owner.StateMachine.ChangeState(d.Tag())
			return
		}
	}
}

func (a *AI) Handle(dt float64) {
	if a.disabled || a.owner == nil {
		return
	}

	a.targeting.Update()

	if a.owner.IsDead() {
		a.handleDeath()
		return
	}

	a.current = a.EvaluateDecisions()
	if a.current != a.previous {
		if a.current != nil {
			a.owner.StateMachine.ChangeState(a.current.Tag())
		}
		a.previous = a.current
	}
}

func (a *AI) handleDeath() {
	sm := a.owner.StateMachine
	if _, ok := sm.ChangeState(DeadStateTag); !ok {
		sm.ClearState()
		sm.OnDeathDefault()
	}
	a.disabled = true
}

// EvaluateDecisions returns the decision with the greatest weighted score.
// Ties go to the earliest decision.
func (a *AI) EvaluateDecisions() Decision {
	a.instantiate()

	var best Decision
	highest := math.Inf(-1)
	for i, d := range a.decisions {
		if d == nil {
			a.log.WithField("index", i).Warn("nil decision skipped")
			continue
		}
		score := d.Evaluate(a) * d.Weight()
		if score > highest {
			highest = score
			best = d
		}
	}
	return best
}

// instantiate clones the templates once per owner.
func (a *AI) instantiate() {
	if a.decisions != nil || len(a.templates) == 0 {
		return
	}
	a.decisions = make([]Decision, len(a.templates))
	for i, tmpl := range a.templates {
		if tmpl == nil {
			continue
		}
		d := tmpl.Clone()
		if init, ok := d.(DecisionInitializer); ok {
			init.Initialize(a)
		}
		a.decisions[i] = d
	}
}

// SetDecisions replaces the templates. Runtime instances are rebuilt on the
// next evaluation.
func (a *AI) SetDecisions(templates []Decision) {
	a.templates = append([]Decision(nil), templates...)
	a.decisions = nil
	a.current = nil
	a.previous = nil
}

// Decisions returns the runtime instances.
func (a *AI) Decisions() []Decision {
	a.instantiate()
	return append([]Decision(nil), a.decisions...)
}

func (a *AI) Templates() []Decision { return append([]Decision(nil), a.templates...) }

func (a *AI) enable() {
	a.disabled = false
	a.current = nil
	a.previous = nil
}

func (a *AI) Enabled() bool { return !a.disabled }

func (a *AI) Owner() *Entity { return a.owner }

func (a *AI) Targeting() *Targeting { return a.targeting }

func (a *AI) CurrentDecision() Decision { return a.current }

func (a *AI) Target() *Entity { return a.targeting.Target() }

func (a *AI) Health() float64 {
	if a.owner == nil {
		return 0
	}
	return a.owner.Health()
}

func (a *AI) HealthPercentage() float64 {
	if a.owner == nil {
		return 0
	}
	return a.owner.HealthPercentage()
}

func (a *AI) IsDead() bool { return a.owner != nil && a.owner.IsDead() }
