package entity

import "fmt"

// Definition is a reusable behaviour template: the decision and state
// lists an entity runs.
type Definition struct {
	Name      string
	Decisions []Decision
	States    []State
}

func (d *Definition) Validate() error {
	for i, dec := range d.Decisions {
		if dec == nil {
			return fmt.Errorf("definition %q: decision %d: %w", d.Name, i, ErrNilTemplate)
		}
		if dec.Weight() < 0 {
			return fmt.Errorf("definition %q: decision %d (%s): %w", d.Name, i, dec.Tag(), ErrNegativeWeight)
		}
	}
	for i, s := range d.States {
		if s == nil {
			return fmt.Errorf("definition %q: state %d: %w", d.Name, i, ErrNilTemplate)
		}
	}
	return nil
}

// ApplyTo replaces e's decisions and states. Nothing changes on error.
func (d *Definition) ApplyTo(e *Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	if err := d.Validate(); err != nil {
		return err
	}
	e.AI.SetDecisions(d.Decisions)
	e.StateMachine.SetStates(d.States)
	return nil
}
