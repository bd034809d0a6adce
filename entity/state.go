package entity

// State is one node of a StateMachine.
type State interface {
	Tag() string
	Description() string
	Initialize(owner *Entity)
	OnEnter()
	OnUpdate(dt float64)
	OnExit()
	// Clone returns an independent per-owner instance.
	Clone() State
}

// StateBase implements the optional parts of State. Embed it and implement
// Clone plus whichever hooks the state needs.
type StateBase struct {
	StateTag string
	Info     string
	Owner    *Entity
}

func (s *StateBase) Tag() string { return s.StateTag }

func (s *StateBase) Description() string {
	if s.Info == "" {
		return "(no description)"
	}
	return s.Info
}

func (s *StateBase) Initialize(owner *Entity) { s.Owner = owner }

func (s *StateBase) OnEnter() {}

func (s *StateBase) OnUpdate(float64) {}

func (s *StateBase) OnExit() {}

// Target is the owner's current target, if any.
func (s *StateBase) Target() *Entity {
	if s.Owner == nil {
		return nil
	}
	return s.Owner.AI.Target()
}
