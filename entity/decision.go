package entity

// Decision scores how desirable its target state is for an AI.
type Decision interface {
	// Tag names the state this decision requests.
	Tag() string
	Weight() float64
	Description() string
	Evaluate(ai *AI) float64
	// Clone returns an independent per-owner instance.
	Clone() Decision
}

// DecisionInitializer is implemented by decisions that need their owner
// before the first evaluation.
type DecisionInitializer interface {
	Initialize(ai *AI)
}

// DecisionBase carries the shared decision fields. Embed it and implement
// Evaluate and Clone.
type DecisionBase struct {
	StateTag       string
	DecisionWeight float64
	Info           string
}

func (d *DecisionBase) Tag() string { return d.StateTag }

func (d *DecisionBase) Weight() float64 { return d.DecisionWeight }

func (d *DecisionBase) Description() string {
	if d.Info == "" {
		return "(no description)"
	}
	return d.Info
}

func (d *DecisionBase) SetDescription(s string) { d.Info = s }
