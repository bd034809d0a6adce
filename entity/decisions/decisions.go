// Package decisions holds the stock utility decisions.
package decisions

import (
	"github.com/milk9111/mandible/common"
	"github.com/milk9111/mandible/entity"
)

// Constant always scores Score. Useful as an idle fallback.
type Constant struct {
	entity.DecisionBase
	Score float64
}

func NewConstant(state string, weight, score float64) *Constant {
	return &Constant{DecisionBase: entity.DecisionBase{StateTag: state, DecisionWeight: weight}, Score: score}
}

func (d *Constant) Evaluate(*entity.AI) float64 { return d.Score }

func (d *Constant) Clone() entity.Decision {
	c := *d
	return &c
}

// MoveToTarget scores 1 while the AI has a target.
type MoveToTarget struct {
	entity.DecisionBase
}

func NewMoveToTarget(state string, weight float64) *MoveToTarget {
	return &MoveToTarget{DecisionBase: entity.DecisionBase{
		StateTag:       state,
		DecisionWeight: weight,
		Info:           "Moves toward the current target whenever one is known.",
	}}
}

func (d *MoveToTarget) Evaluate(ai *entity.AI) float64 {
	if ai.Target() != nil {
		return 1
	}
	return 0
}

func (d *MoveToTarget) Clone() entity.Decision {
	c := *d
	return &c
}

// InRange scores 1 while the target is within Range of the owner.
type InRange struct {
	entity.DecisionBase
	Range float64
}

func NewInRange(state string, weight, rng float64) *InRange {
	return &InRange{DecisionBase: entity.DecisionBase{StateTag: state, DecisionWeight: weight}, Range: rng}
}

func (d *InRange) Evaluate(ai *entity.AI) float64 {
	target, owner := ai.Target(), ai.Owner()
	if target == nil || owner == nil {
		return 0
	}
	if owner.Position().Distance(target.Position()) <= d.Range {
		return 1
	}
	return 0
}

func (d *InRange) Clone() entity.Decision {
	c := *d
	return &c
}

// LowHealth rises linearly from 0 at Threshold health to 1 at zero health.
type LowHealth struct {
	entity.DecisionBase
	Threshold float64
}

func NewLowHealth(state string, weight, threshold float64) *LowHealth {
	return &LowHealth{DecisionBase: entity.DecisionBase{StateTag: state, DecisionWeight: weight}, Threshold: threshold}
}

func (d *LowHealth) Evaluate(ai *entity.AI) float64 {
	if d.Threshold <= 0 {
		return 0
	}
	return common.Clamp01(1 - ai.HealthPercentage()/d.Threshold)
}

func (d *LowHealth) Clone() entity.Decision {
	c := *d
	return &c
}
