// Package states holds the stock entity states.
package states

import (
	"math"

	"github.com/milk9111/mandible/common"
	"github.com/milk9111/mandible/entity"
)

// Idle holds position.
type Idle struct {
	entity.StateBase
}

func NewIdle(tag string) *Idle {
	return &Idle{StateBase: entity.StateBase{StateTag: tag, Info: "Stands still."}}
}

func (s *Idle) Clone() entity.State {
	c := *s
	return &c
}

// Chase steers toward the target until within StopDistance.
type Chase struct {
	entity.StateBase
	Speed        float64
	StopDistance float64
	RotateSpeed  float64
}

func NewChase(tag string, speed, stopDistance float64) *Chase {
	return &Chase{
		StateBase:    entity.StateBase{StateTag: tag, Info: "Moves toward the target."},
		Speed:        speed,
		StopDistance: stopDistance,
		RotateSpeed:  5,
	}
}

func (s *Chase) OnUpdate(float64) {
	target := s.Target()
	if target == nil {
		return
	}
	pos, goal := s.Owner.Position(), target.Position()
	if pos.Distance(goal) <= s.StopDistance {
		return
	}
	dir := common.Direction(pos, goal)
	s.Owner.Movement.AddForce(dir.Mult(s.Speed), entity.Force)
	s.Owner.Movement.MoveRotation(math.Atan2(dir.Y, dir.X), s.RotateSpeed)
}

func (s *Chase) Clone() entity.State {
	c := *s
	return &c
}

// Flee steers directly away from the target.
type Flee struct {
	entity.StateBase
	Speed float64
}

func NewFlee(tag string, speed float64) *Flee {
	return &Flee{StateBase: entity.StateBase{StateTag: tag, Info: "Runs from the target."}, Speed: speed}
}

func (s *Flee) OnUpdate(float64) {
	target := s.Target()
	if target == nil {
		return
	}
	dir := common.Direction(target.Position(), s.Owner.Position())
	s.Owner.Movement.AddForce(dir.Mult(s.Speed), entity.Force)
}

func (s *Flee) Clone() entity.State {
	c := *s
	return &c
}

// Dead stops animation and ragdolls the body on entry.
type Dead struct {
	entity.StateBase
}

func NewDead() *Dead {
	return &Dead{StateBase: entity.StateBase{StateTag: entity.DeadStateTag, Info: "Terminal state."}}
}

func (s *Dead) OnEnter() {
	s.Owner.StateMachine.OnDeathDefault()
}

func (s *Dead) Clone() entity.State {
	c := *s
	return &c
}
