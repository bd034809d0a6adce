package entity

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/mandible/common"
)

const separationEpsilon = 0.0001

type MovementConfig struct {
	MaxSpeed          float64 `yaml:"max_speed" json:"max_speed,omitempty"`
	AvoidsEntities    bool    `yaml:"avoids_entities" json:"avoids_entities,omitempty"`
	AvoidanceRadius   float64 `yaml:"avoidance_radius" json:"avoidance_radius,omitempty"`
	AvoidanceStrength float64 `yaml:"avoidance_strength" json:"avoidance_strength,omitempty"`
	AvoidanceMask     uint    `yaml:"avoidance_mask" json:"avoidance_mask,omitempty"`
}

func DefaultMovementConfig() MovementConfig {
	return MovementConfig{
		MaxSpeed:          12,
		AvoidsEntities:    true,
		AvoidanceRadius:   3,
		AvoidanceStrength: 6,
		AvoidanceMask:     AllLayers,
	}
}

// Movement forwards steering forces to the entity's Body. Entities without a
// body treat the forces accumulated in a tick as a velocity, capped at
// MaxSpeed, and move their own transform by it.
type Movement struct {
	owner       *Entity
	cfg         MovementConfig
	accumulated cp.Vector
	dt          float64
}

func NewMovement(cfg MovementConfig) *Movement {
	def := DefaultMovementConfig()
	if cfg.MaxSpeed <= 0 {
		cfg.MaxSpeed = def.MaxSpeed
	}
	if cfg.AvoidanceRadius <= 0 {
		cfg.AvoidanceRadius = def.AvoidanceRadius
	}
	if cfg.AvoidanceStrength == 0 {
		cfg.AvoidanceStrength = def.AvoidanceStrength
	}
	if cfg.AvoidanceMask == 0 {
		cfg.AvoidanceMask = AllLayers
	}
	return &Movement{cfg: cfg}
}

func (m *Movement) Initialize(owner *Entity) { m.owner = owner }

func (m *Movement) Config() MovementConfig { return m.cfg }

func (m *Movement) Handle(dt float64) {
	m.dt = dt
	if m.owner == nil || m.owner.IsDead() {
		return
	}
	if m.cfg.AvoidsEntities {
		m.AddForce(m.Separation(), Force)
	}
	m.applyMovement(dt)
}

func (m *Movement) Velocity() cp.Vector {
	if m.owner == nil || m.owner.body == nil {
		return cp.Vector{}
	}
	return m.owner.body.Velocity()
}

func (m *Movement) AddForce(f cp.Vector, mode ForceMode) {
	if m.owner != nil && m.owner.body != nil {
		m.owner.body.AddForce(f, mode)
		return
	}
	m.accumulated = m.accumulated.Add(f)
}

// MoveRotation turns toward angle. A lerpSpeed of zero snaps.
func (m *Movement) MoveRotation(angle, lerpSpeed float64) {
	if m.owner == nil {
		return
	}
	if m.owner.body != nil {
		m.owner.body.MoveRotation(angle, lerpSpeed, m.dt)
		return
	}
	if lerpSpeed > 0 {
		m.owner.angle = common.LerpAngle(m.owner.angle, angle, m.dt*lerpSpeed)
		return
	}
	m.owner.angle = angle
}

func (m *Movement) applyMovement(dt float64) {
	v := common.ClampLength(m.accumulated, m.cfg.MaxSpeed)
	if m.owner.body == nil {
		m.owner.position = m.owner.position.Add(v.Mult(dt))
	}
	m.accumulated = cp.Vector{}
}

// Separation is the push away from nearby entities, scaled to
// AvoidanceStrength.
func (m *Movement) Separation() cp.Vector {
	w := m.owner.World()
	if w == nil {
		return cp.Vector{}
	}
	pos := m.owner.Position()
	var force cp.Vector
	for _, other := range w.Spatial().QueryRadius(pos, m.cfg.AvoidanceRadius, m.cfg.AvoidanceMask) {
		if other == nil || other == m.owner {
			continue
		}
		dir := pos.Sub(other.Position())
		dist := dir.Length()
		if dist <= separationEpsilon {
			continue
		}
		force = force.Add(dir.Mult(1 / dist).Mult(1 - dist/m.cfg.AvoidanceRadius))
	}
	if force.LengthSq() == 0 {
		return cp.Vector{}
	}
	return force.Normalize().Mult(m.cfg.AvoidanceStrength)
}
