// Package physics backs entity movement and perception with a chipmunk space.
package physics

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mandible/common"
	"github.com/milk9111/mandible/entity"
)

type BodyConfig struct {
	Mass     float64   `yaml:"mass" json:"mass,omitempty"`
	Radius   float64   `yaml:"radius" json:"radius,omitempty"`
	MaxSpeed float64   `yaml:"max_speed" json:"max_speed,omitempty"`
	Friction float64   `yaml:"friction" json:"friction,omitempty"`
	Layer    uint      `yaml:"layer" json:"layer,omitempty"`
	Position cp.Vector `yaml:"-" json:"-"`
}

func DefaultBodyConfig() BodyConfig {
	return BodyConfig{Mass: 1, Radius: 0.5, MaxSpeed: 12, Friction: 0.8, Layer: 1}
}

// Body is a dynamic circle driven by steering forces. Rotation is locked and
// gravity ignored until EnableRagdoll.
type Body struct {
	body     *cp.Body
	shape    *cp.Shape
	radius   float64
	maxSpeed float64
	ragdoll  bool
}

func newBody(cfg BodyConfig) *Body {
	def := DefaultBodyConfig()
	if cfg.Mass <= 0 {
		cfg.Mass = def.Mass
	}
	if cfg.Radius <= 0 {
		cfg.Radius = def.Radius
	}
	if cfg.Layer == 0 {
		cfg.Layer = def.Layer
	}

	cpBody := cp.NewBody(cfg.Mass, math.Inf(1))
	cpBody.SetPosition(cfg.Position)
	cpBody.SetAngle(0)
	cpBody.SetAngularVelocity(0)

	shape := cp.NewCircle(cpBody, cfg.Radius, cp.Vector{})
	shape.SetFriction(cfg.Friction)
	shape.SetCollisionType(collisionTypeAgent)
	shape.SetFilter(cp.ShapeFilter{Categories: cfg.Layer, Mask: entity.AllLayers})

	b := &Body{body: cpBody, shape: shape, radius: cfg.Radius, maxSpeed: cfg.MaxSpeed}
	cpBody.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		if !b.ragdoll {
			gravity = cp.Vector{}
		}
		cp.BodyUpdateVelocity(body, gravity, damping, dt)
		if !b.ragdoll && b.maxSpeed > 0 {
			body.SetVelocityVector(common.ClampLength(body.Velocity(), b.maxSpeed))
		}
	})
	return b
}

func (b *Body) Position() cp.Vector { return b.body.Position() }

func (b *Body) SetPosition(p cp.Vector) { b.body.SetPosition(p) }

func (b *Body) Velocity() cp.Vector { return b.body.Velocity() }

func (b *Body) Angle() float64 { return b.body.Angle() }

func (b *Body) Radius() float64 { return b.radius }

func (b *Body) Ragdolled() bool { return b.ragdoll }

func (b *Body) AddForce(v cp.Vector, mode entity.ForceMode) {
	switch mode {
	case entity.Impulse:
		b.body.ApplyImpulseAtWorldPoint(v, b.body.Position())
	case entity.VelocityChange:
		b.body.SetVelocityVector(b.body.Velocity().Add(v))
	default:
		b.body.ApplyForceAtWorldPoint(v, b.body.Position())
	}
}

// MoveRotation turns toward angle at lerpSpeed per second. Zero snaps.
func (b *Body) MoveRotation(angle, lerpSpeed, dt float64) {
	if b.ragdoll {
		return
	}
	if lerpSpeed > 0 {
		angle = common.LerpAngle(b.body.Angle(), angle, lerpSpeed*dt)
	}
	b.body.SetAngle(angle)
}

// EnableRagdoll hands the body to the simulation: gravity applies, rotation
// unlocks and the speed cap is dropped.
func (b *Body) EnableRagdoll() {
	if b.ragdoll {
		return
	}
	b.ragdoll = true
	b.body.SetMoment(cp.MomentForCircle(b.body.Mass(), 0, b.radius, cp.Vector{}))
}
