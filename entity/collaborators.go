package entity

import "github.com/jakecoffman/cp"

// ForceMode selects how AddForce is integrated by a Body.
type ForceMode int

const (
	// Force is applied continuously and scaled by mass.
	Force ForceMode = iota
	// Impulse is an instant change in momentum.
	Impulse
	// VelocityChange is an instant change in velocity, ignoring mass.
	VelocityChange
)

func (m ForceMode) String() string {
	switch m {
	case Force:
		return "force"
	case Impulse:
		return "impulse"
	case VelocityChange:
		return "velocity_change"
	default:
		return "unknown"
	}
}

// Body is the movement provider an entity drives.
type Body interface {
	Position() cp.Vector
	SetPosition(p cp.Vector)
	Velocity() cp.Vector
	Angle() float64
	AddForce(v cp.Vector, mode ForceMode)
	MoveRotation(angle, lerpSpeed, dt float64)
}

// Ragdoller is implemented by bodies that can go limp on death.
type Ragdoller interface {
	EnableRagdoll()
}

// RayHit is the nearest obstruction found along a ray.
type RayHit struct {
	Hit    bool
	Entity *Entity
	Point  cp.Vector
}

// SpatialQuery answers perception queries against the world.
type SpatialQuery interface {
	// QueryRadius returns the entities whose layer intersects mask within
	// radius of center.
	QueryRadius(center cp.Vector, radius float64, mask uint) []*Entity
	// Raycast returns the nearest obstruction between from and to.
	Raycast(from, to cp.Vector, mask uint) RayHit
}

// Animator receives animation signals.
type Animator interface {
	SetTrigger(name string)
	SetEnabled(enabled bool)
}

// Visual is a spawned effect visual.
type Visual interface {
	SetPosition(p cp.Vector)
	Destroy()
}

// Visuals spawns named visuals.
type Visuals interface {
	Spawn(name string, at cp.Vector) Visual
}

type noopVisual struct{}

func (noopVisual) SetPosition(cp.Vector) {}
func (noopVisual) Destroy()              {}

type noopVisuals struct{}

func (noopVisuals) Spawn(string, cp.Vector) Visual { return noopVisual{} }
