package states

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/milk9111/mandible/common"
	"github.com/milk9111/mandible/entity"
)

type OrbitDirection int

const (
	OrbitClockwise OrbitDirection = iota
	OrbitCounterClockwise
	OrbitRandom
	// OrbitDeterministic picks the shorter way round from outside the orbit.
	OrbitDeterministic
)

func ParseOrbitDirection(s string) (OrbitDirection, error) {
	switch s {
	case "", "clockwise":
		return OrbitClockwise, nil
	case "counter_clockwise":
		return OrbitCounterClockwise, nil
	case "random":
		return OrbitRandom, nil
	case "deterministic":
		return OrbitDeterministic, nil
	default:
		return OrbitClockwise, fmt.Errorf("states: unknown orbit direction %q", s)
	}
}

// AttackFunc is called every AttackInterval while a flyer has a target.
type AttackFunc func(owner, target *entity.Entity)

// FlyingConfig tunes SimpleFlying.
type FlyingConfig struct {
	ApproachSpeed float64 `yaml:"approach_speed" json:"approach_speed,omitempty"`
	RotateSpeed   float64 `yaml:"rotate_speed" json:"rotate_speed,omitempty"`

	AttackInterval float64 `yaml:"attack_interval" json:"attack_interval,omitempty"`
	AttackDamage   float64 `yaml:"attack_damage" json:"attack_damage,omitempty"`
	// Contribution rides along with every attack hit.
	Contribution *entity.Contribution `yaml:"contribution" json:"contribution,omitempty"`

	OrbitRadius       float64        `yaml:"orbit_radius" json:"orbit_radius,omitempty"`
	OrbitSpeedDegrees float64        `yaml:"orbit_speed_degrees" json:"orbit_speed_degrees,omitempty"`
	OrbitForce        float64        `yaml:"orbit_force" json:"orbit_force,omitempty"`
	Orbit             OrbitDirection `yaml:"-" json:"-"`

	BobAmplitude   float64   `yaml:"bob_amplitude" json:"bob_amplitude,omitempty"`
	BobSpeed       float64   `yaml:"bob_speed" json:"bob_speed,omitempty"`
	JitterInterval float64   `yaml:"jitter_interval" json:"jitter_interval,omitempty"`
	JitterRange    cp.Vector `yaml:"jitter_range" json:"jitter_range"`

	WanderRadius float64 `yaml:"wander_radius" json:"wander_radius,omitempty"`
	Seed         int64   `yaml:"seed" json:"seed,omitempty"`
}

func DefaultFlyingConfig() FlyingConfig {
	return FlyingConfig{
		ApproachSpeed:     8,
		RotateSpeed:       5,
		AttackInterval:    2,
		AttackDamage:      10,
		OrbitRadius:       10,
		OrbitSpeedDegrees: 90,
		OrbitForce:        5,
		BobAmplitude:      0.5,
		BobSpeed:          2,
		JitterInterval:    0.2,
		JitterRange:       cp.Vector{X: 0.3, Y: 0.3},
		WanderRadius:      10,
	}
}

// SimpleFlying wanders while idle and orbits the target while attacking on
// an interval. Orbit radius bobs and the steering jitters on opensimplex
// noise.
type SimpleFlying struct {
	entity.StateBase
	Config FlyingConfig
	Attack AttackFunc

	rng   *rand.Rand
	noise opensimplex.Noise

	wander     cp.Vector
	angle      float64 // degrees
	randomDir  float64
	dir        float64
	bobOffset  float64
	bobTimer   float64
	jitterT    float64
	jitter     cp.Vector
	attackT    float64
	noiseClock float64
}

func NewSimpleFlying(tag string, cfg FlyingConfig) *SimpleFlying {
	return &SimpleFlying{
		StateBase: entity.StateBase{StateTag: tag, Info: "Orbits and harasses the target from range."},
		Config:    cfg,
	}
}

func (s *SimpleFlying) Initialize(owner *entity.Entity) {
	s.StateBase.Initialize(owner)
	seed := s.Config.Seed
	if seed == 0 {
		seed = int64(owner.ID.ID())
	}
	s.rng = rand.New(rand.NewSource(seed))
	s.noise = opensimplex.NewNormalized(seed)
	if s.Attack == nil {
		s.Attack = s.hit
	}
}

func (s *SimpleFlying) OnEnter() {
	s.wander = s.Owner.Position()
	s.angle = s.rng.Float64() * 360
	s.randomDir = 1
	if s.rng.Float64() < 0.5 {
		s.randomDir = -1
	}
	s.dir = 1
	s.bobOffset = s.rng.Float64() * 2 * math.Pi
	s.attackT = s.rng.Float64() * s.Config.AttackInterval / 2
}

func (s *SimpleFlying) OnUpdate(dt float64) {
	target := s.Target()
	if target == nil {
		s.Owner.Movement.AddForce(s.wanderForce(dt), entity.Force)
		return
	}

	force := s.orbitForce(target.Position(), dt).Add(s.procedural(target.Position(), dt))
	s.Owner.Movement.AddForce(force, entity.Force)

	look := target.Position().Sub(s.Owner.Position())
	if look.LengthSq() > 0 {
		s.Owner.Movement.MoveRotation(math.Atan2(look.Y, look.X), s.Config.RotateSpeed)
	}

	s.attackT += dt
	if s.attackT >= s.Config.AttackInterval {
		s.attackT = 0
		s.Attack(s.Owner, target)
	}
}

// hit is the default attack: direct damage plus the configured contribution.
func (s *SimpleFlying) hit(_, target *entity.Entity) {
	entity.ApplyHit(target, entity.Hit{Damage: s.Config.AttackDamage, Contribution: s.Config.Contribution})
}

func (s *SimpleFlying) wanderForce(dt float64) cp.Vector {
	pos := s.Owner.Position()
	to := s.wander.Sub(pos)
	if to.LengthSq() > 0 {
		s.Owner.Movement.MoveRotation(math.Atan2(to.Y, to.X), s.Config.RotateSpeed)
	}
	if to.Length() < math.Max(0.1, s.Config.ApproachSpeed*dt) {
		r := s.Config.WanderRadius
		s.wander = pos.Add(cp.Vector{X: (s.rng.Float64()*2 - 1) * r, Y: (s.rng.Float64()*2 - 1) * r})
	}
	return common.Direction(pos, s.wander).Mult(s.Config.ApproachSpeed)
}

func (s *SimpleFlying) orbitDirection(center cp.Vector) float64 {
	switch s.Config.Orbit {
	case OrbitClockwise:
		return -1
	case OrbitCounterClockwise:
		return 1
	case OrbitRandom:
		return s.randomDir
	default:
		from := s.Owner.Position().Sub(center)
		if from.Length() <= s.Config.OrbitRadius {
			return s.dir
		}
		rel := math.Atan2(from.Y, from.X) * 180 / math.Pi
		cur := math.Mod(s.angle+360, 360)
		diff := math.Mod(rel-cur+360, 360)
		if diff < 0 {
			diff += 360
		}
		if diff > 180 {
			return -1
		}
		return 1
	}
}

// orbitForce is a PD controller toward the next point on the orbit circle,
// capped at OrbitForce.
func (s *SimpleFlying) orbitForce(center cp.Vector, dt float64) cp.Vector {
	s.dir = s.orbitDirection(center)
	s.angle += s.Config.OrbitSpeedDegrees * s.dir * dt

	rad := s.angle * math.Pi / 180
	radius := s.Config.OrbitRadius + s.bob()
	desired := center.Add(cp.Vector{X: math.Cos(rad), Y: math.Sin(rad)}.Mult(radius))

	kp := s.Config.OrbitForce
	kd := 2 * math.Sqrt(math.Max(kp, 0))
	errv := desired.Sub(s.Owner.Position())
	f := errv.Mult(kp).Sub(s.Owner.Movement.Velocity().Mult(kd))
	return common.ClampLength(f, s.Config.OrbitForce)
}

func (s *SimpleFlying) bob() float64 {
	n := s.noise.Eval2(s.bobTimer*s.Config.BobSpeed, s.bobOffset)
	return (n*2 - 1) * s.Config.BobAmplitude
}

// procedural advances bob and refreshes jitter every JitterInterval.
func (s *SimpleFlying) procedural(center cp.Vector, dt float64) cp.Vector {
	s.bobTimer += dt
	s.jitterT += dt
	s.noiseClock += dt
	if s.jitterT > s.Config.JitterInterval {
		s.jitterT = 0
		s.jitter = cp.Vector{
			X: (s.noise.Eval2(s.noiseClock, 17.3)*2 - 1) * s.Config.JitterRange.X,
			Y: (s.noise.Eval2(-31.7, s.noiseClock)*2 - 1) * s.Config.JitterRange.Y,
		}
	}
	radial := common.Direction(center, s.Owner.Position()).Mult(s.bob())
	return radial.Add(s.jitter)
}

func (s *SimpleFlying) Clone() entity.State {
	c := *s
	c.rng = nil
	c.noise = nil
	return &c
}
