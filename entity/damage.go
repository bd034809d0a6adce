package entity

import "fmt"

// HitType classifies how a damageable reacts to a hit.
type HitType int

const (
	HitNormal HitType = iota
	HitCritical
)

func (h HitType) String() string {
	if h == HitCritical {
		return "critical"
	}
	return "normal"
}

// ParseHitType maps a config string to a HitType.
func ParseHitType(s string) (HitType, error) {
	switch s {
	case "", "normal":
		return HitNormal, nil
	case "critical":
		return HitCritical, nil
	default:
		return HitNormal, fmt.Errorf("entity: unknown hit type %q", s)
	}
}

// Contribution is a named amount fed to a status effect accumulator.
type Contribution struct {
	Name  string  `yaml:"name" json:"name"`
	Value float64 `yaml:"value" json:"value"`
}

// Damageable is anything that can be hit.
type Damageable interface {
	IsDead() bool
	HitType() HitType
	TakeDamage(amount float64)
	AddStatusEffectContribution(c Contribution)
}

// ContributionReceiver is implemented by extensions that accumulate
// status effect contributions.
type ContributionReceiver interface {
	AddEffectContribution(name string, amount float64)
}

// Hit is a single incoming hit.
type Hit struct {
	Damage       float64
	Contribution *Contribution
}

// ApplyHit delivers hit to target. The contribution lands even when the
// target is already dead; damage only when it is alive. Reports whether
// damage was applied.
func ApplyHit(target Damageable, hit Hit) bool {
	if target == nil {
		return false
	}
	if hit.Contribution != nil {
		target.AddStatusEffectContribution(*hit.Contribution)
	}
	if target.IsDead() {
		return false
	}
	target.TakeDamage(hit.Damage)
	return true
}

const DefaultCriticalMultiplier = 1.5

// CriticalPoint is a weak spot that forwards amplified damage to its target.
type CriticalPoint struct {
	target     Damageable
	Multiplier float64
}

func NewCriticalPoint(target Damageable) (*CriticalPoint, error) {
	if target == nil {
		return nil, ErrMissingTarget
	}
	return &CriticalPoint{target: target, Multiplier: DefaultCriticalMultiplier}, nil
}

func (c *CriticalPoint) Target() Damageable { return c.target }

func (c *CriticalPoint) IsDead() bool { return c.target.IsDead() }

func (c *CriticalPoint) HitType() HitType { return HitCritical }

func (c *CriticalPoint) TakeDamage(amount float64) {
	c.target.TakeDamage(amount * c.Multiplier)
}

func (c *CriticalPoint) AddStatusEffectContribution(contribution Contribution) {
	c.target.AddStatusEffectContribution(contribution)
}
