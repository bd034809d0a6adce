package effects

import "github.com/milk9111/mandible/entity"

const (
	BurnType  = "burn"
	ShockType = "shock"
)

// DamageOverTimeData deals DamagePerTick every TickRate seconds.
type DamageOverTimeData struct {
	Data          `yaml:",inline" json:",inline"`
	TickRate      float64 `yaml:"tick_rate" json:"tick_rate"`
	DamagePerTick float64 `yaml:"damage_per_tick" json:"damage_per_tick"`
}

func (d *DamageOverTimeData) Base() *Data { return &d.Data }

// damageOverTime is the shared body of Burn and Shock. Its visual follows
// the owner while the effect is tracked.
type damageOverTime struct {
	BaseEffect
	cfg    *DamageOverTimeData
	timer  float64
	visual entity.Visual
}

func (d *damageOverTime) OnApply() {
	if d.visual != nil || d.owner == nil || d.cfg.Visual == "" {
		return
	}
	d.visual = d.owner.Visuals().Spawn(d.cfg.Visual, d.owner.Position())
}

func (d *damageOverTime) OnTick(dt float64) {
	d.timer += dt
	if d.timer >= d.cfg.TickRate {
		if d.owner != nil {
			d.owner.TakeDamage(d.cfg.DamagePerTick)
		}
		d.timer = 0
	}
	if d.visual != nil && d.owner != nil {
		d.visual.SetPosition(d.owner.Position())
	}
}

func (d *damageOverTime) OnRemove() {
	if d.visual != nil {
		d.visual.Destroy()
		d.visual = nil
	}
}

type BurnData struct {
	DamageOverTimeData `yaml:",inline" json:",inline"`
}

func (d *BurnData) CreateEffect(owner *entity.Entity) StatusEffect {
	return &Burn{damageOverTime{BaseEffect: NewBaseEffect(owner, d), cfg: &d.DamageOverTimeData}}
}

// Burn damages its owner on a fixed tick.
type Burn struct {
	damageOverTime
}

func (*Burn) TypeKey() string { return BurnType }

type ShockData struct {
	DamageOverTimeData `yaml:",inline" json:",inline"`
}

func (d *ShockData) CreateEffect(owner *entity.Entity) StatusEffect {
	return &Shock{damageOverTime{BaseEffect: NewBaseEffect(owner, d), cfg: &d.DamageOverTimeData}}
}

// Shock damages its owner on a fixed tick.
type Shock struct {
	damageOverTime
}

func (*Shock) TypeKey() string { return ShockType }
