// Package effects implements timed status effects applied to entities and
// the contribution counters that trigger them.
package effects

import (
	"errors"

	"github.com/milk9111/mandible/entity"
)

var (
	ErrDuplicateEffectType = errors.New("effects: duplicate effect type")
	ErrNilData             = errors.New("effects: nil effect data")
)

// Data is the configuration shared by every effect.
type Data struct {
	Key         string  `yaml:"key" json:"key"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Duration    float64 `yaml:"duration" json:"duration"`
	Threshold   float64 `yaml:"threshold" json:"threshold"`
	Visual      string  `yaml:"visual,omitempty" json:"visual,omitempty"`
}

// EffectData creates runtime effects of one concrete type.
type EffectData interface {
	Base() *Data
	CreateEffect(owner *entity.Entity) StatusEffect
}

// StatusEffect is a runtime effect instance. Identity is the concrete type,
// reported by TypeKey: an entity holds at most one effect per key.
type StatusEffect interface {
	TypeKey() string
	Data() EffectData
	Owner() *entity.Entity
	SetOwner(owner *entity.Entity)
	OnApply()
	OnTick(dt float64)
	OnRemove()
}

// BaseEffect carries owner and data. Embed it and implement TypeKey plus
// whichever hooks the effect needs.
type BaseEffect struct {
	owner *entity.Entity
	data  EffectData
}

func NewBaseEffect(owner *entity.Entity, data EffectData) BaseEffect {
	return BaseEffect{owner: owner, data: data}
}

func (b *BaseEffect) Data() EffectData { return b.data }

func (b *BaseEffect) Owner() *entity.Entity { return b.owner }

func (b *BaseEffect) SetOwner(owner *entity.Entity) { b.owner = owner }

func (b *BaseEffect) OnApply() {}

func (b *BaseEffect) OnTick(float64) {}

func (b *BaseEffect) OnRemove() {}

// typeOf reports the effect type a data entry creates.
func typeOf(data EffectData) string {
	if data == nil {
		return ""
	}
	e := data.CreateEffect(nil)
	if e == nil {
		return ""
	}
	return e.TypeKey()
}
