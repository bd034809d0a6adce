package effects

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/mandible/entity"
	"github.com/milk9111/mandible/logger"
	"github.com/milk9111/mandible/schedule"
)

// ExtensionName is the handler's key in an entity.ExtensionRegistry.
const ExtensionName = "status_effects"

type tracked struct {
	effect StatusEffect
	info   *Info
}

// Handler is the entity extension that runs status effects. Each active
// effect ticks from a task on the owner's scheduler until its duration is
// spent, then is removed on the following Handle.
type Handler struct {
	owner    *entity.Entity
	registry *Registry
	log      *logrus.Entry

	order         []string
	effects       map[string]*tracked
	contributions map[string]float64
}

// NewHandler resolves effects by name through reg, or the process-wide
// registry when reg is nil.
func NewHandler(reg *Registry) *Handler {
	return &Handler{
		registry:      reg,
		log:           logger.For("status_effects"),
		effects:       make(map[string]*tracked),
		contributions: make(map[string]float64),
	}
}

// RegisterExtension attaches a Handler backed by catalog to every entity
// spawned through reg.
func RegisterExtension(reg *entity.ExtensionRegistry, catalog *Registry) error {
	return reg.Register(ExtensionName, func() entity.Extension { return NewHandler(catalog) })
}

func (h *Handler) Initialize(owner *entity.Entity) {
	h.owner = owner
	h.log = h.log.WithField("entity", owner.Name)
}

func (h *Handler) Order() entity.UpdateOrder { return entity.OrderDefault }

func (h *Handler) effectRegistry() *Registry {
	if h.registry != nil {
		return h.registry
	}
	return Default()
}

func (h *Handler) Handle(float64) {
	for _, key := range append([]string(nil), h.order...) {
		t, ok := h.effects[key]
		if !ok {
			continue
		}
		switch t.info.State {
		case Pending:
			h.start(t)
		case Expired:
			h.remove(key)
		}
	}
}

func (h *Handler) start(t *tracked) {
	info, effect := t.info, t.effect
	info.State = Active
	info.task = schedule.NewLoop(func(dt float64) bool {
		if info.Elapsed >= info.Duration {
			info.State = Expired
			return false
		}
		effect.OnTick(dt)
		info.Elapsed += dt
		return true
	})
	if h.owner != nil {
		h.owner.Tasks().Start(info.task)
	}
}

// AddEffect tracks effect, or restarts the clock of the effect of the same
// type already tracked. The tracked instance's OnApply runs either way.
func (h *Handler) AddEffect(effect StatusEffect) {
	if effect == nil {
		h.log.Warn("attempted to add nil effect")
		return
	}
	key := effect.TypeKey()

	if t, ok := h.effects[key]; ok {
		t.info.Elapsed = 0
		if t.info.State == Expired {
			t.info.State = Pending
		}
		t.effect.OnApply()
		return
	}

	if effect.Owner() == nil {
		effect.SetOwner(h.owner)
	}
	var duration float64
	if data := effect.Data(); data != nil {
		duration = data.Base().Duration
	}
	h.effects[key] = &tracked{effect: effect, info: &Info{Duration: duration, State: Pending}}
	h.order = append(h.order, key)
	effect.OnApply()
}

// AddEffectByType creates the registered effect of type key and adds it.
func (h *Handler) AddEffectByType(key string) bool {
	effect := h.effectRegistry().Effect(key, h.owner)
	if effect == nil {
		h.log.WithField("effect", key).Warn("no status effect registered for type")
		return false
	}
	h.AddEffect(effect)
	return true
}

// RemoveEffect stops and removes the tracked effect of effect's type.
func (h *Handler) RemoveEffect(effect StatusEffect) bool {
	if effect == nil {
		return false
	}
	return h.remove(effect.TypeKey())
}

func (h *Handler) remove(key string) bool {
	t, ok := h.effects[key]
	if !ok {
		return false
	}
	if t.info.task != nil {
		t.info.task.Cancel()
		t.info.task = nil
	}
	t.effect.OnRemove()
	delete(h.effects, key)
	for i, k := range h.order {
		if k == key {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return true
}

// AddEffectContribution accumulates amount toward the named effect and
// applies it once the total exceeds its threshold.
func (h *Handler) AddEffectContribution(name string, amount float64) {
	effect := h.effectRegistry().EffectByName(name, h.owner)
	if effect == nil {
		h.log.WithField("effect", name).Warn("no status effect found with name")
		return
	}

	h.contributions[name] += amount
	if h.contributions[name] > effect.Data().Base().Threshold {
		h.contributions[name] = 0
		h.AddEffect(effect)
	}
}

func (h *Handler) RemoveEffectContribution(name string) {
	delete(h.contributions, name)
}

func (h *Handler) Contribution(name string) float64 { return h.contributions[name] }

// Info returns a copy of the timing record for type key.
func (h *Handler) Info(key string) (Info, bool) {
	t, ok := h.effects[key]
	if !ok {
		return Info{}, false
	}
	return *t.info, true
}

// Effect returns the tracked instance for type key.
func (h *Handler) Effect(key string) (StatusEffect, bool) {
	t, ok := h.effects[key]
	if !ok {
		return nil, false
	}
	return t.effect, true
}

// Active returns the tracked effects in the order they were added.
func (h *Handler) Active() []StatusEffect {
	out := make([]StatusEffect, 0, len(h.order))
	for _, key := range h.order {
		out = append(out, h.effects[key].effect)
	}
	return out
}

// Destroy cancels every effect task, then runs the remove hooks.
func (h *Handler) Destroy() {
	for _, key := range h.order {
		if task := h.effects[key].info.task; task != nil {
			task.Cancel()
		}
	}
	for _, key := range append([]string(nil), h.order...) {
		h.remove(key)
	}
}
