package entity

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mandible/common"
)

// AllLayers matches every layer.
const AllLayers = ^uint(0)

type TargetingConfig struct {
	VisionRadius float64 `yaml:"vision_radius" json:"vision_radius,omitempty"`
	ForgetTime   float64 `yaml:"forget_time" json:"forget_time,omitempty"`
	HeightOffset float64 `yaml:"height_offset" json:"height_offset,omitempty"`
	LayerMask    uint    `yaml:"layer_mask" json:"layer_mask,omitempty"`
}

func DefaultTargetingConfig() TargetingConfig {
	return TargetingConfig{
		VisionRadius: 10,
		ForgetTime:   5,
		LayerMask:    AllLayers,
	}
}

// TargetInfo is the perception memory of one candidate.
type TargetInfo struct {
	Target            *Entity
	Weight            float64
	Visible           bool
	LastKnownPosition cp.Vector
	LastSeenTime      float64
}

// Targeting tracks candidates seen within the vision radius and picks the
// highest weighted one. Records are kept in the order they were first seen.
type Targeting struct {
	owner   *Entity
	cfg     TargetingConfig
	targets []*TargetInfo
	target  *Entity
}

// NewTargeting fills an unset VisionRadius and LayerMask from
// DefaultTargetingConfig. ForgetTime is used as given; zero forgets a
// candidate on the first tick it goes unseen.
func NewTargeting(cfg TargetingConfig) *Targeting {
	if cfg.VisionRadius <= 0 {
		cfg.VisionRadius = DefaultTargetingConfig().VisionRadius
	}
	if cfg.ForgetTime < 0 {
		cfg.ForgetTime = 0
	}
	if cfg.LayerMask == 0 {
		cfg.LayerMask = AllLayers
	}
	return &Targeting{cfg: cfg}
}

func (t *Targeting) Initialize(owner *Entity) { t.owner = owner }

func (t *Targeting) Config() TargetingConfig { return t.cfg }

func (t *Targeting) eye(e *Entity) cp.Vector {
	return e.Position().Add(cp.Vector{Y: t.cfg.HeightOffset})
}

// Update refreshes every record in range, forgets stale ones and reselects.
func (t *Targeting) Update() {
	if t.owner == nil || t.owner.world == nil {
		return
	}
	now := t.owner.Now()
	spatial := t.owner.world.Spatial()

	for _, candidate := range spatial.QueryRadius(t.eye(t.owner), t.cfg.VisionRadius, t.cfg.LayerMask) {
		if candidate == nil || candidate == t.owner || candidate.IsDead() {
			continue
		}
		visible := t.visible(spatial, candidate)
		info := t.track(candidate, visible, now)
		if visible {
			info.LastKnownPosition = candidate.Position()
			info.LastSeenTime = now
		}
		info.Visible = visible
		info.Weight = t.Weight(candidate, visible)
	}

	t.forget(now)
	t.selectTarget()
}

func (t *Targeting) visible(spatial SpatialQuery, candidate *Entity) bool {
	hit := spatial.Raycast(t.eye(t.owner), t.eye(candidate), t.cfg.LayerMask)
	return !hit.Hit || hit.Entity == candidate
}

func (t *Targeting) track(candidate *Entity, visible bool, now float64) *TargetInfo {
	for _, info := range t.targets {
		if info.Target == candidate {
			return info
		}
	}
	info := &TargetInfo{
		Target:            candidate,
		Weight:            t.Weight(candidate, visible),
		Visible:           true,
		LastKnownPosition: candidate.Position(),
		LastSeenTime:      now,
	}
	t.targets = append(t.targets, info)
	return info
}

// Weight favours close, wounded candidates. Candidates out of sight count
// for half.
func (t *Targeting) Weight(candidate *Entity, visible bool) float64 {
	dist := t.owner.Position().Distance(candidate.Position())
	w := common.Clamp01(1 - dist/t.cfg.VisionRadius)
	w *= 1 - candidate.HealthPercentage()
	if !visible {
		w *= 0.5
	}
	return w
}

func (t *Targeting) forget(now float64) {
	kept := t.targets[:0]
	for _, info := range t.targets {
		if now-info.LastSeenTime > t.cfg.ForgetTime {
			continue
		}
		if info.Target.IsDead() || !info.Target.Spawned() {
			continue
		}
		kept = append(kept, info)
	}
	for i := len(kept); i < len(t.targets); i++ {
		t.targets[i] = nil
	}
	t.targets = kept
}

func (t *Targeting) selectTarget() {
	t.target = nil
	best := math.Inf(-1)
	for _, info := range t.targets {
		if info.Weight > best {
			best = info.Weight
			t.target = info.Target
		}
	}
}

func (t *Targeting) Target() *Entity { return t.target }

// Targets returns a snapshot of the tracked records.
func (t *Targeting) Targets() []TargetInfo {
	out := make([]TargetInfo, len(t.targets))
	for i, info := range t.targets {
		out[i] = *info
	}
	return out
}

// Track returns the record for e, if tracked.
func (t *Targeting) Track(e *Entity) (TargetInfo, bool) {
	for _, info := range t.targets {
		if info.Target == e {
			return *info, true
		}
	}
	return TargetInfo{}, false
}
