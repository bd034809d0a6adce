package prefabs

import (
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mandible/effects"
	"github.com/milk9111/mandible/entity"
	"github.com/milk9111/mandible/entity/decisions"
	"github.com/milk9111/mandible/entity/states"
	"github.com/milk9111/mandible/physics"
)

type decisionMaker func(spec DecisionSpec) (entity.Decision, error)

type stateMaker func(spec StateSpec) (entity.State, error)

var decisionRegistry = map[string]decisionMaker{
	"constant": func(spec DecisionSpec) (entity.Decision, error) {
		p := struct {
			Score float64 `yaml:"score"`
		}{Score: 1}
		if err := decodeParams(spec.Params, &p); err != nil {
			return nil, err
		}
		return decisions.NewConstant(spec.State, spec.Weight, p.Score), nil
	},
	"move_to_target": func(spec DecisionSpec) (entity.Decision, error) {
		return decisions.NewMoveToTarget(spec.State, spec.Weight), nil
	},
	"in_range": func(spec DecisionSpec) (entity.Decision, error) {
		var p struct {
			Range float64 `yaml:"range"`
		}
		if err := decodeParams(spec.Params, &p); err != nil {
			return nil, err
		}
		if p.Range <= 0 {
			return nil, fmt.Errorf("in_range needs a positive range")
		}
		return decisions.NewInRange(spec.State, spec.Weight, p.Range), nil
	},
	"low_health": func(spec DecisionSpec) (entity.Decision, error) {
		p := struct {
			Threshold float64 `yaml:"threshold"`
		}{Threshold: 0.3}
		if err := decodeParams(spec.Params, &p); err != nil {
			return nil, err
		}
		return decisions.NewLowHealth(spec.State, spec.Weight, p.Threshold), nil
	},
	"script": func(spec DecisionSpec) (entity.Decision, error) {
		var p struct {
			Script string `yaml:"script"`
			Source string `yaml:"source"`
		}
		if err := decodeParams(spec.Params, &p); err != nil {
			return nil, err
		}
		src, name := []byte(p.Source), "inline"
		if p.Script != "" {
			data, err := LoadScript(p.Script)
			if err != nil {
				return nil, fmt.Errorf("load script %s: %w", p.Script, err)
			}
			src, name = data, p.Script
		}
		if len(src) == 0 {
			return nil, fmt.Errorf("script decision needs script or source")
		}
		return decisions.NewScript(name, spec.State, spec.Weight, src)
	},
}

var stateRegistry = map[string]stateMaker{
	"idle": func(spec StateSpec) (entity.State, error) {
		return states.NewIdle(spec.Tag), nil
	},
	"chase": func(spec StateSpec) (entity.State, error) {
		p := struct {
			Speed        float64 `yaml:"speed"`
			StopDistance float64 `yaml:"stop_distance"`
			RotateSpeed  float64 `yaml:"rotate_speed"`
		}{Speed: 6, StopDistance: 1.5, RotateSpeed: 5}
		if err := decodeParams(spec.Params, &p); err != nil {
			return nil, err
		}
		s := states.NewChase(spec.Tag, p.Speed, p.StopDistance)
		s.RotateSpeed = p.RotateSpeed
		return s, nil
	},
	"flee": func(spec StateSpec) (entity.State, error) {
		p := struct {
			Speed float64 `yaml:"speed"`
		}{Speed: 6}
		if err := decodeParams(spec.Params, &p); err != nil {
			return nil, err
		}
		return states.NewFlee(spec.Tag, p.Speed), nil
	},
	"flying": func(spec StateSpec) (entity.State, error) {
		p := struct {
			states.FlyingConfig `yaml:",inline"`
			Orbit               string `yaml:"orbit"`
		}{FlyingConfig: states.DefaultFlyingConfig()}
		if err := decodeParams(spec.Params, &p); err != nil {
			return nil, err
		}
		dir, err := states.ParseOrbitDirection(p.Orbit)
		if err != nil {
			return nil, err
		}
		cfg := p.FlyingConfig
		cfg.Orbit = dir
		return states.NewSimpleFlying(spec.Tag, cfg), nil
	},
	"dead": func(StateSpec) (entity.State, error) {
		return states.NewDead(), nil
	},
}

// DecisionKinds lists the registered decision kinds.
func DecisionKinds() []string { return sortedKeys(decisionRegistry) }

// StateKinds lists the registered state kinds.
func StateKinds() []string { return sortedKeys(stateRegistry) }

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s DecisionSpec) Build() (entity.Decision, error) {
	maker, ok := decisionRegistry[s.Kind]
	if !ok {
		return nil, fmt.Errorf("prefabs: unknown decision kind %q", s.Kind)
	}
	if s.State == "" {
		return nil, fmt.Errorf("prefabs: %s decision: missing state", s.Kind)
	}
	if s.Weight < 0 {
		return nil, fmt.Errorf("prefabs: %s decision for %s: %w", s.Kind, s.State, entity.ErrNegativeWeight)
	}
	d, err := maker(s)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s decision for %s: %w", s.Kind, s.State, err)
	}
	if s.Description != "" {
		if desc, ok := d.(interface{ SetDescription(string) }); ok {
			desc.SetDescription(s.Description)
		}
	}
	return d, nil
}

func (s StateSpec) Build() (entity.State, error) {
	maker, ok := stateRegistry[s.Kind]
	if !ok {
		return nil, fmt.Errorf("prefabs: unknown state kind %q", s.Kind)
	}
	if s.Tag == "" && s.Kind != "dead" {
		return nil, fmt.Errorf("prefabs: %s state: missing tag", s.Kind)
	}
	st, err := maker(s)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s state %s: %w", s.Kind, s.Tag, err)
	}
	return st, nil
}

// Definition builds the decision and state templates. Nothing is returned
// unless every entry builds.
func (s EntitySpec) Definition() (entity.Definition, error) {
	def := entity.Definition{Name: s.Name}
	for _, ds := range s.Decisions {
		d, err := ds.Build()
		if err != nil {
			return entity.Definition{}, fmt.Errorf("prefabs: %s: %w", s.Name, err)
		}
		def.Decisions = append(def.Decisions, d)
	}
	for _, ss := range s.States {
		st, err := ss.Build()
		if err != nil {
			return entity.Definition{}, fmt.Errorf("prefabs: %s: %w", s.Name, err)
		}
		def.States = append(def.States, st)
	}
	if err := def.Validate(); err != nil {
		return entity.Definition{}, err
	}
	return def, nil
}

// Config is the entity configuration described by s, without a body.
func (s EntitySpec) Config() (entity.Config, error) {
	def, err := s.Definition()
	if err != nil {
		return entity.Config{}, err
	}
	hit, err := entity.ParseHitType(s.HitType)
	if err != nil {
		return entity.Config{}, fmt.Errorf("prefabs: %s: %w", s.Name, err)
	}
	cfg := entity.Config{
		Name:      s.Name,
		MaxHealth: s.MaxHealth,
		HitType:   hit,
		Layer:     s.Layer,
		Targeting: &s.Targeting,
		Movement:  s.Movement,
		Decisions: def.Decisions,
		States:    def.States,
	}
	return cfg, nil
}

// Spawn builds s into w at pos. When space is non-nil and s has a body, the
// entity is driven by a physics body attached to space.
func (s EntitySpec) Spawn(w *entity.World, space *physics.Space, pos cp.Vector) (*entity.Entity, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	cfg.Position = pos

	var body *physics.Body
	if space != nil && s.Body != nil {
		bc := *s.Body
		bc.Position = pos
		if bc.Layer == 0 {
			bc.Layer = cfg.Layer
		}
		if bc.MaxSpeed <= 0 {
			bc.MaxSpeed = cfg.Movement.MaxSpeed
		}
		body = space.NewBody(bc)
		cfg.Body = body
	}

	e := entity.New(cfg)
	if err := w.Spawn(e); err != nil {
		return nil, err
	}
	if body != nil {
		space.Attach(e, body)
	}
	return e, nil
}

// Data converts the catalog into registrable effect data.
func (c EffectCatalogSpec) Data() ([]effects.EffectData, error) {
	out := make([]effects.EffectData, 0, len(c.Effects))
	for i, spec := range c.Effects {
		var d effects.EffectData
		switch spec.Kind {
		case effects.BurnType:
			d = &effects.BurnData{DamageOverTimeData: spec.DamageOverTimeData}
		case effects.ShockType:
			d = &effects.ShockData{DamageOverTimeData: spec.DamageOverTimeData}
		default:
			return nil, fmt.Errorf("prefabs: effect %d (%s): unknown kind %q", i, spec.Name, spec.Kind)
		}
		if d.Base().Name == "" {
			return nil, fmt.Errorf("prefabs: effect %d: name is required", i)
		}
		out = append(out, d)
	}
	return out, nil
}

// Register replaces reg's contents with the catalog. On error reg is left
// unchanged.
func (c EffectCatalogSpec) Register(reg *effects.Registry) error {
	data, err := c.Data()
	if err != nil {
		return err
	}
	if err := reg.Replace(data...); err != nil {
		return fmt.Errorf("prefabs: register effects: %w", err)
	}
	return nil
}
