package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/mandible/effects"
	"github.com/milk9111/mandible/entity"
	"github.com/milk9111/mandible/physics"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// EntitySpec is the YAML template of one agent.
type EntitySpec struct {
	Name      string                 `yaml:"name" json:"name" jsonschema:"required,minLength=1"`
	MaxHealth float64                `yaml:"max_health" json:"max_health,omitempty" jsonschema:"minimum=0"`
	HitType   string                 `yaml:"hit_type" json:"hit_type,omitempty" jsonschema:"enum=normal,enum=critical"`
	Layer     uint                   `yaml:"layer" json:"layer,omitempty"`
	Body      *physics.BodyConfig    `yaml:"body" json:"body,omitempty"`
	Targeting entity.TargetingConfig `yaml:"targeting" json:"targeting"`
	Movement  entity.MovementConfig  `yaml:"movement" json:"movement"`
	Decisions []DecisionSpec         `yaml:"decisions" json:"decisions" jsonschema:"required"`
	States    []StateSpec            `yaml:"states" json:"states" jsonschema:"required"`
}

// DecisionSpec selects a decision kind. Params are decoded by the kind's
// builder.
type DecisionSpec struct {
	Kind        string         `yaml:"kind" json:"kind" jsonschema:"required,enum=constant,enum=move_to_target,enum=in_range,enum=low_health,enum=script"`
	State       string         `yaml:"state" json:"state" jsonschema:"required,minLength=1"`
	Weight      float64        `yaml:"weight" json:"weight" jsonschema:"minimum=0"`
	Description string         `yaml:"description" json:"description,omitempty"`
	Params      map[string]any `yaml:"params" json:"params,omitempty"`
}

type StateSpec struct {
	Kind   string         `yaml:"kind" json:"kind" jsonschema:"required,enum=idle,enum=chase,enum=flee,enum=flying,enum=dead"`
	Tag    string         `yaml:"tag" json:"tag,omitempty"`
	Params map[string]any `yaml:"params" json:"params,omitempty"`
}

// NewEntitySpec returns a spec carrying the default targeting and movement
// tuning. Parsed documents overlay it.
func NewEntitySpec() EntitySpec {
	return EntitySpec{
		Targeting: entity.DefaultTargetingConfig(),
		Movement:  entity.DefaultMovementConfig(),
	}
}

func ParseEntitySpec(data []byte) (EntitySpec, error) {
	spec := NewEntitySpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return EntitySpec{}, err
	}
	if spec.Name == "" {
		return EntitySpec{}, fmt.Errorf("entity name is required")
	}
	return spec, nil
}

func LoadEntitySpec(filename string) (EntitySpec, error) {
	data, err := Load(filename)
	if err != nil {
		return EntitySpec{}, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	spec, err := ParseEntitySpec(data)
	if err != nil {
		return EntitySpec{}, fmt.Errorf("prefabs: parse %s: %w", filename, err)
	}
	return spec, nil
}

// EffectSpec is one entry of an effect catalog.
type EffectSpec struct {
	Kind                       string `yaml:"kind" json:"kind" jsonschema:"required,enum=burn,enum=shock"`
	effects.DamageOverTimeData `yaml:",inline" json:",inline"`
}

type EffectCatalogSpec struct {
	Effects []EffectSpec `yaml:"effects" json:"effects"`
}

func LoadEffectCatalog(filename string) (EffectCatalogSpec, error) {
	return LoadSpec[EffectCatalogSpec](filename)
}

// decodeParams overlays raw onto out. Keys missing from raw keep out's
// current values.
func decodeParams(raw map[string]any, out any) error {
	if len(raw) == 0 {
		return nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}
