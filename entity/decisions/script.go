package decisions

import (
	"fmt"
	"math"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/mandible/entity"
	"github.com/milk9111/mandible/logger"
)

// Inputs visible to decision scripts.
var scriptInputs = map[string]any{
	"health":            0.0,
	"health_pct":        0.0,
	"dead":              false,
	"has_target":        false,
	"target_distance":   0.0,
	"target_health_pct": 0.0,
	"now":               0.0,
}

// Script is scored by a tengo script. The script reads the inputs above and
// must define a numeric `score` global.
type Script struct {
	entity.DecisionBase
	Name string

	compiled *tengo.Compiled
	failed   bool
}

func NewScript(name, state string, weight float64, src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	for k, v := range scriptInputs {
		if err := script.Add(k, v); err != nil {
			return nil, fmt.Errorf("decisions: script %s: %w", name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("decisions: compile script %s: %w", name, err)
	}
	// globals only resolve after a run
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("decisions: run script %s: %w", name, err)
	}
	if !compiled.IsDefined("score") {
		return nil, fmt.Errorf("decisions: script %s does not define score", name)
	}
	return &Script{
		DecisionBase: entity.DecisionBase{StateTag: state, DecisionWeight: weight, Info: "scripted: " + name},
		Name:         name,
		compiled:     compiled,
	}, nil
}

func (d *Script) Evaluate(ai *entity.AI) float64 {
	if d.compiled == nil || d.failed {
		return 0
	}

	owner, target := ai.Owner(), ai.Target()
	inputs := map[string]any{
		"health":     ai.Health(),
		"health_pct": ai.HealthPercentage(),
		"dead":       ai.IsDead(),
		"has_target": target != nil,
	}
	if owner != nil {
		inputs["now"] = owner.Now()
	}
	if target != nil && owner != nil {
		inputs["target_distance"] = owner.Position().Distance(target.Position())
		inputs["target_health_pct"] = target.HealthPercentage()
	} else {
		inputs["target_distance"] = math.MaxFloat64
		inputs["target_health_pct"] = 0.0
	}

	for k, v := range inputs {
		if err := d.compiled.Set(k, v); err != nil {
			d.fail(err)
			return 0
		}
	}
	if err := d.compiled.Run(); err != nil {
		d.fail(err)
		return 0
	}
	return d.compiled.Get("score").Float()
}

// fail disables the script after its first runtime error.
func (d *Script) fail(err error) {
	d.failed = true
	logger.For("decisions").WithField("script", d.Name).Errorf("script disabled: %v", err)
}

func (d *Script) Clone() entity.Decision {
	c := *d
	if d.compiled != nil {
		c.compiled = d.compiled.Clone()
	}
	return &c
}
