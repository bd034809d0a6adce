package main

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/mandible/entity"
)

// Hazard feeds a status effect contribution to every living entity inside
// it, Rate per second.
type Hazard struct {
	Center cp.Vector
	Radius float64
	Effect string
	Rate   float64
}

type hazardSystem struct {
	arena   *Arena
	hazards []Hazard
}

func (s *hazardSystem) Update(dt float64) {
	for _, h := range s.hazards {
		for _, e := range s.arena.space.QueryRadius(h.Center, h.Radius, entity.AllLayers) {
			if e.IsDead() {
				continue
			}
			e.AddStatusEffectContribution(entity.Contribution{Name: h.Effect, Value: h.Rate * dt})
		}
	}
}
