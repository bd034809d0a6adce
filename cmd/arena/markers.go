package main

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/mandible/entity"
	"github.com/milk9111/mandible/schedule"
)

const markerFade = 0.25

// marker is a named effect visual. The arena draws them as rings that fade
// in on spawn and out on destroy.
type marker struct {
	name    string
	pos     cp.Vector
	alpha   float64
	fade    *schedule.Task
	removed bool
	set     *markers
}

func (m *marker) SetPosition(p cp.Vector) { m.pos = p }

func (m *marker) Destroy() {
	if m.removed {
		return
	}
	m.removed = true
	m.fade.Cancel()
	m.fade = m.set.tasks.Start(schedule.Lerp(m.alpha, 0, markerFade, func(v float64) {
		m.alpha = v
	}).OnComplete(func() {
		delete(m.set.active, m)
	}))
}

type markers struct {
	active map[*marker]struct{}
	tasks  schedule.Scheduler
}

func newMarkers() *markers {
	return &markers{active: make(map[*marker]struct{})}
}

func (s *markers) Spawn(name string, at cp.Vector) entity.Visual {
	m := &marker{name: name, pos: at, set: s}
	m.fade = s.tasks.Start(schedule.Lerp(0, 1, markerFade, func(v float64) {
		m.alpha = v
	}))
	s.active[m] = struct{}{}
	return m
}

// Update advances the fades. It runs as a world system.
func (s *markers) Update(dt float64) { s.tasks.Advance(dt) }

func (s *markers) Len() int { return len(s.active) }

func (s *markers) each(fn func(name string, pos cp.Vector, alpha float64)) {
	for m := range s.active {
		fn(m.name, m.pos, m.alpha)
	}
}
