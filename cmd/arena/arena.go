package main

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/mandible/effects"
	"github.com/milk9111/mandible/entity"
	"github.com/milk9111/mandible/logger"
	"github.com/milk9111/mandible/physics"
	"github.com/milk9111/mandible/prefabs"
)

type Config struct {
	Width, Height float64
	Seed          int64
	// Population maps a template file to how many copies to spawn.
	Population map[string]int
	Hazards    []Hazard
}

func DefaultConfig() Config {
	return Config{
		Width:  60,
		Height: 34,
		Seed:   1,
		Population: map[string]int{
			"grunt.yaml":   3,
			"wasp.yaml":    2,
			"skulker.yaml": 1,
			"dummy.yaml":   4,
		},
		Hazards: []Hazard{
			{Center: cp.Vector{X: 15, Y: 17}, Radius: 5, Effect: "Burn", Rate: 6},
			{Center: cp.Vector{X: 45, Y: 17}, Radius: 4, Effect: "Shock", Rate: 5},
		},
	}
}

// Arena wires the engine together: a physics space, a world, the effect
// catalog and the loaded templates.
type Arena struct {
	cfg     Config
	world   *entity.World
	space   *physics.Space
	effects *effects.Registry
	visuals *markers
	specs   map[string]prefabs.EntitySpec
	rng     *rand.Rand
	log     *logrus.Entry

	ticks  int
	deaths int
}

func NewArena(cfg Config) (*Arena, error) {
	a := &Arena{
		cfg:     cfg,
		space:   physics.NewSpace(physics.DefaultSpaceConfig()),
		effects: effects.Default(),
		visuals: newMarkers(),
		specs:   make(map[string]prefabs.EntitySpec),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		log:     logger.For("arena"),
	}

	if err := a.loadEffects(); err != nil {
		return nil, err
	}
	entity.Extensions().Reset()
	if err := effects.RegisterExtension(entity.Extensions(), a.effects); err != nil {
		return nil, fmt.Errorf("arena: register status effects: %w", err)
	}

	a.world = entity.NewWorld(
		entity.WithSpatialQuery(a.space),
		entity.WithVisuals(a.visuals),
	)
	a.world.AddSystem(a.space)
	a.world.AddSystem(&hazardSystem{arena: a, hazards: cfg.Hazards})
	a.world.AddSystem(a.visuals)

	a.buildWalls()
	if err := a.populate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arena) World() *entity.World { return a.world }

func (a *Arena) Space() *physics.Space { return a.space }

func (a *Arena) loadEffects() error {
	catalog, err := prefabs.LoadEffectCatalog(prefabs.EffectCatalogFile)
	if err != nil {
		return err
	}
	return catalog.Register(a.effects)
}

func (a *Arena) buildWalls() {
	w, h := a.cfg.Width, a.cfg.Height
	corners := []cp.Vector{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	for i := range corners {
		a.space.AddWall(corners[i], corners[(i+1)%len(corners)], 0.5)
	}
	a.space.AddBlock(cp.Vector{X: w / 2, Y: h / 2}, 4, 10)
}

func (a *Arena) populate() error {
	names := make([]string, 0, len(a.cfg.Population))
	for name := range a.cfg.Population {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, err := prefabs.LoadEntitySpec(name)
		if err != nil {
			return err
		}
		a.specs[name] = spec
		for i := 0; i < a.cfg.Population[name]; i++ {
			if _, err := spec.Spawn(a.world, a.space, a.randomPoint()); err != nil {
				return fmt.Errorf("arena: spawn %s: %w", name, err)
			}
		}
	}
	return nil
}

func (a *Arena) randomPoint() cp.Vector {
	margin := 2.0
	return cp.Vector{
		X: margin + a.rng.Float64()*(a.cfg.Width-2*margin),
		Y: margin + a.rng.Float64()*(a.cfg.Height-2*margin),
	}
}

// Update advances one frame and reports what happened.
func (a *Arena) Update(dt float64) {
	a.ticks++
	a.world.Update(dt)

	for _, evt := range a.world.Events().Drain() {
		switch evt.Type {
		case entity.EventDied:
			e := evt.Data.(*entity.Entity)
			a.deaths++
			a.log.WithField("entity", e.String()).Info("died")
		case entity.EventStateChanged:
			sc := evt.Data.(entity.StateChangedEvent)
			if !sc.Change.Found {
				continue
			}
			a.log.WithFields(logrus.Fields{
				"entity": sc.Entity.String(),
				"from":   tagOf(sc.Change.Previous),
				"to":     tagOf(sc.Change.Current),
			}).Debug("state changed")
		}
	}
}

func tagOf(s entity.State) string {
	if s == nil {
		return "none"
	}
	return s.Tag()
}

// Reload applies a changed template, catalog or script. Entities already
// spawned from a template pick up its new decisions and states.
func (a *Arena) Reload(change prefabs.Change) error {
	switch change.Kind {
	case prefabs.ScriptChanged:
		for name := range a.specs {
			if err := a.reloadSpec(name); err != nil {
				return err
			}
		}
		return nil
	default:
		name := filepath.Base(change.Path)
		if name == prefabs.EffectCatalogFile {
			if err := a.loadEffects(); err != nil {
				return err
			}
			a.log.WithField("effects", a.effects.Len()).Info("effect catalog reloaded")
			return nil
		}
		if _, ok := a.specs[name]; !ok {
			return nil
		}
		return a.reloadSpec(name)
	}
}

func (a *Arena) reloadSpec(name string) error {
	spec, err := prefabs.LoadEntitySpec(name)
	if err != nil {
		return err
	}
	def, err := spec.Definition()
	if err != nil {
		return err
	}
	old := a.specs[name]
	var applied int
	for _, e := range a.world.Entities() {
		if e.Name != old.Name {
			continue
		}
		if err := def.ApplyTo(e); err != nil {
			return err
		}
		applied++
	}
	a.specs[name] = spec
	a.log.WithFields(logrus.Fields{"template": name, "entities": applied}).Info("template reloaded")
	return nil
}

// Summary counts the living entities per current state.
func (a *Arena) Summary() map[string]int {
	out := make(map[string]int)
	for _, e := range a.world.Entities() {
		key := tagOf(e.StateMachine.Current())
		if e.IsDead() {
			key = entity.DeadStateTag
		}
		out[key]++
	}
	return out
}

// Close releases the arena's hold on process-wide registries.
func (a *Arena) Close() {
	entity.Extensions().Reset()
	effects.Reset()
}
