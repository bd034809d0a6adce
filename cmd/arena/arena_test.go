package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mandible/prefabs"
)

func newTestArena(t *testing.T, cfg Config) *Arena {
	t.Helper()
	a, err := NewArena(cfg)
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestArenaRunsHeadless(t *testing.T) {
	a := newTestArena(t, DefaultConfig())
	if got := a.World().Len(); got != 10 {
		t.Fatalf("spawned %d entities, want 10", got)
	}

	for i := 0; i < 300; i++ {
		a.Update(1.0 / 60)
	}

	if a.ticks != 300 {
		t.Fatalf("ticks = %d", a.ticks)
	}
	var total int
	for _, n := range a.Summary() {
		total += n
	}
	if total != a.World().Len() {
		t.Fatalf("summary counts %d entities, world has %d", total, a.World().Len())
	}
	for _, e := range a.World().Entities() {
		if e.Body() == nil {
			t.Fatalf("%s spawned without a body", e)
		}
	}
}

func TestHazardAppliesEffects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Population = map[string]int{"dummy.yaml": 1}
	cfg.Hazards = []Hazard{{Center: cp.Vector{X: 30, Y: 17}, Radius: 100, Effect: "Burn", Rate: 20}}
	a := newTestArena(t, cfg)

	dummy := a.World().Entities()[0]
	for i := 0; i < 180; i++ {
		a.Update(1.0 / 60)
	}

	if dummy.Health() >= dummy.MaxHealth() {
		t.Fatalf("health = %v, burn should have ticked", dummy.Health())
	}
	if a.visuals.Len() != 1 {
		t.Fatalf("visuals = %d, want the single flames marker", a.visuals.Len())
	}
	a.visuals.each(func(name string, pos cp.Vector, alpha float64) {
		if alpha != 1 {
			t.Fatalf("marker alpha = %v after fading in", alpha)
		}
		if name != "flames" {
			t.Fatalf("visual %q", name)
		}
		if pos.Distance(dummy.Position()) > 0.5 {
			t.Fatalf("marker at %v, dummy at %v", pos, dummy.Position())
		}
	})
}

func withPrefabDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = prev })
	return dir
}

func TestReload(t *testing.T) {
	dir := withPrefabDir(t)
	cfg := DefaultConfig()
	cfg.Population = map[string]int{"grunt.yaml": 2, "dummy.yaml": 1}
	cfg.Hazards = nil
	a := newTestArena(t, cfg)

	grunts := func() int {
		var n int
		for _, e := range a.World().Entities() {
			if e.Name != "grunt" {
				continue
			}
			n++
			if len(e.AI.Templates()) != 1 || len(e.StateMachine.States()) != 2 {
				return -1
			}
		}
		return n
	}

	override := `name: grunt
max_health: 100
decisions:
  - kind: constant
    state: Idle
    weight: 1
states:
  - kind: idle
    tag: Idle
  - kind: dead
`
	path := filepath.Join(dir, "grunt.yaml")
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		change  prefabs.Change
		wantErr bool
	}{
		{name: "unknown template", change: prefabs.Change{Path: filepath.Join(dir, "nobody.yaml")}},
		{name: "effect catalog", change: prefabs.Change{Path: filepath.Join(dir, prefabs.EffectCatalogFile)}},
		{name: "template", change: prefabs.Change{Path: path, Kind: prefabs.SpecChanged}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Reload(tt.change)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Reload err = %v", err)
			}
		})
	}

	if got := grunts(); got != 2 {
		t.Fatalf("reloaded grunts = %d, want 2 with the new definition", got)
	}
	if a.effects.Len() != 2 {
		t.Fatalf("effect catalog has %d entries", a.effects.Len())
	}

	// a broken edit leaves the running entities alone
	bad := "name: grunt\ndecisions:\n  - kind: nonsense\n    state: Idle\n"
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := a.Reload(prefabs.Change{Path: path}); err == nil {
		t.Fatal("expected an error for an unknown decision kind")
	}
	if got := grunts(); got != 2 {
		t.Fatalf("grunts = %d after a failed reload", got)
	}

	for i := 0; i < 30; i++ {
		a.Update(1.0 / 60)
	}
}

func TestMarkersFade(t *testing.T) {
	s := newMarkers()
	v := s.Spawn("sparks", cp.Vector{X: 1})
	m := v.(*marker)

	tests := []struct {
		name      string
		steps     int
		destroy   bool
		wantAlpha float64
		wantLen   int
	}{
		{"spawned transparent", 0, false, 0, 1},
		{"fading in", 1, false, 0.1 / markerFade, 1},
		{"fully visible", 10, false, 1, 1},
		{"fading out", 1, true, 1 - 0.1/markerFade, 1},
		{"removed after fade", 10, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.destroy {
				v.Destroy()
				v.Destroy()
			}
			for i := 0; i < tt.steps; i++ {
				s.Update(0.1)
			}
			if math.Abs(m.alpha-tt.wantAlpha) > 1e-9 {
				t.Fatalf("alpha = %v, want %v", m.alpha, tt.wantAlpha)
			}
			if s.Len() != tt.wantLen {
				t.Fatalf("len = %d, want %d", s.Len(), tt.wantLen)
			}
		})
	}
	if s.tasks.Len() != 0 {
		t.Fatalf("%d fade tasks left", s.tasks.Len())
	}
}
