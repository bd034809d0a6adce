package physics

import (
	"math"
	"sort"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mandible/entity"
)

func newTestSpace() (*Space, *entity.World) {
	s := NewSpace(SpaceConfig{Gravity: cp.Vector{Y: 30}, Damping: 1})
	w := entity.NewWorld(
		entity.WithExtensionRegistry(entity.NewExtensionRegistry()),
		entity.WithSpatialQuery(s),
	)
	return s, w
}

func spawnAt(t *testing.T, s *Space, w *entity.World, name string, pos cp.Vector, layer uint) *entity.Entity {
	t.Helper()
	b := s.NewBody(BodyConfig{Position: pos, Layer: layer, MaxSpeed: 12})
	e := entity.New(entity.Config{Name: name, Body: b, Layer: layer})
	if err := w.Spawn(e); err != nil {
		t.Fatalf("spawn %s: %v", name, err)
	}
	s.Attach(e, b)
	return e
}

func names(es []*entity.Entity) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Name)
	}
	sort.Strings(out)
	return out
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestQueryRadius(t *testing.T) {
	s, w := newTestSpace()
	spawnAt(t, s, w, "a", cp.Vector{}, 1)
	b := spawnAt(t, s, w, "b", cp.Vector{X: 2}, 2)
	spawnAt(t, s, w, "c", cp.Vector{X: 20}, 1)
	// inside the query box, outside the circle
	spawnAt(t, s, w, "d", cp.Vector{X: 4, Y: 4}, 1)
	s.AddWall(cp.Vector{X: 1, Y: -5}, cp.Vector{X: 1, Y: 5}, 0.1)

	tests := []struct {
		name string
		mask uint
		want []string
	}{
		{"all layers", entity.AllLayers, []string{"a", "b"}},
		{"layer 2 only", 2, []string{"b"}},
		{"no match", 4, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(s.QueryRadius(cp.Vector{}, 5, tt.mask))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v want %v", got, tt.want)
				}
			}
		})
	}

	w.Despawn(b)
	if got := names(s.QueryRadius(cp.Vector{}, 5, entity.AllLayers)); len(got) != 1 || got[0] != "a" {
		t.Fatalf("despawned entity still returned: %v", got)
	}
}

func TestRaycast(t *testing.T) {
	s, w := newTestSpace()
	a := spawnAt(t, s, w, "a", cp.Vector{}, 1)
	b := spawnAt(t, s, w, "b", cp.Vector{X: 10}, 1)

	hit := s.Raycast(a.Position(), b.Position(), entity.AllLayers)
	if !hit.Hit || hit.Entity != b {
		t.Fatalf("expected to reach b, got %+v", hit)
	}

	s.AddWall(cp.Vector{X: 5, Y: -5}, cp.Vector{X: 5, Y: 5}, 0.1)
	hit = s.Raycast(a.Position(), b.Position(), entity.AllLayers)
	if !hit.Hit || hit.Entity != nil {
		t.Fatalf("expected the wall, got %+v", hit)
	}
	if !approx(hit.Point.X, 4.9) {
		t.Fatalf("expected hit on the wall face, got %v", hit.Point)
	}

	if miss := s.Raycast(cp.Vector{Y: 20}, cp.Vector{X: 10, Y: 20}, entity.AllLayers); miss.Hit {
		t.Fatalf("expected a clear ray, got %+v", miss)
	}
}

func TestWallHidesTarget(t *testing.T) {
	s, w := newTestSpace()
	seeker := spawnAt(t, s, w, "seeker", cp.Vector{}, 1)
	target := spawnAt(t, s, w, "target", cp.Vector{X: 8}, 1)

	seeker.AI.Targeting().Update()
	if info, ok := seeker.AI.Targeting().Track(target); !ok || !info.Visible {
		t.Fatalf("expected visible target, got %+v", info)
	}

	s.AddBlock(cp.Vector{X: 4}, 1, 4)
	seeker.AI.Targeting().Update()
	info, ok := seeker.AI.Targeting().Track(target)
	if !ok {
		t.Fatal("hidden target should still be tracked")
	}
	if info.Visible {
		t.Fatal("block should hide the target")
	}
}

func TestBodyForceModes(t *testing.T) {
	tests := []struct {
		name string
		mode entity.ForceMode
		in   cp.Vector
		want cp.Vector
	}{
		{"velocity change ignores mass", entity.VelocityChange, cp.Vector{X: 3}, cp.Vector{X: 3}},
		{"impulse scales by mass", entity.Impulse, cp.Vector{X: 4}, cp.Vector{X: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpace(SpaceConfig{Damping: 1})
			b := s.NewBody(BodyConfig{Mass: 2})
			b.AddForce(tt.in, tt.mode)
			if got := b.Velocity(); !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestForceIntegratesOnStep(t *testing.T) {
	s := NewSpace(SpaceConfig{Damping: 1})
	b := s.NewBody(BodyConfig{Mass: 1})
	b.AddForce(cp.Vector{X: 10}, entity.Force)
	s.Step(0.1)
	if got := b.Velocity().X; !approx(got, 1) {
		t.Fatalf("expected velocity 1 after one step, got %v", got)
	}
}

func TestSpeedIsClamped(t *testing.T) {
	s := NewSpace(SpaceConfig{Damping: 1})
	b := s.NewBody(BodyConfig{MaxSpeed: 12})
	b.AddForce(cp.Vector{X: 50}, entity.VelocityChange)
	s.Step(0.1)
	if got := b.Velocity().Length(); !approx(got, 12) {
		t.Fatalf("expected speed clamped to 12, got %v", got)
	}
}

func TestRagdollEnablesGravity(t *testing.T) {
	s := NewSpace(SpaceConfig{Gravity: cp.Vector{Y: 30}, Damping: 1})
	b := s.NewBody(BodyConfig{})

	s.Step(0.1)
	if b.Velocity().Y != 0 {
		t.Fatalf("gravity applied before ragdoll: %v", b.Velocity())
	}

	b.EnableRagdoll()
	s.Step(0.1)
	if got := b.Velocity().Y; !approx(got, 3) {
		t.Fatalf("expected gravity after ragdoll, vy=%v", got)
	}
	if !b.Ragdolled() {
		t.Fatal("expected ragdoll flag")
	}
}

func TestMoveRotation(t *testing.T) {
	s := NewSpace(SpaceConfig{})
	b := s.NewBody(BodyConfig{})

	b.MoveRotation(1, 0, 0.1)
	if !approx(b.Angle(), 1) {
		t.Fatalf("zero lerp speed should snap, got %v", b.Angle())
	}
	b.MoveRotation(2, 5, 0.1)
	if !approx(b.Angle(), 1.5) {
		t.Fatalf("expected half way, got %v", b.Angle())
	}

	b.EnableRagdoll()
	b.MoveRotation(0, 0, 0.1)
	if !approx(b.Angle(), 1.5) {
		t.Fatal("ragdoll bodies ignore steering rotation")
	}
}

func TestStepReleasesDespawnedBodies(t *testing.T) {
	s, w := newTestSpace()
	e := spawnAt(t, s, w, "gone", cp.Vector{}, 1)
	w.Despawn(e)
	s.Step(0.1)
	if _, ok := s.BodyOf(e); ok {
		t.Fatal("body should be released")
	}
	if s.Remove(e) {
		t.Fatal("second remove should report false")
	}
}

func TestDeathRagdollsBody(t *testing.T) {
	s, w := newTestSpace()
	e := spawnAt(t, s, w, "victim", cp.Vector{}, 1)
	e.TakeDamage(e.MaxHealth())
	w.Update(0.1)

	b, _ := s.BodyOf(e)
	if !b.Ragdolled() {
		t.Fatal("death without a dead state should ragdoll the body")
	}
}
