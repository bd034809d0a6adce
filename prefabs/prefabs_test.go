package prefabs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/mandible/effects"
	"github.com/milk9111/mandible/entity"
	"github.com/milk9111/mandible/entity/decisions"
	"github.com/milk9111/mandible/entity/states"
	"github.com/milk9111/mandible/physics"
)

func TestEmbeddedTemplatesBuild(t *testing.T) {
	files, err := List()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no embedded templates")
	}
	for _, f := range files {
		t.Run(f, func(t *testing.T) {
			spec, err := LoadEntitySpec(f)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if _, err := spec.Config(); err != nil {
				t.Fatalf("config: %v", err)
			}
		})
	}
}

func TestParseEntitySpecKeepsDefaults(t *testing.T) {
	spec, err := ParseEntitySpec([]byte(`
name: bare
movement:
  max_speed: 3
targeting:
  vision_radius: 4
decisions: []
states: []
`))
	if err != nil {
		t.Fatal(err)
	}
	def := entity.DefaultMovementConfig()
	if spec.Movement.MaxSpeed != 3 || spec.Movement.AvoidsEntities != def.AvoidsEntities || spec.Movement.AvoidanceRadius != def.AvoidanceRadius {
		t.Fatalf("movement defaults lost: %+v", spec.Movement)
	}
	tdef := entity.DefaultTargetingConfig()
	if spec.Targeting.VisionRadius != 4 || spec.Targeting.ForgetTime != tdef.ForgetTime {
		t.Fatalf("targeting defaults lost: %+v", spec.Targeting)
	}
}

func TestParseEntitySpecRequiresName(t *testing.T) {
	if _, err := ParseEntitySpec([]byte("max_health: 3\n")); err == nil {
		t.Fatal("expected missing name error")
	}
}

func TestDefinitionErrors(t *testing.T) {
	tests := []struct {
		name    string
		spec    EntitySpec
		wantErr error
		msg     string
	}{
		{
			name: "unknown decision kind",
			spec: EntitySpec{Name: "x", Decisions: []DecisionSpec{{Kind: "teleport", State: "Idle"}}},
			msg:  "unknown decision kind",
		},
		{
			name:    "negative weight",
			spec:    EntitySpec{Name: "x", Decisions: []DecisionSpec{{Kind: "constant", State: "Idle", Weight: -1}}},
			wantErr: entity.ErrNegativeWeight,
		},
		{
			name: "decision without state",
			spec: EntitySpec{Name: "x", Decisions: []DecisionSpec{{Kind: "constant"}}},
			msg:  "missing state",
		},
		{
			name: "state without tag",
			spec: EntitySpec{Name: "x", States: []StateSpec{{Kind: "idle"}}},
			msg:  "missing tag",
		},
		{
			name: "unknown state kind",
			spec: EntitySpec{Name: "x", States: []StateSpec{{Kind: "swim", Tag: "Swim"}}},
			msg:  "unknown state kind",
		},
		{
			name: "bad orbit",
			spec: EntitySpec{Name: "x", States: []StateSpec{{Kind: "flying", Tag: "Fly", Params: map[string]any{"orbit": "sideways"}}}},
			msg:  "unknown orbit direction",
		},
		{
			name: "in range without range",
			spec: EntitySpec{Name: "x", Decisions: []DecisionSpec{{Kind: "in_range", State: "Chase"}}},
			msg:  "positive range",
		},
		{
			name: "script without source",
			spec: EntitySpec{Name: "x", Decisions: []DecisionSpec{{Kind: "script", State: "Chase"}}},
			msg:  "needs script or source",
		},
		{
			name: "script that does not compile",
			spec: EntitySpec{Name: "x", Decisions: []DecisionSpec{{Kind: "script", State: "Chase", Params: map[string]any{"source": "score := ("}}}},
			msg:  "compile",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := tt.spec.Definition()
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("expected %q in %v", tt.msg, err)
			}
			if len(def.Decisions) != 0 || len(def.States) != 0 {
				t.Fatal("nothing should be returned on error")
			}
		})
	}
}

func TestDecisionParams(t *testing.T) {
	spec := EntitySpec{
		Name: "x",
		Decisions: []DecisionSpec{
			{Kind: "constant", State: "Idle", Weight: 2, Description: "idle about", Params: map[string]any{"score": 0.25}},
			{Kind: "script", State: "Chase", Weight: 1, Params: map[string]any{"source": "score := 0.5"}},
			{Kind: "in_range", State: "Chase", Weight: 1, Params: map[string]any{"range": 3}},
		},
		States: []StateSpec{
			{Kind: "chase", Tag: "Chase", Params: map[string]any{"speed": 9}},
			{Kind: "flying", Tag: "Fly", Params: map[string]any{"orbit_radius": 4, "orbit": "counter_clockwise"}},
			{Kind: "dead"},
		},
	}
	def, err := spec.Definition()
	if err != nil {
		t.Fatal(err)
	}

	c, ok := def.Decisions[0].(*decisions.Constant)
	if !ok || c.Score != 0.25 || c.Weight() != 2 || c.Description() != "idle about" {
		t.Fatalf("constant decoded wrong: %+v", def.Decisions[0])
	}
	if _, ok := def.Decisions[1].(*decisions.Script); !ok {
		t.Fatalf("expected script decision, got %T", def.Decisions[1])
	}
	if r, ok := def.Decisions[2].(*decisions.InRange); !ok || r.Range != 3 {
		t.Fatalf("in_range decoded wrong: %+v", def.Decisions[2])
	}

	chase, ok := def.States[0].(*states.Chase)
	if !ok || chase.Speed != 9 || chase.StopDistance != 1.5 {
		t.Fatalf("chase decoded wrong: %+v", def.States[0])
	}
	fly, ok := def.States[1].(*states.SimpleFlying)
	if !ok {
		t.Fatalf("expected flying state, got %T", def.States[1])
	}
	if fly.Config.OrbitRadius != 4 || fly.Config.Orbit != states.OrbitCounterClockwise {
		t.Fatalf("flying config decoded wrong: %+v", fly.Config)
	}
	if fly.Config.ApproachSpeed != states.DefaultFlyingConfig().ApproachSpeed {
		t.Fatal("unset flying params should keep defaults")
	}
	if def.States[2].Tag() != entity.DeadStateTag {
		t.Fatalf("dead state tag = %q", def.States[2].Tag())
	}
}

func TestSpawnWithBody(t *testing.T) {
	spec, err := LoadEntitySpec("grunt.yaml")
	if err != nil {
		t.Fatal(err)
	}
	space := physics.NewSpace(physics.DefaultSpaceConfig())
	w := entity.NewWorld(entity.WithExtensionRegistry(entity.NewExtensionRegistry()), entity.WithSpatialQuery(space))

	e, err := spec.Spawn(w, space, cp.Vector{X: 3, Y: 4})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := space.BodyOf(e); !ok {
		t.Fatal("expected a physics body")
	}
	if e.Position() != (cp.Vector{X: 3, Y: 4}) {
		t.Fatalf("spawned at %v", e.Position())
	}
	if cur := e.StateMachine.Current(); cur == nil || cur.Tag() != "Idle" {
		t.Fatalf("expected Idle after spawn, got %v", cur)
	}

	bare, err := spec.Spawn(w, nil, cp.Vector{})
	if err != nil {
		t.Fatal(err)
	}
	if bare.Body() != nil {
		t.Fatal("no space means no body")
	}
}

func TestEffectCatalog(t *testing.T) {
	catalog, err := LoadEffectCatalog(EffectCatalogFile)
	if err != nil {
		t.Fatal(err)
	}
	reg := effects.NewRegistry()
	if err := catalog.Register(reg); err != nil {
		t.Fatal(err)
	}
	if !reg.Has(effects.BurnType) || !reg.Has(effects.ShockType) {
		t.Fatalf("expected burn and shock, got %d entries", reg.Len())
	}
	burn, _ := reg.ByName("Burn")
	if d := burn.(*effects.BurnData); d.TickRate != 0.5 || d.Threshold != 10 || d.Visual != "flames" {
		t.Fatalf("burn decoded wrong: %+v", d)
	}

	dup := EffectCatalogSpec{Effects: []EffectSpec{
		{Kind: "burn", DamageOverTimeData: effects.DamageOverTimeData{Data: effects.Data{Name: "A"}}},
		{Kind: "burn", DamageOverTimeData: effects.DamageOverTimeData{Data: effects.Data{Name: "B"}}},
	}}
	if err := dup.Register(reg); !errors.Is(err, effects.ErrDuplicateEffectType) {
		t.Fatalf("expected duplicate type error, got %v", err)
	}
	if reg.Len() != 2 {
		t.Fatal("failed registration must keep the previous catalog")
	}

	bad := EffectCatalogSpec{Effects: []EffectSpec{{Kind: "frost", DamageOverTimeData: effects.DamageOverTimeData{Data: effects.Data{Name: "Frost"}}}}}
	if _, err := bad.Data(); err == nil {
		t.Fatal("expected unknown kind error")
	}
}

func withDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
	return dir
}

func TestDiskOverride(t *testing.T) {
	dir := withDir(t)

	embedded, err := Load("grunt.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ModTime("grunt.yaml"); ok {
		t.Fatal("no disk copy yet")
	}

	override := []byte("name: grunt\nmax_health: 5\ndecisions: []\nstates: []\n")
	if err := os.WriteFile(filepath.Join(dir, "grunt.yaml"), override, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(filepath.Join(dir, "grunt.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(override) || string(got) == string(embedded) {
		t.Fatal("disk copy should shadow the embedded one")
	}
	if _, ok := ModTime("grunt.yaml"); !ok {
		t.Fatal("expected a modification time for the disk copy")
	}

	if _, err := LoadScript("skulker.tengo"); err != nil {
		t.Fatalf("embedded script: %v", err)
	}
}

func TestCleanScriptPath(t *testing.T) {
	tests := map[string]string{
		"skulker.tengo":                 "scripts/skulker.tengo",
		"scripts/skulker.tengo":         "scripts/skulker.tengo",
		"prefabs/scripts/skulker.tengo": "scripts/skulker.tengo",
	}
	for in, want := range tests {
		if got := cleanScriptPath(in); got != want {
			t.Errorf("%s: got %s want %s", in, got, want)
		}
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "grunt.yaml")
	if err := os.WriteFile(target, []byte("name: grunt\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-w.Events:
		if c.Path != target || c.Kind != SpecChanged {
			t.Fatalf("unexpected change %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"a.yaml", SpecChanged, true},
		{"a.YML", SpecChanged, true},
		{"scripts/a.tengo", ScriptChanged, true},
		{"a.go", 0, false},
	}
	for _, tt := range tests {
		kind, ok := classify(tt.path)
		if kind != tt.kind || ok != tt.ok {
			t.Errorf("%s: got %v/%v", tt.path, kind, ok)
		}
	}
}

func TestSchemas(t *testing.T) {
	for name, schema := range map[string]any{
		"entity":  EntitySchema(),
		"effects": EffectCatalogSchema(),
	} {
		data, err := json.Marshal(schema)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s: empty schema", name)
		}
	}

	out := filepath.Join(t.TempDir(), "nested", "entity.schema.json")
	if err := WriteSchema(out, EntitySchema()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "decisions") {
		t.Fatal("schema should describe decisions")
	}
}
