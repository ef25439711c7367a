package systems

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func testFlameDefinition() FlameDefinition {
	return FlameDefinition{
		Capacity:   10,
		Rate:       2,
		Life:       [2]int32{30, 30},
		Spread:     0.2,
		Rise:       0.001,
		Drag:       0.98,
		NoiseScale: 1.5,
		Size:       [2]float64{0.05, 0.1},
		Seed:       3,
	}
}

func TestFlameDefinitionValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*FlameDefinition)
	}{
		{"zero capacity", func(d *FlameDefinition) { d.Capacity = 0 }},
		{"negative rate", func(d *FlameDefinition) { d.Rate = -1 }},
		{"zero life", func(d *FlameDefinition) { d.Life = [2]int32{0, 10} }},
		{"inverted life", func(d *FlameDefinition) { d.Life = [2]int32{10, 5} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			def := testFlameDefinition()
			tc.mutate(&def)
			if _, err := NewFlameEngine(def); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestFlameEngineEmissionIsBounded(t *testing.T) {
	e, err := NewFlameEngine(testFlameDefinition())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		e.Step()
	}
	if e.Count() != 6 {
		t.Errorf("expected 6 particles after 3 steps at rate 2, got %d", e.Count())
	}

	for i := 0; i < 100; i++ {
		e.Step()
		if e.Count() > 10 {
			t.Fatalf("step %d: %d particles exceed capacity", i, e.Count())
		}
	}
}

func TestFlameEngineFractionalRate(t *testing.T) {
	def := testFlameDefinition()
	def.Rate = 0.5
	e, _ := NewFlameEngine(def)

	e.Step()
	if e.Count() != 0 {
		t.Errorf("expected no particle after half a step's worth, got %d", e.Count())
	}
	e.Step()
	if e.Count() != 1 {
		t.Errorf("expected carried emission to produce one particle, got %d", e.Count())
	}
}

func TestFlameParticlesExpire(t *testing.T) {
	def := testFlameDefinition()
	def.Rate = 1
	def.Life = [2]int32{2, 2}
	e, _ := NewFlameEngine(def)

	for i := 0; i < 10; i++ {
		e.Step()
		if e.Count() > 2 {
			t.Fatalf("step %d: expected at most 2 live particles with life 2, got %d", i, e.Count())
		}
	}
}

func TestFlameParticlesRiseFromAnchor(t *testing.T) {
	def := testFlameDefinition()
	def.Rate = 1
	def.Turbulence = 0
	e, _ := NewFlameEngine(def)
	e.SetAnchor(r3.Vec{X: 1, Y: -1, Z: -0.5})

	e.Step()
	start := e.Particles[0].Pos
	if r3.Norm(r3.Sub(start, e.Anchor())) > def.Spread*1.5 {
		t.Errorf("expected particle near the anchor, got %+v", start)
	}
	for i := 0; i < 5; i++ {
		e.Step()
	}
	if e.Particles[0].Pos.Y <= start.Y {
		t.Errorf("expected particle to rise, y %f -> %f", start.Y, e.Particles[0].Pos.Y)
	}
	if r := e.Particles[0].LifeRatio(); r <= 0 || r >= 1 {
		t.Errorf("expected life ratio in (0, 1), got %f", r)
	}
}

func TestEmitterAdapterOffset(t *testing.T) {
	engine, _ := NewFlameEngine(testFlameDefinition())
	a := NewEmitterAdapterWithEngine(engine, r3.Vec{Y: -1, Z: -0.5})

	a.PositionEmitterNear(r3.Vec{X: 0.3, Y: 0.2})
	if got := engine.Anchor(); got != (r3.Vec{X: 0.3, Y: -0.8, Z: -0.5}) {
		t.Errorf("expected anchor at target+offset, got %+v", got)
	}

	a.Advance()
	if engine.Count() != 2 {
		t.Errorf("expected advance to step the engine, got %d particles", engine.Count())
	}
}

func TestNilEmitterAdapter(t *testing.T) {
	var a *EmitterAdapter
	a.PositionEmitterNear(r3.Vec{X: 1})
	a.Advance()
	if a.Engine() != nil {
		t.Error("expected nil engine from nil adapter")
	}
}

func TestNewEmitterAdapterFromFile(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewEmitterAdapter(filepath.Join(dir, "missing.yaml"), r3.Vec{}); err == nil {
		t.Error("expected an error for a missing definition")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("capacity: 0\nrate: 1\nlife: [1, 2]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEmitterAdapter(bad, r3.Vec{}); err == nil {
		t.Error("expected an error for zero capacity")
	}

	good := filepath.Join(dir, "flame.yaml")
	data := "capacity: 50\nrate: 1.5\nlife: [20, 40]\nspread: 0.3\nrise: 0.002\nsize: [0.04, 0.09]\n"
	if err := os.WriteFile(good, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	a, err := NewEmitterAdapter(good, r3.Vec{Y: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := a.Engine().Definition().Capacity; got != 50 {
		t.Errorf("expected capacity 50, got %d", got)
	}
	if got := a.Engine().Definition().Drag; got != 1 {
		t.Errorf("expected missing drag to default to 1, got %f", got)
	}
}
