package systems

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// FlameDefinition describes a flame emitter. It is loaded from a YAML
// file so the look can be tuned without rebuilding.
type FlameDefinition struct {
	Capacity   int        `yaml:"capacity"`
	Rate       float64    `yaml:"rate"`        // particles emitted per step
	Life       [2]int32   `yaml:"life"`        // min, max ticks
	Spread     float64    `yaml:"spread"`      // emission radius around the anchor
	Rise       float64    `yaml:"rise"`        // upward acceleration per tick
	Drag       float64    `yaml:"drag"`        // velocity multiplier per tick
	Turbulence float64    `yaml:"turbulence"`  // noise displacement per tick
	NoiseScale float64    `yaml:"noise_scale"` // spatial frequency of the noise
	Size       [2]float64 `yaml:"size"`        // min, max particle size
	StartColor string     `yaml:"start_color"`
	EndColor   string     `yaml:"end_color"`
	Seed       int64      `yaml:"seed"`
}

// LoadFlameDefinition reads a flame definition from a YAML file.
func LoadFlameDefinition(path string) (FlameDefinition, error) {
	var def FlameDefinition
	data, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("reading flame definition: %w", err)
	}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return def, fmt.Errorf("parsing flame definition: %w", err)
	}
	return def, nil
}

// validate rejects definitions the engine cannot run.
func (d FlameDefinition) validate() error {
	if d.Capacity <= 0 {
		return fmt.Errorf("flame capacity must be positive, got %d", d.Capacity)
	}
	if d.Rate < 0 {
		return fmt.Errorf("flame rate must not be negative, got %v", d.Rate)
	}
	if d.Life[0] <= 0 || d.Life[1] < d.Life[0] {
		return fmt.Errorf("flame life range invalid: %v", d.Life)
	}
	return nil
}

// FlameParticle is one live flame particle.
type FlameParticle struct {
	Pos, Vel r3.Vec
	Life     int32
	MaxLife  int32
	Size     float64
}

// LifeRatio returns the remaining life in [0, 1].
func (p *FlameParticle) LifeRatio() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return float64(p.Life) / float64(p.MaxLife)
}

// FlameEngine is a bounded pool of rising, noise-stirred particles
// emitted around an anchor point.
type FlameEngine struct {
	Particles []FlameParticle

	def    FlameDefinition
	anchor r3.Vec
	noise  opensimplex.Noise
	rng    *rand.Rand
	steps  int64
	carry  float64 // fractional emission left over from previous steps
}

// NewFlameEngine creates an engine from a validated definition.
func NewFlameEngine(def FlameDefinition) (*FlameEngine, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	if def.Drag == 0 {
		def.Drag = 1
	}
	return &FlameEngine{
		Particles: make([]FlameParticle, 0, def.Capacity),
		def:       def,
		noise:     opensimplex.New(def.Seed),
		rng:       rand.New(rand.NewSource(def.Seed)),
	}, nil
}

// Definition returns the engine definition.
func (e *FlameEngine) Definition() FlameDefinition {
	return e.def
}

// SetAnchor moves the emission point.
func (e *FlameEngine) SetAnchor(v r3.Vec) {
	e.anchor = v
}

// Anchor returns the emission point.
func (e *FlameEngine) Anchor() r3.Vec {
	return e.anchor
}

// Step ages and moves all particles, then emits new ones.
func (e *FlameEngine) Step() {
	e.steps++
	t := float64(e.steps) * 0.01
	s := e.def.NoiseScale

	alive := 0
	for i := range e.Particles {
		p := &e.Particles[i]

		p.Life--
		if p.Life <= 0 {
			continue
		}

		// Rise and swirl
		p.Vel.Y += e.def.Rise
		p.Vel.X += e.noise.Eval3(p.Pos.X*s, p.Pos.Y*s, t) * e.def.Turbulence
		p.Vel.Z += e.noise.Eval3(p.Pos.Z*s+31.7, p.Pos.Y*s, t) * e.def.Turbulence

		// Drag
		p.Vel = r3.Scale(e.def.Drag, p.Vel)

		p.Pos = r3.Add(p.Pos, p.Vel)

		e.Particles[alive] = e.Particles[i]
		alive++
	}
	e.Particles = e.Particles[:alive]

	e.carry += e.def.Rate
	for e.carry >= 1 {
		e.carry--
		e.emit()
	}
}

func (e *FlameEngine) emit() {
	if len(e.Particles) >= e.def.Capacity {
		return
	}

	span := e.def.Life[1] - e.def.Life[0]
	life := e.def.Life[0]
	if span > 0 {
		life += e.rng.Int31n(span + 1)
	}

	offset := r3.Vec{
		X: (e.rng.Float64()*2 - 1) * e.def.Spread,
		Y: (e.rng.Float64()*2 - 1) * e.def.Spread * 0.25,
		Z: (e.rng.Float64()*2 - 1) * e.def.Spread * 0.5,
	}

	e.Particles = append(e.Particles, FlameParticle{
		Pos:     r3.Add(e.anchor, offset),
		Life:    life,
		MaxLife: life,
		Size:    e.def.Size[0] + e.rng.Float64()*(e.def.Size[1]-e.def.Size[0]),
	})
}

// Count returns the current number of active particles.
func (e *FlameEngine) Count() int {
	return len(e.Particles)
}
