// Package scene owns the entity world and runs the per-frame tick:
// motion, icon sequencer, flame emitter, aura, then render.
package scene

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shrine/camera"
	"github.com/pthm-cable/shrine/components"
	"github.com/pthm-cable/shrine/config"
	"github.com/pthm-cable/shrine/systems"
	"github.com/pthm-cable/shrine/telemetry"
)

// Renderer draws the current scene state. It is called once per tick
// after all mutation.
type Renderer interface {
	Render()
}

// Options configures a new Scene. Every field is optional.
type Options struct {
	Seed      int64
	Navigator systems.Navigator
	Emitter   *systems.EmitterAdapter // nil runs without flames
	Perf      *telemetry.PerfCollector
	Output    *telemetry.OutputManager
	LogStats  bool
}

// Scene holds the complete scene state.
type Scene struct {
	cfg *config.Config
	rng *rand.Rand

	world  *ecs.World
	Camera *camera.Orbit

	// Systems
	Motion      *systems.FloatSystem
	Sequencer   *systems.IconSequencer
	Aura        *systems.Aura
	Emitter     *systems.EmitterAdapter
	Interaction *systems.Interaction
	Expression  *systems.ExpressionState

	renderer Renderer

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool

	// Mappers
	planeMapper *ecs.Map4[components.Position, components.Quad, components.Sprite, components.Floating]
	iconMapper  *ecs.Map5[components.Position, components.Quad, components.Sprite, components.Icon, components.Interactive]
	posMap      *ecs.Map[components.Position]
	metaMap     *ecs.Map[components.Interactive]

	// Spawned handles
	subject   ecs.Entity
	companion ecs.Entity
	effects   []ecs.Entity
	cards     []ecs.Entity
	secondary []ecs.Entity
	primary   []ecs.Entity

	// State
	tick     int64
	start    time.Time
	hovering bool
}

// New creates an empty scene. Objects are added with the Add* methods as
// their assets arrive; ticking before that is safe.
func New(cfg *config.Config, opts Options) *Scene {
	world := ecs.NewWorld()

	cam := camera.New(float64(cfg.Screen.Width), float64(cfg.Screen.Height), camera.Params{
		FovY:        cfg.Camera.FovY,
		Distance:    cfg.Camera.Distance,
		MinDistance: cfg.Camera.MinDistance,
		MaxDistance: cfg.Camera.MaxDistance,
		MaxPolar:    cfg.Derived.MaxPolarAngle,
		Damping:     cfg.Camera.Damping,
	})

	variants := make([]systems.Variant, len(cfg.Expression.Variants))
	for i, v := range cfg.Expression.Variants {
		variants[i] = systems.Variant{Name: v.Name, Texture: v.Texture}
	}
	expr := systems.NewExpressionState(variants, cfg.Expression.Threshold)

	rng := rand.New(rand.NewSource(opts.Seed))

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}

	s := &Scene{
		cfg:    cfg,
		rng:    rng,
		world:  world,
		Camera: cam,

		Motion: systems.NewFloatSystem(world),
		Sequencer: systems.NewIconSequencer(world, systems.SequencerParams{
			Speed:      cfg.Sequencer.Speed,
			Amplitude:  cfg.Sequencer.Amplitude,
			PauseTicks: cfg.Sequencer.PauseTicks,
		}),
		Aura: systems.NewAura(world, systems.GenerateAuraParticles(rng, auraShape(cfg)), systems.AuraParams{
			Amplitude: cfg.Aura.Amplitude,
			TimeScale: cfg.Aura.TimeScale,
		}),
		Emitter:     opts.Emitter,
		Interaction: systems.NewInteraction(world, cam, expr, opts.Navigator),
		Expression:  expr,

		perf:      opts.Perf,
		collector: telemetry.NewCollector(cfg.Telemetry.LogInterval, 1/float64(fps)),
		output:    opts.Output,
		logStats:  opts.LogStats,

		planeMapper: ecs.NewMap4[components.Position, components.Quad, components.Sprite, components.Floating](world),
		iconMapper:  ecs.NewMap5[components.Position, components.Quad, components.Sprite, components.Icon, components.Interactive](world),
		posMap:      ecs.NewMap[components.Position](world),
		metaMap:     ecs.NewMap[components.Interactive](world),
	}
	return s
}

func auraShape(cfg *config.Config) systems.AuraShape {
	c, err := config.ParseHexColor(cfg.Aura.Color)
	if err != nil {
		slog.Warn("aura_color_invalid", "color", cfg.Aura.Color, "error", err)
		c = [3]uint8{0xaa, 0xaa, 0xff}
	}
	return systems.AuraShape{
		Count:        cfg.Aura.Count,
		MinRadius:    cfg.Aura.MinRadius,
		RadiusSpread: cfg.Aura.RadiusSpread,
		ZShift:       cfg.Aura.ZShift,
		Color:        [3]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255},
		ColorJitter:  cfg.Aura.ColorJitter,
	}
}

// SetRenderer installs the renderer invoked at the end of every tick.
func (s *Scene) SetRenderer(r Renderer) {
	s.renderer = r
}

// Tick advances all scene state by one frame, then renders.
func (s *Scene) Tick(now time.Time) {
	if s.start.IsZero() {
		s.start = now
	}
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseMotion)
	s.Motion.Update()

	s.perf.StartPhase(telemetry.PhaseSequencer)
	wasJiggling := s.Sequencer.State().Mode == systems.ModeJiggling
	s.Sequencer.Update()
	sweepFinished := wasJiggling && s.Sequencer.State().Mode == systems.ModePaused

	s.perf.StartPhase(telemetry.PhaseEmitter)
	emitterRan := false
	if s.Emitter != nil {
		if pos, ok := s.SubjectPosition(); ok {
			s.Emitter.PositionEmitterNear(pos)
			s.Emitter.Advance()
			emitterRan = true
		}
	}

	s.perf.StartPhase(telemetry.PhaseAura)
	auraUpdated := s.Aura.Update(now.Sub(s.start))

	s.perf.StartPhase(telemetry.PhaseRender)
	if s.renderer != nil {
		s.renderer.Render()
	}

	s.perf.EndTick()
	s.tick++

	sample := telemetry.TickSample{
		Hovering:      s.hovering,
		AuraUpdated:   auraUpdated,
		EmitterRan:    emitterRan,
		SweepFinished: sweepFinished,
	}
	if emitterRan {
		sample.FlameParticles = s.Emitter.Engine().Count()
	}
	s.collector.RecordTick(sample)
	s.flushTelemetry()
}

// Click dispatches a pointer click and records it.
func (s *Scene) Click(px, py float64, surface camera.Surface) systems.ClickResult {
	res := s.Interaction.Click(px, py, surface)
	s.collector.RecordClick(res)
	if err := s.output.WriteInteraction(telemetry.NewInteractionEvent(s.tick, time.Now(), res)); err != nil {
		slog.Error("failed to write interaction", "error", err)
	}
	return res
}

// Hover chooses the cursor for a pointer position.
func (s *Scene) Hover(px, py float64, surface camera.Surface) systems.Cursor {
	c := s.Interaction.Hover(px, py, surface)
	s.hovering = c == systems.CursorPointer
	return c
}

// World returns the entity world.
func (s *Scene) World() *ecs.World {
	return s.world
}

// Config returns the scene configuration.
func (s *Scene) Config() *config.Config {
	return s.cfg
}

// Ticks returns the number of completed ticks.
func (s *Scene) Ticks() int64 {
	return s.tick
}

// Elapsed returns the time since the first tick.
func (s *Scene) Elapsed(now time.Time) time.Duration {
	if s.start.IsZero() {
		return 0
	}
	return now.Sub(s.start)
}

// Subject returns the primary subject if it is present.
func (s *Scene) Subject() (ecs.Entity, bool) {
	if s.subject.IsZero() || !s.world.Alive(s.subject) {
		return s.subject, false
	}
	return s.subject, true
}

// SubjectPosition returns the subject's current position if present.
func (s *Scene) SubjectPosition() (r3.Vec, bool) {
	e, ok := s.Subject()
	if !ok || !s.posMap.Has(e) {
		return r3.Vec{}, false
	}
	return s.posMap.Get(e).Vec(), true
}

// Name returns the interactive name of an entity, or "".
func (s *Scene) Name(e ecs.Entity) string {
	if e.IsZero() || !s.world.Alive(e) || !s.metaMap.Has(e) {
		return ""
	}
	return s.metaMap.Get(e).Name
}
