package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shrine/config"
	"github.com/pthm-cable/shrine/systems"
)

// ParticleRenderer draws the aura and the flame particles with additive
// blending.
type ParticleRenderer struct {
	auraSize  float32
	auraColor []rl.Color // per particle, alpha rewritten each frame

	flameStart, flameEnd rl.Color
}

// NewParticleRenderer creates a renderer for the aura particles.
func NewParticleRenderer(aura *systems.Aura, auraSize float64) *ParticleRenderer {
	r := &ParticleRenderer{
		auraSize:   float32(auraSize),
		auraColor:  make([]rl.Color, aura.Count()),
		flameStart: rl.Color{R: 255, G: 170, B: 51, A: 255},
		flameEnd:   rl.Color{R: 102, G: 17, B: 0, A: 255},
	}
	for i, p := range aura.Particles {
		r.auraColor[i] = rl.ColorFromNormalized(rl.Vector4{X: p.Color[0], Y: p.Color[1], Z: p.Color[2], W: 1})
	}
	return r
}

// SetFlameColors sets the particle colors at birth and death from hex strings.
func (r *ParticleRenderer) SetFlameColors(start, end string) {
	if rgb, err := config.ParseHexColor(start); err == nil && start != "" {
		r.flameStart = rl.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
	}
	if rgb, err := config.ParseHexColor(end); err == nil && end != "" {
		r.flameEnd = rl.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
	}
}

// DrawAura draws the aura around its anchor. Nothing is drawn while the
// followed entity is absent.
func (r *ParticleRenderer) DrawAura(aura *systems.Aura) {
	if _, ok := aura.Target(); !ok {
		return
	}
	aura.ConsumeDirty()

	size := rl.Vector3{X: r.auraSize, Y: r.auraSize, Z: r.auraSize}
	ax, ay, az := float32(aura.Anchor.X), float32(aura.Anchor.Y), float32(aura.Anchor.Z)

	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range aura.Particles {
		c := r.auraColor[i]
		c.A = uint8(aura.Alpha[i] * 255)
		pos := rl.Vector3{
			X: ax + aura.Positions[i*3],
			Y: ay + aura.Positions[i*3+1],
			Z: az + aura.Positions[i*3+2],
		}
		rl.DrawCubeV(pos, size, c)
	}
	rl.EndBlendMode()
}

// DrawFlames draws the flame particles, fading from the start to the end
// color over their life.
func (r *ParticleRenderer) DrawFlames(engine *systems.FlameEngine) {
	if engine == nil {
		return
	}
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range engine.Particles {
		p := &engine.Particles[i]
		life := float32(p.LifeRatio())

		c := lerpColor(r.flameEnd, r.flameStart, life)
		c.A = uint8(life * 200)

		s := float32(p.Size) * (0.4 + 0.6*life)
		rl.DrawCubeV(vec3(p.Pos), rl.Vector3{X: s, Y: s, Z: s}, c)
	}
	rl.EndBlendMode()
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
