package systems

import (
	"math"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shrine/components"
)

// AuraParticle is the fixed data of one aura particle.
// Its live position is a function of time and PhaseOffset only.
type AuraParticle struct {
	Initial     r3.Vec
	PhaseOffset float64
	Color       [3]float32
}

// AuraShape controls particle generation.
type AuraShape struct {
	Count        int
	MinRadius    float64
	RadiusSpread float64
	ZShift       float64
	Color        [3]float32
	ColorJitter  float64
}

// GenerateAuraParticles scatters particles in a spherical shell biased
// towards its inner radius.
func GenerateAuraParticles(rng *rand.Rand, shape AuraShape) []AuraParticle {
	particles := make([]AuraParticle, shape.Count)
	for i := range particles {
		u := rng.Float64()
		radius := shape.MinRadius + u*u*u*shape.RadiusSpread
		theta := rng.Float64() * 2 * math.Pi
		phi := math.Acos(rng.Float64()*2 - 1)

		variance := float32(rng.Float64() * shape.ColorJitter)
		particles[i] = AuraParticle{
			Initial: r3.Vec{
				X: radius * math.Sin(phi) * math.Cos(theta),
				Y: radius * math.Sin(phi) * math.Sin(theta),
				Z: radius*math.Cos(phi) + shape.ZShift,
			},
			PhaseOffset: rng.Float64() * 2 * math.Pi,
			Color: [3]float32{
				shape.Color[0] + variance,
				shape.Color[1] + variance,
				shape.Color[2] + variance,
			},
		}
	}
	return particles
}

// AuraParams controls the per-tick motion.
type AuraParams struct {
	Amplitude float64
	TimeScale float64 // elapsed seconds -> aura time
}

// Aura is a particle cloud anchored on a followed entity.
// Positions holds local xyz triplets and Alpha one value per particle;
// both are rewritten every tick the followed entity is present.
type Aura struct {
	Particles []AuraParticle
	Positions []float32
	Alpha     []float32
	Anchor    r3.Vec

	params AuraParams
	follow ecs.Entity

	positionsDirty bool
	alphaDirty     bool

	world  *ecs.World
	posMap *ecs.Map[components.Position]
}

// NewAura creates an aura with its buffers initialised to the rest pose.
func NewAura(w *ecs.World, particles []AuraParticle, params AuraParams) *Aura {
	a := &Aura{
		Particles: particles,
		Positions: make([]float32, len(particles)*3),
		Alpha:     make([]float32, len(particles)),
		params:    params,
		world:     w,
		posMap:    ecs.NewMap[components.Position](w),
	}
	for i, p := range particles {
		a.Positions[i*3] = float32(p.Initial.X)
		a.Positions[i*3+1] = float32(p.Initial.Y)
		a.Positions[i*3+2] = float32(p.Initial.Z)
		a.Alpha[i] = 1
	}
	a.positionsDirty = true
	a.alphaDirty = true
	return a
}

// Follow sets the entity the aura sticks to. The aura holds no claim on
// the entity; it is re-resolved every tick.
func (a *Aura) Follow(e ecs.Entity) {
	a.follow = e
}

// Unfollow detaches the aura.
func (a *Aura) Unfollow() {
	a.follow = ecs.Entity{}
}

// Target returns the followed entity and whether it is currently present.
func (a *Aura) Target() (ecs.Entity, bool) {
	if a.follow.IsZero() || !a.world.Alive(a.follow) || !a.posMap.Has(a.follow) {
		return a.follow, false
	}
	return a.follow, true
}

// Update rewrites the particle buffers for the given elapsed time.
// Returns false (and changes nothing) when the followed entity is absent.
func (a *Aura) Update(elapsed time.Duration) bool {
	e, ok := a.Target()
	if !ok {
		return false
	}
	a.Anchor = a.posMap.Get(e).Vec()

	t := elapsed.Seconds() * a.params.TimeScale
	amp := a.params.Amplitude
	for i := range a.Particles {
		p := &a.Particles[i]
		a.Positions[i*3] = float32(p.Initial.X + math.Sin(t*1.5+p.PhaseOffset)*amp)
		a.Positions[i*3+1] = float32(p.Initial.Y + math.Cos(t*1.5+p.PhaseOffset)*amp)
		a.Alpha[i] = float32(math.Abs(math.Sin(t*2.0 + p.PhaseOffset)))
	}
	a.positionsDirty = true
	a.alphaDirty = true
	return true
}

// ConsumeDirty reports and clears the buffer dirty flags.
func (a *Aura) ConsumeDirty() (positions, alpha bool) {
	positions, alpha = a.positionsDirty, a.alphaDirty
	a.positionsDirty = false
	a.alphaDirty = false
	return positions, alpha
}

// Count returns the number of particles.
func (a *Aura) Count() int {
	return len(a.Particles)
}
