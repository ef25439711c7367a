// Package systems holds the per-tick behaviors of the scene: motion,
// icon sequencing, aura, flames and pointer interaction.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shrine/components"
)

// StepFloat advances one floating entity by one tick.
func StepFloat(f *components.Floating, pos *components.Position) {
	f.Phase += f.PhaseStep
	pos.Y = f.BaselineY + math.Sin(f.Phase)*f.Amplitude
}

// FloatSystem drives the sine-wave bob of every floating entity.
type FloatSystem struct {
	filter ecs.Filter2[components.Position, components.Floating]
}

// NewFloatSystem creates a new float system.
func NewFloatSystem(w *ecs.World) *FloatSystem {
	return &FloatSystem{
		filter: *ecs.NewFilter2[components.Position, components.Floating](w),
	}
}

// Update advances every floating entity by one tick.
func (s *FloatSystem) Update() {
	query := s.filter.Query()
	for query.Next() {
		pos, f := query.Get()
		StepFloat(f, pos)
	}
}
