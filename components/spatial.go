package components

import "gonum.org/v1/gonum/spatial/r3"

// Position represents an entity's world position.
type Position struct {
	X, Y, Z float64 `inspect:"label,fmt:%.3f"`
}

// Vec returns the position as an r3 vector.
func (p Position) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// Set copies v into the position.
func (p *Position) Set(v r3.Vec) {
	p.X, p.Y, p.Z = v.X, v.Y, v.Z
}

// Quad is an upright plane facing +Z, centred on the entity position.
// RotationZ spins it in its own plane (radians).
type Quad struct {
	Width     float64 `inspect:"label,fmt:%.2f"`
	Height    float64 `inspect:"label,fmt:%.2f"`
	RotationZ float64 `inspect:"angle"`
}
