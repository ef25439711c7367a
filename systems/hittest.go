package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shrine/camera"
	"github.com/pthm-cable/shrine/components"
)

// HitQuad is a pointer target resolved for one hit test.
type HitQuad struct {
	Entity ecs.Entity
	Center r3.Vec
	Quad   components.Quad
	Meta   components.Interactive
}

// Hit is a ray/quad intersection.
type Hit struct {
	Target   HitQuad
	Distance float64
	Point    r3.Vec
}

// IntersectQuad returns the ray distance to a double-sided quad facing +Z.
func IntersectQuad(ray camera.Ray, q HitQuad) (float64, bool) {
	if math.Abs(ray.Dir.Z) < 1e-12 {
		return 0, false // parallel to the plane
	}
	t := (q.Center.Z - ray.Origin.Z) / ray.Dir.Z
	if t < 0 {
		return 0, false
	}

	d := r3.Sub(ray.At(t), q.Center)

	// Undo the in-plane rotation
	cos, sin := math.Cos(q.Quad.RotationZ), math.Sin(q.Quad.RotationZ)
	u := d.X*cos + d.Y*sin
	v := -d.X*sin + d.Y*cos

	if math.Abs(u) > q.Quad.Width/2 || math.Abs(v) > q.Quad.Height/2 {
		return 0, false
	}
	return t, true
}

// Nearest tests the ray against every quad and returns the closest hit.
// Ties keep the earlier quad.
func Nearest(ray camera.Ray, quads []HitQuad) (Hit, bool) {
	var best Hit
	found := false
	for _, q := range quads {
		t, ok := IntersectQuad(ray, q)
		if !ok {
			continue
		}
		if !found || t < best.Distance {
			best = Hit{Target: q, Distance: t, Point: ray.At(t)}
			found = true
		}
	}
	return best, found
}
