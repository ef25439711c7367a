// Package camera provides a perspective orbit camera and screen-to-world rays.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// minPolar keeps the camera off the pole so the view basis stays defined.
const minPolar = 1e-3

// Ray is a half-line from Origin along the unit vector Dir.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// Surface is the render surface rectangle in window pixels.
type Surface struct {
	X, Y, W, H float64
}

// Orbit is a perspective camera orbiting a target point.
// Rotation input is damped; zoom is applied immediately and clamped.
type Orbit struct {
	// Target is the point the camera looks at
	Target r3.Vec

	// Spherical coordinates around Target. Polar is measured from +Y.
	Distance float64
	Azimuth  float64
	Polar    float64

	// Vertical field of view in degrees
	FovY float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Constraints
	MinDistance, MaxDistance float64
	MaxPolar                 float64

	// Damping is the fraction of pending rotation applied per Update
	Damping float64

	// pending rotation, consumed by Update
	deltaAzimuth, deltaPolar float64

	home struct{ distance, azimuth, polar float64 }
}

// Params configures a new Orbit.
type Params struct {
	FovY        float64
	Distance    float64
	MinDistance float64
	MaxDistance float64
	MaxPolar    float64
	Damping     float64
}

// New creates a camera on the +Z axis looking at the origin.
func New(viewportW, viewportH float64, p Params) *Orbit {
	c := &Orbit{
		FovY:        p.FovY,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: p.MinDistance,
		MaxDistance: p.MaxDistance,
		MaxPolar:    p.MaxPolar,
		Damping:     p.Damping,
		Azimuth:     0,
		Polar:       math.Pi / 2,
	}
	if c.MaxPolar <= 0 {
		c.MaxPolar = math.Pi / 2
	}
	if c.Damping <= 0 || c.Damping > 1 {
		c.Damping = 1
	}
	c.Distance = c.clampDistance(p.Distance)
	c.home.distance = c.Distance
	c.home.azimuth = c.Azimuth
	c.home.polar = c.Polar
	return c
}

// Position returns the camera eye position in world coordinates.
func (c *Orbit) Position() r3.Vec {
	sinP := math.Sin(c.Polar)
	offset := r3.Vec{
		X: c.Distance * sinP * math.Sin(c.Azimuth),
		Y: c.Distance * math.Cos(c.Polar),
		Z: c.Distance * sinP * math.Cos(c.Azimuth),
	}
	return r3.Add(c.Target, offset)
}

// Up returns the world up vector used for the view basis.
func (c *Orbit) Up() r3.Vec {
	return r3.Vec{Y: 1}
}

// Aspect returns the viewport aspect ratio (1 if the viewport is degenerate).
func (c *Orbit) Aspect() float64 {
	if c.ViewportH <= 0 {
		return 1
	}
	return c.ViewportW / c.ViewportH
}

// Rotate queues an orbit by the given angles (radians).
// The rotation is applied gradually by Update.
func (c *Orbit) Rotate(dAzimuth, dPolar float64) {
	c.deltaAzimuth += dAzimuth
	c.deltaPolar += dPolar
}

// Update applies a damped share of the pending rotation.
// Call once per frame.
func (c *Orbit) Update() {
	c.Azimuth += c.deltaAzimuth * c.Damping
	c.Polar = clamp(c.Polar+c.deltaPolar*c.Damping, minPolar, c.MaxPolar)

	c.deltaAzimuth *= 1 - c.Damping
	c.deltaPolar *= 1 - c.Damping
}

// SetDistance sets the orbit radius, clamped to min/max.
func (c *Orbit) SetDistance(d float64) {
	c.Distance = c.clampDistance(d)
}

// ZoomBy divides the orbit radius by factor (factor > 1 moves closer).
func (c *Orbit) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Resize updates viewport dimensions.
func (c *Orbit) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to its initial orbit and drops pending rotation.
func (c *Orbit) Reset() {
	c.Distance = c.home.distance
	c.Azimuth = c.home.azimuth
	c.Polar = c.home.polar
	c.deltaAzimuth = 0
	c.deltaPolar = 0
}

// ScreenToNDC converts window pixel coordinates to normalized device
// coordinates relative to the surface: x right, y up, both in [-1, 1].
func ScreenToNDC(px, py float64, s Surface) (x, y float64) {
	if s.W <= 0 || s.H <= 0 {
		return 0, 0
	}
	x = (px-s.X)/s.W*2 - 1
	y = -(py-s.Y)/s.H*2 + 1
	return x, y
}

// NDCToScreen is the inverse of ScreenToNDC.
func NDCToScreen(x, y float64, s Surface) (px, py float64) {
	px = s.X + (x+1)/2*s.W
	py = s.Y + (1-y)/2*s.H
	return px, py
}

// basis returns the eye position and the orthonormal view basis.
func (c *Orbit) basis() (eye, forward, right, up r3.Vec) {
	eye = c.Position()
	forward = r3.Unit(r3.Sub(c.Target, eye))
	right = r3.Unit(r3.Cross(forward, c.Up()))
	up = r3.Cross(right, forward)
	return eye, forward, right, up
}

// Ray returns the world-space ray through the given NDC point.
func (c *Orbit) Ray(ndcX, ndcY float64) Ray {
	eye, forward, right, up := c.basis()

	tanHalf := math.Tan(c.FovY * math.Pi / 360)
	dir := r3.Add(forward, r3.Add(
		r3.Scale(ndcX*tanHalf*c.Aspect(), right),
		r3.Scale(ndcY*tanHalf, up),
	))

	return Ray{Origin: eye, Dir: r3.Unit(dir)}
}

// Project maps a world point to NDC. depth is the distance along the view
// axis; ok is false for points at or behind the eye.
func (c *Orbit) Project(p r3.Vec) (ndcX, ndcY, depth float64, ok bool) {
	eye, forward, right, up := c.basis()
	d := r3.Sub(p, eye)
	depth = r3.Dot(d, forward)
	if depth <= 1e-9 {
		return 0, 0, depth, false
	}
	tanHalf := math.Tan(c.FovY * math.Pi / 360)
	ndcX = r3.Dot(d, right) / (depth * tanHalf * c.Aspect())
	ndcY = r3.Dot(d, up) / (depth * tanHalf)
	return ndcX, ndcY, depth, true
}

// PixelsPerUnit returns how many surface pixels one world unit spans at the
// given view depth.
func (c *Orbit) PixelsPerUnit(depth float64, s Surface) float64 {
	if depth <= 0 {
		return 0
	}
	return s.H / (2 * depth * math.Tan(c.FovY*math.Pi/360))
}

// ScreenRay is ScreenToNDC followed by Ray.
func (c *Orbit) ScreenRay(px, py float64, s Surface) Ray {
	x, y := ScreenToNDC(px, py, s)
	return c.Ray(x, y)
}

func (c *Orbit) clampDistance(d float64) float64 {
	if c.MaxDistance > 0 {
		return clamp(d, c.MinDistance, c.MaxDistance)
	}
	if d < c.MinDistance {
		return c.MinDistance
	}
	return d
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
