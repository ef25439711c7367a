// Package snapshot composites the scene on the CPU so headless runs can
// save previews without a window or GPU.
package snapshot

import (
	"image"
	"image/color"
	"log/slog"
	"math"
	"sort"

	"github.com/mlange-42/ark/ecs"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shrine/assets"
	"github.com/pthm-cable/shrine/camera"
	"github.com/pthm-cable/shrine/components"
	"github.com/pthm-cable/shrine/config"
	"github.com/pthm-cable/shrine/systems"
)

// cropKey identifies one atlas cell of one texture.
type cropKey struct {
	texture string
	uv      [4]float64
}

// plane is a sprite resolved for one composite.
type plane struct {
	corners [3]r3.Vec // top-left, top-right, bottom-left in pixels (z = depth)
	sprite  components.Sprite
	depth   float64
}

// Compositor draws textured quads, aura points and flame particles into
// an NRGBA image using the scene camera.
type Compositor struct {
	Background [3]uint8
	AuraSize   float64 // world units

	cam    *camera.Orbit
	filter ecs.Filter3[components.Position, components.Quad, components.Sprite]

	textures map[string]*image.NRGBA
	cells    map[cropKey]*image.NRGBA
	solids   map[[3]uint8]*image.NRGBA

	flameStart, flameEnd [3]uint8

	planes []plane
}

// NewCompositor creates a compositor over the world's sprites.
func NewCompositor(w *ecs.World, cam *camera.Orbit) *Compositor {
	return &Compositor{
		AuraSize:   0.03,
		cam:        cam,
		filter:     *ecs.NewFilter3[components.Position, components.Quad, components.Sprite](w),
		textures:   make(map[string]*image.NRGBA),
		cells:      make(map[cropKey]*image.NRGBA),
		solids:     make(map[[3]uint8]*image.NRGBA),
		flameStart: [3]uint8{0xff, 0xaa, 0x33},
		flameEnd:   [3]uint8{0x66, 0x11, 0x00},
	}
}

// AddTexture registers a decoded texture under its sprite key.
func (c *Compositor) AddTexture(key string, img *image.NRGBA) {
	c.textures[key] = img
	for k := range c.cells {
		if k.texture == key {
			delete(c.cells, k)
		}
	}
}

// HasTexture reports whether a texture key is registered.
func (c *Compositor) HasTexture(key string) bool {
	_, ok := c.textures[key]
	return ok
}

// SetFlameColors sets the particle colors at birth and death from hex strings.
func (c *Compositor) SetFlameColors(start, end string) {
	if rgb, err := config.ParseHexColor(start); err == nil && start != "" {
		c.flameStart = rgb
	}
	if rgb, err := config.ParseHexColor(end); err == nil && end != "" {
		c.flameEnd = rgb
	}
}

// Compose renders the current state at scale times the camera viewport.
// aura and flames may be nil.
func (c *Compositor) Compose(scale float64, aura *systems.Aura, flames *systems.FlameEngine) *image.NRGBA {
	if scale <= 0 {
		scale = 1
	}
	w := max(1, int(c.cam.ViewportW*scale))
	h := max(1, int(c.cam.ViewportH*scale))
	surface := camera.Surface{W: float64(w), H: float64(h)}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	bg := color.NRGBA{R: c.Background[0], G: c.Background[1], B: c.Background[2], A: 0xff}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	c.collect(surface)
	for i := range c.planes {
		c.drawPlane(dst, &c.planes[i])
	}
	if aura != nil {
		c.drawAura(dst, surface, aura)
	}
	if flames != nil {
		c.drawFlames(dst, surface, flames)
	}
	return dst
}

// collect projects every sprite quad and sorts back to front within
// each draw order.
func (c *Compositor) collect(surface camera.Surface) {
	c.planes = c.planes[:0]

	query := c.filter.Query()
	for query.Next() {
		pos, quad, sprite := query.Get()
		if sprite.Opacity <= 0 || quad.Width <= 0 || quad.Height <= 0 {
			continue
		}

		center := pos.Vec()
		cos, sin := math.Cos(quad.RotationZ), math.Sin(quad.RotationZ)
		local := [3][2]float64{
			{-quad.Width / 2, quad.Height / 2},
			{quad.Width / 2, quad.Height / 2},
			{-quad.Width / 2, -quad.Height / 2},
		}

		p := plane{sprite: *sprite}
		visible := true
		for i, l := range local {
			world := r3.Add(center, r3.Vec{X: l[0]*cos - l[1]*sin, Y: l[0]*sin + l[1]*cos})
			x, y, depth, ok := c.cam.Project(world)
			if !ok {
				visible = false
				break
			}
			px, py := camera.NDCToScreen(x, y, surface)
			p.corners[i] = r3.Vec{X: px, Y: py, Z: depth}
		}
		if !visible {
			continue
		}
		_, _, p.depth, _ = c.cam.Project(center)
		c.planes = append(c.planes, p)
	}

	sort.SliceStable(c.planes, func(i, j int) bool {
		if c.planes[i].sprite.Order != c.planes[j].sprite.Order {
			return c.planes[i].sprite.Order < c.planes[j].sprite.Order
		}
		return c.planes[i].depth > c.planes[j].depth
	})
}

// source returns the image a sprite samples, cropping atlas cells once.
func (c *Compositor) source(s components.Sprite) (*image.NRGBA, draw.Interpolator) {
	tex, ok := c.textures[s.Texture]
	if !ok || s.Texture == "" {
		solid, ok := c.solids[s.Tint]
		if !ok {
			solid = assets.Solid(s.Tint, 1)
			c.solids[s.Tint] = solid
		}
		return solid, draw.NearestNeighbor
	}
	if s.UV[2] <= 0 || s.UV[3] <= 0 {
		return tex, draw.CatmullRom
	}
	key := cropKey{texture: s.Texture, uv: s.UV}
	cell, ok := c.cells[key]
	if !ok {
		cell = assets.Crop(tex, s.UV)
		c.cells[key] = cell
	}
	return cell, draw.CatmullRom
}

func (c *Compositor) drawPlane(dst *image.NRGBA, p *plane) {
	src, interp := c.source(p.sprite)
	sb := src.Bounds()
	sw, sh := float64(sb.Dx()), float64(sb.Dy())
	if sw == 0 || sh == 0 {
		return
	}

	tl, tr, bl := p.corners[0], p.corners[1], p.corners[2]
	s2d := f64.Aff3{
		(tr.X - tl.X) / sw, (bl.X - tl.X) / sh, tl.X,
		(tr.Y - tl.Y) / sw, (bl.Y - tl.Y) / sh, tl.Y,
	}

	var opts *draw.Options
	if p.sprite.Opacity < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(p.sprite.Opacity * 255)})}
	}
	interp.Transform(dst, s2d, src, sb, draw.Over, opts)
}

func (c *Compositor) drawAura(dst *image.NRGBA, surface camera.Surface, aura *systems.Aura) {
	if _, ok := aura.Target(); !ok {
		return
	}
	for i, p := range aura.Particles {
		local := r3.Vec{
			X: float64(aura.Positions[i*3]),
			Y: float64(aura.Positions[i*3+1]),
			Z: float64(aura.Positions[i*3+2]),
		}
		rgb := [3]uint8{unit8(p.Color[0]), unit8(p.Color[1]), unit8(p.Color[2])}
		c.splat(dst, surface, r3.Add(aura.Anchor, local), c.AuraSize, rgb, float64(aura.Alpha[i]))
	}
}

func (c *Compositor) drawFlames(dst *image.NRGBA, surface camera.Surface, flames *systems.FlameEngine) {
	for i := range flames.Particles {
		p := &flames.Particles[i]
		life := p.LifeRatio()
		var rgb [3]uint8
		for k := range rgb {
			rgb[k] = uint8(float64(c.flameEnd[k]) + (float64(c.flameStart[k])-float64(c.flameEnd[k]))*life)
		}
		c.splat(dst, surface, p.Pos, p.Size, rgb, life)
	}
}

// splat adds a square point of the given world size.
func (c *Compositor) splat(dst *image.NRGBA, surface camera.Surface, at r3.Vec, size float64, rgb [3]uint8, alpha float64) {
	if alpha <= 0 {
		return
	}
	x, y, depth, ok := c.cam.Project(at)
	if !ok {
		return
	}
	px, py := camera.NDCToScreen(x, y, surface)
	r := max(0, int(size*c.cam.PixelsPerUnit(depth, surface)/2))

	b := dst.Bounds()
	for yy := int(py) - r; yy <= int(py)+r; yy++ {
		for xx := int(px) - r; xx <= int(px)+r; xx++ {
			if !(image.Point{X: xx, Y: yy}).In(b) {
				continue
			}
			i := dst.PixOffset(xx, yy)
			for k := 0; k < 3; k++ {
				v := float64(dst.Pix[i+k]) + float64(rgb[k])*alpha
				dst.Pix[i+k] = uint8(math.Min(v, 255))
			}
		}
	}
}

func unit8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// Count returns the number of planes drawn by the last Compose.
func (c *Compositor) Count() int {
	return len(c.planes)
}

// logMissing reports sprite textures that have no registered image.
func (c *Compositor) logMissing() {
	for i := range c.planes {
		key := c.planes[i].sprite.Texture
		if key != "" && !c.HasTexture(key) {
			slog.Debug("snapshot_texture_missing", "texture", key)
		}
	}
}
