package renderer

import (
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shrine/components"
	"github.com/pthm-cable/shrine/systems"
)

// drawItem is one sprite queued for the frame.
type drawItem struct {
	entity ecs.Entity
	center r3.Vec
	quad   components.Quad
	sprite components.Sprite
	depth  float64
}

// collect queues every sprite, back to front within each draw order.
func (r *SceneRenderer) collect(eye r3.Vec) {
	r.items = r.items[:0]
	query := r.filter.Query()
	for query.Next() {
		pos, quad, sprite := query.Get()
		if sprite.Opacity <= 0 {
			continue
		}
		c := pos.Vec()
		r.items = append(r.items, drawItem{
			entity: query.Entity(),
			center: c,
			quad:   *quad,
			sprite: *sprite,
			depth:  r3.Norm(r3.Sub(c, eye)),
		})
	}
	sort.SliceStable(r.items, func(i, j int) bool {
		if r.items[i].sprite.Order != r.items[j].sprite.Order {
			return r.items[i].sprite.Order < r.items[j].sprite.Order
		}
		return r.items[i].depth > r.items[j].depth
	})
}

// corners returns the quad's top-left, bottom-left, bottom-right and
// top-right corners in world space.
func corners(center r3.Vec, q components.Quad) [4]r3.Vec {
	cos, sin := math.Cos(q.RotationZ), math.Sin(q.RotationZ)
	hw, hh := q.Width/2, q.Height/2
	local := [4][2]float64{{-hw, hh}, {-hw, -hh}, {hw, -hh}, {hw, hh}}

	var out [4]r3.Vec
	for i, l := range local {
		out[i] = r3.Add(center, r3.Vec{X: l[0]*cos - l[1]*sin, Y: l[0]*sin + l[1]*cos})
	}
	return out
}

// texCoords maps an atlas cell (V measured from the bottom) to raylib's
// top-down texture space.
func texCoords(uv [4]float64) (u0, v0, u1, v1 float32) {
	if uv[2] <= 0 || uv[3] <= 0 {
		return 0, 0, 1, 1
	}
	return float32(uv[0]), float32(1 - uv[1] - uv[3]), float32(uv[0] + uv[2]), float32(1 - uv[1])
}

// drawQuad emits one textured (or solid) quad through rlgl.
func (r *SceneRenderer) drawQuad(it *drawItem, offset r3.Vec) {
	cs := corners(r3.Add(it.center, offset), it.quad)
	u0, v0, u1, v1 := texCoords(it.sprite.UV)

	tex, textured := r.textures.Get(it.sprite.Texture)
	tint := it.sprite.Tint
	if textured {
		rl.SetTexture(tex.ID)
	}
	alpha := uint8(math.Min(1, it.sprite.Opacity) * 255)

	rl.Begin(rl.Quads)
	rl.Color4ub(tint[0], tint[1], tint[2], alpha)
	rl.Normal3f(0, 0, 1)
	uvs := [4][2]float32{{u0, v0}, {u0, v1}, {u1, v1}, {u1, v0}}
	for i, c := range cs {
		rl.TexCoord2f(uvs[i][0], uvs[i][1])
		rl.Vertex3f(float32(c.X), float32(c.Y), float32(c.Z))
	}
	rl.End()

	if textured {
		rl.SetTexture(0)
	}
}

// drawPlanes draws the queued sprites; the subject gets the shake offset.
func (r *SceneRenderer) drawPlanes(subject ecs.Entity, shake r3.Vec) {
	rl.DisableBackfaceCulling()
	for i := range r.items {
		it := &r.items[i]
		offset := r3.Vec{}
		if it.entity == subject {
			offset = shake
		}
		r.drawQuad(it, offset)
	}
	rl.EnableBackfaceCulling()
}

// drawHitboxes outlines every interactive quad as the hit test sees it.
func (r *SceneRenderer) drawHitboxes(quads []systems.HitQuad) {
	for _, q := range quads {
		cs := corners(q.Center, q.Quad)
		color := rl.Green
		if q.Meta.Tag == components.TagSubject {
			color = rl.Magenta
		}
		for i := range cs {
			a, b := cs[i], cs[(i+1)%4]
			rl.DrawLine3D(vec3(a), vec3(b), color)
		}
	}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
