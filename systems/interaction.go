package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shrine/camera"
	"github.com/pthm-cable/shrine/components"
)

// InteractiveSet is the registry of pointer-target handles.
// Membership is explicit; transforms are resolved at hit-test time.
type InteractiveSet struct {
	handles []ecs.Entity
	index   map[ecs.Entity]int
}

// NewInteractiveSet creates an empty set.
func NewInteractiveSet() *InteractiveSet {
	return &InteractiveSet{index: make(map[ecs.Entity]int)}
}

// Add registers a handle. Returns false if it was already present.
func (s *InteractiveSet) Add(e ecs.Entity) bool {
	if _, ok := s.index[e]; ok {
		return false
	}
	s.index[e] = len(s.handles)
	s.handles = append(s.handles, e)
	return true
}

// Remove unregisters a handle. Returns false if it was not present.
func (s *InteractiveSet) Remove(e ecs.Entity) bool {
	i, ok := s.index[e]
	if !ok {
		return false
	}
	last := len(s.handles) - 1
	s.handles[i] = s.handles[last]
	s.index[s.handles[i]] = i
	s.handles = s.handles[:last]
	delete(s.index, e)
	return true
}

// Contains reports whether a handle is registered.
func (s *InteractiveSet) Contains(e ecs.Entity) bool {
	_, ok := s.index[e]
	return ok
}

// Len returns the number of registered handles.
func (s *InteractiveSet) Len() int {
	return len(s.handles)
}

// Handles returns the registered handles in registration order
// (until a Remove swaps one in from the end).
func (s *InteractiveSet) Handles() []ecs.Entity {
	return append([]ecs.Entity(nil), s.handles...)
}

// Action is what a click did.
type Action uint8

const (
	ActionNone Action = iota
	ActionExpression
	ActionNavigate
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionExpression:
		return "expression"
	case ActionNavigate:
		return "navigate"
	default:
		return "none"
	}
}

// Cursor is the pointer affordance chosen on hover.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorPointer
)

// Navigator opens a URL in a new browsing context.
type Navigator interface {
	Open(url string) error
}

// ClickResult describes the outcome of one click.
type ClickResult struct {
	Action     Action
	Target     string  // Interactive.Name of the hit, if any
	URL        string  // set for ActionNavigate
	Distance   float64 // ray distance of the hit, if any
	Advanced   bool    // expression advanced on this click
	Expression int     // expression index after the click
	ClickCount int     // subject click count after the click
}

// Interaction hit-tests pointer events against the interactive set and
// dispatches clicks.
type Interaction struct {
	Set *InteractiveSet

	camera *camera.Orbit
	expr   *ExpressionState
	nav    Navigator

	world     *ecs.World
	posMap    *ecs.Map[components.Position]
	quadMap   *ecs.Map[components.Quad]
	metaMap   *ecs.Map[components.Interactive]
	spriteMap *ecs.Map[components.Sprite]

	quads []HitQuad
}

// NewInteraction creates an interaction layer with an empty set.
func NewInteraction(w *ecs.World, cam *camera.Orbit, expr *ExpressionState, nav Navigator) *Interaction {
	return &Interaction{
		Set:       NewInteractiveSet(),
		camera:    cam,
		expr:      expr,
		nav:       nav,
		world:     w,
		posMap:    ecs.NewMap[components.Position](w),
		quadMap:   ecs.NewMap[components.Quad](w),
		metaMap:   ecs.NewMap[components.Interactive](w),
		spriteMap: ecs.NewMap[components.Sprite](w),
	}
}

// Rebuild resolves every registered handle to a hit quad using current
// transforms. Dead handles and handles without a position or quad are
// left out.
func (in *Interaction) Rebuild() []HitQuad {
	in.quads = in.quads[:0]
	for _, e := range in.Set.handles {
		if !in.world.Alive(e) || !in.posMap.Has(e) || !in.quadMap.Has(e) {
			continue
		}
		q := HitQuad{
			Entity: e,
			Center: in.posMap.Get(e).Vec(),
			Quad:   *in.quadMap.Get(e),
		}
		if in.metaMap.Has(e) {
			q.Meta = *in.metaMap.Get(e)
		}
		in.quads = append(in.quads, q)
	}
	return in.quads
}

// Pick rebuilds the target list and returns the nearest hit under the
// given window pixel.
func (in *Interaction) Pick(px, py float64, surface camera.Surface) (Hit, bool) {
	in.Rebuild()
	ray := in.camera.ScreenRay(px, py, surface)
	return Nearest(ray, in.quads)
}

// Hover chooses the cursor for the given pointer position.
func (in *Interaction) Hover(px, py float64, surface camera.Surface) Cursor {
	if _, ok := in.Pick(px, py, surface); ok {
		return CursorPointer
	}
	return CursorDefault
}

// Click dispatches a click at the given pointer position. Only the
// nearest hit is considered: the primary subject counts towards an
// expression change, a URL is opened, anything else is ignored.
func (in *Interaction) Click(px, py float64, surface camera.Surface) ClickResult {
	var res ClickResult
	if in.expr != nil {
		res.Expression = in.expr.CurrentIndex
		res.ClickCount = in.expr.ClickCount
	}

	hit, ok := in.Pick(px, py, surface)
	if !ok {
		return res
	}
	meta := hit.Target.Meta
	res.Target = meta.Name
	res.Distance = hit.Distance

	switch {
	case meta.Tag == components.TagSubject && in.expr != nil:
		res.Action = ActionExpression
		res.Advanced = in.expr.RegisterClick()
		res.Expression = in.expr.CurrentIndex
		res.ClickCount = in.expr.ClickCount
		if res.Advanced {
			in.swapSubjectTexture(hit.Target.Entity)
		}

	case meta.URL != "":
		res.Action = ActionNavigate
		res.URL = meta.URL
		slog.Info("navigate", "target", meta.Name, "url", meta.URL)
		if in.nav != nil {
			if err := in.nav.Open(meta.URL); err != nil {
				slog.Error("navigate_failed", "url", meta.URL, "error", err)
			}
		}
	}

	return res
}

// swapSubjectTexture points the subject sprite at the current variant.
func (in *Interaction) swapSubjectTexture(e ecs.Entity) {
	v, ok := in.expr.Current()
	if !ok {
		return
	}
	if !in.spriteMap.Has(e) {
		slog.Warn("subject_missing_sprite", "variant", v.Name)
		return
	}
	in.spriteMap.Get(e).Texture = v.Texture
	slog.Info("expression_advanced", "variant", v.Name, "index", in.expr.CurrentIndex, "clicks", in.expr.ClickCount)
}
