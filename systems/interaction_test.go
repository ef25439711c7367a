package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shrine/camera"
	"github.com/pthm-cable/shrine/components"
)

type recordingNavigator struct {
	opened []string
	err    error
}

func (n *recordingNavigator) Open(url string) error {
	n.opened = append(n.opened, url)
	return n.err
}

type interactionFixture struct {
	world   *ecs.World
	cam     *camera.Orbit
	expr    *ExpressionState
	nav     *recordingNavigator
	in      *Interaction
	surface camera.Surface
	subject ecs.Entity
	icon    ecs.Entity
	mapper  *ecs.Map4[components.Position, components.Quad, components.Interactive, components.Sprite]
}

func newInteractionFixture() *interactionFixture {
	w := ecs.NewWorld()
	f := &interactionFixture{
		world:   w,
		cam:     camera.New(800, 800, camera.Params{FovY: 75, Distance: 7, MinDistance: 3, MaxDistance: 20, Damping: 0.05}),
		expr:    NewExpressionState(testVariants(), 5),
		nav:     &recordingNavigator{},
		surface: camera.Surface{W: 800, H: 800},
		mapper:  ecs.NewMap4[components.Position, components.Quad, components.Interactive, components.Sprite](w),
	}
	f.in = NewInteraction(w, f.cam, f.expr, f.nav)

	f.subject = f.spawn(
		components.Position{},
		components.Quad{Width: 3, Height: 5},
		components.Interactive{Name: "kodam", Tag: components.TagSubject},
		"kodam.png",
	)
	f.icon = f.spawn(
		components.Position{Y: -1.7, Z: 0.6},
		components.Quad{Width: 0.45, Height: 0.45},
		components.Interactive{Name: "github", URL: "https://github.com/"},
		"icon_github.png",
	)
	return f
}

func (f *interactionFixture) spawn(pos components.Position, q components.Quad, meta components.Interactive, tex string) ecs.Entity {
	sprite := components.Sprite{Texture: tex, Opacity: 1}
	e := f.mapper.NewEntity(&pos, &q, &meta, &sprite)
	f.in.Set.Add(e)
	return e
}

// project returns the window pixel that looks straight at a world point
// for the default camera on the +Z axis.
func (f *interactionFixture) project(x, y, z float64) (float64, float64) {
	tanHalf := math.Tan(f.cam.FovY * math.Pi / 360)
	depth := f.cam.Distance - z
	ndcX := x / depth / (tanHalf * f.cam.Aspect())
	ndcY := y / depth / tanHalf
	return (ndcX + 1) / 2 * f.surface.W, (1 - ndcY) / 2 * f.surface.H
}

func TestInteractiveSet(t *testing.T) {
	w := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Position](w)
	a := mapper.NewEntity(&components.Position{})
	b := mapper.NewEntity(&components.Position{})
	c := mapper.NewEntity(&components.Position{})

	s := NewInteractiveSet()
	if !s.Add(a) || !s.Add(b) || !s.Add(c) {
		t.Fatal("expected first adds to succeed")
	}
	if s.Add(b) {
		t.Error("expected duplicate add to be rejected")
	}
	if s.Len() != 3 {
		t.Errorf("expected 3 handles, got %d", s.Len())
	}

	if !s.Remove(a) {
		t.Fatal("expected remove to succeed")
	}
	if s.Remove(a) {
		t.Error("expected second remove to fail")
	}
	if s.Contains(a) || !s.Contains(b) || !s.Contains(c) {
		t.Errorf("unexpected membership after remove: %v", s.Handles())
	}
	for _, e := range s.Handles() {
		if !s.Contains(e) {
			t.Errorf("handle %v listed but not contained", e)
		}
	}
}

func TestClickSubjectAdvancesExpression(t *testing.T) {
	f := newInteractionFixture()
	sprites := ecs.NewMap[components.Sprite](f.world)

	for i := 1; i <= 4; i++ {
		res := f.in.Click(400, 400, f.surface)
		if res.Action != ActionExpression || res.Target != "kodam" {
			t.Fatalf("click %d: expected expression click on kodam, got %+v", i, res)
		}
		if res.Advanced {
			t.Fatalf("click %d should not advance", i)
		}
	}
	if got := sprites.Get(f.subject).Texture; got != "kodam.png" {
		t.Errorf("expected texture unchanged after 4 clicks, got %s", got)
	}

	res := f.in.Click(400, 400, f.surface)
	if !res.Advanced || res.Expression != 1 || res.ClickCount != 5 {
		t.Errorf("expected fifth click to advance to 1, got %+v", res)
	}
	if got := sprites.Get(f.subject).Texture; got != "kodam_smile.png" {
		t.Errorf("expected smile texture, got %s", got)
	}
	if !f.expr.ConsumeShake() {
		t.Error("expected a pending shake")
	}
	if len(f.nav.opened) != 0 {
		t.Errorf("subject clicks must not navigate, opened %v", f.nav.opened)
	}
}

func TestClickIconNavigates(t *testing.T) {
	f := newInteractionFixture()
	px, py := f.project(0, -1.7, 0.6)

	res := f.in.Click(px, py, f.surface)
	if res.Action != ActionNavigate || res.URL != "https://github.com/" {
		t.Fatalf("expected navigation to github, got %+v", res)
	}
	if len(f.nav.opened) != 1 || f.nav.opened[0] != "https://github.com/" {
		t.Errorf("expected navigator to open github once, got %v", f.nav.opened)
	}
	if f.expr.ClickCount != 0 {
		t.Errorf("an icon in front of the subject must take the click, got %d subject clicks", f.expr.ClickCount)
	}
}

func TestClickNavigatorErrorIsNotFatal(t *testing.T) {
	f := newInteractionFixture()
	f.nav.err = errors.New("no browser")
	px, py := f.project(0, -1.7, 0.6)

	res := f.in.Click(px, py, f.surface)
	if res.Action != ActionNavigate {
		t.Errorf("expected navigate action despite error, got %v", res.Action)
	}
}

func TestClickMiss(t *testing.T) {
	f := newInteractionFixture()

	res := f.in.Click(5, 5, f.surface)
	if res.Action != ActionNone || res.Target != "" {
		t.Errorf("expected no action for a miss, got %+v", res)
	}
	if f.expr.ClickCount != 0 || len(f.nav.opened) != 0 {
		t.Error("a miss must not change any state")
	}
}

func TestHover(t *testing.T) {
	f := newInteractionFixture()

	if c := f.in.Hover(400, 400, f.surface); c != CursorPointer {
		t.Errorf("expected pointer over the subject, got %v", c)
	}
	if c := f.in.Hover(5, 5, f.surface); c != CursorDefault {
		t.Errorf("expected default cursor over empty space, got %v", c)
	}
	if f.expr.ClickCount != 0 {
		t.Error("hover must not mutate state")
	}
}

func TestRebuildTracksTransformsAndLifetime(t *testing.T) {
	f := newInteractionFixture()
	posMap := ecs.NewMap[components.Position](f.world)

	// Moving the icon moves its hit area
	posMap.Get(f.icon).X = 3
	quads := f.in.Rebuild()
	if len(quads) != 2 {
		t.Fatalf("expected 2 quads, got %d", len(quads))
	}
	for _, q := range quads {
		if q.Entity == f.icon && q.Center.X != 3 {
			t.Errorf("expected rebuilt icon center to follow its position, got %+v", q.Center)
		}
	}

	// Removed entities drop out without being unregistered
	f.world.RemoveEntity(f.subject)
	if quads := f.in.Rebuild(); len(quads) != 1 {
		t.Errorf("expected dead subject to be dropped, got %d quads", len(quads))
	}
	if res := f.in.Click(400, 400, f.surface); res.Action != ActionNone {
		t.Errorf("expected no action after the subject is gone, got %+v", res)
	}
}

func TestRebuildSkipsEntitiesWithoutQuad(t *testing.T) {
	f := newInteractionFixture()
	bare := ecs.NewMap1[components.Position](f.world).NewEntity(&components.Position{})
	f.in.Set.Add(bare)

	if quads := f.in.Rebuild(); len(quads) != 2 {
		t.Errorf("expected entity without a quad to be skipped, got %d quads", len(quads))
	}
}

func TestLateArrivalIsClickable(t *testing.T) {
	f := newInteractionFixture()
	f.in.Click(5, 5, f.surface)

	f.spawn(
		components.Position{X: -2.5, Y: 2.5, Z: 0.5},
		components.Quad{Width: 1, Height: 1},
		components.Interactive{Name: "shop", URL: "https://example.com/shop"},
		"icon_shop.png",
	)
	px, py := f.project(-2.5, 2.5, 0.5)
	if res := f.in.Click(px, py, f.surface); res.Target != "shop" {
		t.Errorf("expected late-registered plane to be clickable, got %+v", res)
	}
}
