package snapshot

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shrine/camera"
	"github.com/pthm-cable/shrine/components"
	"github.com/pthm-cable/shrine/config"
	"github.com/pthm-cable/shrine/scene"
	"github.com/pthm-cable/shrine/telemetry"
)

func testCamera() *camera.Orbit {
	return camera.New(200, 200, camera.Params{FovY: 75, Distance: 7, MinDistance: 3, MaxDistance: 20, Damping: 0.05})
}

type fixture struct {
	world *ecs.World
	comp  *Compositor
	spawn *ecs.Map3[components.Position, components.Quad, components.Sprite]
}

func newFixture() *fixture {
	w := ecs.NewWorld()
	return &fixture{
		world: w,
		comp:  NewCompositor(w, testCamera()),
		spawn: ecs.NewMap3[components.Position, components.Quad, components.Sprite](w),
	}
}

func (f *fixture) add(pos components.Position, size float64, sprite components.Sprite) ecs.Entity {
	quad := components.Quad{Width: size, Height: size}
	return f.spawn.NewEntity(&pos, &quad, &sprite)
}

// halves returns a 10x10 texture, red on the left and blue on the right.
func halves() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := color.NRGBA{R: 255, A: 255}
			if x >= 5 {
				c = color.NRGBA{B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func isRed(c color.NRGBA) bool  { return c.R > 200 && c.B < 50 }
func isBlue(c color.NRGBA) bool { return c.B > 200 && c.R < 50 }

func TestComposeSolidFallback(t *testing.T) {
	f := newFixture()
	f.comp.Background = [3]uint8{0, 0, 0}
	f.add(components.Position{}, 2, components.Sprite{Tint: [3]uint8{255, 0, 0}, Opacity: 1})

	img := f.comp.Compose(1, nil, nil)
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 200 {
		t.Fatalf("expected 200x200 composite, got %v", img.Bounds())
	}
	if c := img.NRGBAAt(100, 100); !isRed(c) {
		t.Errorf("expected red at center, got %+v", c)
	}
	if c := img.NRGBAAt(5, 5); c.R != 0 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("expected opaque background in the corner, got %+v", c)
	}
	if f.comp.Count() != 1 {
		t.Errorf("expected 1 plane, got %d", f.comp.Count())
	}
}

func TestComposeTexture(t *testing.T) {
	f := newFixture()
	f.comp.AddTexture("halves.png", halves())
	f.add(components.Position{}, 2, components.Sprite{Texture: "halves.png", Opacity: 1})

	img := f.comp.Compose(1, nil, nil)
	if c := img.NRGBAAt(91, 100); !isRed(c) {
		t.Errorf("expected red left of center, got %+v", c)
	}
	if c := img.NRGBAAt(109, 100); !isBlue(c) {
		t.Errorf("expected blue right of center, got %+v", c)
	}
}

func TestComposeAtlasCell(t *testing.T) {
	f := newFixture()
	f.comp.AddTexture("cards.png", halves())
	f.add(components.Position{}, 2, components.Sprite{Texture: "cards.png", Opacity: 1, UV: [4]float64{0.5, 0, 0.5, 1}})

	img := f.comp.Compose(1, nil, nil)
	for _, x := range []int{91, 100, 109} {
		if c := img.NRGBAAt(x, 100); !isBlue(c) {
			t.Errorf("expected only the blue cell at x=%d, got %+v", x, c)
		}
	}
}

func TestComposeDrawOrderBeatsDepth(t *testing.T) {
	f := newFixture()
	f.add(components.Position{}, 2, components.Sprite{Tint: [3]uint8{255, 0, 0}, Opacity: 1, Order: 1})
	f.add(components.Position{Z: 1}, 2, components.Sprite{Tint: [3]uint8{0, 0, 255}, Opacity: 1, Order: 0})

	img := f.comp.Compose(1, nil, nil)
	if c := img.NRGBAAt(100, 100); !isRed(c) {
		t.Errorf("expected higher order plane on top, got %+v", c)
	}
}

func TestComposeSkipsInvisible(t *testing.T) {
	f := newFixture()
	f.add(components.Position{}, 2, components.Sprite{Tint: [3]uint8{255, 0, 0}, Opacity: 0})
	f.add(components.Position{Z: 10}, 2, components.Sprite{Tint: [3]uint8{255, 0, 0}, Opacity: 1}) // behind the eye

	img := f.comp.Compose(0.5, nil, nil)
	if img.Bounds().Dx() != 100 {
		t.Errorf("expected half-scale composite, got %v", img.Bounds())
	}
	if f.comp.Count() != 0 {
		t.Errorf("expected no drawable planes, got %d", f.comp.Count())
	}
}

func TestWriterSavesEveryN(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	out, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	sc := scene.New(cfg, scene.Options{Seed: 1})
	sc.AddSubject(scene.Failed)

	w := NewWriter(sc, out, 2, 0.1)
	for i := 0; i < 5; i++ {
		w.Render()
	}
	if w.Saved() != 2 {
		t.Errorf("expected 2 snapshots in 5 frames, got %d", w.Saved())
	}
	shots, _ := filepath.Glob(filepath.Join(dir, "shot-*.webp"))
	if len(shots) != 2 {
		t.Errorf("expected 2 files, got %v", shots)
	}
	for _, s := range shots {
		if info, err := os.Stat(s); err != nil || info.Size() == 0 {
			t.Errorf("expected non-empty %s", s)
		}
	}
}

func TestWriterWithoutOutputDir(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	sc := scene.New(cfg, scene.Options{})
	w := NewWriter(sc, nil, 1, 0.1)
	w.Render()
	if w.Saved() != 0 {
		t.Errorf("expected no snapshots without an output dir, got %d", w.Saved())
	}
}
