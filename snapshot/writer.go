package snapshot

import (
	"log/slog"

	"github.com/pthm-cable/shrine/assets"
	"github.com/pthm-cable/shrine/scene"
	"github.com/pthm-cable/shrine/telemetry"
)

// Writer is a scene renderer that saves a WebP composite every Every
// ticks into the session output directory.
type Writer struct {
	Comp  *Compositor
	Every int64
	Scale float64

	scene  *scene.Scene
	output *telemetry.OutputManager
	frames int64
	saved  int
}

// NewWriter creates a writer for a scene. Without an output directory
// it composes nothing.
func NewWriter(sc *scene.Scene, out *telemetry.OutputManager, every int64, scale float64) *Writer {
	comp := NewCompositor(sc.World(), sc.Camera)
	comp.Background = sc.Config().Derived.BackgroundColor
	comp.AuraSize = sc.Config().Aura.Size
	if engine := sc.Emitter.Engine(); engine != nil {
		def := engine.Definition()
		comp.SetFlameColors(def.StartColor, def.EndColor)
	}
	return &Writer{
		Comp:   comp,
		Every:  every,
		Scale:  scale,
		scene:  sc,
		output: out,
	}
}

// Render implements scene.Renderer.
func (w *Writer) Render() {
	w.frames++
	if w.Every <= 0 || w.frames%w.Every != 0 || w.output.Dir() == "" {
		return
	}
	img := w.Comp.Compose(w.Scale, w.scene.Aura, w.scene.Emitter.Engine())
	w.Comp.logMissing()

	path := w.output.NextScreenshotPath()
	if err := assets.SaveWebP(path, img); err != nil {
		slog.Error("snapshot_failed", "path", path, "error", err)
		return
	}
	w.saved++
	slog.Info("snapshot_saved", "path", path, "tick", w.scene.Ticks(), "planes", w.Comp.Count())
}

// Saved returns the number of snapshots written.
func (w *Writer) Saved() int {
	return w.saved
}
