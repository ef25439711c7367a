package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shrine/components"
	"github.com/pthm-cable/shrine/inspector"
	"github.com/pthm-cable/shrine/scene"
	"github.com/pthm-cable/shrine/systems"
	"github.com/pthm-cable/shrine/ui"
)

const controls = "Click: interact | Right drag: orbit | Wheel: zoom | Home: reset | Space: pause | I: inspect | D: debug | F11: fullscreen | F12: screenshot"

// SceneRenderer draws one scene per tick. It implements scene.Renderer.
type SceneRenderer struct {
	scene    *scene.Scene
	textures *TextureCache

	particles *ParticleRenderer
	hud       *ui.HUD
	perf      *ui.PerfPanel
	debug     *DebugPanel
	inspector *inspector.Inspector

	filter ecs.Filter3[components.Position, components.Quad, components.Sprite]
	items  []drawItem

	background rl.Color

	// Expression shake
	shakeFrames int
	shakeLeft   int
	shakeAmount float64

	hoverName  string
	frameCount int64
}

// NewSceneRenderer creates a renderer for a scene. Must be called after
// the window is open.
func NewSceneRenderer(sc *scene.Scene, textures *TextureCache) *SceneRenderer {
	cfg := sc.Config()
	bg := cfg.Derived.BackgroundColor

	particles := NewParticleRenderer(sc.Aura, cfg.Aura.Size)
	if engine := sc.Emitter.Engine(); engine != nil {
		def := engine.Definition()
		particles.SetFlameColors(def.StartColor, def.EndColor)
	}

	registry := systems.NewSystemRegistry()
	return &SceneRenderer{
		scene:       sc,
		textures:    textures,
		particles:   particles,
		hud:         ui.NewHUD(),
		perf:        ui.NewPerfPanel(registry, 10, 120),
		debug:       NewDebugPanel(registry),
		inspector:   inspector.NewInspector(sc.World(), int32(cfg.Screen.Width)),
		filter:      *ecs.NewFilter3[components.Position, components.Quad, components.Sprite](sc.World()),
		background:  rl.Color{R: bg[0], G: bg[1], B: bg[2], A: 255},
		shakeFrames: cfg.Expression.ShakeFrames,
		shakeAmount: cfg.Expression.ShakeAmount,
	}
}

// Inspector returns the entity inspector.
func (r *SceneRenderer) Inspector() *inspector.Inspector {
	return r.inspector
}

// Debug returns the debug panel.
func (r *SceneRenderer) Debug() *DebugPanel {
	return r.debug
}

// SetHover sets the name shown for the hovered target ("" for none).
func (r *SceneRenderer) SetHover(name string) {
	r.hoverName = name
}

// Resize re-anchors screen-space panels.
func (r *SceneRenderer) Resize(width, height int32) {
	r.inspector.Resize(width)
}

// camera3D converts the orbit camera for raylib.
func (r *SceneRenderer) camera3D() rl.Camera3D {
	cam := r.scene.Camera
	return rl.Camera3D{
		Position:   vec3(cam.Position()),
		Target:     vec3(cam.Target),
		Up:         vec3(cam.Up()),
		Fovy:       float32(cam.FovY),
		Projection: rl.CameraPerspective,
	}
}

// shakeOffset consumes a pending shake request and returns this frame's
// subject offset.
func (r *SceneRenderer) shakeOffset() r3.Vec {
	if r.scene.Expression.ConsumeShake() {
		r.shakeLeft = r.shakeFrames
	}
	if r.shakeLeft <= 0 || r.shakeFrames <= 0 {
		return r3.Vec{}
	}
	r.shakeLeft--
	decay := float64(r.shakeLeft) / float64(r.shakeFrames)
	f := float64(r.frameCount)
	return r3.Vec{
		X: math.Sin(f*1.7) * r.shakeAmount * decay,
		Y: math.Cos(f*2.3) * r.shakeAmount * decay,
	}
}

// Render draws the frame.
func (r *SceneRenderer) Render() {
	r.frameCount++
	sc := r.scene
	subject, _ := sc.Subject()
	shake := r.shakeOffset()

	rl.BeginDrawing()
	rl.ClearBackground(r.background)

	rl.BeginMode3D(r.camera3D())
	r.collect(sc.Camera.Position())
	r.drawPlanes(subject, shake)
	if r.debug.ShowHitboxes {
		r.drawHitboxes(sc.Interaction.Rebuild())
	}
	r.particles.DrawAura(sc.Aura)
	r.particles.DrawFlames(sc.Emitter.Engine())
	rl.EndMode3D()

	r.drawOverlay()
	rl.EndDrawing()
}

func (r *SceneRenderer) drawOverlay() {
	sc := r.scene
	state := sc.Sequencer.State()

	data := ui.HUDData{
		Title:      sc.Config().Screen.Title,
		Tick:       sc.Ticks(),
		FPS:        rl.GetFPS(),
		Clicks:     sc.Expression.ClickCount,
		Mode:       state.Mode.String(),
		Hovering:   r.hoverName,
		ActiveIcon: "-",
	}
	if v, ok := sc.Expression.Current(); ok {
		data.Expression = v.Name
	}
	if sc.Sequencer.Len() > 0 && state.Mode == systems.ModeJiggling {
		data.ActiveIcon = sc.Name(sc.Sequencer.Icon(state.ActiveIndex))
	}
	if engine := sc.Emitter.Engine(); engine != nil {
		data.Flames = engine.Count()
	}
	r.hud.Draw(data)
	r.hud.DrawControls(int32(rl.GetScreenHeight()), controls)

	if r.debug.Visible {
		r.perf.Draw(sc.PerfStats())
		r.debug.Draw(sc, int32(rl.GetScreenWidth()))
	}
	r.inspector.Draw()
}
