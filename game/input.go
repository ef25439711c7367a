package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shrine/systems"
)

// handleInput processes keyboard and pointer input between frames.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyF12) {
		g.screenshotPending = true
	}
	if rl.IsKeyPressed(rl.KeyD) {
		g.view.Debug().Toggle()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		if g.sched.Running() {
			g.Pause()
		} else {
			g.Resume()
		}
	}

	g.handleCameraInput()
	g.handlePointer()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.scene.Camera.Resize(float64(w), float64(h))
	g.view.Resize(int32(w), int32(h))
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput() {
	cam := g.scene.Camera

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		speed := g.cfg.Camera.RotateSpeed
		cam.Rotate(-float64(d.X)*speed, -float64(d.Y)*speed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + float64(wheel)*0.1)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}

// handlePointer runs hover and click hit tests.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()
	if g.view.Debug().Contains(mouse.X, mouse.Y, int32(g.screenWidth)) {
		rl.SetMouseCursor(rl.MouseCursorDefault)
		return
	}
	px, py := float64(mouse.X), float64(mouse.Y)
	surface := g.surface()

	if g.scene.Hover(px, py, surface) == systems.CursorPointer {
		rl.SetMouseCursor(rl.MouseCursorPointingHand)
		hit, _ := g.scene.Interaction.Pick(px, py, surface)
		g.view.SetHover(hit.Target.Meta.Name)
	} else {
		rl.SetMouseCursor(rl.MouseCursorDefault)
		g.view.SetHover("")
	}

	if rl.IsKeyPressed(rl.KeyI) {
		ins := g.view.Inspector()
		if hit, ok := g.scene.Interaction.Pick(px, py, surface); ok {
			ins.Select(hit.Target.Entity, hit.Target.Meta.Name)
		} else {
			ins.Deselect()
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		res := g.scene.Click(px, py, surface)
		if res.Action != systems.ActionNone {
			slog.Debug("click", "action", res.Action.String(), "target", res.Target)
		}
	}
}
