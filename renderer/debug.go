package renderer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shrine/scene"
	"github.com/pthm-cable/shrine/systems"
)

// DebugPanel is the raygui panel toggled with D.
type DebugPanel struct {
	Visible      bool
	ShowHitboxes bool

	registry *systems.SystemRegistry
}

// NewDebugPanel creates a hidden panel.
func NewDebugPanel(registry *systems.SystemRegistry) *DebugPanel {
	return &DebugPanel{registry: registry}
}

// Toggle shows or hides the panel.
func (d *DebugPanel) Toggle() {
	d.Visible = !d.Visible
}

// Contains reports whether a screen point is over the panel, so clicks
// there are not sent to the scene.
func (d *DebugPanel) Contains(x, y float32, screenWidth int32) bool {
	if !d.Visible {
		return false
	}
	return rl.CheckCollisionPointRec(rl.Vector2{X: x, Y: y}, d.bounds(screenWidth))
}

func (d *DebugPanel) bounds(screenWidth int32) rl.Rectangle {
	return rl.Rectangle{X: float32(screenWidth) - 270, Y: float32(rl.GetScreenHeight()) - 250, Width: 260, Height: 210}
}

// Draw renders the panel and applies its controls to the scene.
func (d *DebugPanel) Draw(sc *scene.Scene, screenWidth int32) {
	b := d.bounds(screenWidth)
	rl.DrawRectangleRec(b, rl.Color{R: 20, G: 25, B: 30, A: 220})
	rl.DrawRectangleLinesEx(b, 1, rl.Color{R: 60, G: 70, B: 80, A: 255})

	x, y := b.X+10, b.Y+8
	rl.DrawText("Debug", int32(x), int32(y), 16, rl.Yellow)
	y += 22

	state := sc.Sequencer.State()
	lines := []string{
		fmt.Sprintf("%s: %s  icon %d/%d", d.registry.GetName("sequencer"), state.Mode, state.ActiveIndex, sc.Sequencer.Len()),
		fmt.Sprintf("cycle %.0f  pause %d", state.CycleTimer, state.PauseTimer),
		fmt.Sprintf("clicks %d  targets %d", sc.Expression.ClickCount, sc.Interaction.Set.Len()),
	}
	for _, line := range lines {
		rl.DrawText(line, int32(x), int32(y), 12, rl.LightGray)
		y += 16
	}
	y += 4

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 115, Height: 24}, toggleText(d.ShowHitboxes, "Hide hitboxes", "Show hitboxes")) {
		d.ShowHitboxes = !d.ShowHitboxes
	}
	if gui.Button(rl.Rectangle{X: x + 125, Y: y, Width: 115, Height: 24}, "Replay icons") {
		sc.Sequencer.Reset()
	}
	y += 32

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 115, Height: 24}, "Reset camera") {
		sc.Camera.Reset()
	}
	y += 34

	rl.DrawText("Damping", int32(x), int32(y), 12, rl.Gray)
	y += 14
	damping := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: 180, Height: 18},
		"", "",
		float32(sc.Camera.Damping), 0.01, 1,
	)
	if damping != float32(sc.Camera.Damping) {
		sc.Camera.Damping = float64(damping)
	}
	rl.DrawText(fmt.Sprintf("%.2f", sc.Camera.Damping), int32(x+190), int32(y+2), 14, rl.LightGray)
}

func toggleText(on bool, whenOn, whenOff string) string {
	if on {
		return whenOn
	}
	return whenOff
}
