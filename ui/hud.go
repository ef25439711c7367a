package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shrine/systems"
	"github.com/pthm-cable/shrine/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Tick        int64
	FPS         int32
	Clicks      int
	Expression  string
	Mode        string
	ActiveIcon  string
	Flames      int
	Hovering    string
	ScreenWidth int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %s | FPS: %d | Flames: %d", humanize.Comma(data.Tick), data.FPS, data.Flames),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Clicks: %d | Expression: %s", data.Clicks, data.Expression),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Icons: %s (%s)", data.Mode, data.ActiveIcon),
		10, 75, 16, rl.LightGray,
	)
	if data.Hovering != "" {
		rl.DrawText(data.Hovering, 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timings grouped by system category.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.SystemRegistry
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(registry *systems.SystemRegistry, x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		registry: registry,
		x:        x,
		y:        y,
		width:    300,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	rows := int32(len(p.registry.All()) + 2*len(p.registry.Categories()) + 3)
	r.DrawPanel(p.x, p.y, p.width, rows*r.Theme.LineHeight+2*r.Theme.Padding)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	y = r.DrawSectionHeader(x, y, "Tick Performance")
	y = r.DrawLabelValue(x, y, "Avg tick", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Ticks/sec", humanize.Comma(int64(stats.TicksPerSecond)))

	inner := p.width - 2*r.Theme.Padding
	for _, cat := range p.registry.Categories() {
		y = r.DrawSectionHeader(x, y+4, cat)
		for _, info := range p.registry.ByCategory(cat) {
			y = r.DrawPercentBar(x, y, info.Name, stats.PhasePct[info.ID], inner, 40)
		}
	}
}
