package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shrine/components"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 28
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 230}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Inspector shows the components of one selected entity.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
	name        string

	panelX, panelY int32

	world     *ecs.World
	posMap    *ecs.Map[components.Position]
	quadMap   *ecs.Map[components.Quad]
	spriteMap *ecs.Map[components.Sprite]
	floatMap  *ecs.Map[components.Floating]
	iconMap   *ecs.Map[components.Icon]
	metaMap   *ecs.Map[components.Interactive]
}

// NewInspector creates an inspector anchored to the right screen edge.
func NewInspector(w *ecs.World, screenWidth int32) *Inspector {
	return &Inspector{
		panelX:    screenWidth - PanelWidth - 10,
		panelY:    10,
		world:     w,
		posMap:    ecs.NewMap[components.Position](w),
		quadMap:   ecs.NewMap[components.Quad](w),
		spriteMap: ecs.NewMap[components.Sprite](w),
		floatMap:  ecs.NewMap[components.Floating](w),
		iconMap:   ecs.NewMap[components.Icon](w),
		metaMap:   ecs.NewMap[components.Interactive](w),
	}
}

// Select pins an entity. name is the panel title.
func (ins *Inspector) Select(e ecs.Entity, name string) {
	ins.selected = e
	ins.hasSelected = true
	ins.name = name
	if name == "" {
		ins.name = "entity"
	}
}

// Deselect clears the selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
	ins.selected = ecs.Entity{}
}

// Selected returns the selected entity while it is alive.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	if !ins.hasSelected || !ins.world.Alive(ins.selected) {
		return ecs.Entity{}, false
	}
	return ins.selected, true
}

// Resize re-anchors the panel.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// Sections collects the displayable components of the selection.
func (ins *Inspector) Sections() []Section {
	e, ok := ins.Selected()
	if !ok {
		return nil
	}
	var out []Section
	add := func(title string, has bool, get func() any) {
		if has {
			out = append(out, Section{Title: title, Fields: Fields(get())})
		}
	}
	add("Interactive", ins.metaMap.Has(e), func() any { return ins.metaMap.Get(e) })
	add("Position", ins.posMap.Has(e), func() any { return ins.posMap.Get(e) })
	add("Quad", ins.quadMap.Has(e), func() any { return ins.quadMap.Get(e) })
	add("Sprite", ins.spriteMap.Has(e), func() any { return ins.spriteMap.Get(e) })
	add("Floating", ins.floatMap.Has(e), func() any { return ins.floatMap.Get(e) })
	add("Icon", ins.iconMap.Has(e), func() any { return ins.iconMap.Get(e) })
	return out
}

// Draw renders the panel when an entity is selected.
func (ins *Inspector) Draw() {
	sections := ins.Sections()
	if sections == nil {
		return
	}

	height := int32(HeaderHeight + PanelPadding)
	for _, s := range sections {
		height += 20 + int32(len(s.Fields))*20
	}

	x, y := ins.panelX, ins.panelY
	rl.DrawRectangle(x, y, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLines(x, y, PanelWidth, height, ColorPanelBorder)
	rl.DrawRectangle(x, y, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(ins.name, x+PanelPadding, y+7, 16, ColorHeaderText)

	y += HeaderHeight + 4
	for _, s := range sections {
		rl.DrawText(s.Title, x+PanelPadding, y, 14, ColorSectionText)
		y += 18
		for _, f := range s.Fields {
			y += DrawField(x+PanelPadding+6, y, f)
		}
		y += 2
	}
}
