package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

const labelColumn = 90

// drawLabel renders name: value and returns the row height.
func drawLabel(x, y int32, f Field) int32 {
	rl.DrawText(f.Name, x, y, 14, ColorTextDim)
	rl.DrawText(f.Text(), x+labelColumn, y, 14, ColorText)
	return 18
}

// drawBar renders a value against the tag max.
func drawBar(x, y int32, f Field, v float64) int32 {
	ratio := float32(math.Max(0, math.Min(1, v/f.Spec.Max)))
	const barWidth, barHeight = 120, 14

	rl.DrawText(f.Name, x, y, 14, ColorTextDim)
	barX := x + labelColumn
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	rl.DrawRectangle(barX, y, int32(barWidth*ratio), barHeight, ColorBarFill)
	rl.DrawText(fmt.Sprintf("%.2f", v), barX+barWidth+5, y, 14, ColorTextDim)
	return 18
}

// drawAngle renders a dial; the needle wraps, the text shows the raw angle.
func drawAngle(x, y int32, f Field, radians float64) int32 {
	const size = 32
	cx := x + labelColumn + size/2
	cy := y + size/2

	rl.DrawText(f.Name, x, cy-7, 14, ColorTextDim)
	rl.DrawCircle(cx, cy, size/2, ColorAngleBg)
	rl.DrawCircleLines(cx, cy, size/2, ColorTextDim)

	needle := float64(size/2 - 4)
	end := rl.Vector2{
		X: float32(float64(cx) + needle*math.Cos(radians)),
		Y: float32(float64(cy) - needle*math.Sin(radians)),
	}
	rl.DrawLineEx(rl.Vector2{X: float32(cx), Y: float32(cy)}, end, 2, ColorAngleNeedle)
	rl.DrawText(fmt.Sprintf("%.1f rad", radians), x+labelColumn+size+6, cy-7, 14, ColorTextDim)
	return size + 4
}

func drawBool(x, y int32, f Field, on bool) int32 {
	rl.DrawText(f.Name, x, y, 14, ColorTextDim)
	color, text := ColorBoolOff, "no"
	if on {
		color, text = ColorBoolOn, "yes"
	}
	rl.DrawRectangle(x+labelColumn, y, 14, 14, color)
	rl.DrawText(text, x+labelColumn+19, y, 14, color)
	return 18
}

// DrawField renders a field with its widget and returns the row height.
func DrawField(x, y int32, f Field) int32 {
	switch f.Spec.Widget {
	case WidgetBar:
		if v, ok := f.Float(); ok {
			return drawBar(x, y, f, v)
		}
	case WidgetAngle:
		if v, ok := f.Float(); ok {
			return drawAngle(x, y, f, v)
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return drawBool(x, y, f, v)
		}
	}
	return drawLabel(x, y, f)
}
