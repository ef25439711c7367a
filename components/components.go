// Package components defines ECS components for the scene.
package components

// Floating drives a sine-wave vertical oscillation around BaselineY.
type Floating struct {
	BaselineY float64 `inspect:"label,fmt:%.3f"`
	Phase     float64 `inspect:"angle"`
	PhaseStep float64 `inspect:"label,fmt:%.4f"`
	Amplitude float64 `inspect:"bar,max:0.5"`
}

// RowKind identifies which icon row an icon belongs to.
type RowKind uint8

const (
	RowSecondary RowKind = iota
	RowPrimary
)

// String returns the row name.
func (r RowKind) String() string {
	if r == RowPrimary {
		return "primary"
	}
	return "secondary"
}

// Icon marks an entity driven by the icon sequencer.
// Icons without a baseline are skipped for motion.
type Icon struct {
	BaselineY   float64 `inspect:"label,fmt:%.3f"`
	HasBaseline bool    `inspect:"bool"`
	Row         RowKind `inspect:"skip"`
	Slot        int     `inspect:"label"`
}

// Tag values for Interactive.Tag.
const (
	TagNone    = ""
	TagSubject = "primary-subject"
)

// Interactive marks an entity as a pointer target.
type Interactive struct {
	Name string `inspect:"label"`
	URL  string `inspect:"label"`
	Tag  string `inspect:"label"`
}

// Sprite names the texture the renderer binds for an entity.
// UV offset/scale select an atlas region; a zero scale means the full texture.
type Sprite struct {
	Texture string     `inspect:"label"`
	Tint    [3]uint8   `inspect:"skip"`
	Opacity float64    `inspect:"bar"`
	Order   int        `inspect:"label"`
	UV      [4]float64 `inspect:"skip"` // offsetU, offsetV, scaleU, scaleV
}
