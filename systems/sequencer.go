package systems

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shrine/components"
)

// SequencerMode is the icon sequencer phase.
type SequencerMode uint8

const (
	ModeJiggling SequencerMode = iota
	ModePaused
)

// String returns the mode name.
func (m SequencerMode) String() string {
	if m == ModePaused {
		return "paused"
	}
	return "jiggling"
}

// SequencerParams holds the jiggle shape and pause length.
type SequencerParams struct {
	Speed      float64 // radians per tick
	Amplitude  float64
	PauseTicks int
}

// SequencerState is the complete mutable state of the sequencer.
// ActiveIndex indexes the concatenated [secondary..., primary...] icon list.
type SequencerState struct {
	Mode        SequencerMode
	ActiveIndex int
	CycleTimer  float64
	PauseTimer  int
	SweepPos    int // position within the sweep order
}

// IconSequencer highlights one icon at a time with a single sine jiggle,
// sweeping the primary row then the secondary row, then idling.
type IconSequencer struct {
	params SequencerParams
	state  SequencerState

	secondary []ecs.Entity
	primary   []ecs.Entity

	world   *ecs.World
	posMap  *ecs.Map[components.Position]
	iconMap *ecs.Map[components.Icon]
}

// NewIconSequencer creates a sequencer with no icons.
func NewIconSequencer(w *ecs.World, params SequencerParams) *IconSequencer {
	return &IconSequencer{
		params:  params,
		world:   w,
		posMap:  ecs.NewMap[components.Position](w),
		iconMap: ecs.NewMap[components.Icon](w),
	}
}

// SetRows installs the icon rows and resets to the initial state.
func (s *IconSequencer) SetRows(secondary, primary []ecs.Entity) {
	s.secondary = append([]ecs.Entity(nil), secondary...)
	s.primary = append([]ecs.Entity(nil), primary...)
	s.Reset()
}

// Reset returns to the initial state: jiggling the first primary icon.
func (s *IconSequencer) Reset() {
	s.state = SequencerState{Mode: ModeJiggling}
	if s.Len() > 0 {
		s.state.ActiveIndex = s.sweepIndex(0)
	}
}

// State returns a copy of the current state.
func (s *IconSequencer) State() SequencerState {
	return s.state
}

// Params returns the sequencer parameters.
func (s *IconSequencer) Params() SequencerParams {
	return s.params
}

// Len returns the total number of icons across both rows.
func (s *IconSequencer) Len() int {
	return len(s.secondary) + len(s.primary)
}

// Icon returns the icon at index i of the concatenated list.
func (s *IconSequencer) Icon(i int) ecs.Entity {
	if i < len(s.secondary) {
		return s.secondary[i]
	}
	return s.primary[i-len(s.secondary)]
}

// sweepIndex maps a sweep position to an icon index: the primary row
// first, then the secondary row.
func (s *IconSequencer) sweepIndex(pos int) int {
	if pos < len(s.primary) {
		return len(s.secondary) + pos
	}
	return pos - len(s.primary)
}

// Update advances the sequencer by one tick.
func (s *IconSequencer) Update() {
	n := s.Len()
	if n == 0 {
		return
	}

	switch s.state.Mode {
	case ModeJiggling:
		s.state.CycleTimer++
		angle := s.state.CycleTimer * s.params.Speed
		cycleDone := angle >= 2*math.Pi

		// Every icon is placed every tick so outside nudges heal.
		for i := 0; i < n; i++ {
			offset := 0.0
			if i == s.state.ActiveIndex && !cycleDone {
				offset = math.Sin(angle) * s.params.Amplitude
			}
			s.place(i, offset)
		}

		if cycleDone {
			s.state.CycleTimer = 0
			s.advance(n)
		}

	case ModePaused:
		s.state.PauseTimer++
		s.restAll(n)
		if s.state.PauseTimer >= s.params.PauseTicks {
			s.state = SequencerState{Mode: ModeJiggling, ActiveIndex: s.sweepIndex(0)}
		}
	}
}

// advance moves to the next icon of the sweep, or pauses after the last.
func (s *IconSequencer) advance(n int) {
	s.state.SweepPos++
	if s.state.SweepPos >= n {
		s.state.Mode = ModePaused
		s.state.PauseTimer = 0
		s.restAll(n)
		return
	}
	s.state.ActiveIndex = s.sweepIndex(s.state.SweepPos)
}

func (s *IconSequencer) restAll(n int) {
	for i := 0; i < n; i++ {
		s.place(i, 0)
	}
}

// place sets icon i to baseline+offset. Icons without baseline metadata
// are skipped and logged.
func (s *IconSequencer) place(i int, offset float64) {
	e := s.Icon(i)
	if !s.world.Alive(e) || !s.iconMap.Has(e) || !s.posMap.Has(e) {
		slog.Warn("icon_missing", "index", i)
		return
	}
	icon := s.iconMap.Get(e)
	if !icon.HasBaseline {
		slog.Warn("icon_missing_baseline", "index", i, "row", icon.Row.String(), "slot", icon.Slot)
		return
	}
	s.posMap.Get(e).Y = icon.BaselineY + offset
}
