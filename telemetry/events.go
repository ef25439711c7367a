// Package telemetry provides tick timing, interaction counters and CSV output.
package telemetry

import (
	"time"

	"github.com/pthm-cable/shrine/systems"
)

// InteractionEvent is one interactions.csv record.
type InteractionEvent struct {
	Tick       int64   `csv:"tick"`
	At         string  `csv:"at"`
	Action     string  `csv:"action"`
	Target     string  `csv:"target"`
	URL        string  `csv:"url"`
	Distance   float64 `csv:"distance"`
	Advanced   bool    `csv:"advanced"`
	Expression int     `csv:"expression"`
	Clicks     int     `csv:"clicks"`
}

// NewInteractionEvent records a click outcome at the given tick.
func NewInteractionEvent(tick int64, at time.Time, res systems.ClickResult) InteractionEvent {
	return InteractionEvent{
		Tick:       tick,
		At:         at.UTC().Format(time.RFC3339Nano),
		Action:     res.Action.String(),
		Target:     res.Target,
		URL:        res.URL,
		Distance:   res.Distance,
		Advanced:   res.Advanced,
		Expression: res.Expression,
		Clicks:     res.ClickCount,
	}
}
