// Package frame schedules the per-frame tick on a host frame-pacing primitive.
package frame

import "time"

// FrameID identifies a requested frame. Zero means none.
type FrameID uint64

// Callback runs once when the host presents a frame.
type Callback func(now time.Time)

// Host is the frame-pacing primitive: a callback requested for the next
// frame runs once, unless it is cancelled first.
type Host interface {
	RequestFrame(cb Callback) FrameID
	CancelFrame(id FrameID)
}

// Scheduler runs a tick function once per host frame.
// Start cancels any pending frame before scheduling, so at most one
// loop is ever live. Stop is idempotent.
type Scheduler struct {
	host    Host
	tick    Callback
	pending FrameID
	ticks   uint64
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(host Host, tick Callback) *Scheduler {
	return &Scheduler{host: host, tick: tick}
}

// Start begins (or restarts) the frame loop.
func (s *Scheduler) Start() {
	s.Stop()
	s.pending = s.host.RequestFrame(s.frame)
}

// Stop cancels the pending frame, if any.
func (s *Scheduler) Stop() {
	if s.pending == 0 {
		return
	}
	s.host.CancelFrame(s.pending)
	s.pending = 0
}

// Running reports whether a frame is scheduled.
func (s *Scheduler) Running() bool {
	return s.pending != 0
}

// Ticks returns the number of ticks run since creation.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

func (s *Scheduler) frame(now time.Time) {
	// Request the next frame first so a tick that stops the loop wins.
	s.pending = s.host.RequestFrame(s.frame)
	s.ticks++
	s.tick(now)
}

// ManualHost is a Host whose frames are presented by calling Pump.
// It backs both the window loop and headless runs.
type ManualHost struct {
	next    FrameID
	pending map[FrameID]Callback
	order   []FrameID
}

// NewManualHost creates an empty host.
func NewManualHost() *ManualHost {
	return &ManualHost{pending: make(map[FrameID]Callback)}
}

// RequestFrame implements Host.
func (h *ManualHost) RequestFrame(cb Callback) FrameID {
	h.next++
	h.pending[h.next] = cb
	h.order = append(h.order, h.next)
	return h.next
}

// CancelFrame implements Host. Unknown or already-run ids are ignored.
func (h *ManualHost) CancelFrame(id FrameID) {
	delete(h.pending, id)
}

// Pending returns the number of callbacks waiting for the next frame.
func (h *ManualHost) Pending() int {
	return len(h.pending)
}

// Pump presents one frame: every callback requested before the call runs
// once, in request order. Callbacks requested during the pump wait for the
// next one. Returns the number of callbacks run.
func (h *ManualHost) Pump(now time.Time) int {
	batch := h.order
	h.order = nil

	ran := 0
	for _, id := range batch {
		cb, ok := h.pending[id]
		if !ok {
			continue
		}
		delete(h.pending, id)
		cb(now)
		ran++
	}
	return ran
}
