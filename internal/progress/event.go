// Package progress defines the step event contract between the launch
// runner and the UI. Events are emitted over a channel; the emitter never
// blocks the runner.
package progress

import "time"

// Status indicates the state of a launch step.
type Status string

const (
	StatusRunning Status = "running"
	StatusOK      Status = "ok"
	StatusWarn    Status = "warn"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Event describes one step transition during a startup sequence.
type Event struct {
	Step      string // step name, e.g. "start fault receiver"
	Message   string // human-readable detail (warning text, script output tail)
	Status    Status
	Timestamp time.Time
}

// Emitter receives step events from the launch runner.
type Emitter interface {
	Emit(ev Event)
}

// ChanEmitter emits events to a channel for the UI to consume.
type ChanEmitter struct {
	Ch chan<- Event
}

// Emit sends the event to the channel (non-blocking; drops if full).
func (e *ChanEmitter) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	select {
	case e.Ch <- ev:
	default:
		// Channel full; drop rather than stall the startup sequence
	}
}

// NopEmitter discards all events. Used when no UI is attached.
type NopEmitter struct{}

// Emit implements Emitter.
func (NopEmitter) Emit(Event) {}
