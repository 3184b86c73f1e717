package progress

import (
	"testing"
	"time"
)

func TestChanEmitterSetsTimestamp(t *testing.T) {
	ch := make(chan Event, 1)
	e := &ChanEmitter{Ch: ch}

	e.Emit(Event{Step: "check python", Status: StatusOK})

	got := <-ch
	if got.Timestamp.IsZero() {
		t.Error("Emit should stamp zero timestamps")
	}
	if got.Step != "check python" || got.Status != StatusOK {
		t.Errorf("event = %+v", got)
	}
}

func TestChanEmitterPreservesTimestamp(t *testing.T) {
	ch := make(chan Event, 1)
	e := &ChanEmitter{Ch: ch}
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	e.Emit(Event{Step: "ping sis", Status: StatusWarn, Timestamp: ts})

	if got := <-ch; !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
}

func TestChanEmitterDropsWhenFull(t *testing.T) {
	ch := make(chan Event, 1)
	e := &ChanEmitter{Ch: ch}

	e.Emit(Event{Step: "one", Status: StatusRunning})
	// Channel is full; this must not block.
	done := make(chan struct{})
	go func() {
		e.Emit(Event{Step: "two", Status: StatusRunning})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on full channel")
	}

	if got := <-ch; got.Step != "one" {
		t.Errorf("kept event = %q, want the first", got.Step)
	}
}
