// Package session tracks the tmux windows the launcher has started, keyed by
// the stack component running in each. It supports liveness pruning via tmux
// list-panes and lives on the app model so it survives menu round-trips.
// The launcher never stops children itself; the tracker only reports what is
// still alive.
package session

import (
	"sync"
	"time"
)

// TrackedWindow holds metadata about one launched tmux window.
type TrackedWindow struct {
	PaneID    string       // tmux pane ID (e.g. "%42")
	Key       ComponentKey // component running in the window
	StartedAt time.Time    // when the window was registered
}

// LivenessChecker returns the set of currently live tmux pane IDs.
// In production this calls tmux.ListPaneIDs(); tests can inject a stub.
type LivenessChecker func() (map[string]bool, error)

// Tracker manages the mapping from components to launched windows.
// Safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	windows  map[ComponentKey][]TrackedWindow
	liveness LivenessChecker
}

// New creates a Tracker with the given liveness checker.
// If liveness is nil, Prune becomes a no-op.
func New(liveness LivenessChecker) *Tracker {
	return &Tracker{
		windows:  make(map[ComponentKey][]TrackedWindow),
		liveness: liveness,
	}
}

// Register adds a window to the tracker for the given component.
func (t *Tracker) Register(key ComponentKey, paneID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.windows[key] = append(t.windows[key], TrackedWindow{
		PaneID:    paneID,
		Key:       key,
		StartedAt: time.Now(),
	})
}

// WindowsFor returns tracked windows for a component key.
// Returns nil if none are tracked.
func (t *Tracker) WindowsFor(key ComponentKey) []TrackedWindow {
	t.mu.RLock()
	defer t.mu.RUnlock()
	windows := t.windows[key]
	if len(windows) == 0 {
		return nil
	}
	out := make([]TrackedWindow, len(windows))
	copy(out, windows)
	return out
}

// All returns all tracked windows across all components.
func (t *Tracker) All() []TrackedWindow {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []TrackedWindow
	for _, windows := range t.windows {
		out = append(out, windows...)
	}
	return out
}

// Count returns the total number of tracked windows.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, windows := range t.windows {
		n += len(windows)
	}
	return n
}

// Prune removes dead windows by checking liveness via tmux list-panes.
// Returns the number of windows pruned.
func (t *Tracker) Prune() (int, error) {
	if t.liveness == nil {
		return 0, nil
	}
	live, err := t.liveness()
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	pruned := 0
	for key, windows := range t.windows {
		var kept []TrackedWindow
		for _, w := range windows {
			if live[w.PaneID] {
				kept = append(kept, w)
			} else {
				pruned++
			}
		}
		if len(kept) == 0 {
			delete(t.windows, key)
		} else {
			t.windows[key] = kept
		}
	}
	return pruned, nil
}
