// Package activity accumulates raw input events between tracker cycles.
package activity

import (
	"sync"
	"time"
)

// EventKind tags a raw input event.
type EventKind string

const (
	MouseMove  EventKind = "mouse_move"
	MouseClick EventKind = "mouse_click"
	KeyPress   EventKind = "key_press"
)

// Event is a single raw input event produced by an input listener.
type Event struct {
	Kind EventKind
	At   time.Time
}

// Snapshot holds the flags accumulated since the previous snapshot.
type Snapshot struct {
	MouseMoved   bool
	MouseClicked bool
	KeyPressed   bool

	// Clicks counts click events in the interval.
	Clicks int

	// LastEventAt is the time of the newest event in the interval, zero if none.
	LastEventAt time.Time
}

// Any reports whether any input was observed in the interval.
func (s Snapshot) Any() bool {
	return s.MouseMoved || s.MouseClicked || s.KeyPressed
}

// Aggregator collects events from listener goroutines and hands them to the
// tracker loop with read-and-clear semantics. It implements input.Handler.
type Aggregator struct {
	mu      sync.Mutex
	pending Snapshot
	now     func() time.Time
	observe func(EventKind)
}

// NewAggregator returns an empty Aggregator using the wall clock.
func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// SetClock replaces the clock used to timestamp callback events. It must be
// called before listeners start.
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
}

// OnEvent registers a hook called after every recorded event, outside the lock.
// It must be set before listeners start.
func (a *Aggregator) OnEvent(fn func(EventKind)) {
	a.observe = fn
}

// RecordEvent marks the flag matching ev. Unknown kinds are ignored.
func (a *Aggregator) RecordEvent(ev Event) {
	a.mu.Lock()
	switch ev.Kind {
	case MouseMove:
		a.pending.MouseMoved = true
	case MouseClick:
		a.pending.MouseClicked = true
		a.pending.Clicks++
	case KeyPress:
		a.pending.KeyPressed = true
	default:
		a.mu.Unlock()
		return
	}
	if ev.At.After(a.pending.LastEventAt) {
		a.pending.LastEventAt = ev.At
	}
	a.mu.Unlock()

	if a.observe != nil {
		a.observe(ev.Kind)
	}
}

// TakeSnapshot returns the accumulated flags and clears them in the same
// critical section.
func (a *Aggregator) TakeSnapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := a.pending
	a.pending = Snapshot{}
	return snap
}

// OnMouseMove records a pointer movement.
func (a *Aggregator) OnMouseMove() {
	a.RecordEvent(Event{Kind: MouseMove, At: a.now()})
}

// OnMouseClick records a button press. Releases are not clicks.
func (a *Aggregator) OnMouseClick(pressed bool) {
	if !pressed {
		return
	}
	a.RecordEvent(Event{Kind: MouseClick, At: a.now()})
}

// OnKeyPress records a key going down.
func (a *Aggregator) OnKeyPress() {
	a.RecordEvent(Event{Kind: KeyPress, At: a.now()})
}
