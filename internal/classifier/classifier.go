// Package classifier turns per-cycle activity snapshots into a status.
//
// Only the timers survive between cycles; the status itself is recomputed
// from scratch on every call to Classify.
package classifier

import (
	"time"

	"github.com/actionpulse/actionpulse/internal/activity"
	"github.com/actionpulse/actionpulse/internal/models"
)

const (
	DefaultIdleThreshold       = 5 * time.Minute
	DefaultSuspiciousThreshold = 10 * time.Minute
)

// Policy holds the thresholds that drive classification.
type Policy struct {
	IdleThreshold       time.Duration
	SuspiciousThreshold time.Duration

	// RequireMouseMove makes Suspicious additionally depend on a mouse move
	// in the current cycle.
	RequireMouseMove bool
}

// DefaultPolicy returns the stock thresholds with the mouse move requirement off.
func DefaultPolicy() Policy {
	return Policy{
		IdleThreshold:       DefaultIdleThreshold,
		SuspiciousThreshold: DefaultSuspiciousThreshold,
	}
}

// WindowObservation is the privacy-filtered foreground window of one cycle.
type WindowObservation struct {
	Title      string
	IsPrivate  bool
	ObservedAt time.Time
}

// Timers records when each signal last fired. Timestamps only move forward.
type Timers struct {
	LastRealInput    time.Time
	LastClick        time.Time
	LastKeyPress     time.Time
	LastWindowChange time.Time
	LastWindowTitle  string
}

// Classifier is owned by the tracker loop and is not safe for concurrent use.
type Classifier struct {
	policy Policy
	timers Timers
}

// New returns a Classifier whose timers all start at start, so the first
// cycle classifies as Active.
func New(policy Policy, start time.Time) *Classifier {
	if policy.IdleThreshold <= 0 {
		policy.IdleThreshold = DefaultIdleThreshold
	}
	if policy.SuspiciousThreshold <= 0 {
		policy.SuspiciousThreshold = DefaultSuspiciousThreshold
	}
	return &Classifier{
		policy: policy,
		timers: Timers{
			LastRealInput:    start,
			LastClick:        start,
			LastKeyPress:     start,
			LastWindowChange: start,
		},
	}
}

// Timers returns a copy of the current timers.
func (c *Classifier) Timers() Timers {
	return c.timers
}

// Policy returns the active policy.
func (c *Classifier) Policy() Policy {
	return c.policy
}

// Classify advances the timers with this cycle's signals and returns the
// status. Rules are evaluated in order: Idle, then Suspicious, then Active.
func (c *Classifier) Classify(snap activity.Snapshot, win WindowObservation, now time.Time) models.Status {
	if snap.Any() {
		advance(&c.timers.LastRealInput, now)
	}
	if snap.MouseClicked {
		advance(&c.timers.LastClick, now)
	}
	if snap.KeyPressed {
		advance(&c.timers.LastKeyPress, now)
	}
	if win.Title != c.timers.LastWindowTitle {
		advance(&c.timers.LastWindowChange, now)
		c.timers.LastWindowTitle = win.Title
	}

	if now.Sub(c.timers.LastRealInput) > c.policy.IdleThreshold {
		return models.StatusIdle
	}

	if c.quiet(now) && (!c.policy.RequireMouseMove || snap.MouseMoved) {
		return models.StatusSuspicious
	}

	return models.StatusActive
}

// IdleFor returns how long ago the last real input was seen.
func (c *Classifier) IdleFor(now time.Time) time.Duration {
	if d := now.Sub(c.timers.LastRealInput); d > 0 {
		return d
	}
	return 0
}

// quiet reports whether clicks, key presses and window changes have all been
// absent for longer than the suspicious threshold.
func (c *Classifier) quiet(now time.Time) bool {
	limit := c.policy.SuspiciousThreshold
	return now.Sub(c.timers.LastClick) > limit &&
		now.Sub(c.timers.LastKeyPress) > limit &&
		now.Sub(c.timers.LastWindowChange) > limit
}

func advance(t *time.Time, now time.Time) {
	if now.After(*t) {
		*t = now
	}
}

// Resolve folds the suspicion detector's verdict into a classifier status. A
// detector hit wins over whatever the timers said.
func Resolve(status models.Status, suspicious bool) models.Status {
	if suspicious {
		return models.StatusSuspicious
	}
	return status
}
