// Package suspicion flags jiggler-like input: a sustained run of polling
// cycles in which the mouse was never clicked.
package suspicion

import "time"

const (
	DefaultWindow     = 10 * time.Minute
	DefaultMinSamples = 10
)

type sample struct {
	at     time.Time
	clicks int
}

// Detector keeps the click history of the trailing window. It is not safe for
// concurrent use; the tracker loop owns it.
type Detector struct {
	window     time.Duration
	minSamples int
	history    []sample
}

// New returns a Detector. Non-positive arguments fall back to the defaults.
func New(window time.Duration, minSamples int) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}
	return &Detector{window: window, minSamples: minSamples}
}

// Observe appends a sample, drops samples older than now-window and reports
// whether the retained history is long enough and holds no clicks at all.
func (d *Detector) Observe(clicks int, now time.Time) bool {
	if clicks < 0 {
		clicks = 0
	}
	d.history = append(d.history, sample{at: now, clicks: clicks})
	d.purge(now)

	if len(d.history) < d.minSamples {
		return false
	}
	for _, s := range d.history {
		if s.clicks != 0 {
			return false
		}
	}
	return true
}

// Len returns the number of retained samples.
func (d *Detector) Len() int {
	return len(d.history)
}

func (d *Detector) purge(now time.Time) {
	cutoff := now.Add(-d.window)
	keep := d.history[:0]
	for _, s := range d.history {
		if !s.at.Before(cutoff) {
			keep = append(keep, s)
		}
	}
	// release the tail so purged samples do not pin the backing array
	for i := len(keep); i < len(d.history); i++ {
		d.history[i] = sample{}
	}
	d.history = keep
}
