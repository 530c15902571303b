package suspicion

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func TestFlagsAfterTenZeroSamples(t *testing.T) {
	d := New(DefaultWindow, DefaultMinSamples)

	for i := 0; i < 9; i++ {
		if d.Observe(0, t0.Add(time.Duration(i)*time.Minute)) {
			t.Fatalf("sample %d flagged suspicious, want false below min samples", i+1)
		}
	}
	if !d.Observe(0, t0.Add(9*time.Minute)) {
		t.Fatal("10th zero sample not flagged")
	}
}

func TestClickResetsUntilItAgesOut(t *testing.T) {
	d := New(DefaultWindow, DefaultMinSamples)
	now := t0

	for i := 0; i < 10; i++ {
		d.Observe(0, now)
		now = now.Add(time.Minute)
	}

	clickAt := now
	if d.Observe(3, clickAt) {
		t.Fatal("sample with clicks flagged suspicious")
	}

	// zero samples keep failing while the click is inside the window
	for now = clickAt.Add(time.Minute); !now.After(clickAt.Add(DefaultWindow)); now = now.Add(time.Minute) {
		if d.Observe(0, now) {
			t.Fatalf("flagged at %v with a click inside the window", now.Sub(t0))
		}
	}

	// the click has aged out and more than ten zero samples are retained
	if !d.Observe(0, now) {
		t.Fatalf("not flagged at %v after the click aged out (len %d)", now.Sub(t0), d.Len())
	}
}

func TestPurgeBoundsHistory(t *testing.T) {
	d := New(DefaultWindow, DefaultMinSamples)
	for i := 0; i < 1000; i++ {
		d.Observe(1, t0.Add(time.Duration(i)*time.Minute))
	}
	// samples at now-10m..now inclusive
	if d.Len() != 11 {
		t.Fatalf("Len() = %d, want 11", d.Len())
	}
}

func TestSparseSamplesNeverFlag(t *testing.T) {
	d := New(DefaultWindow, DefaultMinSamples)
	// one sample every 5 minutes never accumulates ten inside the window
	for i := 0; i < 50; i++ {
		if d.Observe(0, t0.Add(time.Duration(i)*5*time.Minute)) {
			t.Fatalf("flagged at sample %d with only %d retained", i, d.Len())
		}
	}
}

func TestNegativeClicksClamped(t *testing.T) {
	d := New(DefaultWindow, 2)
	d.Observe(-5, t0)
	if !d.Observe(0, t0.Add(time.Minute)) {
		t.Fatal("negative count should count as zero clicks")
	}
}

func TestDefaultsForInvalidArguments(t *testing.T) {
	d := New(0, -1)
	if d.window != DefaultWindow || d.minSamples != DefaultMinSamples {
		t.Fatalf("New(0, -1) = window %v min %d", d.window, d.minSamples)
	}
}
