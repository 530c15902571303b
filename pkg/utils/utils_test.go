package utils

import (
	"testing"
	"time"
)

func TestFormatRoundedUnit(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Millisecond, "1s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m"},
		{5*time.Minute + time.Second, "5m"},
		{59 * time.Minute, "59m"},
		{time.Hour, "1h"},
		{26 * time.Hour, "26h"},
		{-90 * time.Second, "1m"},
	}

	for _, tt := range tests {
		if got := FormatRoundedUnit(tt.in); got != tt.want {
			t.Errorf("FormatRoundedUnit(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
