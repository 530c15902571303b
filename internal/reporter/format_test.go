package reporter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/actionpulse/actionpulse/internal/models"
)

func TestFormatRecordsTextEmpty(t *testing.T) {
	if got := FormatRecordsText(nil); got != "No reports recorded yet.\n" {
		t.Errorf("FormatRecordsText(nil) = %q", got)
	}
}

func TestFormatRecordsText(t *testing.T) {
	records := []*models.ReportRecord{
		{Timestamp: time.Now(), Status: "Suspicious", WindowTitle: strings.Repeat("x", 60), Delivered: false},
		{Timestamp: time.Now(), Status: "Active", WindowTitle: "Private Activity", Delivered: true},
	}

	out := FormatRecordsText(records)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[2], "Suspicious") || !strings.Contains(lines[2], " no ") {
		t.Errorf("row 1 = %q", lines[2])
	}
	if !strings.Contains(lines[2], strings.Repeat("x", 37)+"...") {
		t.Errorf("long title not truncated: %q", lines[2])
	}
	if !strings.Contains(lines[3], "Private Activity") || !strings.Contains(lines[3], " yes ") {
		t.Errorf("row 2 = %q", lines[3])
	}
}

func TestFormatRecordsJSON(t *testing.T) {
	out, err := FormatRecordsJSON(nil)
	if err != nil {
		t.Fatalf("FormatRecordsJSON() error: %v", err)
	}
	if out != "[]" {
		t.Errorf("FormatRecordsJSON(nil) = %q, want []", out)
	}

	out, err = FormatRecordsJSON([]*models.ReportRecord{{Status: "Idle", WindowTitle: "Unknown"}})
	if err != nil {
		t.Fatalf("FormatRecordsJSON() error: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded[0]["status"] != "Idle" {
		t.Errorf("status = %v", decoded[0]["status"])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("abcdefghij", 8); got != "abcde..." {
		t.Errorf("truncate() = %q", got)
	}
}
