package reporter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/actionpulse/actionpulse/internal/models"
)

// FormatRecordsText renders journal records as a table, newest first.
func FormatRecordsText(records []*models.ReportRecord) string {
	if len(records) == 0 {
		return "No reports recorded yet.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-19s %-10s %-9s %-40s\n", "Time", "Status", "Delivered", "Window")
	b.WriteString(strings.Repeat("-", 80) + "\n")

	for _, rec := range records {
		delivered := "yes"
		if !rec.Delivered {
			delivered = "no"
		}
		fmt.Fprintf(&b, "%-19s %-10s %-9s %-40s\n",
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
			rec.Status,
			delivered,
			truncate(rec.WindowTitle, 40))
	}

	return b.String()
}

// FormatRecordsJSON renders journal records as indented JSON
func FormatRecordsJSON(records []*models.ReportRecord) (string, error) {
	if records == nil {
		records = []*models.ReportRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal JSON")
	}
	return string(data), nil
}

// truncate shortens s to maxLen runes, marking the cut with "..."
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
