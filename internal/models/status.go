package models

// Status is the per-cycle classification of the user's activity.
type Status string

const (
	StatusActive     Status = "Active"
	StatusIdle       Status = "Idle"
	StatusSuspicious Status = "Suspicious"
)

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the statuses the backend accepts.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusIdle, StatusSuspicious:
		return true
	}
	return false
}

// StatusResult is the payload posted to the activity endpoint every cycle.
type StatusResult struct {
	Status      Status `json:"status"`
	WindowTitle string `json:"windowTitle"`
	IsPrivate   bool   `json:"isPrivate"`
}
