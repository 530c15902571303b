package window

import "strings"

// UnknownTitle is reported whenever the foreground window cannot be read
const UnknownTitle = "Unknown"

// WindowInfo represents information about the currently focused window
type WindowInfo struct {
	WindowTitle   string
	DisplayServer string // "x11" or "wayland"
}

// Detector is the interface that all window detection implementations must satisfy
type Detector interface {
	// GetFocusedWindow returns information about the currently focused window
	GetFocusedWindow() (*WindowInfo, error)

	// IsAvailable checks if this detector can run on the current system
	IsAvailable() bool

	// GetDisplayServer returns the display server type ("x11" or "wayland")
	GetDisplayServer() string

	// Close cleans up any resources used by the detector
	Close() error
}

// TitleSource adapts a Detector to the title-only view the tracker needs.
type TitleSource struct {
	Detector Detector
}

// ActiveTitle returns the focused window title, or UnknownTitle when there is
// no detector, the query fails or the title is blank. It never returns an error.
func (s TitleSource) ActiveTitle() string {
	return ActiveTitle(s.Detector)
}

// ActiveTitle is the functional form of TitleSource.ActiveTitle.
func ActiveTitle(d Detector) string {
	if d == nil {
		return UnknownTitle
	}
	info, err := d.GetFocusedWindow()
	if err != nil || info == nil {
		return UnknownTitle
	}
	if title := strings.TrimSpace(info.WindowTitle); title != "" {
		return title
	}
	return UnknownTitle
}
