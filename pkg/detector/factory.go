package detector

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/actionpulse/actionpulse/pkg/input"
	"github.com/actionpulse/actionpulse/pkg/integrations/wayland"
	"github.com/actionpulse/actionpulse/pkg/integrations/x11"
	"github.com/actionpulse/actionpulse/pkg/window"
)

// ErrNoDisplayServer is returned when neither a Wayland compositor nor an X
// server can be queried for the focused window.
var ErrNoDisplayServer = errors.New("no supported display server detected")

// New returns the window detector for the current session. Wayland sessions
// fall back to XWayland when the compositor has no usable IPC tool.
func New() (window.Detector, error) {
	if DetectDisplayServer() == "wayland" {
		if det := wayland.NewDetector(); det.IsAvailable() {
			return det, nil
		}
	}

	if os.Getenv("DISPLAY") != "" {
		det := x11.NewDetector()
		if det.IsAvailable() {
			return det, nil
		}
		det.Close()
	}

	return nil, ErrNoDisplayServer
}

// DetectDisplayServer reports "wayland", "x11" or "unknown" from the session environment
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}

// InputListeners returns the global mouse and keyboard listeners available
// in this session. Only an X server (including XWayland) can be polled for
// input state; other sessions get no listeners.
func InputListeners(interval time.Duration, log logrus.FieldLogger) []input.Listener {
	if os.Getenv("DISPLAY") == "" {
		return nil
	}
	return []input.Listener{
		x11.NewMouseListener(interval, log),
		x11.NewKeyboardListener(interval, log),
	}
}
