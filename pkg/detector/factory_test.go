package detector

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func TestNew(t *testing.T) {
	detector, err := New()
	if err != nil {
		t.Logf("New() returned error (may be expected): %v", err)
		return
	}

	if detector == nil {
		t.Fatal("New() returned nil detector without error")
	}
	defer detector.Close()

	displayServer := detector.GetDisplayServer()
	t.Logf("Detected display server: %s", displayServer)

	if displayServer != "x11" && displayServer != "wayland" {
		t.Errorf("GetDisplayServer() = %s, want x11 or wayland", displayServer)
	}

	windowInfo, err := detector.GetFocusedWindow()
	if err != nil {
		t.Logf("GetFocusedWindow() error: %v", err)
	} else if windowInfo != nil {
		t.Logf("Current window: %s (%s)", windowInfo.WindowTitle, windowInfo.DisplayServer)
	}
}

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name           string
		sessionType    string
		waylandDisplay string
		x11Display     string
		expected       string
	}{
		{
			name:           "Wayland session",
			sessionType:    "wayland",
			waylandDisplay: "wayland-0",
			expected:       "wayland",
		},
		{
			name:        "X11 session",
			sessionType: "x11",
			x11Display:  ":0",
			expected:    "x11",
		},
		{
			name:     "Unknown session",
			expected: "unknown",
		},
		{
			name:           "Wayland display set",
			waylandDisplay: "wayland-1",
			expected:       "wayland",
		},
		{
			name:       "X11 display set",
			x11Display: ":1",
			expected:   "x11",
		},
		{
			name:           "XWayland display alongside wayland",
			waylandDisplay: "wayland-0",
			x11Display:     ":0",
			expected:       "wayland",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.waylandDisplay)
			t.Setenv("DISPLAY", tt.x11Display)

			if result := DetectDisplayServer(); result != tt.expected {
				t.Errorf("DetectDisplayServer() = %s, want %s", result, tt.expected)
			}
		})
	}
}

func TestNewWithUnsupportedSystem(t *testing.T) {
	t.Setenv("XDG_SESSION_TYPE", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("DISPLAY", "")

	detector, err := New()
	if detector != nil {
		t.Fatalf("New() = %v, want nil detector", detector)
	}
	if !errors.Is(err, ErrNoDisplayServer) {
		t.Errorf("New() error = %v, want ErrNoDisplayServer", err)
	}
}

func TestInputListeners(t *testing.T) {
	log := logrus.New()

	t.Setenv("DISPLAY", "")
	if got := InputListeners(0, log); len(got) != 0 {
		t.Errorf("InputListeners() without DISPLAY = %d listeners, want 0", len(got))
	}

	t.Setenv("DISPLAY", ":99")
	listeners := InputListeners(0, log)
	if len(listeners) != 2 {
		t.Fatalf("InputListeners() = %d listeners, want 2", len(listeners))
	}

	names := map[string]bool{}
	for _, l := range listeners {
		names[l.Name()] = true
	}
	for _, want := range []string{"x11-mouse", "x11-keyboard"} {
		if !names[want] {
			t.Errorf("missing listener %q", want)
		}
	}
}
