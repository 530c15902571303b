package wayland

import (
	"testing"

	"github.com/actionpulse/actionpulse/pkg/window"
)

func TestNewDetector(t *testing.T) {
	detector := NewDetector()
	if detector == nil {
		t.Fatal("NewDetector() returned nil")
	}

	t.Logf("Detected compositor: %s", detector.Compositor())
}

func TestGetDisplayServer(t *testing.T) {
	detector := NewDetector()
	if got := detector.GetDisplayServer(); got != "wayland" {
		t.Errorf("GetDisplayServer() = %s, want wayland", got)
	}
}

func TestCompositorFromDesktop(t *testing.T) {
	tests := []struct {
		desktop string
		want    string
	}{
		{"sway", "sway"},
		{"Hyprland", "hyprland"},
		{"ubuntu:GNOME", "gnome"},
		{"KDE", "kde"},
		{"XFCE", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.desktop, func(t *testing.T) {
			if got := compositorFromDesktop(tt.desktop); got != tt.want {
				t.Errorf("compositorFromDesktop(%q) = %q, want %q", tt.desktop, got, tt.want)
			}
		})
	}
}

func TestUnknownCompositor(t *testing.T) {
	detector := &Detector{compositor: "unknown"}

	if detector.IsAvailable() {
		t.Error("IsAvailable() = true for unknown compositor")
	}
	if _, err := detector.GetFocusedWindow(); err == nil {
		t.Error("GetFocusedWindow() expected error for unknown compositor")
	}
	if got := window.ActiveTitle(detector); got != window.UnknownTitle {
		t.Errorf("ActiveTitle() = %q, want %q", got, window.UnknownTitle)
	}
}

func TestParseSwayTree(t *testing.T) {
	sample := []byte(`{
		"id": 1,
		"name": "root",
		"focused": false,
		"nodes": [
			{
				"id": 2,
				"name": "eDP-1",
				"nodes": [
					{"id": 3, "name": "Terminal", "app_id": "foot", "focused": false},
					{"id": 4, "name": "Mozilla Firefox", "app_id": "firefox", "focused": true}
				]
			}
		]
	}`)

	info, err := parseSwayTree(sample)
	if err != nil {
		t.Fatalf("parseSwayTree() error: %v", err)
	}
	if info.WindowTitle != "Mozilla Firefox" {
		t.Errorf("WindowTitle = %s, want Mozilla Firefox", info.WindowTitle)
	}
}

func TestParseSwayTreeFloatingXWayland(t *testing.T) {
	sample := []byte(`{
		"nodes": [{
			"floating_nodes": [
				{"name": "Online Banking", "focused": true, "window_properties": {"class": "Chromium"}}
			]
		}]
	}`)

	info, err := parseSwayTree(sample)
	if err != nil {
		t.Fatalf("parseSwayTree() error: %v", err)
	}
	if info.WindowTitle != "Online Banking" {
		t.Errorf("WindowTitle = %s, want Online Banking", info.WindowTitle)
	}
}

func TestParseSwayTreeErrors(t *testing.T) {
	if _, err := parseSwayTree([]byte(`{"nodes": []}`)); err == nil {
		t.Error("expected error when nothing is focused")
	}
	if _, err := parseSwayTree([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed output")
	}
}

func TestParseHyprlandWindow(t *testing.T) {
	sample := []byte(`{
		"class": "kitty",
		"title": "Terminal Window",
		"pid": 0
	}`)

	info, err := parseHyprlandWindow(sample)
	if err != nil {
		t.Fatalf("parseHyprlandWindow() error: %v", err)
	}
	if info.WindowTitle != "Terminal Window" {
		t.Errorf("WindowTitle = %s, want Terminal Window", info.WindowTitle)
	}
}

func TestParseHyprlandEmptyWindow(t *testing.T) {
	info, err := parseHyprlandWindow([]byte(`{}`))
	if err != nil {
		t.Fatalf("parseHyprlandWindow() error: %v", err)
	}
	if info.WindowTitle != window.UnknownTitle {
		t.Errorf("WindowTitle = %q, want %q", info.WindowTitle, window.UnknownTitle)
	}
}

func TestParseGnomeEval(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		wantTitle string
		wantErr   bool
	}{
		{
			name:      "focused window",
			output:    "(true, 'org.gnome.Nautilus|||Home')\n",
			wantTitle: "Home",
		},
		{
			name:      "separator in title",
			output:    "(true, 'kitty|||build ||| logs')",
			wantTitle: "build ||| logs",
		},
		{
			name:      "nothing focused",
			output:    "(true, '|||')",
			wantTitle: window.UnknownTitle,
		},
		{
			name:    "eval disabled",
			output:  "(false, '')",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parseGnomeEval(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseGnomeEval() error: %v", err)
			}
			if info.WindowTitle != tt.wantTitle {
				t.Errorf("WindowTitle = %q, want %q", info.WindowTitle, tt.wantTitle)
			}
		})
	}
}

func TestClose(t *testing.T) {
	detector := NewDetector()
	if err := detector.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestDetectorInterface(t *testing.T) {
	var _ window.Detector = (*Detector)(nil)
}
