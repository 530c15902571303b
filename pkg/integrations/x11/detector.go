package x11

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/actionpulse/actionpulse/pkg/window"
)

// Detector implements window.Detector for X11. It speaks the X protocol
// directly and falls back to xdotool when the connection cannot be made.
type Detector struct {
	client     *client
	clientErr  error
	hasXdotool bool
}

// NewDetector creates a new X11 detector
func NewDetector() *Detector {
	d := &Detector{}
	d.client, d.clientErr = newClient()
	d.hasXdotool = d.commandExists("xdotool")
	return d
}

// commandExists checks if a command is available in PATH
func (d *Detector) commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// IsAvailable checks if X11 detection is available
func (d *Detector) IsAvailable() bool {
	return d.client != nil || d.hasXdotool
}

// GetDisplayServer returns "x11"
func (d *Detector) GetDisplayServer() string {
	return "x11"
}

// GetFocusedWindow returns information about the currently focused window
func (d *Detector) GetFocusedWindow() (*window.WindowInfo, error) {
	if d.client != nil {
		info, err := d.getFocusedWindowXgb()
		if err == nil || !d.hasXdotool {
			return info, err
		}
	}
	if d.hasXdotool {
		return d.getFocusedWindowXdotool()
	}
	return nil, fmt.Errorf("no X11 detection method available: %v", d.clientErr)
}

func (d *Detector) getFocusedWindowXgb() (*window.WindowInfo, error) {
	win, err := d.client.activeWindow()
	if err != nil {
		return nil, err
	}

	return &window.WindowInfo{
		WindowTitle:   d.client.windowName(win),
		DisplayServer: "x11",
	}, nil
}

// getFocusedWindowXdotool uses xdotool to get focused window info
func (d *Detector) getFocusedWindowXdotool() (*window.WindowInfo, error) {
	windowIDOutput, err := exec.Command("xdotool", "getactivewindow").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get active x11 window ID: %w", err)
	}

	windowID := strings.TrimSpace(string(windowIDOutput))

	windowNameOutput, err := exec.Command("xdotool", "getwindowname", windowID).Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get window name: %w", err)
	}

	return &window.WindowInfo{
		WindowTitle:   strings.TrimSpace(string(windowNameOutput)),
		DisplayServer: "x11",
	}, nil
}

// Close cleans up resources
func (d *Detector) Close() error {
	if d.client != nil {
		d.client.close()
		d.client = nil
	}
	return nil
}
