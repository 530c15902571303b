package wayland

import (
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/actionpulse/actionpulse/pkg/window"
)

// Detector implements window.Detector for Wayland compositors that expose
// the focused window through their own IPC tool.
type Detector struct {
	compositor string
	hasSwaymsg bool
	hasHyprctl bool
	hasGdbus   bool
}

// NewDetector creates a new Wayland detector
func NewDetector() *Detector {
	d := &Detector{}
	d.hasSwaymsg = d.commandExists("swaymsg")
	d.hasHyprctl = d.commandExists("hyprctl")
	d.hasGdbus = d.commandExists("gdbus")
	d.compositor = detectCompositor()
	return d
}

// commandExists checks if a command is available in PATH
func (d *Detector) commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// detectCompositor prefers the session's own hints and only then scans
// the process table.
func detectCompositor() string {
	if os.Getenv("SWAYSOCK") != "" {
		return "sway"
	}
	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return "hyprland"
	}
	if name := compositorFromDesktop(os.Getenv("XDG_CURRENT_DESKTOP")); name != "" {
		return name
	}

	processes := []struct{ process, name string }{
		{"sway", "sway"},
		{"Hyprland", "hyprland"},
		{"gnome-shell", "gnome"},
		{"kwin_wayland", "kde"},
	}
	for _, p := range processes {
		if err := exec.Command("pgrep", "-x", p.process).Run(); err == nil {
			return p.name
		}
	}
	return "unknown"
}

func compositorFromDesktop(desktop string) string {
	desktop = strings.ToLower(desktop)
	switch {
	case strings.Contains(desktop, "sway"):
		return "sway"
	case strings.Contains(desktop, "hyprland"):
		return "hyprland"
	case strings.Contains(desktop, "gnome"):
		return "gnome"
	case strings.Contains(desktop, "kde"):
		return "kde"
	default:
		return ""
	}
}

// Compositor returns the detected compositor name
func (d *Detector) Compositor() string {
	return d.compositor
}

// IsAvailable checks if Wayland detection is available
func (d *Detector) IsAvailable() bool {
	switch d.compositor {
	case "sway":
		return d.hasSwaymsg
	case "hyprland":
		return d.hasHyprctl
	case "gnome":
		return d.hasGdbus
	case "kde":
		return d.commandExists("qdbus")
	default:
		return false
	}
}

// GetDisplayServer returns "wayland"
func (d *Detector) GetDisplayServer() string {
	return "wayland"
}

// GetFocusedWindow returns information about the currently focused window
func (d *Detector) GetFocusedWindow() (*window.WindowInfo, error) {
	var (
		info *window.WindowInfo
		err  error
	)
	switch d.compositor {
	case "sway":
		info, err = d.getFocusedWindowSway()
	case "hyprland":
		info, err = d.getFocusedWindowHyprland()
	case "gnome":
		info, err = d.getFocusedWindowGnome()
	case "kde":
		info, err = d.getFocusedWindowKDE()
	default:
		return nil, errors.Errorf("unsupported wayland compositor: %s", d.compositor)
	}
	if err != nil {
		return nil, err
	}
	info.DisplayServer = "wayland"
	return info, nil
}

func (d *Detector) getFocusedWindowSway() (*window.WindowInfo, error) {
	output, err := exec.Command("swaymsg", "-t", "get_tree").Output()
	if err != nil {
		return nil, errors.Wrap(err, "execute swaymsg")
	}
	return parseSwayTree(output)
}

type swayNode struct {
	Focused       bool       `json:"focused"`
	Name          string     `json:"name"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

func (n *swayNode) focused() *swayNode {
	if n.Focused {
		return n
	}
	for i := range n.Nodes {
		if f := n.Nodes[i].focused(); f != nil {
			return f
		}
	}
	for i := range n.FloatingNodes {
		if f := n.FloatingNodes[i].focused(); f != nil {
			return f
		}
	}
	return nil
}

// parseSwayTree walks the swaymsg get_tree document to the focused node
func parseSwayTree(raw []byte) (*window.WindowInfo, error) {
	var root swayNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, errors.Wrap(err, "parse sway tree")
	}

	node := root.focused()
	if node == nil {
		return nil, errors.New("sway reports no focused window")
	}

	return newWindowInfo(node.Name), nil
}

func (d *Detector) getFocusedWindowHyprland() (*window.WindowInfo, error) {
	output, err := exec.Command("hyprctl", "activewindow", "-j").Output()
	if err != nil {
		return nil, errors.Wrap(err, "execute hyprctl")
	}
	return parseHyprlandWindow(output)
}

// parseHyprlandWindow parses the hyprctl activewindow JSON document
func parseHyprlandWindow(raw []byte) (*window.WindowInfo, error) {
	var win struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(raw, &win); err != nil {
		return nil, errors.Wrap(err, "parse hyprland window")
	}
	return newWindowInfo(win.Title), nil
}

const gnomeScript = `
try {
	let win = global.get_window_actors().find(w => w.meta_window && w.meta_window.has_focus());
	if (win && win.meta_window) {
		(win.meta_window.get_wm_class() || '') + '|||' + (win.meta_window.get_title() || '');
	} else {
		'|||';
	}
} catch(e) {
	'|||';
}
`

// getFocusedWindowGnome asks GNOME Shell over D-Bus. Recent releases block
// Shell.Eval, in which case the error is returned to the caller.
func (d *Detector) getFocusedWindowGnome() (*window.WindowInfo, error) {
	output, err := exec.Command("gdbus", "call", "--session",
		"--dest", "org.gnome.Shell",
		"--object-path", "/org/gnome/Shell",
		"--method", "org.gnome.Shell.Eval",
		gnomeScript).Output()
	if err != nil {
		return nil, errors.Wrap(err, "execute gdbus")
	}
	return parseGnomeEval(string(output))
}

// parseGnomeEval parses output like (true, 'AppName|||WindowTitle')
func parseGnomeEval(output string) (*window.WindowInfo, error) {
	result := strings.TrimSpace(output)
	if !strings.HasPrefix(result, "(true,") {
		return nil, errors.New("gnome shell eval is disabled")
	}

	result = strings.TrimPrefix(result, "(true,")
	result = strings.TrimSpace(result)
	result = strings.TrimSuffix(result, ")")
	result = strings.Trim(result, `'"`)

	title := ""
	if _, after, ok := strings.Cut(result, "|||"); ok {
		title = after
	}
	return newWindowInfo(title), nil
}

const kdeScript = `
var clients = workspace.clientList();
for (var i = 0; i < clients.length; i++) {
	if (clients[i].active) {
		print(clients[i].resourceClass + "|" + clients[i].caption);
	}
}
`

func (d *Detector) getFocusedWindowKDE() (*window.WindowInfo, error) {
	output, err := exec.Command("qdbus", "org.kde.KWin", "/Scripting",
		"org.kde.kwin.Scripting.loadScript", kdeScript).Output()
	if err != nil {
		return nil, errors.Wrap(err, "query kwin")
	}

	title := ""
	if _, after, ok := strings.Cut(strings.TrimSpace(string(output)), "|"); ok {
		title = after
	}
	return newWindowInfo(title), nil
}

func newWindowInfo(title string) *window.WindowInfo {
	if strings.TrimSpace(title) == "" {
		title = window.UnknownTitle
	}
	return &window.WindowInfo{WindowTitle: title}
}

// Close cleans up resources
func (d *Detector) Close() error {
	return nil
}
