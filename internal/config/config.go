package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/actionpulse/actionpulse/internal/privacy"
)

const appDir = ".config/actionpulse"

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig `yaml:"database"`

	// Tracker configuration
	Tracker TrackerConfig `yaml:"tracker"`

	// Privacy filter configuration
	Privacy PrivacyConfig `yaml:"privacy"`

	// Backend endpoints
	Backend BackendConfig `yaml:"backend"`

	// Auth token storage
	Auth AuthConfig `yaml:"auth"`

	// Input listener configuration
	Input InputConfig `yaml:"input"`

	// Daemon configuration
	Daemon DaemonConfig `yaml:"daemon"`

	// Local status API configuration
	Web WebConfig `yaml:"web"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// DatabaseConfig holds local journal configuration
type DatabaseConfig struct {
	Path      string        `yaml:"path"`      // Path to SQLite database file
	Retention time.Duration `yaml:"retention"` // How long journal rows are kept
}

// TrackerConfig holds classification and polling behaviour
type TrackerConfig struct {
	PollInterval        time.Duration `yaml:"poll_interval"`        // How often a status is computed and reported
	MinPollInterval     time.Duration `yaml:"-"`                    // Minimum allowed poll interval
	MaxPollInterval     time.Duration `yaml:"-"`                    // Maximum allowed poll interval
	IdleThreshold       time.Duration `yaml:"idle_threshold"`       // Time without input before Idle
	SuspiciousThreshold time.Duration `yaml:"suspicious_threshold"` // Time without clicks, keys and window changes before Suspicious
	RequireMouseMove    bool          `yaml:"require_mouse_move"`   // Suspicious also needs a mouse move in the same cycle
	SuspicionWindow     time.Duration `yaml:"suspicion_window"`     // Trailing window of the click history
	SuspicionMinSamples int           `yaml:"suspicion_min_samples"`
}

// PrivacyConfig holds the window title masking rules
type PrivacyConfig struct {
	Keywords    []string `yaml:"keywords"`
	Placeholder string   `yaml:"placeholder"`
}

// BackendConfig holds the remote endpoints the agent talks to
type BackendConfig struct {
	URL           string        `yaml:"url"`
	LoginPath     string        `yaml:"login_path"`
	ActivityPath  string        `yaml:"activity_path"`
	ReportTimeout time.Duration `yaml:"report_timeout"`
}

// AuthConfig holds token persistence and non-interactive login settings
type AuthConfig struct {
	TokenFile string `yaml:"token_file"`
	Email     string `yaml:"email"`
	Password  string `yaml:"-"` // only ever taken from the environment
}

// InputConfig holds input listener settings
type InputConfig struct {
	Enabled      bool          `yaml:"enabled"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string `yaml:"pid_file"` // Path to PID file for daemon management
}

// WebConfig holds local status API configuration
type WebConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"` // Host to bind web server to
	Port    int    `yaml:"port"` // Port for web server
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // Empty means stderr
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "", // Empty means use default ~/.config/actionpulse/actionpulse.db
			Retention: 7 * 24 * time.Hour,
		},
		Tracker: TrackerConfig{
			PollInterval:        60 * time.Second,
			MinPollInterval:     10 * time.Second,
			MaxPollInterval:     300 * time.Second,
			IdleThreshold:       5 * time.Minute,
			SuspiciousThreshold: 10 * time.Minute,
			RequireMouseMove:    false,
			SuspicionWindow:     10 * time.Minute,
			SuspicionMinSamples: 10,
		},
		Privacy: PrivacyConfig{
			Keywords:    append([]string(nil), privacy.DefaultKeywords...),
			Placeholder: privacy.DefaultPlaceholder,
		},
		Backend: BackendConfig{
			URL:           "http://localhost:5000",
			LoginPath:     "/api/auth/login",
			ActivityPath:  "/api/activity",
			ReportTimeout: 5 * time.Second,
		},
		Auth: AuthConfig{
			TokenFile: "", // Empty means ~/.config/actionpulse/agent_token.json
		},
		Input: InputConfig{
			Enabled:      true,
			PollInterval: 50 * time.Millisecond,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/actionpulse-%d.pid", os.Getuid()),
		},
		Web: WebConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    10000 + os.Getuid()%50000, // Default port based on user ID
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Tracker.PollInterval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Tracker.PollInterval, c.Tracker.MinPollInterval)
	}

	if c.Tracker.PollInterval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Tracker.PollInterval, c.Tracker.MaxPollInterval)
	}

	if c.Tracker.IdleThreshold <= 0 {
		return fmt.Errorf("idle threshold must be positive")
	}

	if c.Tracker.SuspiciousThreshold <= 0 {
		return fmt.Errorf("suspicious threshold must be positive")
	}

	if c.Tracker.SuspicionWindow <= 0 {
		return fmt.Errorf("suspicion window must be positive")
	}

	if c.Tracker.SuspicionMinSamples < 1 {
		return fmt.Errorf("suspicion min samples must be at least 1, got %d", c.Tracker.SuspicionMinSamples)
	}

	if !privacy.HasKeywords(c.Privacy.Keywords) {
		return fmt.Errorf("privacy keywords cannot be empty")
	}

	if c.Privacy.Placeholder == "" {
		return fmt.Errorf("privacy placeholder cannot be empty")
	}

	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("backend url must start with http:// or https://, got %q", c.Backend.URL)
	}

	if c.Backend.ReportTimeout <= 0 {
		return fmt.Errorf("report timeout must be positive")
	}

	if c.Input.PollInterval <= 0 {
		return fmt.Errorf("input poll interval must be positive")
	}

	// Validate web config
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	// Validate daemon config
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Tracker.MinPollInterval)
	}
	if interval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Tracker.MaxPollInterval)
	}
	c.Tracker.PollInterval = interval
	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// ActivityURL returns the full URL of the activity ingestion endpoint
func (c *Config) ActivityURL() string {
	return strings.TrimRight(c.Backend.URL, "/") + c.Backend.ActivityPath
}

// LoginURL returns the full URL of the authentication endpoint
func (c *Config) LoginURL() string {
	return strings.TrimRight(c.Backend.URL, "/") + c.Backend.LoginPath
}

// TokenFilePath returns the configured token file or the default under the user's config dir
func (c *Config) TokenFilePath() (string, error) {
	if c.Auth.TokenFile != "" {
		return c.Auth.TokenFile, nil
	}
	return defaultPath("agent_token.json")
}

func defaultPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, appDir, name), nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
    Retention: %v
  Tracker:
    Poll Interval: %v
    Idle Threshold: %v
    Suspicious Threshold: %v
    Require Mouse Move: %v
    Suspicion Window: %v (min samples %d)
  Privacy:
    Keywords: %s
  Backend:
    URL: %s
    Report Timeout: %v
  Input:
    Enabled: %v
    Poll Interval: %v
  Daemon:
    PID File: %s
  Web:
    Enabled: %v
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Database.Retention,
		c.Tracker.PollInterval,
		c.Tracker.IdleThreshold,
		c.Tracker.SuspiciousThreshold,
		c.Tracker.RequireMouseMove,
		c.Tracker.SuspicionWindow,
		c.Tracker.SuspicionMinSamples,
		strings.Join(c.Privacy.Keywords, ", "),
		c.Backend.URL,
		c.Backend.ReportTimeout,
		c.Input.Enabled,
		c.Input.PollInterval,
		c.Daemon.PIDFile,
		c.Web.Enabled,
		c.Web.Host,
		c.Web.Port,
	)
}
