package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override file and default values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("ACTIONPULSE_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Tracker configuration
	if pollInterval := os.Getenv("ACTIONPULSE_POLL_INTERVAL"); pollInterval != "" {
		if seconds, err := strconv.Atoi(pollInterval); err == nil && seconds > 0 {
			interval := time.Duration(seconds) * time.Second
			if interval >= cfg.Tracker.MinPollInterval && interval <= cfg.Tracker.MaxPollInterval {
				cfg.Tracker.PollInterval = interval
			}
		}
	}

	if idleThreshold := os.Getenv("ACTIONPULSE_IDLE_THRESHOLD"); idleThreshold != "" {
		if seconds, err := strconv.Atoi(idleThreshold); err == nil && seconds > 0 {
			cfg.Tracker.IdleThreshold = time.Duration(seconds) * time.Second
		}
	}

	if threshold := os.Getenv("ACTIONPULSE_SUSPICIOUS_THRESHOLD"); threshold != "" {
		if seconds, err := strconv.Atoi(threshold); err == nil && seconds > 0 {
			cfg.Tracker.SuspiciousThreshold = time.Duration(seconds) * time.Second
		}
	}

	if requireMove := os.Getenv("ACTIONPULSE_REQUIRE_MOUSE_MOVE"); requireMove != "" {
		if val, err := strconv.ParseBool(requireMove); err == nil {
			cfg.Tracker.RequireMouseMove = val
		}
	}

	// Privacy configuration
	if keywords := os.Getenv("ACTIONPULSE_PRIVATE_KEYWORDS"); keywords != "" {
		if parsed := splitList(keywords); len(parsed) > 0 {
			cfg.Privacy.Keywords = parsed
		}
	}

	// Backend configuration
	if backendURL := os.Getenv("ACTIONPULSE_BACKEND_URL"); backendURL != "" {
		cfg.Backend.URL = backendURL
	}

	if timeout := os.Getenv("ACTIONPULSE_REPORT_TIMEOUT"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil && seconds > 0 {
			cfg.Backend.ReportTimeout = time.Duration(seconds) * time.Second
		}
	}

	// Auth configuration
	if tokenFile := os.Getenv("ACTIONPULSE_TOKEN_FILE"); tokenFile != "" {
		cfg.Auth.TokenFile = tokenFile
	}

	if email := os.Getenv("ACTIONPULSE_EMAIL"); email != "" {
		cfg.Auth.Email = email
	}

	if password := os.Getenv("ACTIONPULSE_PASSWORD"); password != "" {
		cfg.Auth.Password = password
	}

	// Input configuration
	if inputEnabled := os.Getenv("ACTIONPULSE_INPUT_ENABLED"); inputEnabled != "" {
		if val, err := strconv.ParseBool(inputEnabled); err == nil {
			cfg.Input.Enabled = val
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("ACTIONPULSE_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	// Web configuration
	if webEnabled := os.Getenv("ACTIONPULSE_WEB_ENABLED"); webEnabled != "" {
		if val, err := strconv.ParseBool(webEnabled); err == nil {
			cfg.Web.Enabled = val
		}
	}

	if webHost := os.Getenv("ACTIONPULSE_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("ACTIONPULSE_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}

	// Log configuration
	if level := os.Getenv("ACTIONPULSE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if logFile := os.Getenv("ACTIONPULSE_LOG_FILE"); logFile != "" {
		cfg.Log.File = logFile
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}

// Load layers defaults, an optional YAML file, a .env file and the process
// environment, in that order. An empty path falls back to ACTIONPULSE_CONFIG.
func Load(path string) (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("ACTIONPULSE_CONFIG")
	}

	cfg := Default()
	if path != "" {
		if err := LoadFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	LoadFromEnv(cfg)
	return cfg, nil
}
