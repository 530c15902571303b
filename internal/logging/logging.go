package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/actionpulse/actionpulse/internal/config"
)

// New builds the agent logger. Console output uses the text formatter with
// full timestamps; a configured file gets rotated JSON lines instead.
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "parse log level %q", cfg.Level)
		}
		level = parsed
	}

	logger := logrus.New()
	logger.SetLevel(level)

	if cfg.File == "" {
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return logger, nil
	}

	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(newRotatingFile(cfg.File))
	return logger, nil
}

func newRotatingFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxAge:     12,
		MaxBackups: 4,
		MaxSize:    10, // megabytes
	}
}

// Discard returns a logger that drops everything, for tests and quiet subcommands
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
