// Package input defines the boundary between OS input hooks and the agent.
package input

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Handler receives raw input callbacks. Implementations must be safe for
// concurrent use: every listener calls it from its own goroutine.
type Handler interface {
	OnMouseMove()
	OnMouseClick(pressed bool)
	OnKeyPress()
}

// Listener is one raw input source, such as the mouse or the keyboard.
type Listener interface {
	// Name identifies the source in logs
	Name() string

	// Start begins delivering events to h and returns once the source is
	// running. Delivery stops when ctx is cancelled.
	Start(ctx context.Context, h Handler) error
}

// StartAll starts every listener and returns the names of those that came up.
// A listener that fails to start is logged and skipped so monitoring continues
// without that signal.
func StartAll(ctx context.Context, log logrus.FieldLogger, h Handler, listeners ...Listener) []string {
	var started []string
	for _, l := range listeners {
		if l == nil {
			continue
		}
		if err := l.Start(ctx, h); err != nil {
			log.WithError(err).WithField("listener", l.Name()).Warn("Input listener unavailable, continuing without it")
			continue
		}
		log.WithField("listener", l.Name()).Info("Input listener started")
		started = append(started, l.Name())
	}
	return started
}
