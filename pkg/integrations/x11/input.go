package x11

import (
	"context"
	"time"

	"github.com/actionpulse/actionpulse/pkg/input"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Primary, middle and secondary buttons. Wheel buttons 4 and 5 are not clicks.
const clickButtons = xproto.KeyButMaskButton1 | xproto.KeyButMaskButton2 | xproto.KeyButMaskButton3

// DefaultPollInterval is short enough to catch an ordinary key stroke.
const DefaultPollInterval = 50 * time.Millisecond

// maxPollErrors consecutive failed queries stop a listener.
const maxPollErrors = 20

type pointerState struct {
	x, y    int16
	buttons uint16
}

// diff compares two pointer samples. pressed and released list the click
// buttons that changed state between them.
func (p pointerState) diff(next pointerState) (moved bool, pressed, released int) {
	moved = p.x != next.x || p.y != next.y
	prev := p.buttons & clickButtons
	cur := next.buttons & clickButtons
	pressed = bitCount(cur &^ prev)
	released = bitCount(prev &^ cur)
	return moved, pressed, released
}

func bitCount(v uint16) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// newlyPressed reports whether cur has a key down that was up in prev.
func newlyPressed(prev, cur []byte) bool {
	for i, b := range cur {
		var was byte
		if i < len(prev) {
			was = prev[i]
		}
		if b&^was != 0 {
			return true
		}
	}
	return false
}

type poller struct {
	name     string
	interval time.Duration
	log      logrus.FieldLogger
}

func (p *poller) loop(ctx context.Context, conn *xgb.Conn, tick func() error) {
	defer conn.Close()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := tick(); err != nil {
				failures++
				if failures >= maxPollErrors {
					p.log.WithError(err).WithField("listener", p.name).Warn("Input listener stopped after repeated errors")
					return
				}
				continue
			}
			failures = 0
		}
	}
}

// MouseListener samples the pointer position and button mask.
type MouseListener struct {
	poller
}

// NewMouseListener returns a mouse listener polling every interval.
func NewMouseListener(interval time.Duration, log logrus.FieldLogger) *MouseListener {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &MouseListener{poller{name: "x11-mouse", interval: interval, log: log}}
}

func (m *MouseListener) Name() string {
	return m.name
}

// Start connects to the X server and begins polling in a new goroutine.
func (m *MouseListener) Start(ctx context.Context, h input.Handler) error {
	conn, err := xgb.NewConn()
	if err != nil {
		return errors.Wrap(err, "connect to X server")
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root

	query := func() (pointerState, error) {
		reply, err := xproto.QueryPointer(conn, root).Reply()
		if err != nil {
			return pointerState{}, err
		}
		return pointerState{x: reply.RootX, y: reply.RootY, buttons: reply.Mask}, nil
	}

	last, err := query()
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "query pointer")
	}

	go m.loop(ctx, conn, func() error {
		cur, err := query()
		if err != nil {
			return err
		}
		moved, pressed, released := last.diff(cur)
		last = cur

		if moved {
			h.OnMouseMove()
		}
		for i := 0; i < pressed; i++ {
			h.OnMouseClick(true)
		}
		for i := 0; i < released; i++ {
			h.OnMouseClick(false)
		}
		return nil
	})
	return nil
}

// KeyboardListener samples the keymap and reports keys going down.
type KeyboardListener struct {
	poller
}

// NewKeyboardListener returns a keyboard listener polling every interval.
func NewKeyboardListener(interval time.Duration, log logrus.FieldLogger) *KeyboardListener {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &KeyboardListener{poller{name: "x11-keyboard", interval: interval, log: log}}
}

func (k *KeyboardListener) Name() string {
	return k.name
}

// Start connects to the X server and begins polling in a new goroutine.
func (k *KeyboardListener) Start(ctx context.Context, h input.Handler) error {
	conn, err := xgb.NewConn()
	if err != nil {
		return errors.Wrap(err, "connect to X server")
	}

	reply, err := xproto.QueryKeymap(conn).Reply()
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "query keymap")
	}
	last := reply.Keys

	go k.loop(ctx, conn, func() error {
		reply, err := xproto.QueryKeymap(conn).Reply()
		if err != nil {
			return err
		}
		if newlyPressed(last, reply.Keys) {
			h.OnKeyPress()
		}
		last = reply.Keys
		return nil
	})
	return nil
}

var (
	_ input.Listener = (*MouseListener)(nil)
	_ input.Listener = (*KeyboardListener)(nil)
)
