package daemon

import (
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// ErrAlreadyRunning is returned by Acquire when another agent holds the lock.
var ErrAlreadyRunning = errors.New("agent is already running")

// ErrNotRunning is returned by Stop when no live agent owns the PID file.
var ErrNotRunning = errors.New("agent is not running")

// Daemon guards the single running agent per user with a lock file next to
// the PID file.
type Daemon struct {
	pidFile string
	lock    *flock.Flock
}

func New(pidFile string) *Daemon {
	return &Daemon{
		pidFile: pidFile,
		lock:    flock.New(pidFile + ".lock"),
	}
}

// Acquire takes the instance lock and records the current PID.
func (d *Daemon) Acquire() error {
	locked, err := d.lock.TryLock()
	if err != nil {
		return errors.Wrap(err, "acquire lock")
	} else if !locked {
		return ErrAlreadyRunning
	}

	if err := d.WritePID(); err != nil {
		_ = d.lock.Unlock()
		return err
	}
	return nil
}

// Release removes the PID file and drops the instance lock.
func (d *Daemon) Release() error {
	if err := d.RemovePID(); err != nil {
		return err
	}
	return errors.Wrap(d.lock.Unlock(), "release lock")
}

func (d *Daemon) WritePID() error {
	pid := os.Getpid()
	if err := os.WriteFile(d.pidFile, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return errors.Wrap(err, "failed to write PID file")
	}
	return nil
}

// ReadPID returns 0 when no PID file exists.
func (d *Daemon) ReadPID() (int, error) {
	data, err := os.ReadFile(d.pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "failed to read PID file")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrap(err, "invalid PID in file")
	}

	return pid, nil
}

func (d *Daemon) RemovePID() error {
	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove PID file")
	}
	return nil
}

// IsRunning reports whether the recorded PID belongs to a live process. A
// stale PID file is removed.
func (d *Daemon) IsRunning() (bool, int, error) {
	pid, err := d.ReadPID()
	if err != nil {
		return false, 0, err
	}

	if pid == 0 {
		return false, 0, nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0, nil
	}

	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = d.RemovePID()
		return false, 0, nil
	}

	return true, pid, nil
}

// Stop sends SIGTERM to the running agent, which cleans up after itself.
func (d *Daemon) Stop() (int, error) {
	running, pid, err := d.IsRunning()
	if err != nil {
		return 0, errors.Wrap(err, "error checking agent status")
	}

	if !running {
		return 0, ErrNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return 0, errors.Wrap(err, "failed to find process")
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			_ = d.RemovePID()
			return 0, ErrNotRunning
		}
		return 0, errors.Wrap(err, "failed to send SIGTERM")
	}

	return pid, nil
}
