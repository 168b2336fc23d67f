// Package signals owns the interpreter's interrupt and terminal-stop policy.
package signals

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

const (
	EnterForegroundOnly = "Entering foreground-only mode (& is now ignored)"
	ExitForegroundOnly  = "Exiting foreground-only mode"
)

// Mode is the foreground-only flag. It is written by the signal goroutine
// and read by the interpreter loop.
type Mode struct {
	on atomic.Bool
}

// ForegroundOnly reports whether background requests are currently ignored.
func (m *Mode) ForegroundOnly() bool {
	return m.on.Load()
}

func (m *Mode) toggle() bool {
	for {
		old := m.on.Load()
		if m.on.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Notice announces a mode change to the interpreter loop.
type Notice struct {
	ForegroundOnly bool
}

func (n Notice) Message() string {
	if n.ForegroundOnly {
		return EnterForegroundOnly
	}
	return ExitForegroundOnly
}

// Manager owns the interpreter's SIGINT and SIGTSTP dispositions.
type Manager struct {
	mode       *Mode
	signalChan chan os.Signal
	notices    chan Notice
	stopOnce   sync.Once
	done       chan struct{}
}

func NewManager(mode *Mode) *Manager {
	return &Manager{
		mode:       mode,
		signalChan: make(chan os.Signal, 4),
		notices:    make(chan Notice, 16),
		done:       make(chan struct{}),
	}
}

// Mode returns the flag the manager toggles.
func (m *Manager) Mode() *Mode {
	return m.mode
}

// Start ignores SIGINT and subscribes to SIGTSTP. Children inherit the
// ignored SIGINT from the moment they are forked; ApplyChild restores the
// default for foreground commands.
func (m *Manager) Start() {
	signal.Ignore(syscall.SIGINT)
	signal.Notify(m.signalChan, syscall.SIGTSTP)
	go m.handleSignals()
}

// Stop unsubscribes and restores SIGINT. Pending notices stay readable.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		signal.Stop(m.signalChan)
		signal.Reset(syscall.SIGINT)
		close(m.done)
	})
}

// Notices delivers one Notice per mode change.
func (m *Manager) Notices() <-chan Notice {
	return m.notices
}

// Toggle flips foreground-only mode and publishes the change. It is what a
// SIGTSTP delivery does.
func (m *Manager) Toggle() Notice {
	n := Notice{ForegroundOnly: m.mode.toggle()}
	select {
	case m.notices <- n:
	default:
		// Nobody is draining notices; the flag itself is already updated.
	}
	return n
}

// handleSignals is the only consumer of deliveries, so toggles never run
// concurrently with each other.
func (m *Manager) handleSignals() {
	for {
		select {
		case <-m.done:
			return
		case <-m.signalChan:
			m.Toggle()
		}
	}
}

// RaiseStop delivers SIGTSTP to the current process.
func RaiseStop() error {
	return syscall.Kill(os.Getpid(), syscall.SIGTSTP)
}

// ApplyChild sets the dispositions a freshly created child keeps across
// exec. Every child ignores SIGTSTP; only background children ignore
// SIGINT, foreground ones get the default so an interrupt stops them.
func ApplyChild(foreground bool) {
	signal.Ignore(syscall.SIGTSTP)
	if foreground {
		// Catching even an inherited-ignored SIGINT makes exec restore the
		// default disposition.
		signal.Notify(make(chan os.Signal, 1), syscall.SIGINT)
	} else {
		signal.Ignore(syscall.SIGINT)
	}
}
