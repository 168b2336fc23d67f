// Package exitstatus carries how a child process ended.
package exitstatus

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Status is either a normal exit code or a terminating signal number. The
// zero value is a normal exit with code 0.
type Status struct {
	signaled bool
	value    int
}

// Exited is a normal termination with the given exit code.
func Exited(code int) Status {
	return Status{value: code}
}

// Signaled is a termination by the given signal number.
func Signaled(signum int) Status {
	return Status{signaled: true, value: signum}
}

// FromWaitStatus converts a status reported by wait4.
func FromWaitStatus(ws unix.WaitStatus) Status {
	if ws.Signaled() {
		return Signaled(int(ws.Signal()))
	}
	return Exited(ws.ExitStatus())
}

func (s Status) Signaled() bool { return s.signaled }

// Code is the exit code, or the signal number when Signaled.
func (s Status) Code() int { return s.value }

// Success reports a normal exit with code 0.
func (s Status) Success() bool { return !s.signaled && s.value == 0 }

// String renders the status the way the status builtin and the reaper print
// it.
func (s Status) String() string {
	if s.signaled {
		return fmt.Sprintf("terminated by signal %d", s.value)
	}
	return fmt.Sprintf("exit value %d", s.value)
}
