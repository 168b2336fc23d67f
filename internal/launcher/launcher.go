// Package launcher starts external commands in the foreground or the
// background.
//
// Go cannot run code between fork and exec, so a command is started by
// re-executing the interpreter binary with the command encoded in its
// environment. Init, called first thing in main, recognizes that case and
// performs the child side: signal policy, redirection, then exec of the
// real program.
package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"smallsh/internal/exitstatus"
	"smallsh/internal/jobs"
	"smallsh/internal/logger"
	"smallsh/internal/parser"
	"smallsh/internal/signals"

	"golang.org/x/sys/unix"
)

// ErrSpawn wraps failures to create a process at all.
var ErrSpawn = errors.New("cannot create process")

// Files are the streams a child inherits unless redirected.
type Files struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Options configure a Launcher.
type Options struct {
	Files      Files
	NullDevice string
	Mode       *signals.Mode
	Jobs       *jobs.Set
	Log        *logger.Logger

	// Executable is re-run as the trampoline. Defaults to os.Executable.
	Executable string
}

// Launcher creates processes for external commands.
type Launcher struct {
	self       string
	files      Files
	nullDevice string
	mode       *signals.Mode
	jobs       *jobs.Set
	log        *logger.Logger
}

// Result describes a launched command. Status is only meaningful when the
// command ran in the foreground.
type Result struct {
	PID        int
	Background bool
	Status     exitstatus.Status
}

func New(opts Options) (*Launcher, error) {
	self := opts.Executable
	if self == "" {
		var err error
		if self, err = os.Executable(); err != nil {
			return nil, fmt.Errorf("error locating interpreter executable: %w", err)
		}
	}
	if opts.NullDevice == "" {
		opts.NullDevice = os.DevNull
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	return &Launcher{
		self:       self,
		files:      opts.Files,
		nullDevice: opts.NullDevice,
		mode:       opts.Mode,
		jobs:       opts.Jobs,
		log:        opts.Log,
	}, nil
}

// Launch starts cmd. A background request is honoured only while
// foreground-only mode is off; otherwise the command runs in the foreground
// and Launch blocks until it terminates. Parent-side notices are written to
// the launcher's stdout.
func (l *Launcher) Launch(cmd *parser.Command) (Result, error) {
	background := cmd.Background && !l.mode.ForegroundOnly()
	if background && l.jobs.Full() {
		return Result{}, jobs.ErrFull
	}

	req := &childRequest{
		argv:       cmd.Args,
		input:      cmd.Input,
		output:     cmd.Output,
		background: background,
		nullDevice: l.nullDevice,
	}
	pid, err := syscall.ForkExec(l.self, []string{cmd.Program}, &syscall.ProcAttr{
		Env: append(os.Environ(), envChild+"="+req.encode()),
		Files: []uintptr{
			l.files.Stdin.Fd(),
			l.files.Stdout.Fd(),
			l.files.Stderr.Fd(),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	l.log.Launch(pid, cmd.String(), background)

	if background {
		if err := l.jobs.Add(pid, cmd.String()); err != nil {
			return Result{PID: pid, Background: true}, err
		}
		fmt.Fprintf(l.stdout(), "background PID is %d\n", pid)
		return Result{PID: pid, Background: true}, nil
	}

	status, err := wait(pid)
	if err != nil {
		return Result{PID: pid}, fmt.Errorf("error waiting for pid %d: %w", pid, err)
	}
	l.log.Wait(pid, status)
	if status.Signaled() {
		fmt.Fprintln(l.stdout(), status)
	}
	return Result{PID: pid, Status: status}, nil
}

func (l *Launcher) stdout() io.Writer {
	return l.files.Stdout
}

// wait blocks until pid terminates. A child stopped before its SIGTSTP
// disposition took effect is continued.
func wait(pid int) (exitstatus.Status, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return exitstatus.Status{}, err
		}
		if ws.Stopped() {
			if err := unix.Kill(pid, unix.SIGCONT); err != nil {
				return exitstatus.Status{}, fmt.Errorf("error continuing pid %d: %w", pid, err)
			}
			continue
		}
		return exitstatus.FromWaitStatus(ws), nil
	}
}
