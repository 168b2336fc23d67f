// Package shell implements the read-eval loop of the interpreter.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"smallsh/internal/config"
	"smallsh/internal/console"
	"smallsh/internal/exitstatus"
	"smallsh/internal/expand"
	"smallsh/internal/jobs"
	"smallsh/internal/launcher"
	"smallsh/internal/logger"
	"smallsh/internal/parser"
	"smallsh/internal/signals"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// errExit ends the loop normally.
var errExit = errors.New("exit requested")

// Options supply the streams and collaborators of a Shell. Stdin, Stdout
// and Stderr are required; child processes inherit them.
type Options struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Console defaults to console.New over Stdin and Stdout.
	Console console.Console

	// Events receives the JSON lines event log, if set.
	Events io.Writer
}

type Shell struct {
	config   *config.Config
	stdout   io.Writer
	stderr   io.Writer
	console  console.Console
	signals  *signals.Manager
	jobs     *jobs.Set
	launcher *launcher.Launcher
	log      *logger.Logger
	errColor *color.Color

	pid  int
	last exitstatus.Status
}

func New(cfg *config.Config, opts Options) (*Shell, error) {
	log := logger.Discard()
	if opts.Events != nil {
		log = logger.NewJSONLinesLogRecorder(opts.Events)
	}

	con := opts.Console
	if con == nil {
		var err error
		if con, err = console.New(cfg.Prompt, opts.Stdin, opts.Stdout); err != nil {
			return nil, err
		}
	}

	mode := &signals.Mode{}
	jobSet := jobs.New(cfg.MaxBackgroundJobs, jobs.SystemReaper{}, log)
	l, err := launcher.New(launcher.Options{
		Files: launcher.Files{
			Stdin:  opts.Stdin,
			Stdout: opts.Stdout,
			Stderr: opts.Stderr,
		},
		NullDevice: cfg.NullDevice,
		Mode:       mode,
		Jobs:       jobSet,
		Log:        log,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing launcher: %w", err)
	}

	errColor := color.New(color.FgRed)
	if cfg.UseColor(term.IsTerminal(int(opts.Stderr.Fd()))) {
		errColor.EnableColor()
	} else {
		errColor.DisableColor()
	}

	return &Shell{
		config:   cfg,
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
		console:  con,
		signals:  signals.NewManager(mode),
		jobs:     jobSet,
		launcher: l,
		log:      log,
		errColor: errColor,
		pid:      os.Getpid(),
		last:     exitstatus.Exited(0),
	}, nil
}

// Run reads and executes lines until exit, end of input, cancellation of
// ctx or a fatal error. Background jobs still running when it returns have
// been killed.
func (s *Shell) Run(ctx context.Context) error {
	s.signals.Start()
	defer s.signals.Stop()
	defer s.console.Close()
	s.log.Start(s.pid)

	for {
		s.jobs.Reap(s.stdout)

		line, err := s.readLine(ctx)
		switch {
		case errors.Is(err, io.EOF):
			s.shutdown()
			return nil
		case err != nil:
			s.shutdown()
			return err
		}

		if err := s.Execute(line); err != nil {
			switch {
			case errors.Is(err, errExit):
				s.shutdown()
				return nil
			case errors.Is(err, launcher.ErrSpawn):
				s.shutdown()
				return err
			}
			s.reportError(line, err)
		}
	}
}

// Execute runs a single command line.
func (s *Shell) Execute(line string) error {
	if skip(line) {
		return nil
	}
	// exit is matched on the raw line, ahead of expansion and parsing.
	if parser.IsExit(line) {
		return errExit
	}

	cmd, err := parser.Parse(expand.Expand(line, s.pid))
	switch {
	case errors.Is(err, parser.ErrEmpty):
		return nil
	case err != nil:
		return err
	}

	if ok, err := s.executeBuiltin(cmd); ok {
		return err
	}
	return s.runExternal(cmd)
}

func (s *Shell) runExternal(cmd *parser.Command) error {
	res, err := s.launcher.Launch(cmd)
	if err != nil {
		return err
	}
	if !res.Background {
		s.last = res.Status
	}
	return nil
}

// LastStatus is the result of the most recent foreground command.
func (s *Shell) LastStatus() exitstatus.Status {
	return s.last
}

// ForegroundOnly reports whether background requests are being ignored.
func (s *Shell) ForegroundOnly() bool {
	return s.signals.Mode().ForegroundOnly()
}

// skip reports blank lines and comments.
func skip(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

type readResult struct {
	line string
	err  error
}

// readLine waits for the next line while announcing mode changes. The read
// runs on its own goroutine only for the duration of the prompt, so no
// child ever competes with the console for input.
func (s *Shell) readLine(ctx context.Context) (string, error) {
	s.drainNotices()

	results := make(chan readResult, 1)
	go func() {
		line, err := s.console.ReadLine()
		results <- readResult{line: line, err: err}
	}()

	for {
		select {
		case r := <-results:
			return r.line, r.err
		case n := <-s.signals.Notices():
			s.announce(n)
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// drainNotices announces mode changes that happened while a command ran.
func (s *Shell) drainNotices() {
	for {
		select {
		case n := <-s.signals.Notices():
			s.announce(n)
		default:
			return
		}
	}
}

func (s *Shell) announce(n signals.Notice) {
	s.log.Mode(n.ForegroundOnly)
	s.console.Announce(n.Message())
}

func (s *Shell) reportError(line string, err error) {
	s.log.Error(strings.TrimSpace(line), err)
	s.errColor.Fprintf(s.stderr, "smallsh: %v\n", err)
}

func (s *Shell) shutdown() {
	s.jobs.KillAll()
	s.log.Exit(s.pid)
}
