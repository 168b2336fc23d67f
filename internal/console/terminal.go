package console

import (
	"fmt"
	"io"
	"os"

	"smallsh/internal/signals"

	"github.com/chzyer/readline"
)

// Terminal is an interactive console backed by readline.
type Terminal struct {
	rl *readline.Instance

	raiseStop func() error
	report    func(msg string)
}

var _ Console = (*Terminal)(nil)

func NewTerminal(prompt string, in *os.File, out io.Writer) (*Terminal, error) {
	t := &Terminal{raiseStop: signals.RaiseStop}
	t.report = t.Announce

	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(in),
		Stdout: out,
		Prompt: prompt,

		HistoryLimit:        -1,
		FuncFilterInputRune: t.filterInput,
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("error initializing readline: %w", err)
	}
	t.rl = rl
	return t, nil
}

// filterInput hands Ctrl-Z to the signal handler. The terminal is in raw
// mode while editing, so the keystroke would otherwise never become a
// SIGTSTP.
func (t *Terminal) filterInput(r rune) (rune, bool) {
	if r != readline.CharCtrlZ {
		return r, true
	}
	if err := t.raiseStop(); err != nil {
		t.report(fmt.Sprintf("smallsh: cannot toggle foreground-only mode: %v", err))
	}
	return r, false
}

func (t *Terminal) ReadLine() (string, error) {
	line, err := t.rl.Readline()
	switch {
	case err == readline.ErrInterrupt:
		// Ctrl-C abandons the current line.
		return "", nil
	case err != nil:
		return "", err
	}
	return line, nil
}

func (t *Terminal) Announce(msg string) {
	t.rl.Write([]byte(msg + "\n"))
}

func (t *Terminal) Close() error {
	return t.rl.Close()
}
