// Package console reads command lines from the user.
package console

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Console prompts for and reads one command line at a time.
//
// ReadLine and Announce may be called from different goroutines: the
// interpreter announces mode changes while a read is still pending.
type Console interface {
	// ReadLine prints the prompt and returns the next line without its
	// terminator. It returns io.EOF once input is exhausted.
	ReadLine() (string, error)

	// Announce prints msg on its own line, redrawing the prompt if a read
	// is in progress.
	Announce(msg string)

	Close() error
}

// New returns a line-editing console when in is a terminal, and a plain
// prompter otherwise.
func New(prompt string, in *os.File, out io.Writer) (Console, error) {
	if term.IsTerminal(int(in.Fd())) {
		return NewTerminal(prompt, in, out)
	}
	return NewPrompter(prompt, in, out), nil
}
