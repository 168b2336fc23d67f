// Package parser turns an expanded input line into a Command.
package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Builtin identifies commands serviced inside the interpreter.
type Builtin int

const (
	External Builtin = iota
	Exit
	Cd
	Status
)

var builtins = map[string]Builtin{
	"exit":   Exit,
	"cd":     Cd,
	"status": Status,
}

func (b Builtin) String() string {
	for name, v := range builtins {
		if v == b {
			return name
		}
	}
	return "external"
}

const (
	inputOp      = "<"
	outputOp     = ">"
	backgroundOp = "&"
)

// ErrEmpty is returned for lines without any token.
var ErrEmpty = errors.New("empty command line")

// ParseError reports a malformed command line.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error near %q: %s", e.Token, e.Reason)
}

// Command is one user-issued instruction. Args[0] is always Program. An
// empty Input or Output means the stream is inherited or defaulted by the
// launcher.
type Command struct {
	Program    string
	Args       []string
	Input      string
	Output     string
	Background bool
	Builtin    Builtin
}

// IsBuiltin reports whether the command runs inside the interpreter.
func (c *Command) IsBuiltin() bool {
	return c.Builtin != External
}

func (c *Command) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(c.Args, " "))
	if c.Input != "" {
		b.WriteString(" < " + c.Input)
	}
	if c.Output != "" {
		b.WriteString(" > " + c.Output)
	}
	if c.Background {
		b.WriteString(" &")
	}
	return b.String()
}

// Parse splits line on whitespace and classifies the tokens in one pass.
func Parse(line string) (*Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, ErrEmpty
	}

	cmd := &Command{
		Program: tokens[0],
		Args:    []string{tokens[0]},
		Builtin: builtins[tokens[0]],
	}

	for i := 1; i < len(tokens); i++ {
		switch tok := tokens[i]; tok {
		case inputOp, outputOp:
			if i+1 >= len(tokens) {
				return nil, &ParseError{Token: tok, Reason: "missing redirection target"}
			}
			i++
			if tok == inputOp {
				cmd.Input = tokens[i]
			} else {
				cmd.Output = tokens[i]
			}
		default:
			cmd.Args = append(cmd.Args, tok)
		}
	}

	if n := len(cmd.Args); n > 1 && cmd.Args[n-1] == backgroundOp {
		cmd.Background = true
		cmd.Args = cmd.Args[:n-1]
	}

	return cmd, nil
}

// IsExit reports whether the first token of a raw line is the exit builtin.
func IsExit(line string) bool {
	tokens := strings.Fields(line)
	return len(tokens) > 0 && builtins[tokens[0]] == Exit
}
