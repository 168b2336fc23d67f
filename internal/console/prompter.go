package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Prompter reads lines from a non-interactive stream.
type Prompter struct {
	prompt string
	w      io.Writer
	r      *bufio.Reader

	mu      sync.Mutex
	reading bool
}

var _ Console = (*Prompter)(nil)

func NewPrompter(prompt string, r io.Reader, w io.Writer) *Prompter {
	return &Prompter{prompt: prompt, w: w, r: bufio.NewReader(r)}
}

func (p *Prompter) ReadLine() (string, error) {
	p.mu.Lock()
	fmt.Fprint(p.w, p.prompt)
	p.reading = true
	p.mu.Unlock()

	line, err := p.r.ReadString('\n')

	p.mu.Lock()
	p.reading = false
	p.mu.Unlock()

	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		if line == "" {
			return "", io.EOF
		}
	}
	return strings.TrimSuffix(line, "\n"), nil
}

func (p *Prompter) Announce(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.reading {
		fmt.Fprintf(p.w, "\n%s\n%s", msg, p.prompt)
		return
	}
	fmt.Fprintln(p.w, msg)
}

func (p *Prompter) Close() error {
	return nil
}
