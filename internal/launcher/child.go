package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"smallsh/internal/signals"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"
)

// envChild marks a process as a trampoline and carries its childRequest.
const envChild = "SMALLSH_CHILD"

// childRequest is everything the child side needs to know about a command.
type childRequest struct {
	argv       []string
	input      string
	output     string
	background bool
	nullDevice string
}

func (c *childRequest) encode() string {
	var args []string
	if c.input != "" {
		args = append(args, "--input", c.input)
	}
	if c.output != "" {
		args = append(args, "--output", c.output)
	}
	if c.background {
		args = append(args, "--background")
	}
	args = append(args, "--null-device", c.nullDevice, "--")
	args = append(args, c.argv...)
	return shellquote.Join(args...)
}

func decodeChildRequest(encoded string) (*childRequest, error) {
	words, err := shellquote.Split(encoded)
	if err != nil {
		return nil, fmt.Errorf("error decoding child request: %w", err)
	}

	c := &childRequest{}
	flags := pflag.NewFlagSet("child", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&c.input, "input", "", "input redirection path")
	flags.StringVar(&c.output, "output", "", "output redirection path")
	flags.BoolVar(&c.background, "background", false, "run detached from the terminal")
	flags.StringVar(&c.nullDevice, "null-device", os.DevNull, "default stream for background commands")
	if err := flags.Parse(words); err != nil {
		return nil, fmt.Errorf("error decoding child request: %w", err)
	}

	c.argv = flags.Args()
	if len(c.argv) == 0 {
		return nil, errors.New("error decoding child request: no program")
	}
	return c, nil
}

// Init runs the child side of a launch when the current process is a
// trampoline, and never returns in that case. Otherwise it reports false.
func Init() bool {
	encoded, ok := os.LookupEnv(envChild)
	if !ok {
		return false
	}
	os.Unsetenv(envChild)

	req, err := decodeChildRequest(encoded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "smallsh: %v\n", err)
		os.Exit(1)
	}
	os.Exit(runChild(req))
	return true
}

// runChild replaces the process image and only returns, with the exit code
// to use, when that is impossible.
func runChild(req *childRequest) int {
	signals.ApplyChild(!req.background)

	if err := redirect(req); err != nil {
		fmt.Fprintf(os.Stderr, "smallsh: %v\n", err)
		return 1
	}

	program := req.argv[0]
	path, err := exec.LookPath(program)
	if errors.Is(err, exec.ErrDot) {
		// PATH entries relative to the working directory are honoured.
		err = nil
	}
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			err = execErr.Err
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", program, err)
		return 1
	}

	err = unix.Exec(path, req.argv, os.Environ())
	fmt.Fprintf(os.Stderr, "%s: %v\n", program, err)
	return 1
}
