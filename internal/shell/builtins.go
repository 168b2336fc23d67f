package shell

import (
	"fmt"
	"os"

	"smallsh/internal/parser"
)

// executeBuiltin runs cmd if it is a builtin. Builtins ignore redirection
// and the background marker.
func (s *Shell) executeBuiltin(cmd *parser.Command) (bool, error) {
	switch cmd.Builtin {
	case parser.Cd:
		return true, s.changeDirectory(cmd.Args[1:])
	case parser.Exit:
		return true, errExit
	case parser.Status:
		return true, s.showStatus()
	default:
		return false, nil
	}
}

// changeDirectory uses the first argument, or the home directory when
// there is none. Further arguments are ignored.
func (s *Shell) changeDirectory(args []string) error {
	var dir string
	if len(args) == 0 {
		home, ok := os.LookupEnv(s.config.HomeEnv)
		if !ok {
			return fmt.Errorf("cd: %s not set", s.config.HomeEnv)
		}
		dir = home
	} else {
		dir = args[0]
	}

	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("cd: %w", err)
	}
	return nil
}

func (s *Shell) showStatus() error {
	_, err := fmt.Fprintln(s.stdout, s.last)
	return err
}
