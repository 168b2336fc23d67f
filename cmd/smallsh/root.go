package main

import (
	"fmt"
	"os"
	"path/filepath"

	"smallsh/internal/config"
	"smallsh/internal/shell"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const defaultConfigName = ".smallsh.yaml"

type rootOptions struct {
	configPath string
	eventLog   string
	prompt     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "smallsh",
		Short: "A small interactive shell",
		Long: `smallsh reads commands of the form
  program [args...] [< input] [> output] [&]
and runs them in the foreground or the background. The builtins exit, cd
and status run inside the shell. Ctrl-Z toggles foreground-only mode.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(afero.NewOsFs(), cmd)
			if err != nil {
				return err
			}

			shellOpts := shell.Options{
				Stdin:  os.Stdin,
				Stdout: os.Stdout,
				Stderr: os.Stderr,
			}
			events, err := cfg.OpenEventLog()
			if err != nil {
				return fmt.Errorf("error opening event log: %w", err)
			}
			if events != nil {
				defer events.Close()
				shellOpts.Events = events
			}

			s, err := shell.New(cfg, shellOpts)
			if err != nil {
				return err
			}
			return s.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", defaultConfigPath(), "config file path")
	cmd.Flags().StringVar(&opts.eventLog, "event-log", "", "append process events as JSON lines to this file")
	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "prompt printed before each command")
	return cmd
}

// loadConfig reads the config file and applies command line overrides.
func (o *rootOptions) loadConfig(fs afero.Fs, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(fs, o.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("prompt") {
		cfg.Prompt = o.prompt
	}
	if o.eventLog != "" {
		cfg.EventLog = o.eventLog
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultConfigName)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "smallsh: %v\n", err)
		return 1
	}
	return 0
}
