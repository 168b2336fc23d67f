package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	configFs afero.Fs

	Prompt            string `yaml:"prompt"`
	HomeEnv           string `yaml:"home_env" validate:"required"`
	NullDevice        string `yaml:"null_device" validate:"required"`
	MaxBackgroundJobs int    `yaml:"max_background_jobs" validate:"gte=0"`
	EventLog          string `yaml:"event_log"`
	Color             string `yaml:"color" validate:"oneof=auto always never"`
}

// Default returns the built-in configuration backed by the OS filesystem.
func Default() *Config {
	cfg := defaultConfig()
	cfg.configFs = afero.NewOsFs()
	return cfg
}

func defaultConfig() *Config {
	var out Config
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Load reads the file at path from fsys over the defaults. A missing file
// yields the defaults; unknown keys are rejected.
func Load(fsys afero.Fs, path string) (*Config, error) {
	cfg := defaultConfig()
	cfg.configFs = fsys

	if path != "" {
		data, err := afero.ReadFile(fsys, path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("error reading config: %w", err)
		default:
			if err := yaml.UnmarshalStrict(data, cfg); err != nil {
				return nil, fmt.Errorf("error parsing config %s: %w", path, err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})

	return validate.Struct(c)
}

func (c *Config) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// OpenEventLog opens the event log for appending. It returns nil when no
// event log is configured.
func (c *Config) OpenEventLog() (afero.File, error) {
	if c.EventLog == "" {
		return nil, nil
	}
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// UseColor reports whether errors should be highlighted on a stream that
// is (or is not) a terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}
