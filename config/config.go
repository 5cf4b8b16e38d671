package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"fastcat.org/go/muxd/internal"
)

// Config is the on-disk configuration, ~/.config/muxd.yaml. Everything
// is optional; the zero value is a working setup.
type Config struct {
	// SocketDir overrides the directory holding the control socket.
	SocketDir string `yaml:"socket-dir" validate:"omitempty,dirpath"`
	// DefaultSlice is the slice scopes land in when the parent's session
	// slice cannot be determined.
	DefaultSlice string `yaml:"default-slice" validate:"omitempty,endswith=.slice"`
	// PaneScopes controls whether panes are moved into their own
	// transient scopes at all. Defaults to on.
	PaneScopes *bool `yaml:"pane-scopes"`
}

var data *Config // set non-nil once in Initialize

func Initialize() error {
	internal.CheckLockedDown()
	if data != nil {
		panic(fmt.Errorf("config already initialized"))
	}
	c := &Config{}
	fn := os.ExpandEnv("${HOME}/.config/" + internal.AppName() + ".yaml")
	if err := loadFile(fn, c); err != nil {
		return err
	}
	data = c
	return nil
}

func loadFile(fn string, c *Config) error {
	f, err := os.Open(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // no config file, that's ok
		}
		return err
	}
	defer f.Close() //nolint:errcheck
	d := yaml.NewDecoder(f, yaml.Strict())
	if err := d.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty config file, also ok
		}
		return fmt.Errorf("error loading config %q: %w", fn, err)
	}
	if err := internal.Validate(context.Background(), *c); err != nil {
		return fmt.Errorf("invalid config %q: %w", fn, err)
	}
	return nil
}

func active() Config {
	if data == nil {
		return Config{}
	}
	return *data
}

// SocketDir is the configured socket directory, or "" for the default.
func SocketDir() string {
	return active().SocketDir
}

// DefaultSlice is the fallback slice for pane scopes.
func DefaultSlice() string {
	if s := active().DefaultSlice; s != "" {
		return s
	}
	return "app-" + internal.AppName() + ".slice"
}

// PaneScopes reports whether panes get their own transient scopes.
func PaneScopes() bool {
	if b := active().PaneScopes; b != nil {
		return *b
	}
	return true
}
