// Package config loads the YAML configuration of the textgrid command.
//
// A missing --config flag means Default() is used as is. Values from the
// file replace defaults field by field; command line flags are applied by
// the caller afterwards.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/textgrid/core/errors"
	"github.com/FocuswithJustin/textgrid/core/praat"
	"github.com/FocuswithJustin/textgrid/internal/logging"
)

// Config holds every setting the command reads from a file.
type Config struct {
	// Mode is the output layout: verbose (long) or compact (short).
	Mode string `yaml:"mode"`

	// Warnings enables logging of advisory conditions.
	Warnings bool `yaml:"warnings"`

	// FillLabel is the text given to intervals created by gap filling.
	FillLabel string `yaml:"fill_label"`

	// PreferFirst keeps the end of the earlier interval when repairing a
	// boundary; false keeps the start of the later one.
	PreferFirst bool `yaml:"prefer_first"`

	// Database is the path of the corpus store.
	Database string `yaml:"database"`

	Log LogConfig `yaml:"log"`
}

// LogConfig configures internal/logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Mode:        praat.Verbose.String(),
		Warnings:    true,
		FillLabel:   "",
		PreferFirst: true,
		Database:    filepath.Join(homeDir, ".local", "share", "textgrid", "corpus.db"),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns Default() overlaid with the file at path. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read config", path, err)
	}
	if err := cfg.decode(data); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// decode merges YAML into c. Unknown keys are rejected.
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return &errors.ParseError{Format: "YAML", Message: err.Error(), Err: errors.ErrInvalidInput}
	}
	return nil
}

// expandVariables expands ${HOME}, $VAR and a leading ~ in Database.
func (c *Config) expandVariables() {
	db := os.ExpandEnv(c.Database)
	if db == "~" || strings.HasPrefix(db, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			db = filepath.Join(home, strings.TrimPrefix(db, "~"))
		}
	}
	c.Database = db
}

// Validate checks that every enumerated value is known.
func (c *Config) Validate() error {
	if _, err := praat.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.NewValidation("log.level", err.Error())
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return errors.NewValidation("log.format", err.Error())
	}
	if c.Database == "" {
		return errors.NewValidation("database", "path cannot be empty")
	}
	return nil
}

// OutputMode returns the parsed Mode. Validate must have succeeded.
func (c *Config) OutputMode() praat.Mode {
	m, _ := praat.ParseMode(c.Mode)
	return m
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() logging.Level {
	l, _ := logging.ParseLevel(c.Log.Level)
	return l
}

// LogFormat returns the parsed log format, defaulting to text.
func (c *Config) LogFormat() logging.Format {
	f, _ := logging.ParseFormat(c.Log.Format)
	return f
}

// String renders c as YAML.
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(out)
}
