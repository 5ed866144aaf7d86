// Package config loads fex defaults from a YAML file. Values in the file
// are defaults only: command-line flags override them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kolkov/fex/internal/logging"
	"github.com/kolkov/fex/internal/vm"
)

// File is the on-disk configuration. Pointer fields distinguish an
// absent key from an explicit zero value.
type File struct {
	OFS     *string `yaml:"ofs"`
	Regex   string  `yaml:"regex"`    // inert, filter
	POSIX   *bool   `yaml:"posix"`    // leftmost-longest regex matching
	OnError string  `yaml:"on_error"` // strict, skip
	Workers int     `yaml:"workers"`
	Log     Log     `yaml:"log"`
}

// Log configures diagnostics.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and validates the configuration at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a configuration document. Unknown keys are rejected.
// An empty document yields the zero File.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every enumerated value.
func (f *File) Validate() error {
	if _, err := f.RegexMode(); err != nil {
		return err
	}
	if _, err := f.ErrorMode(); err != nil {
		return err
	}
	if f.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", f.Workers)
	}
	if _, err := logging.ParseLevel(f.Log.Level); err != nil {
		return err
	}
	switch f.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", f.Log.Format)
	}
	return nil
}

// RegexMode returns the configured regex selector mode.
func (f *File) RegexMode() (vm.RegexMode, error) {
	return vm.ParseRegexMode(f.Regex)
}

// ErrorMode returns the configured out-of-range handling.
func (f *File) ErrorMode() (vm.ErrorMode, error) {
	return vm.ParseErrorMode(f.OnError)
}
