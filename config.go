package fex

import (
	"io"
	"log/slog"

	"github.com/kolkov/fex/internal/logging"
	"github.com/kolkov/fex/internal/runtime"
	"github.com/kolkov/fex/internal/token"
	"github.com/kolkov/fex/internal/vm"
)

// RegexMode selects what a /re/ selector does.
type RegexMode = vm.RegexMode

const (
	// RegexInert makes /re/ selectors no-ops. This is the default.
	RegexInert = vm.RegexInert

	// RegexFilter keeps only the fields containing a match, in order.
	RegexFilter = vm.RegexFilter
)

// ErrorMode selects how an out-of-range selection is handled.
type ErrorMode = vm.ErrorMode

const (
	// ErrorModeStrict aborts the run on the first failing line.
	ErrorModeStrict = vm.ErrorModeStrict

	// ErrorModeSkip drops the output of the failing (line, pattern)
	// pair, logs a warning and continues.
	ErrorModeSkip = vm.ErrorModeSkip
)

// Stats summarizes a run.
type Stats = vm.Stats

// Config holds configuration options for compiling and running patterns.
// The zero value is ready to use.
type Config struct {
	// OFS is the output field separator (default: " ").
	// It joins the fields left at the end of a pattern.
	OFS string

	// RegexMode selects /re/ selector behaviour (default: RegexInert).
	RegexMode RegexMode

	// POSIXRegex enables POSIX leftmost-longest regex matching.
	// When true (default), regex selectors use POSIX ERE semantics.
	// When false, they use leftmost-first (Perl-like) matching.
	// Only affects compilation.
	POSIXRegex *bool

	// ErrorMode selects out-of-range handling (default: ErrorModeStrict).
	ErrorMode ErrorMode

	// Workers > 1 processes input in parallel chunks. Output order is
	// the same as a sequential run.
	Workers int

	// ChunkSize is the approximate bytes per parallel chunk (default: 1MB).
	ChunkSize int

	// Output is the writer for extracted lines.
	// If nil, Run captures output and returns it.
	Output io.Writer

	// Logger receives debug and warning records.
	// If nil, records are discarded.
	Logger *slog.Logger
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.OFS == "" {
		c.OFS = string(token.DefaultSeparator)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Logger == nil {
		c.Logger = logging.Discard()
	}
}

// resolve returns a copy of config with defaults applied, so the
// caller's value is never modified.
func resolve(config *Config) Config {
	var c Config
	if config != nil {
		c = *config
	}
	c.applyDefaults()
	return c
}

// regexConfig returns the regex compilation settings.
func (c *Config) regexConfig() runtime.RegexConfig {
	rc := runtime.DefaultConfig()
	if c.POSIXRegex != nil {
		rc.POSIX = *c.POSIXRegex
	}
	return rc
}

func (c *Config) machineConfig() vm.Config {
	return vm.Config{RegexMode: c.RegexMode, OFS: c.OFS}
}

func (c *Config) execConfig() vm.ExecConfig {
	return vm.ExecConfig{
		Machine:   c.machineConfig(),
		ErrorMode: c.ErrorMode,
		Workers:   c.Workers,
		ChunkSize: c.ChunkSize,
		Logger:    c.Logger,
	}
}
