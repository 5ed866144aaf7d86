package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/kolkov/fex"
	"github.com/kolkov/fex/internal/config"
	"github.com/kolkov/fex/internal/logging"
	"github.com/kolkov/fex/internal/vm"
)

// CLI is the fex command line. Pointer fields stay nil unless given,
// so the config file can supply them.
type CLI struct {
	Patterns []string `arg:"" optional:"" name:"pattern" help:"Patterns to apply to every input line. Use -- before a pattern that starts with '-'."`

	Input       []string `short:"i" name:"input" sep:"," placeholder:"FILE" help:"Input files, read in order (\"-\" is stdin). Default: stdin."`
	OFS         *string  `name:"ofs" placeholder:"STR" help:"Output field separator (default \" \")."`
	Regex       *string  `name:"regex" placeholder:"MODE" help:"Regex selector mode: inert or filter."`
	Posix       bool     `name:"posix" xor:"posix" help:"Use POSIX leftmost-longest regex matching (default)."`
	NoPosix     bool     `name:"no-posix" xor:"posix" help:"Use faster leftmost-first regex matching (Perl-like)."`
	SkipErrors  bool     `name:"skip-errors" help:"Skip (line, pattern) pairs that select a missing field."`
	Workers     *int     `short:"j" name:"workers" placeholder:"N" help:"Parallel workers (1 = sequential)."`
	Disassemble bool     `short:"d" name:"disassemble" help:"Print compiled patterns to stderr and exit."`
	Config      string   `name:"config" placeholder:"FILE" help:"YAML file with default options."`
	LogLevel    *string  `name:"log-level" placeholder:"LEVEL" help:"Log level: debug, info, warn, error."`
	LogFormat   *string  `name:"log-format" placeholder:"FMT" help:"Log format: text or json."`

	Version kong.VersionFlag `name:"version" help:"Show version and exit."`
}

// options merges flags over the config file over built-in defaults.
func (c *CLI) options(file *config.File) (*fex.Config, logging.Config, error) {
	if file == nil {
		file = &config.File{}
	}
	cfg := &fex.Config{}

	switch {
	case c.OFS != nil:
		cfg.OFS = *c.OFS
	case file.OFS != nil:
		cfg.OFS = *file.OFS
	}

	regex := file.Regex
	if c.Regex != nil {
		regex = *c.Regex
	}
	mode, err := vm.ParseRegexMode(regex)
	if err != nil {
		return nil, logging.Config{}, err
	}
	cfg.RegexMode = mode

	switch {
	case c.Posix:
		cfg.POSIXRegex = boolPtr(true)
	case c.NoPosix:
		cfg.POSIXRegex = boolPtr(false)
	default:
		cfg.POSIXRegex = file.POSIX
	}

	if c.SkipErrors {
		cfg.ErrorMode = fex.ErrorModeSkip
	} else if cfg.ErrorMode, err = file.ErrorMode(); err != nil {
		return nil, logging.Config{}, err
	}

	cfg.Workers = file.Workers
	if c.Workers != nil {
		if *c.Workers < 1 {
			return nil, logging.Config{}, fmt.Errorf("invalid number of workers: %d", *c.Workers)
		}
		cfg.Workers = *c.Workers
	}

	logConfig := logging.Config{Level: file.Log.Level, Format: file.Log.Format}
	if c.LogLevel != nil {
		logConfig.Level = *c.LogLevel
	}
	if c.LogFormat != nil {
		logConfig.Format = *c.LogFormat
	}
	return cfg, logConfig, nil
}

func boolPtr(b bool) *bool {
	return &b
}
