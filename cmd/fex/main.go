// fex - field extraction language
//
// Applies one or more patterns to every line of input and prints one
// output line per (line, pattern) pair.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/kolkov/fex"
	"github.com/kolkov/fex/internal/config"
	"github.com/kolkov/fex/internal/logging"
	"github.com/kolkov/fex/internal/runtime"
)

// version is set by GoReleaser at build time via -ldflags.
// For development builds, it will be "dev".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const description = `Extract fields from lines of text.

A pattern alternates between selecting fields and naming the next
separator to split on:

  3        third whitespace-separated field
  {1,3}    fields 1 and 3
  {2:4}    fields 2 through 4
  ,2       split on ',' and take field 2
  /re/     regex selector (filters fields with --regex=filter)

Patterns starting with a digit or '{' first split the line on spaces.`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	color.NoColor = !isTerminal(stderr)

	var cli CLI
	exited, exitCode := false, 0
	parser, err := kong.New(&cli,
		kong.Name("fex"),
		kong.Description(description),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) {
			exited, exitCode = true, code
		}),
		kong.Vars{"version": fmt.Sprintf("fex version %s (commit %s, built %s, regex coregex)", version, commit, date)},
	)
	if err != nil {
		printError(stderr, err)
		return 1
	}
	if _, err := parser.Parse(args); err != nil {
		if exited {
			return exitCode
		}
		printError(stderr, err)
		return 1
	}
	if exited {
		return exitCode
	}

	if err := cli.Run(ctx, stdin, stdout, stderr); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

// Run compiles the patterns and processes input.
func (c *CLI) Run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	var file *config.File
	if c.Config != "" {
		var err error
		if file, err = config.Load(c.Config); err != nil {
			return err
		}
	}

	cfg, logConfig, err := c.options(file)
	if err != nil {
		return err
	}
	logConfig.Output = stderr
	if cfg.Logger, err = logging.New(logConfig); err != nil {
		return err
	}

	// Compile every pattern before reading any input
	programs, err := fex.CompileAll(c.Patterns, cfg)
	if err != nil {
		return err
	}

	if c.Disassemble {
		for _, prog := range programs {
			fmt.Fprintln(stderr, prog.Disassemble())
		}
		return nil
	}

	inputs := runtime.NewInputs(stdin)
	if err := inputs.Open(c.Input...); err != nil {
		return err
	}
	defer inputs.CloseAll()
	cfg.Logger.Debug("reading input", "sources", inputs.Len())

	// Interactive output is written line by line; anything else is
	// buffered for throughput.
	var out *bufio.Writer
	cfg.Output = stdout
	if !isTerminal(stdout) {
		out = bufio.NewWriterSize(stdout, 64*1024)
		cfg.Output = out
	}

	stats, runErr := fex.RunPrograms(ctx, programs, inputs.Reader(), cfg)
	if out != nil {
		if err := out.Flush(); err != nil && runErr == nil {
			runErr = err
		}
	}
	if stats.Skipped > 0 {
		cfg.Logger.Warn("skipped out-of-range selections", "count", stats.Skipped)
	}
	return runErr
}
