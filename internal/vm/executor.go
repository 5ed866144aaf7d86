package vm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kolkov/fex/internal/logging"
	"github.com/kolkov/fex/internal/plan"
)

const (
	initialLineBuffer = 64 * 1024
	maxLineSize       = 64 * 1024 * 1024
)

// ErrorMode selects how an out-of-range selection is handled.
type ErrorMode uint8

const (
	// ErrorModeStrict aborts the run on the first failing line.
	ErrorModeStrict ErrorMode = iota

	// ErrorModeSkip drops the failing (line, pattern) output, logs a
	// warning and continues.
	ErrorModeSkip
)

// String returns the mode name as used in configuration.
func (m ErrorMode) String() string {
	switch m {
	case ErrorModeStrict:
		return "strict"
	case ErrorModeSkip:
		return "skip"
	}
	return fmt.Sprintf("ErrorMode(%d)", uint8(m))
}

// ParseErrorMode parses "strict" or "skip". The empty string is strict.
func ParseErrorMode(s string) (ErrorMode, error) {
	switch s {
	case "", "strict":
		return ErrorModeStrict, nil
	case "skip":
		return ErrorModeSkip, nil
	}
	return 0, fmt.Errorf("unknown error mode %q (want strict or skip)", s)
}

// ExecConfig configures an Executor.
type ExecConfig struct {
	Machine   Config
	ErrorMode ErrorMode

	// Workers > 1 enables the ordered parallel executor.
	Workers int

	// ChunkSize is the approximate input size per parallel chunk.
	ChunkSize int

	// Logger receives skip warnings and the run summary. Nil discards.
	Logger *slog.Logger
}

// Stats summarizes a run.
type Stats struct {
	Lines   int // Input lines read
	Outputs int // Output lines written
	Skipped int // (line, pattern) pairs dropped in skip mode
}

func (s *Stats) add(other Stats) {
	s.Lines += other.Lines
	s.Outputs += other.Outputs
	s.Skipped += other.Skipped
}

// Executor drives a set of plans over newline-delimited input. For
// every line, each plan runs in order against a fresh copy of the
// line and contributes one output line.
type Executor struct {
	plans  []*plan.Plan
	config ExecConfig
	logger *slog.Logger
}

// NewExecutor creates an Executor. Plans must already be checked.
func NewExecutor(plans []*plan.Plan, config ExecConfig) *Executor {
	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Executor{plans: plans, config: config, logger: logger}
}

// Run reads input until EOF and writes results to output.
func (e *Executor) Run(ctx context.Context, input io.Reader, output io.Writer) (Stats, error) {
	var (
		stats Stats
		err   error
	)
	if e.config.Workers > 1 {
		pe := NewParallelExecutor(e, ParallelConfig{
			NumWorkers: e.config.Workers,
			ChunkSize:  e.config.ChunkSize,
		})
		stats, err = pe.Run(ctx, input, output)
	} else {
		stats, err = e.runSequential(ctx, input, output)
	}

	e.logger.Debug("run finished",
		"lines", stats.Lines,
		"outputs", stats.Outputs,
		"skipped", stats.Skipped,
		"workers", max(e.config.Workers, 1),
		"error", err != nil)
	return stats, err
}

func (e *Executor) runSequential(ctx context.Context, input io.Reader, output io.Writer) (Stats, error) {
	var stats Stats
	m := New(e.config.Machine)
	scanner := newLineScanner(input)
	buf := make([]byte, 0, 4096)

	for lineNum := 1; scanner.Scan(); lineNum++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var (
			skips []*LineError
			err   error
		)
		buf, skips, err = e.processLine(m, lineNum, scanner.Text(), buf[:0], &stats)
		e.logSkips(skips)
		if len(buf) > 0 {
			if _, werr := output.Write(buf); werr != nil {
				return stats, werr
			}
		}
		if err != nil {
			return stats, err
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, &ReadError{Line: stats.Lines, Err: err}
	}
	return stats, nil
}

// processLine runs every plan against one line, appending output lines
// to out. In strict mode the output produced before a failure is kept
// so callers can flush it ahead of reporting the error.
func (e *Executor) processLine(m *Machine, lineNum int, line string, out []byte, stats *Stats) ([]byte, []*LineError, error) {
	stats.Lines++
	var skips []*LineError

	for _, p := range e.plans {
		result, err := m.Exec(p, line)
		if err != nil {
			lineErr := &LineError{Line: lineNum, Pattern: p.Source, Err: err}
			var rangeErr *IndexOutOfRangeError
			if e.config.ErrorMode == ErrorModeSkip && errors.As(err, &rangeErr) {
				stats.Skipped++
				skips = append(skips, lineErr)
				continue
			}
			return out, skips, lineErr
		}
		out = append(out, result...)
		out = append(out, '\n')
		stats.Outputs++
	}
	return out, skips, nil
}

func (e *Executor) logSkips(skips []*LineError) {
	for _, s := range skips {
		e.logger.Warn("skipping line",
			"line", s.Line,
			"pattern", s.Pattern,
			"error", s.Err.Error())
	}
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)
	return scanner
}
