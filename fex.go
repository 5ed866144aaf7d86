package fex

import (
	"bytes"
	"context"
	"io"

	"github.com/kolkov/fex/internal/parser"
	"github.com/kolkov/fex/internal/plan"
	"github.com/kolkov/fex/internal/runtime"
	"github.com/kolkov/fex/internal/semantic"
	"github.com/kolkov/fex/internal/vm"
)

// Version is the fex version string.
const Version = "0.1.0"

// Compile parses and checks a pattern with the default configuration.
// The returned Program can be applied to any number of lines.
//
// Example:
//
//	prog, err := fex.Compile(",2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, _ := prog.Apply("a,b,c") // "b"
func Compile(pattern string) (*Program, error) {
	return CompileWithConfig(pattern, nil)
}

// CompileWithConfig is like Compile but uses config for regex
// compilation and for Program.Apply.
func CompileWithConfig(pattern string, config *Config) (*Program, error) {
	c := resolve(config)
	return compile(pattern, &c, runtime.NewRegexCacheWithConfig(c.regexConfig()))
}

// CompileAll compiles every pattern, in order. Identical regex
// selectors are compiled once and shared. The first failing pattern
// aborts compilation.
func CompileAll(patterns []string, config *Config) ([]*Program, error) {
	c := resolve(config)
	cache := runtime.NewRegexCacheWithConfig(c.regexConfig())

	programs := make([]*Program, 0, len(patterns))
	for _, pattern := range patterns {
		prog, err := compile(pattern, &c, cache)
		if err != nil {
			return nil, err
		}
		programs = append(programs, prog)
	}
	return programs, nil
}

func compile(pattern string, config *Config, cache *runtime.RegexCache) (*Program, error) {
	// Parse
	p, err := parser.ParseWithCache(pattern, cache)
	if err != nil {
		return nil, convertCompileError(pattern, err)
	}

	// Check index ranges
	if err := semantic.Check(p).Err(); err != nil {
		return nil, convertCompileError(pattern, err)
	}

	config.Logger.Debug("compiled pattern",
		"pattern", pattern,
		"steps", p.Len())
	return newProgram(p, config.machineConfig()), nil
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
// It simplifies initialization of global program variables.
//
// Example:
//
//	var user = fex.MustCompile(":1")
func MustCompile(pattern string) *Program {
	prog, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return prog
}

// Run compiles patterns and applies them to every line of input.
// This is a convenience function for one-off execution.
//
// If config.Output is nil, the output is returned as a string;
// otherwise it is written there and the returned string is empty.
// On a runtime error, the output produced before it is returned too.
//
// Example:
//
//	output, err := fex.Run([]string{"1", "2"}, strings.NewReader("x y z"), nil)
//	// output: "x\ny\n"
func Run(patterns []string, input io.Reader, config *Config) (string, error) {
	c := resolve(config)
	programs, err := CompileAll(patterns, &c)
	if err != nil {
		return "", err
	}

	var buf *bytes.Buffer
	if c.Output == nil {
		buf = &bytes.Buffer{}
		c.Output = buf
	}

	if _, err := RunPrograms(context.Background(), programs, input, &c); err != nil {
		if buf != nil {
			return buf.String(), err
		}
		return "", err
	}
	if buf != nil {
		return buf.String(), nil
	}
	return "", nil
}

// Exec compiles patterns, reads input and writes results to output.
//
// Example:
//
//	err := fex.Exec([]string{":1"}, os.Stdin, os.Stdout, nil)
func Exec(patterns []string, input io.Reader, output io.Writer, config *Config) error {
	c := resolve(config)
	c.Output = output
	_, err := Run(patterns, input, &c)
	return err
}

// RunPrograms applies compiled programs to every line of input, writing
// one output line per (line, program) pair to config.Output, in line
// order and then program order. A nil Output discards results.
//
// OFS and RegexMode are taken from config, not from the configuration
// the programs were compiled with.
func RunPrograms(ctx context.Context, programs []*Program, input io.Reader, config *Config) (Stats, error) {
	c := resolve(config)
	output := c.Output
	if output == nil {
		output = io.Discard
	}

	plans := make([]*plan.Plan, len(programs))
	for i, prog := range programs {
		plans[i] = prog.plan
	}

	exec := vm.NewExecutor(plans, c.execConfig())
	stats, err := exec.Run(ctx, input, output)
	return stats, convertRuntimeError(err)
}
