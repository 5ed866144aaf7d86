package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/kolkov/fex"
)

var (
	errorPrefix = color.New(color.FgRed, color.Bold).SprintFunc()
	caretFmt    = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printError prints "fex: err" to w. Pattern errors are followed by
// the pattern with a caret under the offending column.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorPrefix("fex:"), err)

	var pe *fex.ParseError
	var ce *fex.CompileError
	switch {
	case errors.As(err, &pe):
		printCaret(w, pe.Pattern, pe.Column)
	case errors.As(err, &ce):
		printCaret(w, ce.Pattern, ce.Column)
	}
}

func printCaret(w io.Writer, pattern string, column int) {
	if column < 1 {
		return
	}
	fmt.Fprintf(w, "  %s\n  %s%s\n", pattern, strings.Repeat(" ", column-1), caretFmt("^"))
}
