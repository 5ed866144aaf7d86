package fex

import (
	"context"
	"errors"
	"fmt"

	"github.com/kolkov/fex/internal/parser"
	"github.com/kolkov/fex/internal/semantic"
	"github.com/kolkov/fex/internal/vm"
)

// ParseErrorKind classifies a ParseError.
type ParseErrorKind uint8

const (
	// UnexpectedEnd: the pattern ended inside a selector, or where a
	// closing delimiter was required.
	UnexpectedEnd ParseErrorKind = iota

	// InvalidSyntax: an illegal character inside a {...} group.
	InvalidSyntax

	// InvalidNumber: a group token is not N or A:B, or N overflows.
	InvalidNumber

	// InvalidRegex: a /.../ body failed to compile.
	InvalidRegex
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedEnd:
		return "UnexpectedEnd"
	case InvalidSyntax:
		return "InvalidSyntax"
	case InvalidNumber:
		return "InvalidNumber"
	case InvalidRegex:
		return "InvalidRegex"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", uint8(k))
}

// ParseError represents a syntax error in a pattern.
type ParseError struct {
	Pattern string         // Pattern being parsed
	Column  int            // 1-based column, in runes
	Kind    ParseErrorKind // Error class
	Char    rune           // Offending character (InvalidSyntax only)
	Message string         // Error description
	Err     error          // Underlying number or regex error, if any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %q at column %d: %s", e.Pattern, e.Column, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CompileErrorKind classifies a CompileError.
type CompileErrorKind uint8

const (
	// ZeroIndex: a selector used index 0. Fields are numbered from 1.
	ZeroIndex CompileErrorKind = iota

	// ReversedRange: a range A:B with A > B.
	ReversedRange
)

func (k CompileErrorKind) String() string {
	switch k {
	case ZeroIndex:
		return "ZeroIndex"
	case ReversedRange:
		return "ReversedRange"
	}
	return fmt.Sprintf("CompileErrorKind(%d)", uint8(k))
}

// CompileError represents a well-formed pattern that can never run.
type CompileError struct {
	Pattern string           // Pattern being compiled
	Column  int              // 1-based column of the selector
	Kind    CompileErrorKind // Error class
	Message string           // Error description
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error in %q at column %d: %s", e.Pattern, e.Column, e.Message)
}

// RuntimeErrorKind classifies a RuntimeError.
type RuntimeErrorKind uint8

const (
	// IndexOutOfRange: a selector reached past the last field of a line.
	IndexOutOfRange RuntimeErrorKind = iota

	// InputFailure: reading input failed.
	InputFailure

	// OutputFailure: writing output failed.
	OutputFailure
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case InputFailure:
		return "InputFailure"
	case OutputFailure:
		return "OutputFailure"
	}
	return fmt.Sprintf("RuntimeErrorKind(%d)", uint8(k))
}

// RuntimeError represents an error while processing input.
type RuntimeError struct {
	Kind    RuntimeErrorKind // Error class
	Line    int              // 1-based input line (0 if not tied to a line)
	Pattern string           // Failing pattern (IndexOutOfRange only)
	Column  int              // Column of the failing selector (IndexOutOfRange only)
	Fields  int              // Fields available (IndexOutOfRange only)
	Message string           // Error description
	Err     error            // Underlying error
}

func (e *RuntimeError) Error() string {
	switch {
	case e.Kind == IndexOutOfRange && e.Line > 0:
		return fmt.Sprintf("runtime error at line %d: pattern %q: %s", e.Line, e.Pattern, e.Message)
	case e.Kind == IndexOutOfRange:
		return fmt.Sprintf("runtime error: pattern %q: %s", e.Pattern, e.Message)
	}
	return fmt.Sprintf("runtime error: %s", e.Message)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// convertCompileError converts parser and checker errors to public types.
func convertCompileError(pattern string, err error) error {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return &ParseError{
			Pattern: pattern,
			Column:  pe.Pos.Column,
			Kind:    parseErrorKind(pe.Kind),
			Char:    pe.Char,
			Message: pe.Message,
			Err:     pe.Err,
		}
	}

	// Report the first semantic error; the checker lists them in
	// pattern order.
	var el semantic.ErrorList
	if errors.As(err, &el) && len(el) > 0 {
		first := el[0]
		kind := ZeroIndex
		if first.Kind == semantic.ReversedRange {
			kind = ReversedRange
		}
		return &CompileError{
			Pattern: pattern,
			Column:  first.Pos.Column,
			Kind:    kind,
			Message: first.Message,
		}
	}

	return &ParseError{Pattern: pattern, Message: err.Error(), Err: err}
}

func parseErrorKind(k parser.ErrorKind) ParseErrorKind {
	switch k {
	case parser.InvalidSyntax:
		return InvalidSyntax
	case parser.InvalidNumber:
		return InvalidNumber
	case parser.InvalidRegex:
		return InvalidRegex
	}
	return UnexpectedEnd
}

// convertRuntimeError converts executor errors to public types.
// Context errors are returned unchanged.
func convertRuntimeError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rangeErr *vm.IndexOutOfRangeError
	if errors.As(err, &rangeErr) {
		re := &RuntimeError{
			Kind:    IndexOutOfRange,
			Column:  rangeErr.Pos.Column,
			Fields:  rangeErr.Fields,
			Message: rangeErr.Error(),
			Err:     rangeErr,
		}
		var lineErr *vm.LineError
		if errors.As(err, &lineErr) {
			re.Line = lineErr.Line
			re.Pattern = lineErr.Pattern
		}
		return re
	}

	var readErr *vm.ReadError
	if errors.As(err, &readErr) {
		return &RuntimeError{
			Kind:    InputFailure,
			Line:    readErr.Line,
			Message: readErr.Error(),
			Err:     readErr.Err,
		}
	}

	return &RuntimeError{Kind: OutputFailure, Message: err.Error(), Err: err}
}
