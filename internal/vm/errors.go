package vm

import (
	"fmt"

	"github.com/kolkov/fex/internal/plan"
	"github.com/kolkov/fex/internal/token"
)

// IndexOutOfRangeError is returned when a Select range reaches past
// the last field of the current line.
type IndexOutOfRangeError struct {
	Range  plan.Range     // Offending range (0-based)
	Fields int            // Number of fields available
	Pos    token.Position // Position of the selector in the pattern
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("field %s out of range: line has %d field%s",
		e.Range, e.Fields, plural(e.Fields))
}

// LineError ties an execution error to the input line and pattern
// that produced it.
type LineError struct {
	Line    int    // 1-based input line number
	Pattern string // Source of the failing plan
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: pattern %q: %v", e.Line, e.Pattern, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ReadError wraps a failure of the input source. Lines before the
// failure have already been processed.
type ReadError struct {
	Line int // Last line read successfully
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading input after line %d: %v", e.Line, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
