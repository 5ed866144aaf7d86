// Package semantic validates parsed fex plans.
//
// The parser only checks that a pattern is well formed. The checker
// then rejects plans that are syntactically fine but can never run:
//   - index 0, since pattern indices are 1-based
//   - ranges whose start is after their end
package semantic

import (
	"fmt"
	"strings"

	"github.com/kolkov/fex/internal/token"
)

// ErrorKind classifies a semantic Error.
type ErrorKind uint8

const (
	// ZeroIndex means a selector used index 0.
	ZeroIndex ErrorKind = iota

	// ReversedRange means a range A:B has A > B.
	ReversedRange
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ZeroIndex:
		return "zero index"
	case ReversedRange:
		return "reversed range"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error represents a semantic error with its location in the pattern.
type Error struct {
	Kind    ErrorKind
	Pos     token.Position
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ErrorList is a collection of semantic errors.
type ErrorList []*Error

// Add appends an error to the list.
func (el *ErrorList) Add(kind ErrorKind, pos token.Position, format string, args ...any) {
	*el = append(*el, &Error{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// Err returns an error if the list is non-empty, nil otherwise.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// Error implements the error interface for ErrorList.
func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		var sb strings.Builder
		sb.WriteString(el[0].Error())
		for _, e := range el[1:] {
			sb.WriteByte('\n')
			sb.WriteString(e.Error())
		}
		return sb.String()
	}
}

const (
	errZeroIndex     = "field index 0 in %s: fields are numbered from 1"
	errReversedRange = "range %d:%d ends before it starts"
)
