// Package parser provides the fex pattern parser.
package parser

import (
	"fmt"

	"github.com/kolkov/fex/internal/token"
)

// ErrorKind classifies a ParseError.
type ErrorKind uint8

const (
	// UnexpectedEnd means the pattern ended where more input was required.
	UnexpectedEnd ErrorKind = iota

	// InvalidSyntax means an illegal character appeared inside a group.
	InvalidSyntax

	// InvalidNumber means a group token is not an index or an A:B range.
	InvalidNumber

	// InvalidRegex means a regex selector body failed to compile.
	InvalidRegex
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case UnexpectedEnd:
		return "unexpected end"
	case InvalidSyntax:
		return "invalid syntax"
	case InvalidNumber:
		return "invalid number"
	case InvalidRegex:
		return "invalid regex"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// ParseError represents a syntax error encountered during parsing.
type ParseError struct {
	Kind    ErrorKind
	Pos     token.Position // Position where the error occurred
	Char    rune           // Offending character (InvalidSyntax only)
	Message string         // Human-readable error message
	Err     error          // Underlying error, if any
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying number or regex error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// errorf creates a ParseError at the given position with formatted message.
func errorf(kind ErrorKind, pos token.Position, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// syntaxError creates an InvalidSyntax error for an illegal character.
func syntaxError(pos token.Position, ch rune) *ParseError {
	return &ParseError{
		Kind:    InvalidSyntax,
		Pos:     pos,
		Char:    ch,
		Message: fmt.Sprintf("invalid character %q in field group", ch),
	}
}
