package token

import "fmt"

// Position represents a position inside a pattern string.
// Patterns are always a single line, so only the column is tracked.
type Position struct {
	// Column is the rune offset in the pattern (1-indexed).
	Column int
	// Offset is the byte offset from the start of the pattern (0-indexed).
	Offset int
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("column %d", p.Column)
}

// IsValid returns true if the position is valid (column > 0).
func (p Position) IsValid() bool {
	return p.Column > 0
}

// NoPos is a zero Position used when position is unknown.
var NoPos = Position{}
