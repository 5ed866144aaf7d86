// Package plan defines the executable form of a fex pattern.
package plan

import (
	"fmt"
	"strings"

	"github.com/kolkov/fex/internal/runtime"
	"github.com/kolkov/fex/internal/token"
)

// Kind identifies a Step variant.
type Kind uint8

const (
	// Select keeps the fields covered by Ranges and joins them into one.
	Select Kind = iota

	// SelectRegex filters fields by Regex (inert unless filtering is enabled).
	SelectRegex

	// Split re-tokenizes every field on Sep.
	Split

	// End stops execution; the current fields are the result.
	End
)

// String returns the mnemonic used in disassembly.
func (k Kind) String() string {
	switch k {
	case Select:
		return "Select"
	case SelectRegex:
		return "SelectRegex"
	case Split:
		return "Split"
	case End:
		return "End"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Range is an inclusive, 0-based field index range.
type Range struct {
	Start int
	End   int
}

// Single returns the range covering only field i (0-based).
func Single(i int) Range {
	return Range{Start: i, End: i}
}

// Len returns the number of fields the range covers.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// String formats the range in 1-based pattern syntax.
func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start+1)
	}
	return fmt.Sprintf("%d:%d", r.Start+1, r.End+1)
}

// Step is one instruction of a Plan. Only the fields belonging to
// Kind are set.
type Step struct {
	Kind   Kind
	Ranges []Range        // Select
	Regex  *runtime.Regex // SelectRegex
	Sep    string         // Split: exactly one character
	Pos    token.Position // Where the construct starts in the pattern
}

// NewSelect returns a Select step over ranges.
func NewSelect(pos token.Position, ranges ...Range) Step {
	return Step{Kind: Select, Ranges: ranges, Pos: pos}
}

// NewSelectRegex returns a SelectRegex step.
func NewSelectRegex(pos token.Position, re *runtime.Regex) Step {
	return Step{Kind: SelectRegex, Regex: re, Pos: pos}
}

// NewSplit returns a Split step on sep.
func NewSplit(pos token.Position, sep string) Step {
	return Step{Kind: Split, Sep: sep, Pos: pos}
}

// NewEnd returns an End step.
func NewEnd(pos token.Position) Step {
	return Step{Kind: End, Pos: pos}
}

// String returns the step with its operands.
func (s Step) String() string {
	switch s.Kind {
	case Select:
		parts := make([]string, len(s.Ranges))
		for i, r := range s.Ranges {
			parts[i] = r.String()
		}
		return fmt.Sprintf("%s {%s}", s.Kind, strings.Join(parts, ","))
	case SelectRegex:
		if s.Regex == nil {
			return s.Kind.String() + " <nil>"
		}
		return fmt.Sprintf("%s %s", s.Kind, s.Regex)
	case Split:
		return fmt.Sprintf("%s %q", s.Kind, s.Sep)
	}
	return s.Kind.String()
}
