package plan

import (
	"fmt"
	"strings"
)

// Plan is the compiled form of one pattern. It is immutable once
// built and may be shared between goroutines.
type Plan struct {
	// Source is the pattern the plan was compiled from.
	Source string

	// Steps are executed in order. A well-formed plan ends with End.
	Steps []Step
}

// Len returns the number of steps, including the trailing End.
func (p *Plan) Len() int {
	return len(p.Steps)
}

// Disassemble returns a human-readable listing of the plan.
func (p *Plan) Disassemble() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Plan %q ===\n", p.Source)
	for i, step := range p.Steps {
		fmt.Fprintf(&sb, "  %04d: %-28s", i, step.String())
		if step.Pos.IsValid() {
			fmt.Fprintf(&sb, " ; col %d", step.Pos.Column)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
