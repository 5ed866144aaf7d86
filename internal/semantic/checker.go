package semantic

import (
	"github.com/kolkov/fex/internal/plan"
)

// Check validates every Select range of p and returns all problems
// found, in step order. A nil result means the plan is runnable.
func Check(p *plan.Plan) ErrorList {
	var errs ErrorList
	for _, step := range p.Steps {
		if step.Kind != plan.Select {
			continue
		}
		for _, r := range step.Ranges {
			checkRange(&errs, step, r)
		}
	}
	return errs
}

func checkRange(errs *ErrorList, step plan.Step, r plan.Range) {
	// Ranges are stored 0-based, so a 1-based 0 shows up as -1.
	if r.Start < 0 || r.End < 0 {
		errs.Add(ZeroIndex, step.Pos, errZeroIndex, selectorText(r))
		return
	}
	if r.Start > r.End {
		errs.Add(ReversedRange, step.Pos, errReversedRange, r.Start+1, r.End+1)
	}
}

func selectorText(r plan.Range) string {
	if r.Start == r.End {
		return "selector"
	}
	return "range " + r.String()
}
