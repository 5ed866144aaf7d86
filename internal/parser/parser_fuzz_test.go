package parser_test

import (
	"testing"

	"github.com/kolkov/fex/internal/parser"
	"github.com/kolkov/fex/internal/plan"
)

// FuzzParser tests the parser with random inputs to find crashes.
func FuzzParser(f *testing.F) {
	seeds := []string{
		"",
		"1",
		"3",
		"{1,3}",
		"{2:3}",
		"{1,2:4,7}",
		",2",
		"2,1",
		"{1:2}:3.1",
		"/foo/",
		`/a\/b/:2`,
		"/[a/",
		"{1,x}",
		"{1,2",
		"/abc",
		"{1-3}",
		"0",
		"99999999999999999999",
		"é1",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, pattern string) {
		p, err := parser.Parse(pattern)
		if err != nil {
			return
		}
		if len(p.Steps) == 0 || p.Steps[len(p.Steps)-1].Kind != plan.End {
			t.Fatalf("Parse(%q): plan does not end with End: %v", pattern, p.Steps)
		}
		for _, s := range p.Steps {
			if s.Kind == plan.Split && s.Sep == "" {
				t.Fatalf("Parse(%q): empty split separator", pattern)
			}
		}
	})
}
