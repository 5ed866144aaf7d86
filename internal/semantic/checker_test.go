package semantic_test

import (
	"testing"

	"github.com/kolkov/fex/internal/parser"
	"github.com/kolkov/fex/internal/semantic"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		pattern   string
		wantKinds []semantic.ErrorKind
	}{
		{"3", nil},
		{"{1,3}", nil},
		{"{2:2}", nil},
		{"/x/,1", nil},
		{"", nil},
		{"0", []semantic.ErrorKind{semantic.ZeroIndex}},
		{"{0:3}", []semantic.ErrorKind{semantic.ZeroIndex}},
		{"{3:1}", []semantic.ErrorKind{semantic.ReversedRange}},
		{"{3:1,0}.0", []semantic.ErrorKind{semantic.ReversedRange, semantic.ZeroIndex, semantic.ZeroIndex}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p, err := parser.Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.pattern, err)
			}
			errs := semantic.Check(p)
			if len(errs) != len(tt.wantKinds) {
				t.Fatalf("Check(%q) = %v, want %d errors", tt.pattern, errs, len(tt.wantKinds))
			}
			for i, e := range errs {
				if e.Kind != tt.wantKinds[i] {
					t.Errorf("error %d kind = %v, want %v", i, e.Kind, tt.wantKinds[i])
				}
			}
			if (errs.Err() == nil) != (len(tt.wantKinds) == 0) {
				t.Errorf("Err() = %v", errs.Err())
			}
		})
	}
}

func TestCheckErrorMessage(t *testing.T) {
	p, err := parser.Parse("1:{4:2}")
	if err != nil {
		t.Fatal(err)
	}
	errs := semantic.Check(p)
	if len(errs) != 1 {
		t.Fatalf("Check() = %v, want 1 error", errs)
	}
	want := "column 3: range 4:2 ends before it starts"
	if got := errs.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorListEmpty(t *testing.T) {
	var el semantic.ErrorList
	if el.Err() != nil {
		t.Error("empty list should have nil Err()")
	}
	if el.Error() != "no errors" {
		t.Errorf("Error() = %q", el.Error())
	}
}
