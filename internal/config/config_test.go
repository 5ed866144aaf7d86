package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kolkov/fex/internal/vm"
)

func TestParse(t *testing.T) {
	doc := `
ofs: ","
regex: filter
posix: false
on_error: skip
workers: 4
log:
  level: debug
  format: json
`
	f, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if f.OFS == nil || *f.OFS != "," {
		t.Errorf("OFS = %v, want \",\"", f.OFS)
	}
	if f.POSIX == nil || *f.POSIX {
		t.Errorf("POSIX = %v, want false", f.POSIX)
	}
	if f.Workers != 4 {
		t.Errorf("Workers = %d, want 4", f.Workers)
	}
	if f.Log.Level != "debug" || f.Log.Format != "json" {
		t.Errorf("Log = %+v", f.Log)
	}
	if mode, _ := f.RegexMode(); mode != vm.RegexFilter {
		t.Errorf("RegexMode() = %v, want filter", mode)
	}
	if mode, _ := f.ErrorMode(); mode != vm.ErrorModeSkip {
		t.Errorf("ErrorMode() = %v, want skip", mode)
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.OFS != nil || f.POSIX != nil || f.Workers != 0 {
		t.Errorf("empty document produced %+v", f)
	}
}

func TestParseEmptyOFS(t *testing.T) {
	f, err := Parse(strings.NewReader(`ofs: ""`))
	if err != nil {
		t.Fatal(err)
	}
	if f.OFS == nil || *f.OFS != "" {
		t.Errorf("explicit empty ofs should be kept, got %v", f.OFS)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", "separator: ','", "field separator not found"},
		{"bad regex mode", "regex: greedy", "unknown regex mode"},
		{"bad error mode", "on_error: ignore", "unknown error mode"},
		{"negative workers", "workers: -2", "workers must be"},
		{"bad level", "log:\n  level: loud", "unknown log level"},
		{"bad format", "log:\n  format: xml", "unknown log format"},
		{"malformed", "ofs: [", "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fex.yaml")
	if err := os.WriteFile(path, []byte("workers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Workers != 2 {
		t.Errorf("Workers = %d, want 2", f.Workers)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
