package runtime

import (
	"sync"
	"testing"
)

func mustCompile(t testing.TB, pattern string, config RegexConfig) *Regex {
	t.Helper()
	re, err := CompileWithConfig(pattern, config)
	if err != nil {
		t.Fatalf("CompileWithConfig(%q) error = %v", pattern, err)
	}
	return re
}

func TestCompileWithConfig(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr bool
	}{
		{"hello", false},
		{"^[a-z]+$", false},
		{"[0-9]+", false},
		{"(foo|bar)", false},
		{"", false},
		{"[invalid", true},
		{"(unclosed", true},
	}

	for _, posix := range []bool{true, false} {
		for _, tt := range tests {
			_, err := CompileWithConfig(tt.pattern, RegexConfig{POSIX: posix})
			if (err != nil) != tt.wantErr {
				t.Errorf("CompileWithConfig(%q, posix=%v) error = %v, wantErr %v",
					tt.pattern, posix, err, tt.wantErr)
			}
		}
	}
}

func TestMatchString(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"hello", "hello world", true},
		{"hello", "goodbye", false},
		{"^a", "abc", true},
		{"^a", "bac", false},
		{"[0-9]+", "port 8080", true},
		{"[0-9]+", "no digits", false},
		{"", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			for _, posix := range []bool{true, false} {
				re := mustCompile(t, tt.pattern, RegexConfig{POSIX: posix})
				if got := re.MatchString(tt.input); got != tt.want {
					t.Errorf("posix=%v MatchString(%q) = %v, want %v", posix, tt.input, got, tt.want)
				}
			}
		})
	}
}

func TestRegexString(t *testing.T) {
	if got := mustCompile(t, "a.c", DefaultConfig()).String(); got != "/a.c/" {
		t.Errorf("String() = %q, want %q", got, "/a.c/")
	}
}

func TestRegexCache(t *testing.T) {
	cache := NewRegexCache()

	re1, err := cache.Get("hello")
	if err != nil {
		t.Fatalf("Get(hello): %v", err)
	}
	re2, err := cache.Get("hello")
	if err != nil {
		t.Fatalf("Get(hello) again: %v", err)
	}
	if re1 != re2 {
		t.Error("expected same Regex instance from cache")
	}

	for i := 0; i < 2; i++ {
		if _, err := cache.Get("[invalid"); err == nil {
			t.Error("expected error for invalid pattern")
		}
	}
}

func TestRegexCacheConcurrency(t *testing.T) {
	cache := NewRegexCacheWithConfig(RegexConfig{POSIX: false})
	patterns := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	first := make([]*Regex, len(patterns))
	for i, p := range patterns {
		re, err := cache.Get(p)
		if err != nil {
			t.Fatal(err)
		}
		first[i] = re
	}

	var wg sync.WaitGroup
	for i := range patterns {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				re, err := cache.Get(patterns[idx])
				if err != nil {
					t.Errorf("concurrent Get error: %v", err)
					return
				}
				if re != first[idx] {
					t.Errorf("Get(%q) returned a new instance", patterns[idx])
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func BenchmarkMatchString(b *testing.B) {
	re := mustCompile(b, "err(or)?", DefaultConfig())
	input := "2024-01-01 12:00:00 worker-3 error connection reset"

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		re.MatchString(input)
	}
}
