// Package runtime provides runtime support for fex plans: regex
// selectors and input sources.
package runtime

import (
	"sync"

	"github.com/coregx/coregex"
)

// RegexConfig controls regex behavior.
type RegexConfig struct {
	// POSIX enables leftmost-longest matching (POSIX ERE semantics).
	// When false, uses leftmost-first matching (faster, Perl-like).
	POSIX bool
}

// DefaultConfig returns the default POSIX-compliant configuration.
func DefaultConfig() RegexConfig {
	return RegexConfig{POSIX: true}
}

// Regex wraps coregex for regex selectors.
// A Regex is immutable and safe for concurrent use.
type Regex struct {
	pattern string
	re      *coregex.Regexp
}

// CompileWithConfig creates a new Regex with specified configuration.
func CompileWithConfig(pattern string, config RegexConfig) (*Regex, error) {
	re, err := coregex.Compile(pattern)
	if err != nil {
		return nil, err
	}

	if config.POSIX {
		re.Longest()
	}

	return &Regex{
		pattern: pattern,
		re:      re,
	}, nil
}

// String returns the pattern in selector syntax.
func (r *Regex) String() string {
	return "/" + r.pattern + "/"
}

// MatchString reports whether s contains any match.
func (r *Regex) MatchString(s string) bool {
	return r.re.MatchString(s)
}

// RegexCache shares compiled regexes between patterns. Every pattern
// argument is compiled at startup, so the cache is bounded by the
// command line and never evicts.
type RegexCache struct {
	mu     sync.Mutex
	cache  map[string]*Regex
	config RegexConfig
}

// NewRegexCache creates a cache with default POSIX config.
func NewRegexCache() *RegexCache {
	return NewRegexCacheWithConfig(DefaultConfig())
}

// NewRegexCacheWithConfig creates a cache that compiles with config.
func NewRegexCacheWithConfig(config RegexConfig) *RegexCache {
	return &RegexCache{
		cache:  make(map[string]*Regex),
		config: config,
	}
}

// Get returns a compiled regex, compiling and caching if needed.
func (c *RegexCache) Get(pattern string) (*Regex, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.cache[pattern]; ok {
		return re, nil
	}

	re, err := CompileWithConfig(pattern, c.config)
	if err != nil {
		return nil, err
	}
	c.cache[pattern] = re
	return re, nil
}
