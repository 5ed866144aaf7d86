// Package token defines the reserved characters of the fex pattern language.
package token

// Reserved characters. Any character not listed here can only appear
// as a splitter or inside a regex body.
const (
	RegexDelim = '/'  // opens and closes a regex selector
	Escape     = '\\' // escapes the next character inside a regex selector
	GroupOpen  = '{'  // opens a multi-select group
	GroupClose = '}'  // closes a multi-select group
	ListSep    = ','  // separates tokens inside a group
	RangeSep   = ':'  // separates the bounds of a range token
	Dash       = '-'  // legal inside a group, reserved
)

// DefaultSeparator is the split separator assumed before any Split step runs,
// and the one synthesized for patterns that open with a selector.
const DefaultSeparator = ' '

// IsDigit reports whether ch is an ASCII decimal digit.
func IsDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// StartsSelector reports whether ch can begin a selector.
func StartsSelector(ch rune) bool {
	return IsDigit(ch) || ch == RegexDelim || ch == GroupOpen
}

// ImpliesSplit reports whether a pattern starting with ch gets an implicit
// leading split on DefaultSeparator.
func ImpliesSplit(ch rune) bool {
	return IsDigit(ch) || ch == GroupOpen
}

// IsGroupChar reports whether ch is legal inside a multi-select group body.
func IsGroupChar(ch rune) bool {
	return IsDigit(ch) || ch == RangeSep || ch == ListSep || ch == Dash
}

// Token represents a lexical token type.
type Token uint8

const (
	ILLEGAL      Token = iota // illegal character
	EOF                       // end of pattern
	UNTERMINATED              // pattern ended inside a construct
	INDEX                     // digit run
	REGEX                     // /.../ body, escapes removed
	GROUP                     // {...} body
	CHAR                      // single splitter character
)

var tokenNames = [...]string{
	ILLEGAL:      "illegal character",
	EOF:          "end of pattern",
	UNTERMINATED: "unterminated selector",
	INDEX:        "index",
	REGEX:        "regex",
	GROUP:        "group",
	CHAR:         "character",
}

// String returns a human-readable name for the token type.
func (t Token) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "unknown"
}
