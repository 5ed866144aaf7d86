package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kolkov/fex/internal/lexer"
	"github.com/kolkov/fex/internal/plan"
	"github.com/kolkov/fex/internal/runtime"
	"github.com/kolkov/fex/internal/token"
)

// Parser turns one pattern into a plan.Plan.
//
// Grammar:
//
//	Pattern   := [ImplicitSplit] Selector (Splitter Selector)*
//	Selector  := Digits | '/' RegexBody '/' | '{' MultiSpec '}'
//	Splitter  := AnyChar
//	MultiSpec := Token (',' Token)*
//	Token     := Digits | Digits ':' Digits
//
// A selector may be omitted: a character that cannot start one is
// taken as the next splitter, so ",2" splits on commas and selects
// the second field.
type Parser struct {
	lex     *lexer.Lexer
	src     string
	steps   []plan.Step
	regexes *runtime.RegexCache
}

// Parse parses a pattern and returns its plan.
// Regex selectors are compiled with the default POSIX configuration.
func Parse(pattern string) (*plan.Plan, error) {
	return ParseWithCache(pattern, nil)
}

// ParseWithCache parses a pattern, compiling regex selectors through
// cache so that identical bodies across patterns share one Regex.
// A nil cache gets a fresh default cache.
func ParseWithCache(pattern string, cache *runtime.RegexCache) (*plan.Plan, error) {
	if cache == nil {
		cache = runtime.NewRegexCache()
	}
	p := &Parser{
		lex:     lexer.New(pattern),
		src:     pattern,
		regexes: cache,
	}
	if err := p.parsePattern(); err != nil {
		return nil, err
	}
	return &plan.Plan{Source: pattern, Steps: p.steps}, nil
}

func (p *Parser) emit(step plan.Step) {
	p.steps = append(p.steps, step)
}

func (p *Parser) parsePattern() error {
	// Patterns that open with a selector work on whitespace-separated input.
	if ch, ok := p.lex.Peek(); ok && token.ImpliesSplit(ch) {
		p.emit(plan.NewSplit(token.NoPos, string(token.DefaultSeparator)))
	}

	for !p.lex.AtEOF() {
		if err := p.parseSelector(); err != nil {
			return err
		}
		if p.lex.AtEOF() {
			break
		}
		if err := p.parseSplitter(); err != nil {
			return err
		}
	}

	p.emit(plan.NewEnd(p.lex.Pos()))
	return nil
}

// parseSelector parses an optional selector at the current position.
func (p *Parser) parseSelector() error {
	opener, _ := p.lex.Peek()
	if !token.StartsSelector(opener) {
		return nil
	}

	tok := p.lex.ScanSelector()
	switch tok.Type {
	case token.INDEX:
		n, err := parseIndex(tok.Value, tok.Pos)
		if err != nil {
			return err
		}
		p.emit(plan.NewSelect(tok.Pos, plan.Single(n-1)))
	case token.REGEX:
		re, err := p.regexes.Get(tok.Value)
		if err != nil {
			e := errorf(InvalidRegex, tok.Pos, "invalid regex /%s/: %v", tok.Value, err)
			e.Err = err
			return e
		}
		p.emit(plan.NewSelectRegex(tok.Pos, re))
	case token.GROUP:
		ranges, err := parseGroup(tok.Value, tok.Pos)
		if err != nil {
			return err
		}
		p.emit(plan.NewSelect(tok.Pos, ranges...))
	case token.ILLEGAL:
		ch, _ := utf8.DecodeRuneInString(tok.Value)
		return syntaxError(tok.Pos, ch)
	case token.UNTERMINATED:
		closer := token.RegexDelim
		if opener == token.GroupOpen {
			closer = token.GroupClose
		}
		return errorf(UnexpectedEnd, tok.Pos, "unexpected end of pattern: missing closing %q", closer)
	default:
		return errorf(UnexpectedEnd, tok.Pos, "unexpected end of pattern: expected selector")
	}
	return nil
}

func (p *Parser) parseSplitter() error {
	tok := p.lex.ScanSplitter()
	if tok.Type != token.CHAR {
		return errorf(UnexpectedEnd, tok.Pos, "unexpected end of pattern: expected splitter")
	}
	p.emit(plan.NewSplit(tok.Pos, tok.Value))
	return nil
}

// parseGroup converts a group body into 0-based ranges. Range validity
// (zero indices, reversed bounds) is left to the semantic checker.
func parseGroup(body string, pos token.Position) ([]plan.Range, error) {
	// Group bodies are ASCII, so byte offsets equal column offsets.
	base := pos
	base.Column++
	base.Offset++

	var ranges []plan.Range
	offset := 0
	for _, item := range strings.Split(body, string(token.ListSep)) {
		itemPos := base
		itemPos.Column += offset
		itemPos.Offset += offset
		offset += len(item) + 1

		lo, hi, isRange := strings.Cut(item, string(token.RangeSep))
		start, err := parseIndex(lo, itemPos)
		if err != nil {
			return nil, err
		}
		end := start
		if isRange {
			hiPos := itemPos
			hiPos.Column += len(lo) + 1
			hiPos.Offset += len(lo) + 1
			if end, err = parseIndex(hi, hiPos); err != nil {
				return nil, err
			}
		}
		ranges = append(ranges, plan.Range{Start: start - 1, End: end - 1})
	}
	return ranges, nil
}

// parseIndex parses a 1-based field index.
func parseIndex(s string, pos token.Position) (int, error) {
	if s == "" {
		return 0, errorf(InvalidNumber, pos, "missing field index")
	}
	for _, ch := range s {
		if !token.IsDigit(ch) {
			return 0, errorf(InvalidNumber, pos, "malformed field index %q", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		e := errorf(InvalidNumber, pos, "field index %s is too large", s)
		e.Err = err
		return 0, e
	}
	return n, nil
}
