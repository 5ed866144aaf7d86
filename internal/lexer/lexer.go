// Package lexer provides fex pattern tokenization.
//
// The pattern language has two sub-languages that share characters:
// a ',' is a splitter at the top level but a list separator inside a
// group. The lexer therefore never decides on its own what comes next;
// the parser asks for a selector or a splitter explicitly.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/kolkov/fex/internal/token"
)

// Lexer is a cursor over a pattern string with one rune of lookahead.
type Lexer struct {
	src    string // Pattern source
	ch     rune   // Current character (-1 at EOF)
	offset int    // Byte offset of the character after ch
	pos    token.Position
	next   token.Position
}

// New creates a new Lexer for the given pattern.
func New(src string) *Lexer {
	l := &Lexer{
		src:  src,
		next: token.Position{Column: 1},
	}
	l.advance()
	return l
}

// Token represents a scanned token with its position and value.
type Token struct {
	Type  token.Token
	Pos   token.Position
	Value string
}

// Peek returns the current character without consuming it.
// ok is false at the end of the pattern.
func (l *Lexer) Peek() (ch rune, ok bool) {
	return l.ch, l.ch >= 0
}

// AtEOF reports whether the whole pattern has been consumed.
func (l *Lexer) AtEOF() bool {
	return l.ch < 0
}

// Pos returns the position of the current character.
func (l *Lexer) Pos() token.Position {
	return l.pos
}

// ScanSplitter consumes exactly one character, taken literally. The
// value is the source bytes, so a byte that is not valid UTF-8 is kept
// as is.
func (l *Lexer) ScanSplitter() Token {
	pos := l.pos
	if l.ch < 0 {
		return Token{Type: token.EOF, Pos: pos}
	}
	l.advance()
	return Token{Type: token.CHAR, Pos: pos, Value: l.src[pos.Offset:l.pos.Offset]}
}

// ScanSelector scans the selector starting at the current character.
// Callers check token.StartsSelector first; any other character
// yields ILLEGAL without being consumed.
func (l *Lexer) ScanSelector() Token {
	pos := l.pos
	switch {
	case l.ch < 0:
		return Token{Type: token.EOF, Pos: pos}
	case token.IsDigit(l.ch):
		return l.scanIndex(pos)
	case l.ch == token.RegexDelim:
		return l.scanRegex(pos)
	case l.ch == token.GroupOpen:
		return l.scanGroup(pos)
	}
	return Token{Type: token.ILLEGAL, Pos: pos, Value: string(l.ch)}
}

func (l *Lexer) scanIndex(pos token.Position) Token {
	start := pos.Offset
	for token.IsDigit(l.ch) {
		l.advance()
	}
	return Token{Type: token.INDEX, Pos: pos, Value: l.src[start:l.pos.Offset]}
}

// scanRegex reads up to the next unescaped '/'. A backslash makes the
// following character literal and is itself dropped.
func (l *Lexer) scanRegex(pos token.Position) Token {
	l.advance() // consume opening /

	var sb strings.Builder
	for {
		switch l.ch {
		case -1:
			return Token{Type: token.UNTERMINATED, Pos: l.pos, Value: sb.String()}
		case token.RegexDelim:
			l.advance() // consume closing /
			return Token{Type: token.REGEX, Pos: pos, Value: sb.String()}
		case token.Escape:
			l.advance()
			if l.ch < 0 {
				return Token{Type: token.UNTERMINATED, Pos: l.pos, Value: sb.String()}
			}
		}
		sb.WriteString(l.src[l.pos.Offset:l.offset])
		l.advance()
	}
}

// scanGroup reads up to the next '}'. The first character that cannot
// appear in a group is reported as ILLEGAL at its own position.
func (l *Lexer) scanGroup(pos token.Position) Token {
	l.advance() // consume {
	start := l.pos.Offset

	for {
		switch {
		case l.ch < 0:
			return Token{Type: token.UNTERMINATED, Pos: l.pos, Value: l.src[start:]}
		case l.ch == token.GroupClose:
			value := l.src[start:l.pos.Offset]
			l.advance() // consume }
			return Token{Type: token.GROUP, Pos: pos, Value: value}
		case !token.IsGroupChar(l.ch):
			return Token{Type: token.ILLEGAL, Pos: l.pos, Value: string(l.ch)}
		}
		l.advance()
	}
}

// advance moves to the next rune. Invalid UTF-8 decodes as
// utf8.RuneError and still advances one byte.
func (l *Lexer) advance() {
	l.pos = l.next
	if l.offset >= len(l.src) {
		l.ch = -1
		return
	}

	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.ch = r
	l.offset += size
	l.next.Column++
	l.next.Offset = l.offset
}
