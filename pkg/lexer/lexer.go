// Package lexer tokenizes source text for the toy expression language
package lexer

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// eof marks an exhausted character source
const eof = -1

// Lexer pulls characters from a rune source one at a time and groups them
// into tokens. It holds a single character of lookahead between calls.
type Lexer struct {
	r      io.RuneReader
	ch     rune // current character, eof once the source is exhausted
	err    error
	line   int
	column int
}

// New creates a new Lexer reading from r. Readers that are not already an
// io.RuneReader are buffered.
func New(r io.Reader) *Lexer {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	l := &Lexer{r: rr, line: 1, column: 0}
	l.readChar()
	return l
}

// NewString creates a new Lexer for the given input
func NewString(input string) *Lexer {
	return New(strings.NewReader(input))
}

// Err returns the first read error other than io.EOF, if any. The lexer
// treats such an error as end of input.
func (l *Lexer) Err() error {
	return l.err
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	ch, _, err := l.r.ReadRune()
	l.column++
	if err != nil {
		if err != io.EOF && l.err == nil {
			l.err = err
		}
		l.ch = eof
		return
	}
	l.ch = ch
}

// NextToken returns the next token from the input. Once the input is
// exhausted every call returns TokenEOF.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()
		if l.ch != '#' {
			break
		}
		l.skipComment()
	}

	tok := Token{Line: l.line, Column: l.column}

	switch {
	case l.ch == eof:
		tok.Type = TokenEOF
	case isLetter(l.ch):
		tok.Literal = l.readIdentifier()
		tok.Type = LookupIdent(tok.Literal)
	case isDigit(l.ch) || l.ch == '.':
		tok.Type = TokenNumber
		tok.Literal = l.readNumber()
		tok.Value = ParseNumber(tok.Literal)
	default:
		tok.Type = TokenChar
		tok.Char = l.ch
		tok.Literal = string(l.ch)
		l.readChar()
	}
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch != eof && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// skipComment discards a '#' comment up to, not including, the line break
func (l *Lexer) skipComment() {
	for l.ch != eof && l.ch != '\n' && l.ch != '\r' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	var sb strings.Builder
	for isLetter(l.ch) || isDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return sb.String()
}

func (l *Lexer) readNumber() string {
	var sb strings.Builder
	for isDigit(l.ch) || l.ch == '.' {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return sb.String()
}

// ParseNumber returns the value of the longest decimal prefix of s, or 0 if
// there is none. Extra dots end the number: "1.2.3" is 1.2 and "." is 0.
func ParseNumber(s string) float64 {
	end := 0
	for end < len(s) && isDigit(rune(s[end])) {
		end++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(rune(s[end])) {
			end++
		}
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v
		}
		return 0
	}
	return v
}

func isLetter(ch rune) bool {
	return ch != eof && unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
