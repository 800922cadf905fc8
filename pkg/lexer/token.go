package lexer

import (
	"fmt"
	"strconv"
)

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota

	// Keywords
	TokenDef    // def
	TokenExtern // extern

	// Literals
	TokenIdent  // foo, x1
	TokenNumber // 1.0, 42, .5

	// Any other single character: operators and punctuation
	TokenChar
)

var tokenNames = map[TokenType]string{
	TokenEOF:    "EOF",
	TokenDef:    "def",
	TokenExtern: "extern",
	TokenIdent:  "IDENT",
	TokenNumber: "NUMBER",
	TokenChar:   "CHAR",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string  // source text of the token
	Value   float64 // parsed value of a TokenNumber
	Char    rune    // character of a TokenChar
	Line    int
	Column  int
}

// Is reports whether the token is the single character ch.
func (t Token) Is(ch rune) bool {
	return t.Type == TokenChar && t.Char == ch
}

// String renders the token for diagnostics.
func (t Token) String() string {
	switch t.Type {
	case TokenIdent:
		return fmt.Sprintf("identifier %q", t.Literal)
	case TokenNumber:
		return "number " + strconv.FormatFloat(t.Value, 'g', -1, 64)
	case TokenChar:
		return strconv.QuoteRune(t.Char)
	}
	return t.Type.String()
}

// keywords maps keyword strings to token types
var keywords = map[string]TokenType{
	"def":    TokenDef,
	"extern": TokenExtern,
}

// LookupIdent returns the token type for an identifier (keyword or IDENT)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}
