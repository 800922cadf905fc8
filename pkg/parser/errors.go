package parser

import (
	"fmt"

	"github.com/raymyers/ralph-toy/pkg/lexer"
)

// Messages for each grammar expectation that can fail
const (
	MsgUnexpectedToken    = "unexpected token while parsing an expression"
	MsgExpectedRParen     = "expected ')'"
	MsgExpectedArgListSep = "expected ',' or ')' in argument list"
	MsgExpectedProtoName  = "function prototype must start with a name"
	MsgExpectedProtoOpen  = "expected '(' in prototype"
	MsgExpectedProtoClose = "expected ')' in prototype"
	MsgExpectedDef        = "expected 'def'"
	MsgExpectedExtern     = "expected 'extern'"
)

// SyntaxError reports a grammar expectation that the current token violated
type SyntaxError struct {
	Token lexer.Token // the offending token
	Msg   string
}

// Detail returns the message and the offending token without a position
func (e *SyntaxError) Detail() string {
	return fmt.Sprintf("%s, got %s", e.Msg, e.Token)
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Token.Line, e.Token.Column, e.Detail())
}
