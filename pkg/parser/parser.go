// Package parser implements a recursive descent parser for the toy expression
// language. Binary expressions are resolved by precedence climbing over a
// per-parser operator table.
package parser

import (
	"github.com/raymyers/ralph-toy/pkg/ast"
	"github.com/raymyers/ralph-toy/pkg/lexer"
)

// Parser turns a token stream into AST nodes using one token of lookahead
type Parser struct {
	l        *lexer.Lexer
	curToken lexer.Token
	prec     *Precedence
}

// New creates a new Parser for the given lexer and reads the first token.
// The parser works on its own copy of prec; nil selects DefaultPrecedence.
func New(l *lexer.Lexer, prec *Precedence) *Parser {
	if prec == nil {
		prec = DefaultPrecedence()
	} else {
		prec = prec.Clone()
	}
	p := &Parser{l: l, prec: prec}
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.l.NextToken()
}

// CurToken returns the lookahead token
func (p *Parser) CurToken() lexer.Token {
	return p.curToken
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) curCharIs(ch rune) bool {
	return p.curToken.Is(ch)
}

func (p *Parser) syntaxError(msg string) error {
	return &SyntaxError{Token: p.curToken, Msg: msg}
}

// tokPrecedence returns the precedence of the lookahead token, or -1 if it
// is not a binary operator
func (p *Parser) tokPrecedence() int {
	if !p.curTokenIs(lexer.TokenChar) {
		return -1
	}
	return p.prec.Lookup(p.curToken.Char)
}

// ParseExpression parses a primary expression followed by any number of
// binary operators and operands
func (p *Parser) ParseExpression() (ast.Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseBinOpRHS(0, lhs)
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch {
	case p.curTokenIs(lexer.TokenIdent):
		return p.parseIdentifierExpr()
	case p.curTokenIs(lexer.TokenNumber):
		return p.parseNumberExpr()
	case p.curCharIs('('):
		return p.parseParenExpr()
	default:
		return nil, p.syntaxError(MsgUnexpectedToken)
	}
}

func (p *Parser) parseNumberExpr() (ast.Expr, error) {
	result := ast.Number{Value: p.curToken.Value}
	p.nextToken()
	return result, nil
}

// parseParenExpr parses '(' expression ')'. The parentheses are not kept in
// the tree.
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	p.nextToken() // consume '('
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.curCharIs(')') {
		return nil, p.syntaxError(MsgExpectedRParen)
	}
	p.nextToken() // consume ')'
	return expr, nil
}

// parseIdentifierExpr parses a variable reference or a call:
// identifier | identifier '(' [expression {',' expression}] ')'
func (p *Parser) parseIdentifierExpr() (ast.Expr, error) {
	name := p.curToken.Literal
	p.nextToken()

	if !p.curCharIs('(') {
		return ast.Variable{Name: name}, nil
	}
	p.nextToken() // consume '('

	args := []ast.Expr{}
	if !p.curCharIs(')') {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.curCharIs(')') {
				break
			}
			if !p.curCharIs(',') {
				return nil, p.syntaxError(MsgExpectedArgListSep)
			}
			p.nextToken() // consume ','
		}
	}
	p.nextToken() // consume ')'

	return ast.Call{Callee: name, Args: args}, nil
}

// parseBinOpRHS folds operators with precedence of at least minPrec into lhs.
// An operator followed by a tighter one hands its right operand to a
// recursive call with a threshold one above its own, so equal precedence
// chains associate to the left.
func (p *Parser) parseBinOpRHS(minPrec int, lhs ast.Expr) (ast.Expr, error) {
	for {
		tokPrec := p.tokPrecedence()
		if tokPrec < minPrec {
			return lhs, nil
		}

		op := p.curToken.Char
		p.nextToken() // consume operator

		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		if nextPrec := p.tokPrecedence(); tokPrec < nextPrec {
			rhs, err = p.parseBinOpRHS(tokPrec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = ast.Binary{Op: op, Left: lhs, Right: rhs}
	}
}

// ParsePrototype parses name '(' {identifier} ')'
func (p *Parser) ParsePrototype() (ast.Prototype, error) {
	if !p.curTokenIs(lexer.TokenIdent) {
		return ast.Prototype{}, p.syntaxError(MsgExpectedProtoName)
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.curCharIs('(') {
		return ast.Prototype{}, p.syntaxError(MsgExpectedProtoOpen)
	}
	p.nextToken() // consume '('

	params := []string{}
	for p.curTokenIs(lexer.TokenIdent) {
		params = append(params, p.curToken.Literal)
		p.nextToken()
	}

	if !p.curCharIs(')') {
		return ast.Prototype{}, p.syntaxError(MsgExpectedProtoClose)
	}
	p.nextToken() // consume ')'

	return ast.Prototype{Name: name, Params: params}, nil
}

// ParseDefinition parses 'def' prototype expression
func (p *Parser) ParseDefinition() (ast.Function, error) {
	if !p.curTokenIs(lexer.TokenDef) {
		return ast.Function{}, p.syntaxError(MsgExpectedDef)
	}
	p.nextToken() // consume 'def'

	proto, err := p.ParsePrototype()
	if err != nil {
		return ast.Function{}, err
	}

	body, err := p.ParseExpression()
	if err != nil {
		return ast.Function{}, err
	}

	return ast.Function{Proto: proto, Body: body}, nil
}

// ParseExtern parses 'extern' prototype
func (p *Parser) ParseExtern() (ast.Prototype, error) {
	if !p.curTokenIs(lexer.TokenExtern) {
		return ast.Prototype{}, p.syntaxError(MsgExpectedExtern)
	}
	p.nextToken() // consume 'extern'
	return p.ParsePrototype()
}

// ParseTopLevelExpr parses an expression and wraps it in an anonymous,
// parameterless function
func (p *Parser) ParseTopLevelExpr() (ast.Function, error) {
	body, err := p.ParseExpression()
	if err != nil {
		return ast.Function{}, err
	}
	return ast.Function{Proto: ast.Prototype{Params: []string{}}, Body: body}, nil
}

// ParseProgram parses definitions until end of input. Malformed items are
// skipped; their errors are returned in source order.
func (p *Parser) ParseProgram() (*ast.Program, []error) {
	c := &Collector{}
	d := NewDriver(p, c, nil)
	errs := []error{}
	if err := d.Run(); err != nil {
		errs = append(errs, err)
	}
	errs = append(d.Errors(), errs...)
	return &c.Program, errs
}
