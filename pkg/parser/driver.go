package parser

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/raymyers/ralph-toy/pkg/ast"
	"github.com/raymyers/ralph-toy/pkg/lexer"
)

// State is a state of the top-level loop
type State int

const (
	StateAwaitingInput State = iota
	StateSawDef
	StateSawExtern
	StateSawSeparator
	StateSawExpressionStart
	StateSawEndOfInput
)

var stateNames = []string{
	"AwaitingInput",
	"SawDef",
	"SawExtern",
	"SawSeparator",
	"SawExpressionStart",
	"SawEndOfInput",
}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "?"
}

// Handler receives each successfully parsed top-level item, one at a time,
// in source order
type Handler interface {
	HandleDefinition(fn ast.Function)
	HandleExtern(proto ast.Prototype)
	HandleTopLevelExpr(fn ast.Function)
}

// Collector is a Handler that accumulates items into a Program
type Collector struct {
	Program ast.Program
}

func (c *Collector) HandleDefinition(fn ast.Function) {
	c.Program.Definitions = append(c.Program.Definitions, fn)
}

func (c *Collector) HandleExtern(proto ast.Prototype) {
	c.Program.Definitions = append(c.Program.Definitions, proto)
}

func (c *Collector) HandleTopLevelExpr(fn ast.Function) {
	c.Program.Definitions = append(c.Program.Definitions, fn)
}

type operatorDef struct {
	op   rune
	prec int
}

// Driver runs the top-level loop: it dispatches on the lookahead token,
// hands parsed items to a Handler and recovers from syntax errors by
// discarding one token.
type Driver struct {
	p       *Parser
	h       Handler
	diag    io.Writer
	prompt  string
	source  string
	pending []operatorDef
	errs    []error
}

// NewDriver creates a driver that reports diagnostics to diag. A nil diag
// discards them; a nil Handler collects items into a Program nobody reads.
func NewDriver(p *Parser, h Handler, diag io.Writer) *Driver {
	if diag == nil {
		diag = io.Discard
	}
	if h == nil {
		h = &Collector{}
	}
	return &Driver{p: p, h: h, diag: diag}
}

// SetPrompt sets the text written to the diagnostic writer each time the
// driver waits for a new top-level item
func (d *Driver) SetPrompt(prompt string) {
	d.prompt = prompt
}

// SetSource names the input in diagnostics
func (d *Driver) SetSource(name string) {
	d.source = name
}

// Errors returns the syntax errors reported so far
func (d *Driver) Errors() []error {
	return d.errs
}

// DefineOperator validates a binary operator definition and queues it. The
// table changes only once the driver is back in AwaitingInput, so an item
// being parsed never sees two different tables. It is meant to be called
// from a Handler that reacts to a parsed item; operators known before the
// run starts belong in the Precedence given to New.
func (d *Driver) DefineOperator(op rune, prec int) error {
	if err := ValidateOperator(op, prec); err != nil {
		return err
	}
	d.pending = append(d.pending, operatorDef{op: op, prec: prec})
	return nil
}

func (d *Driver) applyPending() {
	for _, def := range d.pending {
		// Already validated by DefineOperator.
		_ = d.p.prec.Set(def.op, def.prec)
	}
	d.pending = nil
}

// dispatch classifies the lookahead token
func (d *Driver) dispatch() State {
	tok := d.p.curToken
	switch {
	case tok.Type == lexer.TokenEOF:
		return StateSawEndOfInput
	case tok.Type == lexer.TokenDef:
		return StateSawDef
	case tok.Type == lexer.TokenExtern:
		return StateSawExtern
	case tok.Is(';'):
		return StateSawSeparator
	default:
		return StateSawExpressionStart
	}
}

// Step handles one top-level item starting from AwaitingInput. It returns
// the state the lookahead token led to and the syntax error, if any. After
// an error exactly one token has been discarded.
func (d *Driver) Step() (State, error) {
	d.applyPending()
	if d.prompt != "" {
		fmt.Fprint(d.diag, d.prompt)
	}

	state := d.dispatch()
	var err error
	switch state {
	case StateSawEndOfInput:
		return state, nil
	case StateSawSeparator:
		d.p.nextToken()
	case StateSawDef:
		var fn ast.Function
		if fn, err = d.p.ParseDefinition(); err == nil {
			d.h.HandleDefinition(fn)
		}
	case StateSawExtern:
		var proto ast.Prototype
		if proto, err = d.p.ParseExtern(); err == nil {
			d.h.HandleExtern(proto)
		}
	case StateSawExpressionStart:
		var fn ast.Function
		if fn, err = d.p.ParseTopLevelExpr(); err == nil {
			d.h.HandleTopLevelExpr(fn)
		}
	}

	if err != nil {
		d.report(err)
		d.p.nextToken()
	}
	return state, err
}

// Run steps until end of input. Syntax errors do not stop the loop; they
// are available from Errors. The returned error is the character source's
// read error, if it had one.
func (d *Driver) Run() error {
	for {
		state, _ := d.Step()
		if state == StateSawEndOfInput {
			return errors.Wrap(d.p.l.Err(), "reading input")
		}
	}
}

func (d *Driver) report(err error) {
	d.errs = append(d.errs, err)

	var se *SyntaxError
	if d.source != "" && errors.As(err, &se) {
		fmt.Fprintf(d.diag, "%s:%d:%d: %s\n", d.source, se.Token.Line, se.Token.Column, se.Detail())
		return
	}
	fmt.Fprintf(d.diag, "error: %v\n", err)
}
