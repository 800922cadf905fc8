package ast

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Printer outputs the AST in source form. Binary expressions are fully
// parenthesized, so the output parses back to the same tree.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram prints every definition of a program, one per line
func (p *Printer) PrintProgram(prog *Program) {
	for _, def := range prog.Definitions {
		p.PrintDefinition(def)
	}
}

// PrintDefinition prints a single top-level item followed by ";" and a newline
func (p *Printer) PrintDefinition(def Definition) {
	switch d := def.(type) {
	case Prototype:
		fmt.Fprint(p.w, "extern ")
		p.printPrototype(d)
	case Function:
		p.printFunction(d)
	default:
		fmt.Fprintf(p.w, "# unknown definition %T", def)
	}
	fmt.Fprintln(p.w, ";")
}

func (p *Printer) printFunction(f Function) {
	if !f.Proto.IsAnonymous() {
		fmt.Fprint(p.w, "def ")
		p.printPrototype(f.Proto)
		fmt.Fprint(p.w, " ")
	}
	p.PrintExpr(f.Body)
}

func (p *Printer) printPrototype(proto Prototype) {
	fmt.Fprintf(p.w, "%s(%s)", proto.Name, strings.Join(proto.Params, " "))
}

// PrintExpr prints an expression
func (p *Printer) PrintExpr(expr Expr) {
	switch e := expr.(type) {
	case Number:
		fmt.Fprint(p.w, formatNumber(e.Value))
	case Variable:
		fmt.Fprint(p.w, e.Name)
	case Binary:
		fmt.Fprint(p.w, "(")
		p.PrintExpr(e.Left)
		fmt.Fprintf(p.w, " %c ", e.Op)
		p.PrintExpr(e.Right)
		fmt.Fprint(p.w, ")")
	case Call:
		fmt.Fprintf(p.w, "%s(", e.Callee)
		for i, arg := range e.Args {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.PrintExpr(arg)
		}
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "?%T", expr)
	}
}

// overflowLiteral is the shortest digit string that reads back as +Inf
var overflowLiteral = "1" + strings.Repeat("0", 309)

// formatNumber never uses exponent notation; the lexer has no syntax for it
func formatNumber(v float64) string {
	if math.IsInf(v, 1) {
		return overflowLiteral
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Format returns the source form of a node without a trailing ";". A
// Prototype is rendered as its bare signature.
func Format(n Node) string {
	var sb strings.Builder
	p := NewPrinter(&sb)
	switch node := n.(type) {
	case Expr:
		p.PrintExpr(node)
	case Prototype:
		p.printPrototype(node)
	case Function:
		p.printFunction(node)
	}
	return sb.String()
}
