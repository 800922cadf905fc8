// Package ast defines the abstract syntax tree for the toy expression language
package ast

// Node is the base interface for all AST nodes
type Node interface {
	implAstNode()
}

// Expr is the interface for all expression nodes. The set of expressions is
// closed: Number, Variable, Binary and Call.
type Expr interface {
	Node
	implAstExpr()
}

// Definition is the interface for top-level items: a Function or an extern
// Prototype
type Definition interface {
	Node
	implDefinition()
}

// Number represents a numeric literal such as 1.0
type Number struct {
	Value float64
}

// Variable represents a reference to a named value
type Variable struct {
	Name string
}

// Binary represents a binary operator applied to two operands
type Binary struct {
	Op    rune
	Left  Expr
	Right Expr
}

// Call represents a function call: callee(args...)
type Call struct {
	Callee string
	Args   []Expr
}

// Prototype is the signature of a function: its name and parameter names.
// An empty name marks the wrapper of a top-level expression.
type Prototype struct {
	Name   string
	Params []string
}

// IsAnonymous reports whether the prototype wraps a top-level expression
func (p Prototype) IsAnonymous() bool {
	return p.Name == ""
}

// Function is a function definition: a prototype and a body expression
type Function struct {
	Proto Prototype
	Body  Expr
}

// Program is a sequence of top-level definitions in source order
type Program struct {
	Definitions []Definition
}

// Marker methods for interface implementation
func (Number) implAstNode() {}
func (Number) implAstExpr() {}

func (Variable) implAstNode() {}
func (Variable) implAstExpr() {}

func (Binary) implAstNode() {}
func (Binary) implAstExpr() {}

func (Call) implAstNode() {}
func (Call) implAstExpr() {}

func (Prototype) implAstNode()    {}
func (Prototype) implDefinition() {}

func (Function) implAstNode()    {}
func (Function) implDefinition() {}
