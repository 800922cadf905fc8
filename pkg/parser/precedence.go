package parser

import (
	"sort"
	"unicode"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidOperator is returned when a character cannot act as a binary operator
	ErrInvalidOperator = errors.New("invalid binary operator")
	// ErrInvalidPrecedence is returned for a non-positive precedence
	ErrInvalidPrecedence = errors.New("precedence must be positive")
)

// Precedence maps single-character binary operators to their precedence.
// Higher values bind tighter. Characters not in the table are not binary
// operators.
type Precedence struct {
	ops map[rune]int
}

// NewPrecedence returns an empty table
func NewPrecedence() *Precedence {
	return &Precedence{ops: make(map[rune]int)}
}

// DefaultPrecedence returns a table seeded with the standard operators
func DefaultPrecedence() *Precedence {
	t := NewPrecedence()
	t.ops['<'] = 10
	t.ops['+'] = 20
	t.ops['-'] = 20
	t.ops['*'] = 40
	return t
}

// Lookup returns the precedence of op, or -1 if op is not a binary operator
func (t *Precedence) Lookup(op rune) int {
	prec, ok := t.ops[op]
	if !ok || prec <= 0 {
		return -1
	}
	return prec
}

// Set defines op as a binary operator with the given precedence
func (t *Precedence) Set(op rune, prec int) error {
	if err := ValidateOperator(op, prec); err != nil {
		return err
	}
	t.ops[op] = prec
	return nil
}

// Clone returns an independent copy of the table
func (t *Precedence) Clone() *Precedence {
	c := NewPrecedence()
	for op, prec := range t.ops {
		c.ops[op] = prec
	}
	return c
}

// Operators returns the defined operators in ascending order
func (t *Precedence) Operators() []rune {
	ops := make([]rune, 0, len(t.ops))
	for op, prec := range t.ops {
		if prec > 0 {
			ops = append(ops, op)
		}
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// ValidateOperator checks that op can be lexed as a single character token
// without clashing with the grammar, and that prec is positive.
func ValidateOperator(op rune, prec int) error {
	if prec <= 0 {
		return errors.Wrapf(ErrInvalidPrecedence, "%q: %d", op, prec)
	}
	if op < 0 || unicode.IsLetter(op) || unicode.IsDigit(op) || unicode.IsSpace(op) {
		return errors.Wrapf(ErrInvalidOperator, "%q", op)
	}
	switch op {
	case '.', '#', '(', ')', ',', ';':
		return errors.Wrapf(ErrInvalidOperator, "%q is reserved", op)
	}
	return nil
}
