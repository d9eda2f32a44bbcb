// internal/arith/eval.go
//
// Exact evaluator for the equation grammar.
// Responsibilities:
//   - Parse digit runs and the four operators + - * / with the usual precedence.
//   - Evaluate with math/big rationals so integrality checks never see rounding.
//   - Check "LHS=RHS" strings for arithmetic truth.
//
// Notes:
//   - There is no unary sign: "-3" and "1+-2" are syntax errors.
//   - Division by zero is reported as ErrDivisionByZero, never as a panic.

package arith

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrSyntax         = errors.New("arith: syntax error")
	ErrDivisionByZero = errors.New("arith: division by zero")
)

// Eval parses and evaluates expr.
func Eval(expr string) (*big.Rat, error) {
	p := parser{src: expr}
	v, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, p.src[p.pos], p.pos)
	}
	return v, nil
}

// Check evaluates both sides of an equation and reports whether they are equal.
// The string must contain exactly one '='.
func Check(equation string) (bool, error) {
	lhs, rhs, ok := strings.Cut(equation, "=")
	if !ok || strings.Contains(rhs, "=") {
		return false, fmt.Errorf("%w: want exactly one '=' in %q", ErrSyntax, equation)
	}
	l, err := Eval(lhs)
	if err != nil {
		return false, err
	}
	r, err := Eval(rhs)
	if err != nil {
		return false, err
	}
	return l.Cmp(r) == 0, nil
}

// parser is a small recursive-descent parser:
//
//	expr   = term { ("+" | "-") term }
//	term   = number { ("*" | "/") number }
//	number = digit { digit }
type parser struct {
	src string
	pos int
}

func (p *parser) expr() (*big.Rat, error) {
	acc, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.src) {
		op := p.src[p.pos]
		if op != '+' && op != '-' {
			break
		}
		p.pos++
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		if op == '+' {
			acc.Add(acc, rhs)
		} else {
			acc.Sub(acc, rhs)
		}
	}
	return acc, nil
}

func (p *parser) term() (*big.Rat, error) {
	acc, err := p.number()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.src) {
		op := p.src[p.pos]
		if op != '*' && op != '/' {
			break
		}
		p.pos++
		rhs, err := p.number()
		if err != nil {
			return nil, err
		}
		if op == '*' {
			acc.Mul(acc, rhs)
			continue
		}
		if rhs.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		acc.Quo(acc, rhs)
	}
	return acc, nil
}

func (p *parser) number() (*big.Rat, error) {
	start := p.pos
	var n big.Int
	ten := big.NewInt(10)
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		n.Mul(&n, ten)
		n.Add(&n, big.NewInt(int64(p.src[p.pos]-'0')))
		p.pos++
	}
	if p.pos == start {
		if p.pos == len(p.src) {
			return nil, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
		}
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, p.src[p.pos], p.pos)
	}
	return new(big.Rat).SetInt(&n), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
