package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/gridstorm/internal/sheet"
)

// ErrParse indicates malformed formula text. The target cell is left
// untouched; parsing never mutates the grid.
var ErrParse = errors.New("formula: parse error")

// Parse turns formula text (without the leading "NAME=" designator) into
// an expression, validating every reference against the grid dimensions.
//
// Recognized forms, checked in order:
//
//	MIN(TL:BR) MAX(TL:BR) AVG(TL:BR) SUM(TL:BR) STDEV(TL:BR)
//	SLEEP(arg)
//	operand OP operand   with OP one of + - * /
//	integer literal      (optional leading minus)
//	cell reference       (identity formula)
func Parse(text string, rows, cols int) (Expr, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}

	if fn, rest, ok := splitFunc(text); ok {
		return parseFunc(fn, rest, rows, cols)
	}

	// The operator is the first +-*/ past index zero so a leading minus
	// stays part of a negative literal.
	if i := opIndex(text); i > 0 {
		return parseBinary(text, i, rows, cols)
	}

	if c := text[0]; c >= '0' && c <= '9' || c == '-' {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad integer %q", ErrParse, text)
		}
		return Literal{Value: v}, nil
	}

	ref, err := sheet.ParseRef(text, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return Ref{Cell: ref}, nil
}

// splitFunc matches a NAME( prefix and a trailing ) and returns the
// function name and inner text.
func splitFunc(text string) (name, inner string, ok bool) {
	open := strings.IndexByte(text, '(')
	if open <= 0 {
		return "", "", false
	}
	name = text[:open]
	switch name {
	case "MIN", "MAX", "AVG", "SUM", "STDEV", "SLEEP":
	default:
		return "", "", false
	}
	if text[len(text)-1] != ')' {
		return "", "", false
	}
	return name, text[open+1 : len(text)-1], true
}

func parseFunc(name, inner string, rows, cols int) (Expr, error) {
	if name == "SLEEP" {
		arg, err := parseOperand(inner, rows, cols)
		if err != nil {
			return nil, err
		}
		return Sleep{Arg: arg}, nil
	}

	r, err := sheet.ParseRange(inner, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var kind FuncKind
	switch name {
	case "MIN":
		kind = FuncMin
	case "MAX":
		kind = FuncMax
	case "AVG":
		kind = FuncAvg
	case "SUM":
		kind = FuncSum
	case "STDEV":
		kind = FuncStdev
	}
	return RangeFunc{Func: kind, Range: r}, nil
}

func opIndex(text string) int {
	for i := 1; i < len(text); i++ {
		switch text[i] {
		case '+', '-', '*', '/':
			return i
		}
	}
	return -1
}

func parseBinary(text string, i, rows, cols int) (Expr, error) {
	var op Op
	switch text[i] {
	case '+':
		op = OpAdd
	case '-':
		op = OpSub
	case '*':
		op = OpMul
	case '/':
		op = OpDiv
	}

	left, err := parseOperand(text[:i], rows, cols)
	if err != nil {
		return nil, err
	}
	right, err := parseOperand(text[i+1:], rows, cols)
	if err != nil {
		return nil, err
	}
	return Binary{Op: op, Left: left, Right: right}, nil
}

func parseOperand(text string, rows, cols int) (Operand, error) {
	if text == "" {
		return Operand{}, fmt.Errorf("%w: empty operand", ErrParse)
	}
	if c := text[0]; c >= '0' && c <= '9' || c == '-' {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Operand{}, fmt.Errorf("%w: bad integer %q", ErrParse, text)
		}
		return LiteralOperand(v), nil
	}
	ref, err := sheet.ParseRef(text, rows, cols)
	if err != nil {
		return Operand{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return RefOperand(ref), nil
}
