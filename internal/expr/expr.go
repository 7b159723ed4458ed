// Package expr evaluates the arithmetic found inside `@[...]` interpolation
// expressions of script files.
//
// The evaluator is a recursive descent over the expression text. Each
// precedence level splits at the rightmost operator found at parenthesis
// depth zero, which yields left associativity without an explicit operator
// stack:
//
//	expr    := addsub
//	addsub  := term (('+' | '-') term)*
//	term    := factor (('*' | '/') factor)*
//	factor  := '(' expr ')' | '-' '(' expr ')' | operand
//	operand := variable-name | numeric-literal | '-' variable-name
//
// Division follows IEEE 754, so dividing by zero yields an infinity or NaN
// instead of an error.
package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// UnknownOperandError is returned when an operand is neither a known
// variable nor a numeric literal.
type UnknownOperandError struct {
	Operand string
}

func (e *UnknownOperandError) Error() string {
	return fmt.Sprintf("Unknown operand: %s", e.Operand)
}

// Eval computes the value of an expression that has already been stripped of
// its `@[` and `]` wrapper. Variable names are looked up without their sigil.
func Eval(expr string, vars map[string]float64) (float64, error) {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		expr = expr[1 : len(expr)-1]
	}
	return addSub(expr, vars)
}

// hasAdditiveOp reports whether s contains a '+' or '-' outside parentheses.
func hasAdditiveOp(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '+', '-':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

func addSub(expr string, vars map[string]float64) (float64, error) {
	expr = strings.TrimSpace(expr)

	// A leading minus with no other additive operator negates the whole
	// product: -a*b is -(a*b). Re-entering the splitter here would recurse
	// forever on the leading '-'.
	if strings.HasPrefix(expr, "-") && !strings.HasPrefix(expr[1:], "(") && !hasAdditiveOp(expr[1:]) {
		v, err := mulDiv(expr[1:], vars)
		if err != nil {
			return 0, err
		}
		return -v, nil
	}

	if i := splitPoint(expr, '+', '-'); i > 0 {
		left, err := addSub(expr[:i], vars)
		if err != nil {
			return 0, err
		}
		right, err := mulDiv(expr[i+1:], vars)
		if err != nil {
			return 0, err
		}
		if expr[i] == '+' {
			return left + right, nil
		}
		return left - right, nil
	}

	return mulDiv(expr, vars)
}

func mulDiv(expr string, vars map[string]float64) (float64, error) {
	expr = strings.TrimSpace(expr)

	if i := splitPoint(expr, '*', '/'); i > 0 {
		left, err := mulDiv(expr[:i], vars)
		if err != nil {
			return 0, err
		}
		right, err := factor(expr[i+1:], vars)
		if err != nil {
			return 0, err
		}
		if expr[i] == '*' {
			return left * right, nil
		}
		return left / right, nil
	}

	return factor(expr, vars)
}

// splitPoint scans expr from the end and returns the index of the first a or
// b found at parenthesis depth zero. Index 0 never counts, so a leading sign
// is not mistaken for a binary operator. It returns -1 when there is none.
func splitPoint(expr string, a, b byte) int {
	depth := 0
	for i := len(expr) - 1; i >= 0; i-- {
		switch c := expr[i]; c {
		case ')':
			depth++
		case '(':
			depth--
		case a, b:
			if depth == 0 && i > 0 {
				return i
			}
		}
	}
	return -1
}

func factor(expr string, vars map[string]float64) (float64, error) {
	expr = strings.TrimSpace(expr)

	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		return addSub(expr[1:len(expr)-1], vars)
	}

	if strings.HasPrefix(expr, "-(") && strings.HasSuffix(expr, ")") {
		v, err := addSub(expr[2:len(expr)-1], vars)
		if err != nil {
			return 0, err
		}
		return -v, nil
	}

	return operand(expr, vars)
}

func operand(s string, vars map[string]float64) (float64, error) {
	s = strings.TrimSpace(s)

	if v, ok := vars[s]; ok {
		return v, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	if name, ok := strings.CutPrefix(s, "-"); ok {
		if v, ok := vars[name]; ok {
			return -v, nil
		}
	}

	return 0, &UnknownOperandError{Operand: s}
}
