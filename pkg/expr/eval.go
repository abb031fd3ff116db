package expr

import (
	"fmt"
	"math"
)

// Evaluate parses and evaluates an expression against the given variable
// bindings. The bindings map is caller-owned and read-only; a nil map means
// no variables are defined.
//
// Structural problems return a *LexError or *ParseError. Mathematically
// undefined results (division by zero, sqrt of a negative, log or ln of a
// non-positive value) are not errors: they return IEEE-754 NaN, which
// propagates through enclosing operations. Callers distinguish the two with
// math.IsNaN on a successful result.
func Evaluate(input string, vars map[string]float64) (float64, error) {
	node, err := Parse(input)
	if err != nil {
		return 0, err
	}
	return EvaluateNode(node, vars)
}

// EvaluateNode evaluates an already-parsed AST against variable bindings.
func EvaluateNode(node Node, vars map[string]float64) (float64, error) {
	switch n := node.(type) {
	case *NumberNode:
		return n.Value, nil

	case *VariableNode:
		v, ok := vars[n.Name]
		if !ok {
			// A missing binding is a caller mistake, not an arithmetic
			// edge case, so it is a hard error rather than NaN.
			return 0, &ParseError{Kind: KindUndefinedVariable, Pos: n.Pos, Name: n.Name}
		}
		return v, nil

	case *UnaryNode:
		v, err := EvaluateNode(n.Operand, vars)
		if err != nil {
			return 0, err
		}
		if n.Op == "-" {
			return -v, nil
		}
		return v, nil

	case *BinaryNode:
		left, err := EvaluateNode(n.Left, vars)
		if err != nil {
			return 0, err
		}
		right, err := EvaluateNode(n.Right, vars)
		if err != nil {
			return 0, err
		}
		return applyBinary(n.Op, left, right), nil

	case *CallNode:
		arg, err := EvaluateNode(n.Arg, vars)
		if err != nil {
			return 0, err
		}
		fn, ok := builtins[n.Name]
		if !ok {
			// The lexer only emits TokenFunction for registered names.
			return 0, fmt.Errorf("unknown function %q", n.Name)
		}
		return fn(arg), nil

	default:
		return 0, fmt.Errorf("unsupported expression node type: %T", node)
	}
}

func applyBinary(op string, left, right float64) float64 {
	switch op {
	case "+":
		return left + right
	case "-":
		return left - right
	case "*":
		return left * right
	case "/":
		if right == 0 {
			return math.NaN()
		}
		return left / right
	case "^":
		// math.Pow(0, 0) is 1, which is the convention here.
		return math.Pow(left, right)
	default:
		return math.NaN()
	}
}
