package expr

import (
	"strconv"
	"strings"
)

// Node is the interface for all expression AST nodes.
type Node interface {
	nodeType() string
}

// NumberNode represents a numeric literal.
type NumberNode struct {
	Value float64
}

func (n *NumberNode) nodeType() string { return "Number" }

// VariableNode represents a variable reference resolved at evaluation time.
type VariableNode struct {
	Name string
	Pos  int
}

func (n *VariableNode) nodeType() string { return "Variable" }

// UnaryNode represents a unary sign operation (e.g., -x).
type UnaryNode struct {
	Op      string // "-" or "+"
	Operand Node
}

func (n *UnaryNode) nodeType() string { return "Unary" }

// BinaryNode represents a binary arithmetic operation (e.g., a + b, a ^ b).
type BinaryNode struct {
	Op    string // one of + - * / ^
	Left  Node
	Right Node
}

func (n *BinaryNode) nodeType() string { return "Binary" }

// CallNode represents a call to a builtin unary function (e.g., sin(x)).
type CallNode struct {
	Name string
	Arg  Node
}

func (n *CallNode) nodeType() string { return "Call" }

// Format renders the AST with explicit grouping, for debugging and tests.
func Format(n Node) string {
	var sb strings.Builder
	formatNode(&sb, n)
	return sb.String()
}

func formatNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *NumberNode:
		sb.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *VariableNode:
		sb.WriteString(n.Name)
	case *UnaryNode:
		sb.WriteByte('(')
		sb.WriteString(n.Op)
		formatNode(sb, n.Operand)
		sb.WriteByte(')')
	case *BinaryNode:
		sb.WriteByte('(')
		formatNode(sb, n.Left)
		sb.WriteByte(' ')
		sb.WriteString(n.Op)
		sb.WriteByte(' ')
		formatNode(sb, n.Right)
		sb.WriteByte(')')
	case *CallNode:
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		formatNode(sb, n.Arg)
		sb.WriteByte(')')
	}
}
