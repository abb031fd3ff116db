// Package expr implements the calculator expression language: a lexer, a
// recursive descent parser producing a small AST, and a float64 evaluator
// with variables and a fixed table of unary math functions.
package expr

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenNumber   TokenType = iota // numeric literal
	TokenVariable                  // identifier bound by the evaluation context
	TokenFunction                  // identifier matching the builtin table
	TokenOperator                  // one of + - * / ^
	TokenLParen                    // (
	TokenRParen                    // )

	// TokenEOF is never produced by the lexer; the parser materializes it
	// when the token slice is exhausted.
	TokenEOF
)

// Token represents a single lexical token.
type Token struct {
	Type  TokenType
	Value string  // raw source text
	Num   float64 // parsed value (for TokenNumber)
	Pos   int     // byte position in source
}

// String returns a debug-friendly representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenNumber:
		return "NUMBER"
	case TokenVariable:
		return "VARIABLE"
	case TokenFunction:
		return "FUNCTION"
	case TokenOperator:
		return "OPERATOR"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}
