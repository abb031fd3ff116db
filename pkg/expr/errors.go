package expr

import (
	"fmt"
	"strconv"
)

// LexError reports a character that matches no recognized token class.
type LexError struct {
	Pos  int  // byte position of the character
	Char rune // the offending character
}

func (e *LexError) Error() string {
	return fmt.Sprintf("unexpected character %q at position %d", e.Char, e.Pos)
}

// ParseErrorKind identifies the structural failure a ParseError reports.
type ParseErrorKind string

const (
	KindUndefinedVariable    ParseErrorKind = "UndefinedVariable"
	KindExpectedOpenParen    ParseErrorKind = "ExpectedOpenParen"
	KindMismatchedParens     ParseErrorKind = "MismatchedParens"
	KindTrailingTokens       ParseErrorKind = "TrailingTokens"
	KindUnexpectedEndOfInput ParseErrorKind = "UnexpectedEndOfInput"
	KindUnexpectedToken      ParseErrorKind = "UnexpectedToken"
	KindExpressionTooLong    ParseErrorKind = "ExpressionTooLong"
)

// ParseError reports a structural problem in an expression. Arithmetic
// domain failures (division by zero, out-of-domain function arguments) are
// not errors; they evaluate to NaN.
type ParseError struct {
	Kind  ParseErrorKind
	Pos   int    // byte position of the offending token
	Token string // source text of the offending token, if any
	Name  string // variable or function name, for the kinds that carry one
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindUndefinedVariable:
		return "undefined variable " + strconv.Quote(e.Name)
	case KindExpectedOpenParen:
		return fmt.Sprintf("expected '(' after function %q at position %d", e.Name, e.Pos)
	case KindMismatchedParens:
		return fmt.Sprintf("mismatched parentheses at position %d", e.Pos)
	case KindTrailingTokens:
		return fmt.Sprintf("unexpected trailing token %q at position %d", e.Token, e.Pos)
	case KindUnexpectedEndOfInput:
		return "unexpected end of expression"
	case KindExpressionTooLong:
		return "expression exceeds maximum length"
	default:
		return fmt.Sprintf("unexpected token %q at position %d", e.Token, e.Pos)
	}
}

func errUnexpected(tok Token) *ParseError {
	if tok.Type == TokenEOF {
		return &ParseError{Kind: KindUnexpectedEndOfInput, Pos: tok.Pos}
	}
	return &ParseError{Kind: KindUnexpectedToken, Pos: tok.Pos, Token: tok.Value}
}
