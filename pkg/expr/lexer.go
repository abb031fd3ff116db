package expr

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes a calculator expression string. All whitespace is removed
// before scanning, so "1 2" lexes as the single number 12 and token
// positions index the stripped text.
type Lexer struct {
	input  string
	pos    int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
	return &Lexer{input: stripped}
}

// Tokenize scans the entire input and returns all tokens. Unlike the parser,
// it emits no end-of-input sentinel; callers check slice exhaustion.
func Tokenize(input string) ([]Token, error) {
	return NewLexer(input).Tokenize()
}

// Tokenize scans the entire input and returns all tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.pos < len(l.input) {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
	}
	return l.tokens, nil
}

// next returns the next token. The caller has checked that input remains.
func (l *Lexer) next() (Token, error) {
	ch := l.input[l.pos]

	// Number literals, including a leading dot.
	if isDigit(ch) || ch == '.' {
		return l.readNumber(), nil
	}

	// Identifiers: variables and function names.
	if isIdentStart(ch) {
		return l.readIdentifier(), nil
	}

	switch ch {
	case '+', '-', '*', '/', '^':
		l.pos++
		return Token{Type: TokenOperator, Value: string(ch), Pos: l.pos - 1}, nil
	case '(':
		l.pos++
		return Token{Type: TokenLParen, Value: "(", Pos: l.pos - 1}, nil
	case ')':
		l.pos++
		return Token{Type: TokenRParen, Value: ")", Pos: l.pos - 1}, nil
	}

	// Scanning is byte-based, but the error must carry the whole character:
	// rune(ch) would report only the first byte of a multi-byte sequence.
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return Token{}, &LexError{Pos: l.pos, Char: r}
}

// readNumber reads a maximal run of digits and dots. The scanner deliberately
// accepts malformed runs like "1.2.3"; when strconv rejects the text the
// token value is NaN, and evaluation propagates it. This keeps live-typing
// extraction working on partially typed input.
func (l *Lexer) readNumber() Token {
	start := l.pos
	for l.pos < len(l.input) && (isDigit(l.input[l.pos]) || l.input[l.pos] == '.') {
		l.pos++
	}

	raw := l.input[start:l.pos]
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f = math.NaN()
	}
	return Token{Type: TokenNumber, Value: raw, Num: f, Pos: start}
}

// readIdentifier reads an identifier and classifies it as a function name or
// a variable. A name registered in the builtin table always lexes as a
// function, never as a variable.
func (l *Lexer) readIdentifier() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}

	word := l.input[start:l.pos]
	if _, ok := builtins[word]; ok {
		return Token{Type: TokenFunction, Value: word, Pos: start}
	}
	return Token{Type: TokenVariable, Value: word, Pos: start}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
