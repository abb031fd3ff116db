package expr

// DefaultMaxExpressionLength is the default ceiling on expression length.
// Evaluation is linear, but a ceiling bounds worst-case work per request in
// a hosting service. Override with SetMaxExpressionLength at startup.
const DefaultMaxExpressionLength = 1024

var maxExpressionLength = DefaultMaxExpressionLength

// SetMaxExpressionLength overrides the expression length ceiling. It is
// intended to be called once during host startup, before serving requests.
func SetMaxExpressionLength(n int) {
	maxExpressionLength = n
}

// Parser is a recursive descent parser for calculator expressions.
//
// Grammar, highest precedence last:
//
//	AddSub := Term (('+' | '-') Term)*      left-associative
//	Term   := Power (('*' | '/') Power)*    left-associative
//	Power  := Unary ('^' Power)?            right-associative
//	Unary  := ('-' | '+') Unary | Atom
//	Atom   := Number | Variable | Function '(' AddSub ')' | '(' AddSub ')'
//
// The unary sign sits inside Power's left operand, so -2^2 parses as (-2)^2.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse parses a complete expression string into an AST.
func Parse(input string) (Node, error) {
	if len(input) > maxExpressionLength {
		return nil, &ParseError{Kind: KindExpressionTooLong}
	}

	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &Parser{tokens: tokens}
	node, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, &ParseError{Kind: KindTrailingTokens, Pos: tok.Pos, Token: tok.Value}
	}

	return node, nil
}

// current returns the current token, or an EOF sentinel past the end.
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		pos := 0
		if n := len(p.tokens); n > 0 {
			pos = p.tokens[n-1].Pos + len(p.tokens[n-1].Value)
		}
		return Token{Type: TokenEOF, Pos: pos}
	}
	return p.tokens[p.pos]
}

// advance consumes the current token and returns it.
func (p *Parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

func (p *Parser) parseAddSub() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.currentIsOperator("+", "-") {
		op := p.advance().Value
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseTerm() (Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for p.currentIsOperator("*", "/") {
		op := p.advance().Value
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parsePower recurses into itself on the right side, which makes '^'
// right-associative: 2^3^2 is 2^(3^2).
func (p *Parser) parsePower() (Node, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	if p.currentIsOperator("^") {
		p.advance()
		exp, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &BinaryNode{Op: "^", Left: base, Right: exp}, nil
	}
	return base, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.currentIsOperator("-", "+") {
		op := p.advance().Value
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: op, Operand: operand}, nil
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() (Node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenNumber:
		p.advance()
		return &NumberNode{Value: tok.Num}, nil

	case TokenVariable:
		p.advance()
		return &VariableNode{Name: tok.Value, Pos: tok.Pos}, nil

	case TokenFunction:
		p.advance()
		if p.current().Type != TokenLParen {
			return nil, &ParseError{Kind: KindExpectedOpenParen, Pos: p.current().Pos, Name: tok.Value}
		}
		p.advance()
		arg, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		if p.current().Type != TokenRParen {
			return nil, &ParseError{Kind: KindMismatchedParens, Pos: p.current().Pos, Token: p.current().Value}
		}
		p.advance()
		return &CallNode{Name: tok.Value, Arg: arg}, nil

	case TokenLParen:
		p.advance()
		inner, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		if p.current().Type != TokenRParen {
			return nil, &ParseError{Kind: KindMismatchedParens, Pos: p.current().Pos, Token: p.current().Value}
		}
		p.advance()
		return inner, nil

	default:
		return nil, errUnexpected(tok)
	}
}

func (p *Parser) currentIsOperator(ops ...string) bool {
	tok := p.current()
	if tok.Type != TokenOperator {
		return false
	}
	for _, op := range ops {
		if tok.Value == op {
			return true
		}
	}
	return false
}
