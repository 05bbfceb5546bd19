package parser

import "github.com/zakazai/ulin-sql/internal/lexer"

var comparisonOps = map[lexer.TokenType]Operator{
	lexer.EQUALS:         OpEq,
	lexer.NOT_EQUALS:     OpNotEq,
	lexer.LESS:           OpLt,
	lexer.GREATER:        OpGt,
	lexer.LESS_EQUALS:    OpLtEq,
	lexer.GREATER_EQUALS: OpGtEq,
}

func (p *Parser) parseOptionalWhere() (Expr, error) {
	if !p.acceptKeyword("WHERE") {
		return nil, nil
	}
	return p.parseOr()
}

// or := and {OR and}
func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("OR") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Op: OpOr, Right: right}
	}
	return left, nil
}

// and := primary {AND primary}
func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("AND") {
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Op: OpAnd, Right: right}
	}
	return left, nil
}

// primary := '(' or ')' | operand op operand
func (p *Parser) parsePrimary() (Expr, error) {
	if p.cur().Type == lexer.LPAREN {
		p.advance()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "')' to close predicate group"); err != nil {
			return nil, err
		}
		return e, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOps[p.cur().Type]
	if !ok {
		return nil, p.errorf("comparison operator")
	}
	p.advance()
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &ComparisonExpr{Left: left, Op: op, Right: right}, nil
}

func (p *Parser) parseOperand() (Expr, error) {
	if tok := p.cur(); tok.Type == lexer.IDENTIFIER {
		p.advance()
		return &ColumnExpr{Name: tok.Literal}, nil
	}
	switch tok := p.cur(); {
	case tok.Type == lexer.NUMBER, tok.Type == lexer.STRING, tok.Is("TRUE"), tok.Is("FALSE"):
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &LiteralExpr{Value: v}, nil
	default:
		return nil, p.errorf("column name or literal")
	}
}
