package parser

import (
	"github.com/zakazai/ulin-sql/internal/lexer"
	"github.com/zakazai/ulin-sql/internal/types"
)

// INSERT INTO table [(col, ...)] VALUES (v, ...) [, (v, ...)]
func (p *Parser) parseInsert() (*InsertStatement, error) {
	p.advance() // INSERT
	stmt := &InsertStatement{}

	if err := p.expectKeyword("INTO", "INTO after INSERT"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if p.cur().Type == lexer.LPAREN {
		p.advance()
		cols, err := p.parseIdentList("column name", "')' after column list")
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	}

	if err := p.expectKeyword("VALUES", "VALUES"); err != nil {
		return nil, err
	}

	for {
		row, err := p.parseValueTuple()
		if err != nil {
			return nil, err
		}
		stmt.Rows = append(stmt.Rows, row)

		if p.cur().Type != lexer.COMMA {
			return stmt, nil
		}
		p.advance()
	}
}

func (p *Parser) parseValueTuple() ([]types.Value, error) {
	if _, err := p.expect(lexer.LPAREN, "'(' before value list"); err != nil {
		return nil, err
	}

	var values []types.Value
	for {
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		values = append(values, v)

		if p.cur().Type == lexer.COMMA {
			p.advance()
			continue
		}
		if _, err := p.expect(lexer.RPAREN, "')' after value list"); err != nil {
			return nil, err
		}
		return values, nil
	}
}
