package parser

import "github.com/zakazai/ulin-sql/internal/lexer"

// UPDATE table SET col = v [, col = v] [WHERE predicate]
func (p *Parser) parseUpdate() (*UpdateStatement, error) {
	p.advance() // UPDATE
	stmt := &UpdateStatement{}

	table, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	if err := p.expectKeyword("SET", "SET after table name"); err != nil {
		return nil, err
	}

	for {
		col, err := p.expectIdent("column name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.EQUALS, "'=' after column name"); err != nil {
			return nil, err
		}
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Set = append(stmt.Set, Assignment{Column: col, Value: v})

		if p.cur().Type != lexer.COMMA {
			break
		}
		p.advance()
	}

	where, err := p.parseOptionalWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where
	return stmt, nil
}
