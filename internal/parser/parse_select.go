package parser

import "github.com/zakazai/ulin-sql/internal/lexer"

// SELECT * | col, ... FROM table [WHERE predicate]
func (p *Parser) parseSelect() (*SelectStatement, error) {
	p.advance() // SELECT
	stmt := &SelectStatement{}

	if p.cur().Type == lexer.ASTERISK {
		p.advance()
		stmt.Wildcard = true
	} else {
		for {
			name, err := p.expectIdent("column name or '*'")
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, name)
			if p.cur().Type != lexer.COMMA {
				break
			}
			p.advance()
		}
	}

	if err := p.expectKeyword("FROM", "FROM after column list"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = table

	where, err := p.parseOptionalWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where
	return stmt, nil
}
