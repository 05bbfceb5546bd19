package parser

// DELETE FROM table [WHERE predicate]
func (p *Parser) parseDelete() (*DeleteStatement, error) {
	p.advance() // DELETE
	stmt := &DeleteStatement{}

	if err := p.expectKeyword("FROM", "FROM after DELETE"); err != nil {
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
