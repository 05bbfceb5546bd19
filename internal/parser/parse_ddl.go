package parser

import "github.com/zakazai/ulin-sql/internal/lexer"

// CREATE DATABASE name | CREATE TABLE name (col type, ...)
func (p *Parser) parseCreate() (Statement, error) {
	p.advance() // CREATE

	switch {
	case p.acceptKeyword("DATABASE"):
		name, err := p.expectIdent("database name")
		if err != nil {
			return nil, err
		}
		return &CreateDatabaseStatement{Name: name}, nil
	case p.acceptKeyword("TABLE"):
		return p.parseCreateTable()
	default:
		return nil, p.errorf("DATABASE or TABLE after CREATE")
	}
}

func (p *Parser) parseCreateTable() (*CreateTableStatement, error) {
	stmt := &CreateTableStatement{}

	name, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	stmt.Table = name

	if _, err := p.expect(lexer.LPAREN, "'(' before column list"); err != nil {
		return nil, err
	}

	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)

		if p.cur().Type == lexer.COMMA {
			p.advance()
			continue
		}
		if _, err := p.expect(lexer.RPAREN, "')' after column list"); err != nil {
			return nil, err
		}
		return stmt, nil
	}
}

// DROP DATABASE name | DROP TABLE name
func (p *Parser) parseDrop() (Statement, error) {
	p.advance() // DROP

	switch {
	case p.acceptKeyword("DATABASE"):
		name, err := p.expectIdent("database name")
		if err != nil {
			return nil, err
		}
		return &DropDatabaseStatement{Name: name}, nil
	case p.acceptKeyword("TABLE"):
		name, err := p.expectIdent("table name")
		if err != nil {
			return nil, err
		}
		return &DropTableStatement{Table: name}, nil
	default:
		return nil, p.errorf("DATABASE or TABLE after DROP")
	}
}

// USE [DATABASE] name
func (p *Parser) parseUse() (Statement, error) {
	p.advance() // USE
	p.acceptKeyword("DATABASE")

	name, err := p.expectIdent("database name")
	if err != nil {
		return nil, err
	}
	return &UseDatabaseStatement{Name: name}, nil
}

// TRUNCATE [TABLE] name
func (p *Parser) parseTruncate() (Statement, error) {
	p.advance() // TRUNCATE
	p.acceptKeyword("TABLE")

	name, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	return &TruncateTableStatement{Table: name}, nil
}
