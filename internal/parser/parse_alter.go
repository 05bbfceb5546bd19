package parser

import (
	"strings"

	"github.com/zakazai/ulin-sql/internal/lexer"
)

// ALTER TABLE t ADD [COLUMN] c type
// ALTER TABLE t DROP [COLUMN] c
// ALTER TABLE t MODIFY [COLUMN] c type
// ALTER TABLE t ALTER [COLUMN] c [TYPE] type
func (p *Parser) parseAlter() (Statement, error) {
	p.advance() // ALTER

	if err := p.expectKeyword("TABLE", "TABLE after ALTER"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}

	switch {
	case p.acceptKeyword("ADD"):
		p.acceptKeyword("COLUMN")
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		return &AlterAddColumnStatement{Table: table, Column: col}, nil

	case p.acceptKeyword("DROP"):
		p.acceptKeyword("COLUMN")
		name, err := p.expectIdent("column name")
		if err != nil {
			return nil, err
		}
		return &AlterDropColumnStatement{Table: table, Column: name}, nil

	case p.acceptKeyword("MODIFY"):
		p.acceptKeyword("COLUMN")
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		return &AlterModifyColumnStatement{Table: table, Column: col.Name, Type: col.Type}, nil

	case p.acceptKeyword("ALTER"):
		p.acceptKeyword("COLUMN")
		name, err := p.expectIdent("column name")
		if err != nil {
			return nil, err
		}
		// TYPE is not reserved, so it arrives as an identifier
		if tok := p.cur(); tok.Type == lexer.IDENTIFIER && strings.EqualFold(tok.Literal, "TYPE") {
			p.advance()
		}
		dt, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		return &AlterModifyColumnStatement{Table: table, Column: name, Type: dt}, nil

	default:
		return nil, p.errorf("ADD, DROP, MODIFY or ALTER after table name")
	}
}
