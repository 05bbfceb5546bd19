package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zakazai/ulin-sql/internal/lexer"
	"github.com/zakazai/ulin-sql/internal/types"
)

// ParseError reports where the grammar was violated and what was expected
type ParseError struct {
	Pos      lexer.Position
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

// Parser represents a SQL parser over a lexed token stream
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a new parser over tokens, which must end with an EOF token
func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.EOF {
		tokens = append(tokens, lexer.Token{Type: lexer.EOF})
	}
	return &Parser{tokens: tokens}
}

// Parse parses exactly one SQL statement. A trailing semicolon is optional.
func Parse(sql string) (Statement, error) {
	tokens, err := lexer.Tokenize(sql)
	if err != nil {
		return nil, err
	}
	return New(tokens).Parse()
}

// ParseScript parses a semicolon separated sequence of statements
func ParseScript(sql string) ([]Statement, error) {
	tokens, err := lexer.Tokenize(sql)
	if err != nil {
		return nil, err
	}
	return New(tokens).ParseAll()
}

// Parse parses a single statement and requires the input to end after it
func (p *Parser) Parse() (Statement, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == lexer.SEMICOLON {
		p.advance()
	}
	if p.cur().Type != lexer.EOF {
		return nil, p.errorf("end of statement")
	}
	return stmt, nil
}

// ParseAll parses statements until the end of input
func (p *Parser) ParseAll() ([]Statement, error) {
	var stmts []Statement
	for {
		for p.cur().Type == lexer.SEMICOLON {
			p.advance()
		}
		if p.cur().Type == lexer.EOF {
			return stmts, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		if p.cur().Type != lexer.SEMICOLON && p.cur().Type != lexer.EOF {
			return nil, p.errorf("';' between statements")
		}
	}
}

func (p *Parser) parseStatement() (Statement, error) {
	tok := p.cur()
	if tok.Type != lexer.KEYWORD {
		return nil, p.errorf("statement")
	}

	switch tok.Literal {
	case "CREATE":
		return p.parseCreate()
	case "DROP":
		return p.parseDrop()
	case "USE":
		return p.parseUse()
	case "TRUNCATE":
		return p.parseTruncate()
	case "ALTER":
		return p.parseAlter()
	case "SELECT":
		return p.parseSelect()
	case "INSERT":
		return p.parseInsert()
	case "UPDATE":
		return p.parseUpdate()
	case "DELETE":
		return p.parseDelete()
	default:
		return nil, p.errorf("statement")
	}
}

func (p *Parser) cur() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(expected string, args ...interface{}) *ParseError {
	tok := p.cur()
	found := tok.Type.String()
	switch tok.Type {
	case lexer.EOF:
	case lexer.KEYWORD:
		found = "keyword " + tok.Literal
	case lexer.STRING:
		found = "string " + types.QuoteString(tok.Literal)
	default:
		found = strconv.Quote(tok.Literal)
	}
	return &ParseError{
		Pos:      tok.Pos,
		Expected: fmt.Sprintf(expected, args...),
		Found:    found,
	}
}

// expect consumes a token of type t or fails with what as the expectation
func (p *Parser) expect(t lexer.TokenType, what string) (lexer.Token, error) {
	if p.cur().Type != t {
		return lexer.Token{}, p.errorf("%s", what)
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(keyword, what string) error {
	if !p.cur().Is(keyword) {
		return p.errorf("%s", what)
	}
	p.advance()
	return nil
}

// acceptKeyword consumes keyword if it is next
func (p *Parser) acceptKeyword(keyword string) bool {
	if p.cur().Is(keyword) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expectIdent(what string) (string, error) {
	tok, err := p.expect(lexer.IDENTIFIER, what)
	if err != nil {
		return "", err
	}
	return tok.Literal, nil
}

// parseIdentList parses ident {, ident} up to and including the closing
// parenthesis
func (p *Parser) parseIdentList(what, closing string) ([]string, error) {
	var names []string
	for {
		name, err := p.expectIdent(what)
		if err != nil {
			return nil, err
		}
		names = append(names, name)

		if p.cur().Type == lexer.COMMA {
			p.advance()
			continue
		}
		if _, err := p.expect(lexer.RPAREN, closing); err != nil {
			return nil, err
		}
		return names, nil
	}
}

func (p *Parser) parseLiteral() (types.Value, error) {
	tok := p.cur()
	switch {
	case tok.Type == lexer.NUMBER:
		p.advance()
		if strings.Contains(tok.Literal, ".") {
			f, err := strconv.ParseFloat(tok.Literal, 64)
			if err != nil {
				return nil, &ParseError{Pos: tok.Pos, Expected: "float literal in range", Found: strconv.Quote(tok.Literal)}
			}
			return types.FloatValue(f), nil
		}
		i, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, &ParseError{Pos: tok.Pos, Expected: "integer literal in range", Found: strconv.Quote(tok.Literal)}
		}
		return types.IntValue(i), nil
	case tok.Type == lexer.STRING:
		p.advance()
		return types.StringValue(tok.Literal), nil
	case tok.Is("TRUE"):
		p.advance()
		return types.BoolValue(true), nil
	case tok.Is("FALSE"):
		p.advance()
		return types.BoolValue(false), nil
	default:
		return nil, p.errorf("literal value")
	}
}

// parseDataType parses a column type, including VARCHAR(n) and
// ENUM('a', ...) parameters. Type names are not reserved, so they
// arrive as identifiers and a column may be called text or int.
func (p *Parser) parseDataType() (types.DataType, error) {
	tok := p.cur()
	if tok.Type != lexer.IDENTIFIER {
		return types.DataType{}, p.errorf("column type")
	}

	switch strings.ToUpper(tok.Literal) {
	case "INT", "INTEGER":
		p.advance()
		return types.IntegerType(), nil
	case "FLOAT", "DEC", "DECIMAL":
		p.advance()
		return types.FloatType(), nil
	case "TEXT":
		p.advance()
		return types.TextType(), nil
	case "BOOLEAN", "BOOL":
		p.advance()
		return types.BooleanType(), nil
	case "VARCHAR":
		p.advance()
		return p.parseVarchar()
	case "ENUM":
		p.advance()
		return p.parseEnum()
	default:
		return types.DataType{}, p.errorf("column type")
	}
}

func (p *Parser) parseVarchar() (types.DataType, error) {
	if _, err := p.expect(lexer.LPAREN, "'(' after VARCHAR"); err != nil {
		return types.DataType{}, err
	}
	tok := p.cur()
	n, err := strconv.Atoi(tok.Literal)
	if tok.Type != lexer.NUMBER || err != nil || n <= 0 {
		return types.DataType{}, p.errorf("positive VARCHAR length")
	}
	p.advance()
	if _, err := p.expect(lexer.RPAREN, "')' after VARCHAR length"); err != nil {
		return types.DataType{}, err
	}
	return types.VarcharType(n), nil
}

func (p *Parser) parseEnum() (types.DataType, error) {
	if _, err := p.expect(lexer.LPAREN, "'(' after ENUM"); err != nil {
		return types.DataType{}, err
	}

	var variants []string
	seen := make(map[string]bool)
	for {
		tok := p.cur()
		if tok.Type != lexer.STRING {
			return types.DataType{}, p.errorf("string ENUM variant")
		}
		if seen[tok.Literal] {
			return types.DataType{}, p.errorf("distinct ENUM variant")
		}
		seen[tok.Literal] = true
		variants = append(variants, tok.Literal)
		p.advance()

		if p.cur().Type == lexer.COMMA {
			p.advance()
			continue
		}
		if _, err := p.expect(lexer.RPAREN, "')' after ENUM variants"); err != nil {
			return types.DataType{}, err
		}
		return types.EnumType(variants...), nil
	}
}

func (p *Parser) parseColumnDef() (types.Column, error) {
	name, err := p.expectIdent("column name")
	if err != nil {
		return types.Column{}, err
	}
	dt, err := p.parseDataType()
	if err != nil {
		return types.Column{}, err
	}
	return types.Column{Name: name, Type: dt}, nil
}
