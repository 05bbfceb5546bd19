package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TokenType represents the type of a token
type TokenType int

const (
	// EOF represents the end of file token
	EOF TokenType = iota
	// KEYWORD represents a keyword token
	KEYWORD
	// IDENTIFIER represents an identifier token
	IDENTIFIER
	// NUMBER represents a number token
	NUMBER
	// STRING represents a string token
	STRING
	// LPAREN represents a left parenthesis
	LPAREN
	// RPAREN represents a right parenthesis
	RPAREN
	// COMMA represents a comma
	COMMA
	// SEMICOLON represents a semicolon
	SEMICOLON
	// ASTERISK represents an asterisk
	ASTERISK
	// EQUALS represents an equals sign
	EQUALS
	// NOT_EQUALS represents != or <>
	NOT_EQUALS
	// LESS represents <
	LESS
	// LESS_EQUALS represents <=
	LESS_EQUALS
	// GREATER represents >
	GREATER
	// GREATER_EQUALS represents >=
	GREATER_EQUALS
)

var tokenTypeNames = [...]string{
	EOF:            "end of input",
	KEYWORD:        "keyword",
	IDENTIFIER:     "identifier",
	NUMBER:         "number",
	STRING:         "string",
	LPAREN:         "'('",
	RPAREN:         "')'",
	COMMA:          "','",
	SEMICOLON:      "';'",
	ASTERISK:       "'*'",
	EQUALS:         "'='",
	NOT_EQUALS:     "'!='",
	LESS:           "'<'",
	LESS_EQUALS:    "'<='",
	GREATER:        "'>'",
	GREATER_EQUALS: "'>='",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Position locates a token in the statement text. Line and Col are 1-based.
type Position struct {
	Offset int
	Line   int
	Col    int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Col)
}

// Token represents a lexical token. Keyword literals are upper-cased, string
// literals are stored without quotes and with escapes resolved.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Is reports whether the token is the given keyword
func (t Token) Is(keyword string) bool {
	return t.Type == KEYWORD && t.Literal == keyword
}

func (t Token) String() string {
	return fmt.Sprintf("Token{Type: %v, Literal: %q}", t.Type, t.Literal)
}

// LexError reports an unterminated string or a character that starts no token
type LexError struct {
	Pos  Position
	Char rune
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %s: %s %q", e.Pos, e.Msg, e.Char)
}

// Lexer represents a lexical analyzer
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	col          int
}

// New creates a new lexer with the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// Tokenize lexes the whole input. The returned slice always ends with EOF.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	// columns count code points; continuation bytes share their rune's column
	if utf8.RuneStart(l.ch) {
		l.col++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) pos() Position {
	return Position{Offset: l.position, Line: l.line, Col: l.col}
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token, or a *LexError
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	tok := Token{Pos: l.pos()}
	if l.atEOF() {
		tok.Type = EOF
		return tok, nil
	}

	switch l.ch {
	case '(':
		tok.Type, tok.Literal = LPAREN, "("
	case ')':
		tok.Type, tok.Literal = RPAREN, ")"
	case ',':
		tok.Type, tok.Literal = COMMA, ","
	case ';':
		tok.Type, tok.Literal = SEMICOLON, ";"
	case '*':
		tok.Type, tok.Literal = ASTERISK, "*"
	case '=':
		tok.Type, tok.Literal = EQUALS, "="
	case '!':
		if l.peekChar() != '=' {
			return tok, l.errorHere("invalid character")
		}
		l.readChar()
		tok.Type, tok.Literal = NOT_EQUALS, "!="
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok.Type, tok.Literal = LESS_EQUALS, "<="
		case '>':
			l.readChar()
			tok.Type, tok.Literal = NOT_EQUALS, "<>"
		default:
			tok.Type, tok.Literal = LESS, "<"
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = GREATER_EQUALS, ">="
		} else {
			tok.Type, tok.Literal = GREATER, ">"
		}
	case '"', '\'':
		literal, err := l.readString()
		if err != nil {
			return tok, err
		}
		tok.Type, tok.Literal = STRING, literal
		return tok, nil
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			upperLiteral := strings.ToUpper(tok.Literal)
			if isKeyword(upperLiteral) {
				tok.Type = KEYWORD
				tok.Literal = upperLiteral
			} else {
				tok.Type = IDENTIFIER
			}
			return tok, nil
		} else if isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())) {
			literal, err := l.readNumber()
			if err != nil {
				return tok, err
			}
			tok.Type, tok.Literal = NUMBER, literal
			return tok, nil
		}
		return tok, l.errorHere("invalid character")
	}

	l.readChar()
	return tok, nil
}

func (l *Lexer) errorHere(msg string) *LexError {
	r, _ := utf8.DecodeRuneInString(l.input[l.position:])
	return &LexError{Pos: l.pos(), Char: r, Msg: msg}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEOF() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() (string, error) {
	position := l.position
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		if !isDigit(l.peekChar()) {
			return "", l.errorHere("malformed number at")
		}
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.ch == '.' {
			return "", l.errorHere("malformed number at")
		}
	}
	return l.input[position:l.position], nil
}

// readString consumes a quoted literal starting at the opening quote.
// A backslash escapes the next byte and a doubled quote stands for one quote.
func (l *Lexer) readString() (string, error) {
	quote := l.ch
	start := l.pos()
	l.readChar()

	var sb strings.Builder
	for {
		if l.atEOF() {
			return "", &LexError{Pos: start, Char: rune(quote), Msg: "unterminated string starting with"}
		}
		switch {
		case l.ch == '\\' && l.readPosition < len(l.input):
			l.readChar()
			sb.WriteByte(l.ch)
		case l.ch == quote && l.peekChar() == quote:
			l.readChar()
			sb.WriteByte(quote)
		case l.ch == quote:
			l.readChar()
			return sb.String(), nil
		default:
			sb.WriteByte(l.ch)
		}
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

var keywords = map[string]bool{
	"CREATE": true, "DATABASE": true, "TABLE": true, "USE": true, "DROP": true,
	"TRUNCATE": true, "ALTER": true, "ADD": true, "COLUMN": true, "MODIFY": true,
	"SELECT": true, "FROM": true, "INSERT": true, "INTO": true, "VALUES": true,
	"UPDATE": true, "SET": true, "WHERE": true, "DELETE": true, "AND": true,
	"OR": true, "TRUE": true, "FALSE": true,
}

func isKeyword(word string) bool {
	return keywords[word]
}
