package lexer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zakazai/ulin-sql/internal/lexer"
)

type tok struct {
	Type    lexer.TokenType
	Literal string
}

func lex(t *testing.T, input string) []tok {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	require.NoError(t, err)
	require.Equal(t, lexer.EOF, tokens[len(tokens)-1].Type)

	out := make([]tok, 0, len(tokens)-1)
	for _, tk := range tokens[:len(tokens)-1] {
		out = append(out, tok{Type: tk.Type, Literal: tk.Literal})
	}
	return out
}

func TestLexer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tok
	}{
		{
			name:  "Select_all_from_table",
			input: "SELECT * FROM tablex;",
			expected: []tok{
				{lexer.KEYWORD, "SELECT"},
				{lexer.ASTERISK, "*"},
				{lexer.KEYWORD, "FROM"},
				{lexer.IDENTIFIER, "tablex"},
				{lexer.SEMICOLON, ";"},
			},
		},
		{
			name:  "Keywords_are_case_insensitive",
			input: "select Name from Users",
			expected: []tok{
				{lexer.KEYWORD, "SELECT"},
				{lexer.IDENTIFIER, "Name"},
				{lexer.KEYWORD, "FROM"},
				{lexer.IDENTIFIER, "Users"},
			},
		},
		{
			name:  "Create_table_with_parameters",
			input: "CREATE TABLE u (id INT, name VARCHAR(10), c enum('a','b'))",
			expected: []tok{
				{lexer.KEYWORD, "CREATE"},
				{lexer.KEYWORD, "TABLE"},
				{lexer.IDENTIFIER, "u"},
				{lexer.LPAREN, "("},
				{lexer.IDENTIFIER, "id"},
				{lexer.IDENTIFIER, "INT"},
				{lexer.COMMA, ","},
				{lexer.IDENTIFIER, "name"},
				{lexer.IDENTIFIER, "VARCHAR"},
				{lexer.LPAREN, "("},
				{lexer.NUMBER, "10"},
				{lexer.RPAREN, ")"},
				{lexer.COMMA, ","},
				{lexer.IDENTIFIER, "c"},
				{lexer.IDENTIFIER, "enum"},
				{lexer.LPAREN, "("},
				{lexer.STRING, "a"},
				{lexer.COMMA, ","},
				{lexer.STRING, "b"},
				{lexer.RPAREN, ")"},
				{lexer.RPAREN, ")"},
			},
		},
		{
			name:  "Comparison_operators",
			input: "a = 1 b != 2 c <> 3 d < 4 e <= 5 f > 6 g >= 7",
			expected: []tok{
				{lexer.IDENTIFIER, "a"}, {lexer.EQUALS, "="}, {lexer.NUMBER, "1"},
				{lexer.IDENTIFIER, "b"}, {lexer.NOT_EQUALS, "!="}, {lexer.NUMBER, "2"},
				{lexer.IDENTIFIER, "c"}, {lexer.NOT_EQUALS, "<>"}, {lexer.NUMBER, "3"},
				{lexer.IDENTIFIER, "d"}, {lexer.LESS, "<"}, {lexer.NUMBER, "4"},
				{lexer.IDENTIFIER, "e"}, {lexer.LESS_EQUALS, "<="}, {lexer.NUMBER, "5"},
				{lexer.IDENTIFIER, "f"}, {lexer.GREATER, ">"}, {lexer.NUMBER, "6"},
				{lexer.IDENTIFIER, "g"}, {lexer.GREATER_EQUALS, ">="}, {lexer.NUMBER, "7"},
			},
		},
		{
			name:  "Literals",
			input: "(-12, 3.25, 'it''s', \"dq\", 'a\\'b', TRUE, false)",
			expected: []tok{
				{lexer.LPAREN, "("},
				{lexer.NUMBER, "-12"}, {lexer.COMMA, ","},
				{lexer.NUMBER, "3.25"}, {lexer.COMMA, ","},
				{lexer.STRING, "it's"}, {lexer.COMMA, ","},
				{lexer.STRING, "dq"}, {lexer.COMMA, ","},
				{lexer.STRING, "a'b"}, {lexer.COMMA, ","},
				{lexer.KEYWORD, "TRUE"}, {lexer.COMMA, ","},
				{lexer.KEYWORD, "FALSE"},
				{lexer.RPAREN, ")"},
			},
		},
		{
			name:  "String_contents_keep_case",
			input: "'MiXeD Case'",
			expected: []tok{
				{lexer.STRING, "MiXeD Case"},
			},
		},
		{
			name:  "Line_comments_are_skipped",
			input: "DROP -- remove it\nTABLE t",
			expected: []tok{
				{lexer.KEYWORD, "DROP"},
				{lexer.KEYWORD, "TABLE"},
				{lexer.IDENTIFIER, "t"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lex(t, tt.input))
		})
	}
}

func TestLexerPositions(t *testing.T) {
	tokens, err := lexer.Tokenize("SELECT a\n  FROM t")
	require.NoError(t, err)

	assert.Equal(t, lexer.Position{Offset: 0, Line: 1, Col: 1}, tokens[0].Pos)
	assert.Equal(t, lexer.Position{Offset: 7, Line: 1, Col: 8}, tokens[1].Pos)
	assert.Equal(t, lexer.Position{Offset: 11, Line: 2, Col: 3}, tokens[2].Pos)
	assert.Equal(t, lexer.Position{Offset: 16, Line: 2, Col: 8}, tokens[3].Pos)
	assert.Equal(t, lexer.EOF, tokens[4].Type)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		char  rune
		col   int
		msg   string
	}{
		{name: "Unterminated_string", input: "SELECT 'abc", char: '\'', col: 8, msg: "unterminated string"},
		{name: "Invalid_character", input: "SELECT a @ b", char: '@', col: 10, msg: "invalid character"},
		{name: "Lone_bang", input: "a ! b", char: '!', col: 3, msg: "invalid character"},
		{name: "Malformed_number", input: "1.2.3", char: '.', col: 4, msg: "malformed number"},
		{name: "Non_ascii_character", input: "é", char: 'é', col: 1, msg: "invalid character"},
		{name: "Position_after_multibyte_string", input: "'é' @", char: '@', col: 5, msg: "invalid character"},
		{name: "Position_after_multibyte_line", input: "'日本語'\n  'ü' ! x", char: '!', col: 7, msg: "invalid character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lexer.Tokenize(tt.input)
			require.Error(t, err)

			var lexErr *lexer.LexError
			require.True(t, errors.As(err, &lexErr))
			assert.Equal(t, tt.char, lexErr.Char)
			assert.Equal(t, tt.col, lexErr.Pos.Col)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
