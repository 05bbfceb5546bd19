package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zakazai/ulin-sql/internal/parser"
	"github.com/zakazai/ulin-sql/internal/storage"
	"github.com/zakazai/ulin-sql/internal/types"
)

func newCatalog(t *testing.T) *storage.Catalog {
	t.Helper()
	c := storage.NewCatalog()
	c.SetLogger(types.NopLogger())
	require.NoError(t, c.CreateDatabase("app"))
	require.NoError(t, c.UseDatabase("app"))
	require.NoError(t, c.CreateTable("users", []types.Column{
		{Name: "id", Type: types.IntegerType()},
		{Name: "name", Type: types.VarcharType(10)},
		{Name: "score", Type: types.FloatType()},
	}))
	return c
}

func run(t *testing.T, c *storage.Catalog, sql string) *Result {
	t.Helper()
	stmt, err := parser.Parse(sql)
	require.NoError(t, err)
	res, err := NewPlanner(c).Execute(stmt)
	require.NoError(t, err)
	return res
}

func TestCreatePlan(t *testing.T) {
	tests := []struct {
		name        string
		sql         string
		wantColumns []int
		wantNames   []string
		wantRows    []storage.Row
		wantSet     map[int]types.Value
	}{
		{
			name:        "Select all plan",
			sql:         "SELECT * FROM users",
			wantColumns: []int{0, 1, 2},
			wantNames:   []string{"id", "name", "score"},
		},
		{
			name:        "Select list uses declaration order",
			sql:         "SELECT score, id FROM users WHERE id = 1",
			wantColumns: []int{0, 2},
			wantNames:   []string{"id", "score"},
		},
		{
			name:        "Insert with column list fills NULL",
			sql:         "INSERT INTO users (name, id) VALUES ('Bob', 2)",
			wantColumns: []int{1, 0},
			wantNames:   []string{"name", "id"},
			wantRows:    []storage.Row{{types.IntValue(2), types.StringValue("Bob"), types.Null}},
		},
		{
			name:     "Update checks and widens values",
			sql:      "UPDATE users SET score = 3 WHERE id = 1",
			wantSet: map[int]types.Value{2: types.FloatValue(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.sql)
			require.NoError(t, err)

			got, err := CreatePlan(stmt, newCatalog(t))
			require.NoError(t, err)
			assert.Equal(t, stmt.Kind(), got.Kind)
			assert.NotNil(t, got.Table)
			if tt.wantColumns != nil {
				assert.Equal(t, tt.wantColumns, got.Columns)
				assert.Equal(t, tt.wantNames, got.Names)
			}
			assert.Equal(t, tt.wantRows, got.Rows)
			if tt.wantSet != nil {
				assert.Equal(t, tt.wantSet, got.Set)
			}
		})
	}
}

func TestCreatePlanErrors(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr error
	}{
		{"Unknown table", "SELECT * FROM missing", storage.ErrUnknownTable},
		{"Unknown projected column", "SELECT age FROM users", storage.ErrUnknownColumn},
		{"Unknown where column", "DELETE FROM users WHERE age > 3", storage.ErrUnknownColumn},
		{"Insert too few values", "INSERT INTO users VALUES (1, 'a')", storage.ErrColumnCountMismatch},
		{"Insert list mismatch", "INSERT INTO users (id) VALUES (1, 'a')", storage.ErrColumnCountMismatch},
		{"Insert unknown column", "INSERT INTO users (age) VALUES (1)", storage.ErrUnknownColumn},
		{"Insert repeated column", "INSERT INTO users (id, id) VALUES (1, 2)", storage.ErrDuplicateColumn},
		{"Update bad value", "UPDATE users SET id = 'x'", types.ErrTypeMismatch},
		{"Update unknown column", "UPDATE users SET age = 1", storage.ErrUnknownColumn},
		{"Update repeated column", "UPDATE users SET id = 1, id = 2", storage.ErrDuplicateColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.sql)
			require.NoError(t, err)

			_, err = CreatePlan(stmt, newCatalog(t))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPlanExecution(t *testing.T) {
	c := newCatalog(t)

	res := run(t, c, "INSERT INTO users VALUES (1, 'Alice', 9.5), (2, 'Bob', 7)")
	assert.Equal(t, 2, res.RowsAffected)
	assert.False(t, res.IsRowSet())
	run(t, c, "INSERT INTO users (id, name) VALUES (3, 'Carol')")

	res = run(t, c, "SELECT name, score FROM users WHERE score >= 7")
	assert.True(t, res.IsRowSet())
	assert.Equal(t, []string{"name", "score"}, res.Columns)
	assert.Equal(t, [][]types.Value{
		{types.StringValue("Alice"), types.FloatValue(9.5)},
		{types.StringValue("Bob"), types.FloatValue(7)},
	}, res.Rows)

	res = run(t, c, "UPDATE users SET score = 1.5 WHERE score != 9.5")
	assert.Equal(t, 1, res.RowsAffected)

	res = run(t, c, "SELECT * FROM users")
	assert.Equal(t, [][]types.Value{
		{types.IntValue(1), types.StringValue("Alice"), types.FloatValue(9.5)},
		{types.IntValue(2), types.StringValue("Bob"), types.FloatValue(1.5)},
		{types.IntValue(3), types.StringValue("Carol"), types.Null},
	}, res.Rows)

	res = run(t, c, "DELETE FROM users WHERE id = 2 OR name = 'Nobody'")
	assert.Equal(t, 1, res.RowsAffected)

	res = run(t, c, "TRUNCATE TABLE users")
	assert.Equal(t, 2, res.RowsAffected)

	res = run(t, c, "SELECT * FROM users")
	assert.Empty(t, res.Rows)
	assert.Equal(t, []string{"id", "name", "score"}, res.Columns)
}

func TestPlanEvaluationErrorIsAtomic(t *testing.T) {
	c := newCatalog(t)
	run(t, c, "INSERT INTO users VALUES (1, 'Alice', 9.5), (2, 'Bob', 7)")

	for _, sql := range []string{
		"UPDATE users SET score = 0 WHERE name > 5",
		"DELETE FROM users WHERE id = 'one'",
		"SELECT * FROM users WHERE id = 1 OR name = 2",
	} {
		stmt, err := parser.Parse(sql)
		require.NoError(t, err)
		_, err = NewPlanner(c).Execute(stmt)
		assert.ErrorIs(t, err, types.ErrTypeMismatch, sql)
	}

	res := run(t, c, "SELECT * FROM users")
	assert.Equal(t, [][]types.Value{
		{types.IntValue(1), types.StringValue("Alice"), types.FloatValue(9.5)},
		{types.IntValue(2), types.StringValue("Bob"), types.FloatValue(7)},
	}, res.Rows)
}

func TestPredicate(t *testing.T) {
	table, err := storage.RestoreTable("t", []types.Column{
		{Name: "n", Type: types.IntegerType()},
		{Name: "s", Type: types.TextType()},
		{Name: "b", Type: types.BooleanType()},
	}, nil)
	require.NoError(t, err)

	row := storage.Row{types.IntValue(5), types.StringValue("m"), types.BoolValue(true)}
	nullRow := storage.Row{types.Null, types.Null, types.Null}

	tests := []struct {
		where   string
		row     storage.Row
		want    bool
		wantErr bool
	}{
		{where: "n = 5", row: row, want: true},
		{where: "n != 5", row: row, want: false},
		{where: "n < 5.5", row: row, want: true},
		{where: "5 >= n", row: row, want: true},
		{where: "s > 'a'", row: row, want: true},
		{where: "s <= 'l'", row: row, want: false},
		{where: "b = TRUE", row: row, want: true},
		{where: "b > FALSE", row: row, want: true},
		{where: "n = 1 OR n = 5 AND s = 'm'", row: row, want: true},
		{where: "(n = 1 OR n = 5) AND s = 'x'", row: row, want: false},
		{where: "n = 5", row: nullRow, want: false},
		{where: "n != 5", row: nullRow, want: false},
		{where: "s = 5", row: nullRow, want: false},
		{where: "s = 5", row: row, wantErr: true},
		{where: "n = 5 OR b = 1", row: row, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.where, func(t *testing.T) {
			stmt, err := parser.Parse("SELECT * FROM t WHERE " + tt.where)
			require.NoError(t, err)

			pred, err := CompilePredicate(stmt.(*parser.SelectStatement).Where, table)
			require.NoError(t, err)

			got, err := pred(tt.row)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrTypeMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
