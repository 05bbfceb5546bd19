package integration

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zakazai/ulin-sql/internal/executor"
	"github.com/zakazai/ulin-sql/internal/generator"
	"github.com/zakazai/ulin-sql/internal/repl"
	"github.com/zakazai/ulin-sql/internal/snapshot"
	"github.com/zakazai/ulin-sql/internal/storage"
	"github.com/zakazai/ulin-sql/internal/types"
)

// newSession starts a shell session over an empty catalog, or over the
// snapshot at path when it is set
func newSession(t *testing.T, path string) (*repl.Session, *bytes.Buffer) {
	t.Helper()
	exec := executor.New(storage.NewCatalog())
	exec.SetLogger(types.NopLogger())
	var out bytes.Buffer
	s := repl.NewSession(exec, &out, types.NopLogger())
	if path != "" {
		s.SetSnapshot(snapshot.Config{Path: path})
	}
	return s, &out
}

// runScript pipes script through a session the way the CLI does with stdin
func runScript(t *testing.T, s *repl.Session, out *bytes.Buffer, script string) string {
	t.Helper()
	out.Reset()
	require.NoError(t, repl.Run(s, strings.NewReader(script), repl.Options{}))
	return out.String()
}

func TestDatabaseBasicOperations(t *testing.T) {
	s, out := newSession(t, "")

	output := runScript(t, s, out, `
CREATE DATABASE app; USE app;
CREATE TABLE users (id INTEGER, name VARCHAR(10));
INSERT INTO users VALUES (1, 'Alice');
SELECT * FROM users;
ALTER TABLE users ADD age INTEGER;
SELECT * FROM users;
INSERT INTO users VALUES (2, 'Bob', 30);
DELETE FROM users WHERE id = 1;
SELECT * FROM users;
INSERT INTO users VALUES (3, 'ThisNameIsWayTooLong', 5);
SELECT * FROM users;
`)

	want := "" +
		"CREATE DATABASE OK\n" +
		"USE OK\n" +
		"CREATE TABLE OK\n" +
		"INSERT OK, 1 row affected\n" +
		"id | name \n" +
		"---+------\n" +
		"1  | Alice\n" +
		"1 row in set\n" +
		"ALTER TABLE ADD COLUMN OK\n" +
		"id | name  | age \n" +
		"---+-------+-----\n" +
		"1  | Alice | NULL\n" +
		"1 row in set\n" +
		"INSERT OK, 1 row affected\n" +
		"DELETE OK, 1 row affected\n" +
		"id | name | age\n" +
		"---+------+----\n" +
		"2  | Bob  | 30 \n" +
		"1 row in set\n"
	require.True(t, strings.HasPrefix(output, want), output)

	rest := strings.TrimPrefix(output, want)
	assert.True(t, strings.HasPrefix(rest, "Error (TypeMismatch): "), rest)
	assert.True(t, strings.HasSuffix(rest, "2  | Bob  | 30 \n1 row in set\n"), rest)
}

func TestScriptStopsAtFirstError(t *testing.T) {
	s, out := newSession(t, "")

	output := runScript(t, s, out, `
CREATE DATABASE app; USE app; CREATE TABLE t (n INTEGER)
INSERT INTO t VALUES (1); INSERT INTO missing VALUES (2); INSERT INTO t VALUES (3)
SELECT n FROM t
`)
	assert.Contains(t, output, "Error (UnknownTable): statement 2: ")
	assert.True(t, strings.HasSuffix(output, "n\n-\n1\n1 row in set\n"), output)
}

func TestPersistence(t *testing.T) {
	for _, file := range []string{"ulin.json", "ulin.parquet", "ulin.db"} {
		t.Run(file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), file)

			first, out := newSession(t, path)
			output := runScript(t, first, out, `
CREATE DATABASE app; USE app
CREATE TABLE persistence_test (id INTEGER, value TEXT, kind ENUM('a', 'b'))
INSERT INTO persistence_test VALUES (1, 'initial-value', 'a'), (2, 'second-value', 'b')
UPDATE persistence_test SET value = 'changed' WHERE kind = 'b'
.save
`)
			assert.Contains(t, output, "Saved snapshot to "+path)

			second, out := newSession(t, path)
			output = runScript(t, second, out, `
.load
SELECT * FROM persistence_test WHERE id >= 1
`)
			assert.Contains(t, output, "Loaded snapshot from "+path)
			assert.Contains(t, output, "1  | initial-value | a   \n")
			assert.Contains(t, output, "2  | changed       | b   \n")
			assert.Contains(t, output, "2 rows in set\n")
		})
	}
}

func TestDumpReplays(t *testing.T) {
	s, out := newSession(t, "")
	output := runScript(t, s, out, `
CREATE DATABASE app; USE app
CREATE TABLE items (id INTEGER, price FLOAT, label VARCHAR(8), sold BOOLEAN)
INSERT INTO items VALUES (1, 2.5, 'pen', FALSE), (2, 10, 'it''s', TRUE)
INSERT INTO items (id) VALUES (3)
ALTER TABLE items MODIFY label TEXT
`)
	require.NotContains(t, output, "Error")

	script, err := generator.GenerateSQL(s.Catalog())
	require.NoError(t, err)

	replay, replayOut := newSession(t, "")
	require.NoError(t, replay.Exec(script))
	assert.NotContains(t, replayOut.String(), "Error")

	orig, err := s.Catalog().Table("items")
	require.NoError(t, err)
	copied, err := replay.Catalog().Table("items")
	require.NoError(t, err)
	assert.Equal(t, orig.Columns(), copied.Columns())
	assert.Equal(t, orig.Rows(), copied.Rows())
}
