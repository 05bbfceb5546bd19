package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zakazai/ulin-sql/internal/executor"
	"github.com/zakazai/ulin-sql/internal/generator"
	"github.com/zakazai/ulin-sql/internal/storage"
	"github.com/zakazai/ulin-sql/internal/types"
)

func newExecutor(t *testing.T) *executor.Executor {
	t.Helper()
	e := executor.New(storage.NewCatalog())
	e.SetLogger(types.NopLogger())
	return e
}

func TestGenerateSQL(t *testing.T) {
	e := newExecutor(t)
	_, err := e.ExecuteScript(`
		CREATE DATABASE app;
		USE app;
		CREATE TABLE users (id INTEGER, name VARCHAR(10), role ENUM('admin', 'it''s'), score FLOAT);
		INSERT INTO users VALUES (1, 'Alice', 'admin', 2);
		INSERT INTO users (id, role) VALUES (2, 'it''s');
	`)
	require.NoError(t, err)

	got, err := generator.GenerateSQL(e.Catalog())
	require.NoError(t, err)

	want := `CREATE DATABASE app;
USE app;

CREATE TABLE users (
  id INTEGER,
  name VARCHAR(10),
  role ENUM('admin', 'it\'s'),
  score FLOAT
);

INSERT INTO users VALUES (1, 'Alice', 'admin', 2.0);
INSERT INTO users (id, role) VALUES (2, 'it\'s');

USE app;
`
	assert.Equal(t, want, got)
}

func TestGenerateSQLReplays(t *testing.T) {
	e := newExecutor(t)
	_, err := e.ExecuteScript(`
		CREATE DATABASE a;
		CREATE DATABASE b;
		USE b;
		CREATE TABLE t (n INTEGER, f FLOAT, s TEXT, ok BOOLEAN);
		INSERT INTO t VALUES (-3, -0.5, 'back\\slash "quoted"', FALSE), (7, 10, 'x', TRUE);
		ALTER TABLE t ADD extra TEXT;
		INSERT INTO t VALUES (8, 1.25, 'y', TRUE, 'z');
		USE a;
		CREATE TABLE empty (v TEXT);
	`)
	require.NoError(t, err)

	script, err := generator.GenerateSQL(e.Catalog())
	require.NoError(t, err)

	replay := newExecutor(t)
	_, err = replay.ExecuteScript(script)
	require.NoError(t, err, script)

	assert.Equal(t, e.Catalog().DatabaseNames(), replay.Catalog().DatabaseNames())
	assert.Equal(t, "a", replay.Catalog().CurrentName())
	for _, dbName := range []string{"a", "b"} {
		orig, err := e.Catalog().Database(dbName)
		require.NoError(t, err)
		copied, err := replay.Catalog().Database(dbName)
		require.NoError(t, err)
		require.Equal(t, orig.TableNames(), copied.TableNames())
		for _, name := range orig.TableNames() {
			ot, _ := orig.Table(name)
			ct, _ := copied.Table(name)
			assert.Equal(t, ot.Columns(), ct.Columns())
			assert.Equal(t, ot.Rows(), ct.Rows())
		}
	}
}

func TestGenerateSQLAllNullRow(t *testing.T) {
	e := newExecutor(t)
	_, err := e.ExecuteScript(`
		CREATE DATABASE app;
		USE app;
		CREATE TABLE t (a INTEGER);
		INSERT INTO t VALUES (1);
		ALTER TABLE t ADD b TEXT;
		ALTER TABLE t DROP a;
	`)
	require.NoError(t, err)

	_, err = generator.GenerateSQL(e.Catalog())
	assert.ErrorIs(t, err, generator.ErrAllNull)
}

func TestGenerateSQLEmptyCatalog(t *testing.T) {
	got, err := generator.GenerateSQL(storage.NewCatalog())
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
