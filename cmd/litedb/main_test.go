package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koustreak/litedb/internal/errs"
	"github.com/koustreak/litedb/internal/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// flag variables outlive a single Execute
	initDB, initVersion, initPassword, initConnectionString, schemaTable = "", "3", "", "", ""
	for _, name := range []string{"db", "version", "password", "connection-string"} {
		if f := configInitCmd.Flags().Lookup(name); f != nil {
			f.Changed = false
		}
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--log-level", "disabled"}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

// setup writes a configuration for a fresh database and returns the
// --config argument pair.
func setup(t *testing.T) []string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)
	conf := filepath.Join(dir, "litedb.yaml")

	out, err := run(t, "--config", conf, "config", "init", "--db", filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	require.Contains(t, out, "wrote "+conf)

	cfg := []string{"--config", conf}
	_, err = run(t, append(cfg, "exec", "CREATE TABLE test (id INTEGER PRIMARY KEY, value TEXT)")...)
	require.NoError(t, err)
	return cfg
}

func TestCLI_ConfigShowMasksPassword(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "litedb.yaml")

	_, err := run(t, "--config", conf, "config", "init", "--db", filepath.Join(dir, "a.db"), "--password", "hunter2")
	require.NoError(t, err)

	out, err := run(t, "--config", conf, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Password=****;")
	assert.NotContains(t, out, "hunter2")
}

func TestCLI_ConfigInitDefaultDatabase(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	t.Setenv(paths.EnvDataDir, data)
	conf := filepath.Join(dir, "litedb.yaml")

	out, err := run(t, "--config", conf, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Data Source="+filepath.Join(data, "litedb.db")+";")
	assert.FileExists(t, filepath.Join(data, "litedb.db"))
}

func TestCLI_ConfigInitConnectionString(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "litedb.yaml")
	db := filepath.Join(dir, "cs.db")

	_, err := run(t, "--config", conf, "config", "init",
		"--connection-string", "data source="+db+";version=3;pwd=hunter2;")
	require.NoError(t, err)

	out, err := run(t, "--config", conf, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Data Source="+db+";")
	assert.Contains(t, out, "Password=****;")

	// an explicit flag overrides the descriptor
	other := filepath.Join(dir, "other.db")
	_, err = run(t, "--config", conf, "config", "init",
		"--connection-string", "Data Source="+db+";", "--db", other)
	require.NoError(t, err)
	assert.FileExists(t, other)

	_, err = run(t, "--config", conf, "config", "init", "--connection-string", "Nonsense")
	assert.True(t, errs.IsInvalidInput(err))
}

func TestCLI_MissingConfiguration(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "ping")
	require.Error(t, err)
	assert.True(t, errs.IsConfigLoad(err))
}

func TestCLI_ExecQueryScalar(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, append(cfg, "exec", "INSERT INTO test (id, value) VALUES (@0, @1)", "2", "Hello World")...)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = run(t, append(cfg, "scalar", "SELECT value FROM test WHERE id = @0", "2")...)
	require.NoError(t, err)
	assert.Equal(t, "Hello World\n", out)

	out, err = run(t, append(cfg, "scalar", "SELECT value FROM test WHERE id = @0", "99")...)
	require.NoError(t, err)
	assert.Equal(t, "NULL\n", out)

	out, err = run(t, append(cfg, "query", "SELECT id, value FROM test")...)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, float64(2), rows[0]["id"])
	assert.Equal(t, "Hello World", rows[0]["value"])

	out, err = run(t, append(cfg, "ping")...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ok "))
}

func TestCLI_Transaction(t *testing.T) {
	cfg := setup(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.sql")
	require.NoError(t, os.WriteFile(good, []byte(
		"INSERT INTO test VALUES (1, 'one');\nINSERT INTO test VALUES (2, 'two; too');\n"), 0o600))

	out, err := run(t, append(cfg, "tx", good)...)
	require.NoError(t, err)
	assert.Equal(t, "committed 2 statement(s)\n", out)

	bad := filepath.Join(dir, "bad.sql")
	require.NoError(t, os.WriteFile(bad, []byte(
		"INSERT INTO test VALUES (3, 'three');\nINSERT INTO test VALUES (1, 'duplicate');\n"), 0o600))

	_, err = run(t, append(cfg, "tx", bad)...)
	require.Error(t, err)
	assert.True(t, errs.IsTransaction(err))

	out, err = run(t, append(cfg, "scalar", "SELECT count(*) FROM test")...)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestCLI_Schema(t *testing.T) {
	cfg := setup(t)

	out, err := run(t, append(cfg, "schema")...)
	require.NoError(t, err)

	var info struct {
		Tables []struct {
			Name string `json:"name"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Len(t, info.Tables, 1)
	assert.Equal(t, "test", info.Tables[0].Name)
}
