package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/koustreak/litedb/internal/errs"
	"github.com/koustreak/litedb/internal/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguration_ConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  Configuration
		want string
	}{
		{"all fields", Configuration{DatabasePath: "/tmp/test.db", DatabaseVersion: "3", Password: "secret"},
			"Data Source=/tmp/test.db;Version=3;Password=secret;"},
		{"no password", Configuration{DatabasePath: "/tmp/test.db", DatabaseVersion: "3"},
			"Data Source=/tmp/test.db;Version=3;"},
		{"path only", Configuration{DatabasePath: "test.db"}, "Data Source=test.db;"},
		{"version and password", Configuration{DatabaseVersion: "3", Password: "p"}, "Version=3;Password=p;"},
		{"empty", Configuration{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ConnectionString())
		})
	}
}

func TestConfiguration_StringMasksPassword(t *testing.T) {
	cfg := Configuration{DatabasePath: "test.db", DatabaseVersion: "3", Password: "secret"}

	assert.Equal(t, "Data Source=test.db;Version=3;Password=****;", cfg.String())
	assert.NotContains(t, cfg.String(), "secret")
	assert.Equal(t, "secret", cfg.Password, "String must not modify the receiver")
}

func TestParseConnectionString(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := Configuration{DatabasePath: "/var/lib/app/test.db", DatabaseVersion: "3", Password: "pa=ss"}

		got, err := ParseConnectionString(in.ConnectionString())
		require.NoError(t, err)
		assert.Equal(t, in.DatabasePath, got.DatabasePath)
		assert.Equal(t, in.DatabaseVersion, got.DatabaseVersion)
		assert.Equal(t, in.Password, got.Password)
	})

	t.Run("aliases and case", func(t *testing.T) {
		got, err := ParseConnectionString("datasource=a.db; VERSION=3;pwd=x")
		require.NoError(t, err)
		assert.Equal(t, "a.db", got.DatabasePath)
		assert.Equal(t, "3", got.DatabaseVersion)
		assert.Equal(t, "x", got.Password)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := ParseConnectionString("Data Source=a.db;Mode=ro;")
		assert.True(t, errs.IsInvalidInput(err))
	})

	t.Run("malformed segment", func(t *testing.T) {
		_, err := ParseConnectionString("Data Source=a.db;garbage;")
		assert.True(t, errs.IsInvalidInput(err))
	})
}

func TestNewConfiguration_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)

	cfg, err := NewConfiguration("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigurationFileName), cfg.File())

	def, err := DefaultConfigurationPath()
	require.NoError(t, err)
	assert.Equal(t, cfg.File(), def)
}

func TestConfiguration_WriteRead(t *testing.T) {
	for _, name := range []string{"conf.yaml", "conf.xml"} {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "sub", name)

			out, err := NewConfiguration(file)
			require.NoError(t, err)
			out.DatabasePath = "/data/test.db"
			out.DatabaseVersion = "3"
			out.Password = "secret"
			require.NoError(t, out.Write())

			in, err := NewConfiguration(file)
			require.NoError(t, err)
			require.NoError(t, in.Read())
			assert.Equal(t, out.ConnectionString(), in.ConnectionString())
		})
	}
}

func TestConfiguration_XMLElementNames(t *testing.T) {
	file := filepath.Join(t.TempDir(), "SqLiteConfiguration.xml")
	cfg := &Configuration{DatabasePath: "test.db", DatabaseVersion: "3", Password: "p", file: file}
	require.NoError(t, cfg.Write())

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<SqLiteConfiguration>")
	assert.Contains(t, string(raw), "<DatabasePath>test.db</DatabasePath>")
	assert.Contains(t, string(raw), "<Pwd>p</Pwd>")
}

func TestConfiguration_ReadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		cfg, err := NewConfiguration(filepath.Join(dir, "absent.yaml"))
		require.NoError(t, err)

		err = cfg.Read()
		require.Error(t, err)
		assert.True(t, errs.IsConfigLoad(err))
		assert.Contains(t, err.Error(), "could not load configuration file")
	})

	t.Run("malformed file leaves configuration unchanged", func(t *testing.T) {
		file := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(file, []byte("database_path: [unterminated"), 0o600))

		cfg, err := NewConfiguration(file)
		require.NoError(t, err)
		cfg.DatabasePath = "keep.db"

		err = cfg.Read()
		assert.True(t, errs.IsConfigLoad(err))
		assert.Equal(t, "keep.db", cfg.DatabasePath)
	})
}
