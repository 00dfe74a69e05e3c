package confstore

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/koustreak/litedb/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	XMLName xml.Name `yaml:"-" xml:"Sample"`
	Name    string   `yaml:"name" xml:"Name"`
	Count   int      `yaml:"count" xml:"Count"`
}

func TestWriteRead_RoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".yml", ".xml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "dir", "sample"+ext)

			require.NoError(t, Write(path, &sample{Name: "test.db", Count: 3}))

			var got sample
			require.NoError(t, Read(path, &got))
			assert.Equal(t, "test.db", got.Name)
			assert.Equal(t, 3, got.Count)
		})
	}
}

func TestWrite_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, Write(path, &sample{Name: "x"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePermissions), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestWrite_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, Write(path, &sample{Name: "first"}))
	require.NoError(t, Write(path, &sample{Name: "second"}))

	var got sample
	require.NoError(t, Read(path, &got))
	assert.Equal(t, "second", got.Name)
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		err := Read(filepath.Join(dir, "absent.yaml"), &sample{})
		require.Error(t, err)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("  \n"), 0600))
		err := Read(path, &sample{})
		assert.True(t, errs.IsInvalidInput(err))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: [unterminated"), 0600))
		err := Read(path, &sample{})
		assert.True(t, errs.IsInvalidInput(err))
	})

	t.Run("malformed xml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.xml")
		require.NoError(t, os.WriteFile(path, []byte("<Sample><Name>x</Sample>"), 0600))
		err := Read(path, &sample{})
		assert.True(t, errs.IsInvalidInput(err))
	})

	t.Run("unknown extension", func(t *testing.T) {
		err := Read(filepath.Join(dir, "sample.ini"), &sample{})
		assert.True(t, errs.IsInvalidInput(err))
	})
}
