package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertOnlyFile(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, name, entries[0].Name())
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	require.NoError(t, WriteFileAtomic(path, []byte(`{"rounds":1}`), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte(`{"rounds":2}`), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"rounds":2}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assertOnlyFile(t, dir, "report.json")
}

func TestWriteAtomicStreams(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "casino.yaml")
	err := WriteAtomic(path, 0o644, func(w io.Writer) error {
		for i := range 3 {
			if _, err := fmt.Fprintf(w, "line %d\n", i); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line 0\nline 1\nline 2\n", string(data))
}

func TestWriteAtomicKeepsOldFileOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	require.NoError(t, WriteFileAtomic(path, []byte("old"), 0o644))

	boom := errors.New("encoder failed")
	err := WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assertOnlyFile(t, dir, "report.json")
}

func TestWriteAtomicMissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nope", "report.json")
	err := WriteFileAtomic(path, []byte("x"), 0o644)
	require.ErrorContains(t, err, "create temp file")
}
