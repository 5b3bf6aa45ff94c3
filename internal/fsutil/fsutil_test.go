package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/pswitch/internal/fsutil"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("creates file with content and mode", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		require.NoError(t, fsutil.WriteFileAtomic(path, []byte("data"), 0600))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "data", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("replaces existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))
		require.NoError(t, fsutil.WriteFileAtomic(path, []byte("new"), 0644))

		data, _ := os.ReadFile(path)
		assert.Equal(t, "new", string(data))
	})

	t.Run("fails when directory does not exist", func(t *testing.T) {
		err := fsutil.WriteFileAtomic(filepath.Join(t.TempDir(), "no", "such", "f"), []byte("x"), 0644)
		assert.Error(t, err)
	})
}

func TestCopyFile(t *testing.T) {
	t.Run("copies content", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		dst := filepath.Join(dir, "dst")
		require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

		require.NoError(t, fsutil.CopyFile(src, dst))
		data, _ := os.ReadFile(dst)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("missing source is an error", func(t *testing.T) {
		dir := t.TempDir()
		assert.Error(t, fsutil.CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")))
	})
}

func TestCopyFileAtomic(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("restore me"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("current"), 0644))

	require.NoError(t, fsutil.CopyFileAtomic(src, dst))
	data, _ := os.ReadFile(dst)
	assert.Equal(t, "restore me", string(data))
}
