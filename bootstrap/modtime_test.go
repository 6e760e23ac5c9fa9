package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// touchTree creates dir/sub/file.go and sets every entry to mtime.
func touchTree(t *testing.T, dir string, mtime time.Time) {
	t.Helper()
	sub := filepath.Join(dir, "sub")
	file := filepath.Join(sub, "controller.go")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(file, []byte("package controllers\n"), 0o644))
	for _, p := range []string{file, sub, dir} {
		require.NoError(t, os.Chtimes(p, mtime, mtime))
	}
}

func TestSourceTreeModTime(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)

	t.Run("latest entry wins", func(t *testing.T) {
		dir := t.TempDir()
		touchTree(t, dir, base)

		later := base.Add(time.Hour)
		require.NoError(t, os.Chtimes(filepath.Join(dir, "sub", "controller.go"), later, later))

		got, err := SourceTreeModTime(dir)
		require.NoError(t, err)
		assert.True(t, later.Equal(got), "got %s", got)
	})

	t.Run("empty directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Chtimes(dir, base, base))

		got, err := SourceTreeModTime(dir)
		require.NoError(t, err)
		assert.True(t, base.Equal(got))
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := SourceTreeModTime(filepath.Join(t.TempDir(), "absent"))
		assert.Error(t, err)
	})
}
