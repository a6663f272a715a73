package importer

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStore_ListSortedFilesOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.log"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.log"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	store := NewDirStore(dir)
	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.log", "b.log"}, names)
}

func TestDirStore_OpenStreamsContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.log"), []byte("line1\nline2\n"), 0o644))

	store := NewDirStore(dir)
	f, err := store.Open("a.log")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", string(data))
}

func TestDirStore_RemoveAndPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	store := NewDirStore(dir)
	assert.Equal(t, path, store.Path("a.log"))

	require.NoError(t, store.Remove("a.log"))
	assert.NoFileExists(t, path)
}

func TestDirStore_ListMissingRoot(t *testing.T) {
	store := NewDirStore(filepath.Join(t.TempDir(), "does-not-exist"))
	_, err := store.List()
	assert.Error(t, err)
}
