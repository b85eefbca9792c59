package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	t.Parallel()

	fs := NewFileStore(filepath.Join(t.TempDir(), "knowledge.json"))

	_, err := fs.Load()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "knowledge.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path).Load()
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "knowledge.json")
	fs := NewFileStore(path)

	in := map[string]string{
		"capital of france": "paris",
		"what is go":        "a programming language",
	}
	require.NoError(t, fs.Save(in))

	out, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFileStore_SaveCreatesParentDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "knowledge.json")
	fs := NewFileStore(path)

	require.NoError(t, fs.Save(map[string]string{"q": "a"}))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestFileStore_SaveLeavesNoTempFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.json")
	require.NoError(t, NewFileStore(path).Save(map[string]string{"q": "a"}))

	_, err := os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}
