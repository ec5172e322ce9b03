package imagegen

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := NewWriter(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, w.Dir())
	assert.DirExists(t, dir)
}

func TestWriter_WriteBytes(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	path, n, err := w.WriteBytes(testHash, ".png", []byte("pngdata"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, filepath.Join(w.Dir(), testHash+".png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pngdata", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriter_Overwrites(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	_, _, err = w.WriteBytes("a", ".svg", []byte("first version"))
	require.NoError(t, err)
	path, _, err := w.WriteBytes("a", ".svg", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWriter_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, _, err = w.WriteFile("broken", ".png", func(out io.Writer) error {
		_, _ = out.Write([]byte("partial"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no final file and no temp file")
}

func TestWriter_EmptyName(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	_, _, err = w.WriteBytes("  ", ".png", nil)
	assert.ErrorIs(t, err, ErrEmptyFilename)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{testHash, testHash},
		{"a/b\\c", "a_b_c"},
		{"what?*", "what__"},
		{"..", "render"},
		{"", "render"},
		{strings.Repeat("x", 300), strings.Repeat("x", maxFilenameLen)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), "sanitizeFilename(%q)", tt.in)
	}
}
