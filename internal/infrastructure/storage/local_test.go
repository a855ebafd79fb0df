package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_CreateOpenRemove(t *testing.T) {
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "videos"))
	require.NoError(t, err)

	assert.False(t, s.Exists("a.mp4"))

	path, err := s.Create("a.mp4", func(w io.Writer) error {
		_, err := w.Write([]byte("mp4-bytes"))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, s.Path("a.mp4"), path)
	assert.True(t, s.Exists("a.mp4"))

	f, err := s.Open("a.mp4")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "mp4-bytes", string(data))

	require.NoError(t, s.Remove("a.mp4"))
	assert.False(t, s.Exists("a.mp4"))
	require.NoError(t, s.Remove("a.mp4"), "removing a missing file is fine")

	_, err = s.Open("a.mp4")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLocalStore_CreateFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	boom := errors.New("stream broke")
	_, err = s.Create("b.mp4", func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.Exists("b.mp4"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file must be cleaned up")
}

func TestLocalStore_Subdirectory(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Create("formatted/c_tiktok.mp4", func(w io.Writer) error { return nil })
	require.NoError(t, err)
	assert.True(t, s.Exists("formatted/c_tiktok.mp4"))
}

func TestLocalStore_RejectsEscapingNames(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x.mp4", "/etc/passwd", `a\b`} {
		_, err := s.Create(name, func(io.Writer) error { return nil })
		assert.ErrorIs(t, err, ErrInvalidName, name)
		_, err = s.Open(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.False(t, s.Exists(name))
	}
}

func TestNewLocalStore_RequiresRoot(t *testing.T) {
	_, err := NewLocalStore("")
	assert.Error(t, err)
}
