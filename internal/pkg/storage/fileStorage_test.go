package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageRoundTrip(t *testing.T) {
	base := t.TempDir()
	s := NewFileStorage(base)

	require.NoError(t, s.Save("images/cat.png", bytes.NewReader([]byte("meow"))))
	assert.True(t, s.Exists("images/cat.png"))

	reader, size, err := s.Get("images/cat.png")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("meow"), data)
	assert.Equal(t, int64(4), size)

	require.NoError(t, s.Delete("images/cat.png"))
	assert.False(t, s.Exists("images/cat.png"))
}

func TestFileStorageKeysStayInBase(t *testing.T) {
	base := t.TempDir()
	s := NewFileStorage(base)

	require.NoError(t, s.Save("../../escape.txt", bytes.NewReader([]byte("x"))))

	_, err := os.Stat(filepath.Join(base, "escape.txt"))
	assert.NoError(t, err)
}

func TestFileStorageMissingAndInvalid(t *testing.T) {
	s := NewFileStorage(t.TempDir())

	_, _, err := s.Get("missing.png")
	assert.True(t, os.IsNotExist(err))

	_, _, err = s.Get("")
	assert.ErrorIs(t, err, ErrInvalidKey)

	require.NoError(t, s.Save("dir/file", bytes.NewReader(nil)))
	_, _, err = s.Get("dir")
	assert.True(t, os.IsNotExist(err))
}
