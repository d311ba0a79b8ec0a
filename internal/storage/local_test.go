package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("ticket/t-1/file.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "ticket/t-1/file.txt", path)

	reader, err := store.Open(path)
	require.NoError(t, err)
	defer reader.Close()
	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	require.NoError(t, store.Delete(path))
	_, err = store.Open(path)
	assert.Error(t, err)
}

func TestLocalStoreDeleteMissingIsNoError(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete("does/not/exist"))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../escape.txt", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = store.Open("../../etc/passwd")
	assert.Error(t, err)
}
