package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir, "http://localhost:5003/uploads")
	require.NoError(t, store.EnsureReady(context.Background()))

	url, err := store.Upload(context.Background(), "images/abc/dragon.png", strings.NewReader("bytes"), 5, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5003/uploads/images/abc/dragon.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "images", "abc", "dragon.png"))
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, "images", "abc", "dragon.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageDeleteIgnoresForeignURL(t *testing.T) {
	store := NewLocalStorage(t.TempDir(), "http://localhost:5003/uploads")
	require.NoError(t, store.EnsureReady(context.Background()))

	assert.NoError(t, store.Delete(context.Background(), "http://elsewhere.test/images/a.png"))
	assert.NoError(t, store.Delete(context.Background(), "http://localhost:5003/uploads/never/stored.png"))
}

func TestLocalStorageRejectsKeyEscapingRoot(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "uploads")
	store := NewLocalStorage(dir, "http://localhost:5003/uploads")
	require.NoError(t, store.EnsureReady(context.Background()))

	for _, key := range []string{
		"../escaped.txt",
		"images/../../escaped.txt",
		"../../../../tmp/escaped.txt",
	} {
		_, err := store.Upload(context.Background(), key, strings.NewReader("x"), 1, "text/plain")
		require.Error(t, err, "key %q must not be written", key)
	}

	_, err := os.Stat(filepath.Join(parent, "escaped.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageDeleteIgnoresEscapingKey(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "uploads")
	store := NewLocalStorage(dir, "http://localhost:5003/uploads")
	require.NoError(t, store.EnsureReady(context.Background()))

	outside := filepath.Join(parent, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	require.NoError(t, store.Delete(context.Background(), "http://localhost:5003/uploads/../keep.txt"))

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestLocalStorageDefaultBaseURL(t *testing.T) {
	store := NewLocalStorage(t.TempDir(), "")
	url, err := store.Upload(context.Background(), "images/a.png", strings.NewReader("x"), 1, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:5003/uploads/"))
}

func TestLocalStorageCannotPresign(t *testing.T) {
	store := NewLocalStorage(t.TempDir(), "")
	_, err := store.PresignUpload(context.Background(), "images/a.png", "image/png", time.Minute)
	assert.ErrorIs(t, err, ErrPresignUnsupported)
}
