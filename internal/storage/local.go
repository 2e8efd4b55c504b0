package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage writes objects to the local filesystem. Intended for
// development; URLs are served by the image service's static file route.
type LocalStorage struct {
	dir     string
	baseURL string
}

// NewLocalStorage constructs a filesystem backend rooted at dir.
func NewLocalStorage(dir, baseURL string) *LocalStorage {
	if baseURL == "" {
		baseURL = "http://localhost:5003/uploads"
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// EnsureReady creates the upload directory tree.
func (l *LocalStorage) EnsureReady(_ context.Context) error {
	return os.MkdirAll(l.dir, 0o755)
}

// Upload writes the object to disk and returns its served URL.
func (l *LocalStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	path, err := l.objectPath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return l.baseURL + "/" + key, nil
}

// Delete removes the object addressed by URL; unknown URLs are ignored.
func (l *LocalStorage) Delete(_ context.Context, url string) error {
	prefix := l.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	key := strings.TrimPrefix(url, prefix)
	path, err := l.objectPath(key)
	if err != nil {
		return nil
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// objectPath resolves a key under the storage root and rejects keys whose
// cleaned path would escape it.
func (l *LocalStorage) objectPath(key string) (string, error) {
	root := filepath.Clean(l.dir)
	path := filepath.Join(root, filepath.FromSlash(key))
	if path == root || !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", fmt.Errorf("object key %q escapes storage root", key)
	}
	return path, nil
}

// PresignUpload is not available for local storage.
func (l *LocalStorage) PresignUpload(context.Context, string, string, time.Duration) (*UploadURL, error) {
	return nil, ErrPresignUnsupported
}

// Dir returns the root directory, used to mount the static file route.
func (l *LocalStorage) Dir() string {
	return l.dir
}

var _ ObjectStorage = (*LocalStorage)(nil)
