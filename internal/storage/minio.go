package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/arthive/illustration-platform/internal/config"
)

// MinioStorage stores objects in S3-compatible object storage.
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStorage constructs an S3-compatible backend from config.
func NewMinioStorage(cfg config.StorageConfig) (*MinioStorage, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("storage endpoint is required")
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("storage access key and secret key are required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinioStorage{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// EnsureReady creates the bucket when it does not exist yet.
func (m *MinioStorage) EnsureReady(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
}

// Upload stores the object and returns its public URL.
func (m *MinioStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return m.objectURL(key), nil
}

// Delete removes the object addressed by a URL previously returned from
// Upload or PresignUpload.
func (m *MinioStorage) Delete(ctx context.Context, url string) error {
	key, ok := m.keyFromURL(url)
	if !ok {
		return nil
	}
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

// PresignUpload mints a presigned PUT URL for a direct client upload.
func (m *MinioStorage) PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (*UploadURL, error) {
	presigned, err := m.client.PresignedPutObject(ctx, m.bucket, key, expires)
	if err != nil {
		return nil, err
	}
	return &UploadURL{
		UploadURL:   presigned.String(),
		Key:         key,
		FinalURL:    m.objectURL(key),
		ExpiresAt:   time.Now().Add(expires),
		ContentType: contentType,
	}, nil
}

func (m *MinioStorage) objectURL(key string) string {
	return m.baseURL + "/" + key
}

func (m *MinioStorage) keyFromURL(url string) (string, bool) {
	prefix := m.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

var _ ObjectStorage = (*MinioStorage)(nil)
