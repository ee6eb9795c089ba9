// Package storage provides the object storage adapter for uploaded images.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore is the boundary the application uses to persist and link
// uploaded binaries. Keys for images are exactly "images/{id}.{ext}" and
// public URLs are derived deterministically from the key.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

// ImageKey builds the canonical object key for an image record.
func ImageKey(imageID uint, ext string) string {
	return fmt.Sprintf("images/%d.%s", imageID, ext)
}

// minioAPI is the subset of the MinIO client the store needs; it exists so
// tests can substitute a fake.
type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioStore implements ObjectStore over a MinIO/S3 bucket with public-read
// objects.
type MinioStore struct {
	client    minioAPI
	bucket    string
	publicURL string
}

// Options configures a MinioStore connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// NewMinioStore creates an object store backed by a MinIO/S3 endpoint.
func NewMinioStore(opts Options) (*MinioStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	return &MinioStore{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
	}, nil
}

// Put stores the object under key. The write is synchronous; a failure is
// surfaced immediately and never retried here.
func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the deterministic public link for key.
func (s *MinioStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
}
