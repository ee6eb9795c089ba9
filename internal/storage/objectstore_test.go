package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinio struct {
	bucket      string
	key         string
	size        int64
	contentType string
	body        []byte
	err         error
}

func (f *fakeMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	f.bucket = bucketName
	f.key = objectName
	f.size = objectSize
	f.contentType = opts.ContentType
	f.body, _ = io.ReadAll(reader)
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func TestImageKey(t *testing.T) {
	assert.Equal(t, "images/42.png", ImageKey(42, "png"))
	assert.Equal(t, "images/1.jpeg", ImageKey(1, "jpeg"))
}

func TestPut(t *testing.T) {
	fake := &fakeMinio{}
	store := &MinioStore{client: fake, bucket: "picstream", publicURL: "http://localhost:9000"}

	content := []byte("fake image bytes")
	err := store.Put(context.Background(), "images/7.jpg", bytes.NewReader(content), int64(len(content)), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "picstream", fake.bucket)
	assert.Equal(t, "images/7.jpg", fake.key)
	assert.Equal(t, int64(len(content)), fake.size)
	assert.Equal(t, "image/jpeg", fake.contentType)
	assert.Equal(t, content, fake.body)
}

func TestPutDefaultsContentType(t *testing.T) {
	fake := &fakeMinio{}
	store := &MinioStore{client: fake, bucket: "picstream", publicURL: "http://localhost:9000"}

	err := store.Put(context.Background(), "images/1.png", bytes.NewReader(nil), 0, "")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", fake.contentType)
}

func TestPutError(t *testing.T) {
	fake := &fakeMinio{err: errors.New("connection refused")}
	store := &MinioStore{client: fake, bucket: "picstream", publicURL: "http://localhost:9000"}

	err := store.Put(context.Background(), "images/1.png", bytes.NewReader(nil), 0, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "images/1.png")
}

func TestPublicURL(t *testing.T) {
	store := &MinioStore{bucket: "picstream", publicURL: "http://localhost:9000"}
	assert.Equal(t, "http://localhost:9000/picstream/images/42.png", store.PublicURL("images/42.png"))
}

func TestNewMinioStoreTrimsTrailingSlash(t *testing.T) {
	store, err := NewMinioStore(Options{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "picstream",
		PublicURL: "http://localhost:9000/",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/picstream/x", store.PublicURL("x"))
}
