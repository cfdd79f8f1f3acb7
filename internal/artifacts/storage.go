package artifacts

import (
	"context"
	"fmt"
	"io"
	"strings"

	"leadscore_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectFetcher reads whole objects from S3-compatible storage.
type ObjectFetcher interface {
	// FetchObject returns the object body. The caller closes it.
	FetchObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// MinIOFetcher implements ObjectFetcher using MinIO.
type MinIOFetcher struct {
	client *minio.Client
}

// NewMinIOFetcher creates a MinIO client from cfg.
func NewMinIOFetcher(cfg config.MinIOConfig) (*MinIOFetcher, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOFetcher{client: client}, nil
}

// FetchObject stats the object first so a missing key fails here rather than
// on the first read.
func (f *MinIOFetcher) FetchObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	object, err := f.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	if _, err := object.Stat(); err != nil {
		_ = object.Close()
		return nil, fmt.Errorf("failed to stat object %s/%s: %w", bucket, key, err)
	}
	return object, nil
}

// splitObjectPath parses "s3://bucket/key/with/slashes".
func splitObjectPath(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, config.ObjectStoragePrefix)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("object path %q must look like %sbucket/key", path, config.ObjectStoragePrefix)
	}
	return bucket, key, nil
}
