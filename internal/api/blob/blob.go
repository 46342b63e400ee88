package blob

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// Store writes opaque blobs into named buckets.
type Store interface {
	Put(ctx context.Context, bucket, key string, data []byte) error
}

// GCSStore implements Store on Google Cloud Storage.
type GCSStore struct {
	client *storage.Client
}

var _ Store = (*GCSStore)(nil)

func NewGCSStore(ctx context.Context) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client}, nil
}

func (s *GCSStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	w := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %s/%s: %w", bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object %s/%s: %w", bucket, key, err)
	}
	return nil
}
