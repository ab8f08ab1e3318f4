package exports

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"freight_broker_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const downloadURLTTL = 15 * time.Minute

// ObjectStore is the storage surface the export service needs.
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, key, contentType string, data []byte) error
	DownloadURL(ctx context.Context, key string) (string, time.Time, error)
}

// MinIOStore stores export artifacts in a MinIO bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOStore(cfg config.ExportConfig) (*MinIOStore, error) {
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

	return &MinIOStore{
		client: client,
		bucket: cfg.GetMinioBucketAuditExports(),
	}, nil
}

func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

func (s *MinIOStore) Upload(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

func (s *MinIOStore) DownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	expiresAt := time.Now().Add(downloadURLTTL)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, downloadURLTTL, url.Values{})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return presigned.String(), expiresAt, nil
}

var _ ObjectStore = (*MinIOStore)(nil)
