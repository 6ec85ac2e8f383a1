package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
)

// objectAPI is the subset of *minio.Client used here.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
}

type MinioStore struct {
	client objectAPI
	cfg    common.ObjectStoreConfig
	logger *slog.Logger
}

func NewMinioStore(cfg common.ObjectStoreConfig, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return newMinioStore(client, cfg, logger), nil
}

func newMinioStore(client objectAPI, cfg common.ObjectStoreConfig, logger *slog.Logger) *MinioStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MinioStore{client: client, cfg: cfg, logger: logger}
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	s.logger.Info("storage.bucket.created", "bucket", s.cfg.Bucket)
	return nil
}

func (s *MinioStore) Store(ctx context.Context, data []byte, contentType, fileName string) (Stored, error) {
	start := time.Now()
	path := ObjectPath(fileName)
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("storage.put.error", "path", path, "error", err)
		return Stored{}, common.NewUploadError("Failed to upload file to storage", err)
	}
	s.logger.Info("storage.put.ok",
		"path", path,
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Stored{Path: path, PublicURL: s.PublicURL(path)}, nil
}

func (s *MinioStore) Delete(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return common.NewUploadError("Failed to delete file from storage", err)
	}
	return nil
}

// PublicURL returns a public URL for the object (if bucket policy allows)
func (s *MinioStore) PublicURL(path string) string {
	protocol := "http"
	if s.cfg.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.cfg.Endpoint, s.cfg.Bucket, path)
}
