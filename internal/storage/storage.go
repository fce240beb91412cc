package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/RMahshie/modulus/internal/config"
)

// ObjectStore handles storage of raw CSV exports
type ObjectStore interface {
	GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error)
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	DownloadFile(ctx context.Context, key string) ([]byte, error)
	UploadFile(ctx context.Context, key string, contentType string, data []byte) error
	DeleteFile(ctx context.Context, key string) error
}

const (
	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = 24 * time.Hour
)

// UploadURLExpiry is how long generated upload URLs stay valid
func UploadURLExpiry() time.Duration {
	return uploadURLExpiry
}

// New creates the object store selected by cfg.Backend
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Backend {
	case "", "s3":
		return NewS3Service(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKeyID,
			SecretKey: cfg.SecretAccessKey,
		})
	case "minio":
		return NewMinioService(ctx, MinioConfig{
			Bucket:    cfg.Bucket,
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKeyID,
			SecretKey: cfg.SecretAccessKey,
			UseSSL:    cfg.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// validateContentType validates that the content type is supported
func validateContentType(contentType string) error {
	validTypes := map[string]bool{
		"text/csv":                 true,
		"text/plain":               true,
		"application/vnd.ms-excel": true, // what some browsers report for .csv
	}

	if !validTypes[contentType] {
		return fmt.Errorf("invalid content type: %s. Supported types: text/csv, text/plain, application/vnd.ms-excel", contentType)
	}

	return nil
}
