package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds configuration for a MinIO backend
type MinioConfig struct {
	Bucket    string
	Endpoint  string // host:port, scheme optional
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type minioService struct {
	client    *minio.Client
	bucket    string
	urlExpiry time.Duration
}

// NewMinioService connects to MinIO and creates the bucket if it does not exist
func NewMinioService(ctx context.Context, cfg MinioConfig) (ObjectStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("S3_ENDPOINT is required for the minio backend")
	}

	endpoint, secure := cfg.Endpoint, cfg.UseSSL
	if strings.HasPrefix(endpoint, "https://") {
		secure = true
	}
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &minioService{
		client:    client,
		bucket:    cfg.Bucket,
		urlExpiry: uploadURLExpiry,
	}, nil
}

// GenerateUploadURL generates a pre-signed URL for uploading files
func (m *minioService) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	if err := validateContentType(contentType); err != nil {
		return "", err
	}

	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	u, err := m.client.PresignHeader(ctx, http.MethodPut, m.bucket, key, m.urlExpiry, url.Values{}, headers)
	if err != nil {
		return "", fmt.Errorf("failed to generate upload URL: %w", err)
	}
	return u.String(), nil
}

// GenerateDownloadURL generates a pre-signed URL for downloading files
func (m *minioService) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, downloadURLExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return u.String(), nil
}

// DownloadFile downloads a file from MinIO
func (m *minioService) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}

// UploadFile stores data under key
func (m *minioService) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	if err := validateContentType(contentType); err != nil {
		return err
	}

	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// DeleteFile deletes a file from MinIO
func (m *minioService) DeleteFile(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
