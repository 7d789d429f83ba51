package reportstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config points the archive at an S3-compatible bucket.
type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	PublicBaseURL string
}

// MinioArchive stores rendered advisory reports in an S3-compatible bucket.
type MinioArchive struct {
	client     *minio.Client
	bucket     string
	publicBase string
	logger     *slog.Logger

	mu          sync.Mutex
	bucketReady bool
}

// NewMinioArchive constructs the archive adapter.
func NewMinioArchive(cfg Config, logger *slog.Logger) (*MinioArchive, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("report bucket is required")
	}
	useSSL := strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "https")
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       useSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init report archive client: %w", err)
	}
	return &MinioArchive{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
		logger:     logger.With("component", "reportstore.minio"),
	}, nil
}

// ensureBucket checks the bucket on first use only. Failures are retried on the next Save.
func (a *MinioArchive) ensureBucket(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.bucketReady {
		return nil
	}

	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil || !exists {
		err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
		if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
			return err
		}
	}
	a.bucketReady = true
	return nil
}

// Save uploads an HTML report and returns the URL it can be fetched from.
func (a *MinioArchive) Save(ctx context.Context, key string, html []byte) (string, error) {
	if err := a.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure report bucket: %w", err)
	}
	info, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(html), int64(len(html)), minio.PutObjectOptions{
		ContentType:      "text/html; charset=utf-8",
		DisableMultipart: true,
	})
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}
	a.logger.Debug("report archived", "key", key, "size", info.Size, "etag", info.ETag)

	base := a.publicBase
	if base == "" {
		base = strings.TrimRight(a.client.EndpointURL().String(), "/") + "/" + a.bucket
	}
	return objectURL(base, key), nil
}

func objectURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// sanitizeEndpoint strips scheme and path so minio.New accepts the host.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}
