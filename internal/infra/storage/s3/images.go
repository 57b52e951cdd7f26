// Package s3 stores property photos in an S3-compatible bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"staycal/internal/app/policies"
)

var (
	ErrEndpointRequired = errors.New("s3: endpoint is required")
	ErrBucketRequired   = errors.New("s3: bucket is required")
	ErrKeyRequired      = errors.New("s3: object key is required")
	ErrBodyRequired     = errors.New("s3: body is required")
)

type Options struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
}

// ImageStore uploads through MinIO's client and returns path-style public
// URLs. The bucket is created with an anonymous read policy on first use.
type ImageStore struct {
	bucket     string
	publicBase string
	client     *minio.Client
	logger     *slog.Logger

	bucketOnce sync.Once
	bucketErr  error
}

func NewImageStore(opts Options, logger *slog.Logger) (*ImageStore, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, ErrBucketRequired
	}
	client, err := minio.New(hostOf(endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(opts.AccessKey), strings.TrimSpace(opts.SecretKey), ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	base := strings.TrimSpace(opts.PublicEndpoint)
	if base == "" {
		base = endpoint
	}
	return &ImageStore{
		bucket:     bucket,
		publicBase: strings.TrimRight(base, "/"),
		client:     client,
		logger:     logger,
	}, nil
}

func (s *ImageStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if body == nil {
		return "", ErrBodyRequired
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrKeyRequired
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if size <= 0 {
		size = -1
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}
	publicURL := s.ObjectURL(key)
	if s.logger != nil {
		s.logger.Info("image uploaded", "bucket", s.bucket, "key", key, "bytes", info.Size)
	}
	return publicURL, nil
}

// ObjectURL is the public address of key.
func (s *ImageStore) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, strings.TrimLeft(key, "/"))
}

func (s *ImageStore) ensureBucket(ctx context.Context) error {
	s.bucketOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.bucketErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			s.bucketErr = fmt.Errorf("s3: create bucket: %w", err)
			return
		}
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, s.bucket)
		if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
			s.bucketErr = fmt.Errorf("s3: set bucket policy: %w", err)
		}
	})
	return s.bucketErr
}

// hostOf strips the scheme minio.New does not accept.
func hostOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ policies.ImageStore = (*ImageStore)(nil)
