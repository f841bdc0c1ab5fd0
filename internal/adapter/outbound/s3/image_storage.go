package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/carzone/server/internal/port/outbound"
)

const defaultPresignExpiry = 15 * time.Minute

// Config holds S3-compatible object storage settings.
type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// PublicURL is the base URL objects are served from, e.g. a CDN.
	PublicURL     string
	PresignExpiry time.Duration
}

// ImageStorageAdapter implements outbound.ImageStoragePort.
type ImageStorageAdapter struct {
	client        *s3.Client
	presigner     *s3.PresignClient
	bucket        string
	publicURL     string
	presignExpiry time.Duration
}

// NewClient builds an S3 client for cfg. A custom endpoint switches to
// path-style addressing, as R2 and MinIO require.
func NewClient(ctx context.Context, cfg *Config) (*s3.Client, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, errors.New("incomplete object storage configuration")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewImageStorageAdapter creates a new image storage adapter.
func NewImageStorageAdapter(client *s3.Client, cfg *Config) *ImageStorageAdapter {
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}
	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket)
	}
	return &ImageStorageAdapter{
		client:        client,
		presigner:     s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicURL:     strings.TrimRight(publicURL, "/"),
		presignExpiry: expiry,
	}
}

// PresignUpload returns a presigned PUT URL for key.
func (a *ImageStorageAdapter) PresignUpload(ctx context.Context, key, contentType string) (*outbound.PresignedUpload, error) {
	req, err := a.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = a.presignExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &outbound.PresignedUpload{
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: time.Now().Add(a.presignExpiry),
	}, nil
}

// PublicURL returns the URL an object is served from.
func (a *ImageStorageAdapter) PublicURL(key string) string {
	return a.publicURL + "/" + strings.TrimLeft(key, "/")
}

// KeyFromURL reverses PublicURL. It reports false for foreign URLs.
func (a *ImageStorageAdapter) KeyFromURL(url string) (string, bool) {
	prefix := a.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}

// Delete removes an object. Deleting a missing key succeeds.
func (a *ImageStorageAdapter) Delete(ctx context.Context, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

var _ outbound.ImageStoragePort = (*ImageStorageAdapter)(nil)
