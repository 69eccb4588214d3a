// Package storage keeps product images in S3-compatible object storage.
// The admin client uploads straight to the bucket through presigned PUT URLs;
// the API only signs, and deletes images a product no longer uses.
package storage

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
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultRegion       = "us-east-1"
	defaultUploadExpiry = 15 * time.Minute
)

var errEmptyKey = errors.New("storage: empty object key")

// ImageBucket is the product image bucket on AWS S3 or MinIO
type ImageBucket struct {
	s3      *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// NewImageBucket builds the S3 client for cfg. It does not contact the
// server; call EnsureBucket for that.
func NewImageBucket(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*ImageBucket, error) {
	switch {
	case cfg.Bucket == "":
		return nil, errors.New("storage: bucket is required")
	case cfg.AccessKeyID == "" || cfg.SecretAccessKey == "":
		return nil, errors.New("storage: credentials are required")
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if ep := endpointURL(cfg.Endpoint); ep != "" {
			o.BaseEndpoint = aws.String(ep)
		}
	})

	expiry := cfg.UploadURLExpiry
	if expiry <= 0 {
		expiry = defaultUploadExpiry
	}
	return &ImageBucket{
		s3:      client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		expiry:  expiry,
		log:     log.Named("storage"),
		now:     time.Now,
	}, nil
}

// endpointURL defaults a bare host to https
func endpointURL(endpoint string) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "https://" + endpoint
}

func (b *ImageBucket) Bucket() string { return b.bucket }

// EnsureBucket creates the bucket unless it is already there
func (b *ImageBucket) EnsureBucket(ctx context.Context) error {
	_, err := b.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(b.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noBucket) {
		return fmt.Errorf("storage: head bucket %s: %w", b.bucket, err)
	}

	b.log.Info("Creating product image bucket", zap.String("bucket", b.bucket))
	_, err = b.s3.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(b.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("storage: create bucket %s: %w", b.bucket, err)
	}
	return nil
}

// GenerateUploadURL signs a PUT of key with the given content type. A
// non-positive ttl uses the configured expiry.
func (b *ImageBucket) GenerateUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	if ttl <= 0 {
		ttl = b.expiry
	}

	req, err := b.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("storage: presign %s: %w", key, err)
	}
	b.log.Debug("Presigned image upload", zap.String("key", key), zap.Duration("ttl", ttl))
	return req.URL, b.now().Add(ttl), nil
}

// DeleteObject removes key. Deleting a missing key succeeds.
func (b *ImageBucket) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	_, err := b.s3.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(b.bucket), Key: aws.String(key)})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

var _ catalogapp.ObjectStorageService = (*ImageBucket)(nil)
