// Package storage persists service packages as JSON objects in S3-compatible
// object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/erp/servicepack/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	templatesObject = "templates.json"
	bundlesObject   = "bundles.json"
	jsonContentType = "application/json"
)

// S3Store keeps the template and bundle lists as two JSON objects. It is not
// atomic across the two objects; the builder restores templates when the
// bundle write fails.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// S3StoreOption is a functional option for configuring S3Store
type S3StoreOption func(*S3Store)

// WithLogger sets a custom logger for S3Store
func WithLogger(logger *zap.Logger) S3StoreOption {
	return func(s *S3Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewS3Store creates a store from configuration. Any S3-compatible backend
// works (AWS S3, MinIO, RustFS).
func NewS3Store(ctx context.Context, cfg *config.StorageConfig, opts ...S3StoreOption) (*S3Store, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
		// many S3-compatible servers reject the default trailing checksums
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	store := &S3Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// LoadTemplates returns the stored templates; a missing object is an empty list
func (s *S3Store) LoadTemplates(ctx context.Context) ([]servicepack.Template, error) {
	var templates []servicepack.Template
	if err := s.getJSON(ctx, templatesObject, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// LoadBundles returns the stored bundles; a missing object is an empty list
func (s *S3Store) LoadBundles(ctx context.Context) ([]servicepack.ServiceBundle, error) {
	var bundles []servicepack.ServiceBundle
	if err := s.getJSON(ctx, bundlesObject, &bundles); err != nil {
		return nil, err
	}
	return bundles, nil
}

// SaveTemplates replaces the templates object
func (s *S3Store) SaveTemplates(ctx context.Context, templates []servicepack.Template) error {
	if templates == nil {
		templates = []servicepack.Template{}
	}
	return s.putJSON(ctx, templatesObject, templates)
}

// SaveBundles replaces the bundles object
func (s *S3Store) SaveBundles(ctx context.Context, bundles []servicepack.ServiceBundle) error {
	if bundles == nil {
		bundles = []servicepack.ServiceBundle{}
	}
	return s.putJSON(ctx, bundlesObject, bundles)
}

// Bucket returns the bucket name
func (s *S3Store) Bucket() string {
	return s.bucket
}

func (s *S3Store) key(name string) string {
	return s.prefix + name
}

func (s *S3Store) getJSON(ctx context.Context, name string, out any) error {
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil
		}
		return fmt.Errorf("failed to get object %s: %w", s.key(name), err)
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return fmt.Errorf("failed to read object %s: %w", s.key(name), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode object %s: %w", s.key(name), err)
	}
	return nil
}

func (s *S3Store) putJSON(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode object %s: %w", s.key(name), err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(jsonContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", s.key(name), err)
	}
	s.logger.Debug("object written", zap.String("key", s.key(name)), zap.Int("bytes", len(data)))
	return nil
}

var _ servicepack.Store = (*S3Store)(nil)
