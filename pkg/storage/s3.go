package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

var (
	ErrInvalidConfig = errors.New("storage: invalid configuration")
	ErrUploadFailed  = errors.New("storage: upload failed")
	ErrDeleteFailed  = errors.New("storage: delete failed")
)

// Config holds object storage settings loaded from the environment.
type Config struct {
	Bucket         string `env:"S3_BUCKET,required"`             // Bucket is the object bucket name.
	Region         string `env:"S3_REGION" envDefault:"auto"`    // Region is the bucket region.
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID,required"`      // AccessKeyID is the access key.
	SecretKey      string `env:"S3_SECRET_ACCESS_KEY,required"`  // SecretKey is the secret key.
	Endpoint       string `env:"S3_ENDPOINT"`                    // Endpoint overrides the AWS endpoint for S3-compatible services.
	BaseURL        string `env:"S3_BASE_URL"`                    // BaseURL is the public URL base for serving objects.
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"` // ForcePathStyle is needed for MinIO-style services.
}

// Storage stores media objects. Keys carry the owning tenant's id prefix so
// isolation extends to object storage; callers build keys via ObjectKey.
type Storage interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Delete removes a single object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Client is the S3 API surface used by S3Storage, extracted for tests.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage implements Storage on Amazon S3 and S3-compatible services.
// Safe for concurrent use.
type S3Storage struct {
	client  Client
	bucket  string
	baseURL string
}

// Option configures S3Storage construction.
type Option func(*S3Storage)

// WithClient injects a pre-configured client, mainly for tests.
func WithClient(client Client) Option {
	return func(s *S3Storage) { s.client = client }
}

// New creates an S3-backed Storage from the config.
func New(ctx context.Context, cfg Config, opts ...Option) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	st := &S3Storage{
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}
	for _, opt := range opts {
		opt(st)
	}

	if st.client == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			),
		)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		st.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return st, nil
}

// ObjectKey builds a tenant-prefixed object key. Every stored object lives
// under its owning tenant's namespace.
func ObjectKey(tenantID, name string) string {
	return "tenants/" + tenantID + "/" + strings.TrimPrefix(name, "/")
}

func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Join(ErrUploadFailed, err)
	}

	if s.baseURL != "" {
		return s.baseURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil
		}
		return errors.Join(ErrDeleteFailed, err)
	}
	return nil
}
