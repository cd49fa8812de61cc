package cache

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds connection settings for an S3-compatible object store.
// Endpoint and PathStyle support non-AWS providers (MinIO, R2, Spaces).
type S3Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	PathStyle bool
}

// S3Storage adapts S3-compatible object storage to the Backend interface,
// one object per cache entry. All failures are swallowed: an unreachable
// store degrades the storage-backed cache to memory-only operation, per the
// Backend contract.
type S3Storage struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Storage creates an object-storage persistence backend. An optional
// prefix namespaces all objects ("prefix/key").
func NewS3Storage(cfg S3Config, prefix string) *S3Storage {
	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3Storage{
		client: s3.New(s3.Options{}, opts...),
		bucket: cfg.Bucket,
		prefix: prefix,
	}
}

func (s *S3Storage) Read(ctx context.Context, key string) (string, bool) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		// Missing objects and connectivity failures both read as absence.
		return "", false
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (s *S3Storage) Write(ctx context.Context, key, value string) {
	_, _ = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        strings.NewReader(value),
		ContentType: aws.String("application/json"),
	})
}

func (s *S3Storage) Remove(ctx context.Context, key string) {
	_, _ = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
}

// objectKey escapes the cache key so separator bytes stay valid in object
// names.
func (s *S3Storage) objectKey(key string) string {
	escaped := url.PathEscape(key)
	if s.prefix == "" {
		return escaped
	}
	return strings.TrimSuffix(s.prefix, "/") + "/" + escaped
}

var _ Backend = (*S3Storage)(nil)
