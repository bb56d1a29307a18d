// Package assets stores uploaded media blobs in an S3-compatible bucket.
// Metadata rows live in the relational store; this package only handles
// the bytes.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/airwavehq/airwave/internal/idgen"
	"github.com/airwavehq/airwave/internal/model"
)

// Storage persists and serves asset blobs by storage key.
type Storage interface {
	Put(ctx context.Context, clientID, contentType string, data []byte) (key string, err error)
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for a stored object, or empty when the
	// deployment has no public base.
	URL(key string) string
}

// allowedContentTypes is the upload whitelist. Anything else is rejected
// before touching the bucket.
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
	"audio/mpeg":      true,
	"audio/wav":       true,
	"text/plain":      true,
	"text/markdown":   true,
}

// ValidateUpload checks content type and size before a blob is accepted.
func ValidateUpload(contentType string, size, maxBytes int64) error {
	ct := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if !allowedContentTypes[ct] {
		return fmt.Errorf("content type %q is not allowed", ct)
	}
	if model.KindForContentType(ct) == "" {
		return fmt.Errorf("content type %q has no asset kind", ct)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("upload of %d bytes exceeds limit of %d", size, maxBytes)
	}
	return nil
}

// S3Storage implements Storage against an S3-compatible bucket.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	urlBase string
}

// NewS3Storage creates the storage client. If endpoint is non-empty,
// path-style addressing is enabled (for MinIO and similar).
func NewS3Storage(ctx context.Context, bucket, region, endpoint, urlBase string) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(cfg, s3opts...)
	return &S3Storage{
		client:  client,
		bucket:  bucket,
		urlBase: strings.TrimSuffix(urlBase, "/"),
	}, nil
}

// Put uploads a blob under a fresh key scoped to the client and returns
// the key.
func (s *S3Storage) Put(ctx context.Context, clientID, contentType string, data []byte) (string, error) {
	token, err := idgen.ObjectKey()
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("clients/%s/%s", clientID, token)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return key, nil
}

// Get downloads a blob and reports its content type.
func (s *S3Storage) Get(ctx context.Context, key string) ([]byte, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("s3 read object: %w", err)
	}
	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return data, contentType, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object: %w", err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	if s.urlBase == "" {
		return ""
	}
	return s.urlBase + "/" + key
}
