package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/thuanhighclean/cleaning-service/internal/config"
	"github.com/thuanhighclean/cleaning-service/pkg/util"
)

// S3Store stores blobs in an S3 bucket and addresses them by public URL.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Store builds a store from the standard AWS environment credentials.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// Upload stores the blob under a fresh uuid key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, file File) (string, error) {
	key := uuid.NewString()
	contentType := file.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", util.NewStoreUnavailable(err)
	}
	return PublicURL(s.bucket, s.region, key), nil
}

// UploadMany uploads sequentially, preserving input order in the results.
func (s *S3Store) UploadMany(ctx context.Context, files []File) []UploadResult {
	results := make([]UploadResult, len(files))
	for i, file := range files {
		url, err := s.Upload(ctx, file)
		results[i] = UploadResult{URL: url, Err: err}
	}
	return results
}

// Delete parses the object key out of the public URL and removes the blob.
func (s *S3Store) Delete(ctx context.Context, publicURL string) error {
	key, err := KeyFromURL(publicURL)
	if err != nil {
		return util.NewDeleteFailed(publicURL, err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return util.NewDeleteFailed(publicURL, err)
	}
	return nil
}

// PublicURL builds the deterministic public address of an object key.
func PublicURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

// KeyFromURL extracts the object key from a public URL.
func KeyFromURL(publicURL string) (string, error) {
	parsed, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("parse object url: %w", err)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", fmt.Errorf("object url %q has no key", publicURL)
	}
	decoded, err := url.PathUnescape(key)
	if err != nil {
		return "", fmt.Errorf("decode object key: %w", err)
	}
	return decoded, nil
}
