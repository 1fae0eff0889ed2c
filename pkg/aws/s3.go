package aws

import (
	"bytes"
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader is a minimal interface for storing binary objects and returning
// their public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// S3Client wraps S3 uploads for a single bucket.
type S3Client struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Client creates a new S3Client bound to the given bucket.
func NewS3Client(cfg sdkaws.Config, bucket string) *S3Client {
	return &S3Client{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: cfg.Region,
	}
}

// Upload puts an object and returns its public URL.
func (c *S3Client) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key), nil
}
