package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	platformaws "github.com/imamik/qhub/internal/platform/aws"
)

var (
	// ErrNotFound is returned when the bucket or object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrExists is returned when a create-only write finds an existing object.
	ErrExists = errors.New("object already exists")
)

// Client reads and writes configuration documents in S3 or an
// S3-compatible object store.
type Client struct {
	s3 *s3.Client
}

// NewClient creates a client for opts. A custom endpoint switches to
// path-style addressing, which most S3-compatible stores expect.
func NewClient(ctx context.Context, opts platformaws.Options) (*Client, error) {
	cfg, err := platformaws.LoadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Client{s3: client}, nil
}

// GetObject downloads an object.
func (c *Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("s3://%s/%s: %w", bucket, key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucket, err)
	}
	defer func() { _ = result.Body.Close() }()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}

// PutObject uploads an object. Without overwrite the write is conditional
// on the key not existing yet.
func (c *Client) PutObject(ctx context.Context, bucket, key string, data []byte, overwrite bool) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/yaml"),
	}
	if !overwrite {
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		if isPreconditionFailed(err) {
			return fmt.Errorf("s3://%s/%s: %w", bucket, key, ErrExists)
		}
		return fmt.Errorf("failed to put object %s in bucket %s: %w", key, bucket, err)
	}
	return nil
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	// S3-compatible services do not always return the SDK's typed errors.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket", "404":
			return true
		}
	}
	return false
}

func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}
