package docstore

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configures the blob backend
type S3Options struct {
	// Bucket and Key locate the document
	Bucket string
	Key    string
	// Region overrides the ambient AWS region when set
	Region string
	// Endpoint points at an S3-compatible store (MinIO, R2) when set
	Endpoint string
}

// S3 persists the document as a single object in an S3-compatible bucket
type S3 struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3 builds the blob backend from ambient AWS credentials.
// Returns an error when credentials or configuration cannot be resolved, so
// callers can skip this backend in the ranking rather than fail open
func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	if opts.Bucket == "" || opts.Key == "" {
		return nil, errors.New("docstore: s3 backend requires bucket and key")
	}
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3{client: client, bucket: opts.Bucket, key: opts.Key}, nil
}

// Name implements Backend
func (b *S3) Name() string { return "s3" }

// Load implements Backend
func (b *S3) Load(ctx context.Context) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	defer func() { _ = out.Body.Close() }()
	return io.ReadAll(out.Body)
}

// Save implements Backend
func (b *S3) Save(ctx context.Context, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}
