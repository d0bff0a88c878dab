package mirror

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"savesync/internal/saves"
)

// S3Mirror uploads published saves to an S3 bucket under a key prefix.
// Sync is a one-shot batch run with no cancellation mechanism, so uploads
// use the background context.
type S3Mirror struct {
	bucket   string
	prefix   string
	uploader *manager.Uploader
}

// NewS3Mirror creates a mirror targeting s3://bucket/prefix. When
// accessKey is non-empty, static credentials are used; otherwise the
// default AWS credential chain applies.
func NewS3Mirror(bucket, prefix, region, accessKey, secretKey string) (*S3Mirror, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 mirror requires s3_bucket to be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Mirror{
		bucket:   bucket,
		prefix:   prefix,
		uploader: manager.NewUploader(client),
	}, nil
}

// Upload stores the save under <prefix>/<name> in the bucket.
func (m *S3Mirror) Upload(name string, r io.Reader, size int64) error {
	_, err := m.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(path.Join(m.prefix, name)),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("uploading %s to s3://%s: %w", name, m.bucket, err)
	}
	return nil
}

// Name identifies the mirror in logs.
func (m *S3Mirror) Name() string {
	return "s3://" + path.Join(m.bucket, m.prefix)
}

// Compile-time check that S3Mirror implements saves.Mirror.
var _ saves.Mirror = (*S3Mirror)(nil)
