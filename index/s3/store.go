package s3

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/poiesic/recall/index"
)

// Client is the subset of the S3 API the store uses, extracted so tests
// can stub the AWS API. *s3.Client satisfies it.
type Client interface {
	manager.UploadAPIClient
	manager.DownloadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Store keeps the serving bundle in a single S3 object.
type Store struct {
	client Client
	bucket string
	key    string
}

var _ index.Store = (*Store)(nil)

// NewStore creates a store over an existing S3 client.
func NewStore(client Client, bucket, key string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		key:    key,
	}
}

// NewStoreFromRegion creates a store with a fresh S3 client. Credentials
// resolve through the default chain; only the region is explicit.
func NewStoreFromRegion(ctx context.Context, bucket, key, region string) (*Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewStore(s3.NewFromConfig(awsCfg), bucket, key), nil
}

// Save encodes the bundle and uploads it. Object writes are atomic on S3,
// so no temp-and-rename dance is needed.
func (s *Store) Save(ctx context.Context, bundle *index.Bundle) error {
	var buf bytes.Buffer
	if err := index.WriteBundle(&buf, bundle); err != nil {
		return err
	}

	uploader := manager.NewUploader(s.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload bundle to s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

// Load downloads and verifies the bundle object.
func (s *Store) Load(ctx context.Context) (*index.Bundle, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, index.ErrBundleNotFound
		}
		return nil, fmt.Errorf("failed to fetch bundle from s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	return index.ReadBundle(bufio.NewReaderSize(out.Body, 256*1024))
}

// Exists reports whether the bundle object is present.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &noSuchKey)
}
