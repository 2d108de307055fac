package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appConfig "github.com/legal-sheba/legal-sheba-api/config"
)

// Objects are stored under this prefix in the bucket
const s3KeyPrefix = "attachments/"

// PresignExpiry is how long a download URL stays valid
const PresignExpiry = time.Hour

// S3API is the subset of the S3 client used by S3FileStore
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Presigner signs download URLs
type S3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3FileStore keeps attachments in a private S3 bucket and hands out
// presigned URLs for downloads
type S3FileStore struct {
	client    S3API
	presigner S3Presigner
	bucket    string
}

// NewS3FileStore builds a store from the application's AWS settings.
// Static credentials are used when both keys are configured, otherwise the
// default AWS credential chain applies.
func NewS3FileStore(ctx context.Context, cfg *appConfig.Config) (*S3FileStore, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)
	return NewS3FileStoreWithClient(client, s3.NewPresignClient(client), cfg.AWSS3Bucket), nil
}

// NewS3FileStoreWithClient builds a store around an existing client
func NewS3FileStoreWithClient(client S3API, presigner S3Presigner, bucket string) *S3FileStore {
	return &S3FileStore{client: client, presigner: presigner, bucket: bucket}
}

func s3Key(name string) string {
	return s3KeyPrefix + name
}

// Save uploads body to the bucket
func (s *S3FileStore) Save(ctx context.Context, name string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key(name)),
		Body:   body,
		// bucket policy decides access, no ACL is set
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// Locate checks that the object exists and presigns a GET for it
func (s *S3FileStore) Locate(ctx context.Context, name string) (StoredFile, error) {
	key := s3Key(name)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return StoredFile{}, ErrFileNotFound
		}
		return StoredFile{}, fmt.Errorf("failed to look up S3 object: %w", err)
	}

	request, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = PresignExpiry
	})
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return StoredFile{Name: name, URL: request.URL}, nil
}

// Delete removes the object from the bucket
func (s *S3FileStore) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key(name)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}
