package services

import (
	"context"
	"fmt"
	"time"

	sc "github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageURLValidity is how long a presigned image URL stays usable.
const ImageURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ImageStore hands out presigned URLs for product images kept in an
// S3-compatible bucket (MinIO in development).
type ImageStore interface {
	PresignUpload(ctx context.Context, key string) (string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

type S3ImageStore struct {
	config *sc.Config
}

func NewS3ImageStore(cfg *sc.Config) *S3ImageStore {
	return &S3ImageStore{config: cfg}
}

// ImageKey returns a fresh storage key for an image of productID.
func ImageKey(productID string) string {
	return fmt.Sprintf("products/%s/%v", productID, uuid.New())
}

func (s *S3ImageStore) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a URL the client can PUT the image bytes to.
func (s *S3ImageStore) PresignUpload(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ImageURLValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// PresignDownload returns a URL the image stored under key can be fetched from.
func (s *S3ImageStore) PresignDownload(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ImageURLValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
