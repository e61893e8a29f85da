package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"bid-wiser.backend/internal/config"
	"bid-wiser.backend/internal/domain/entities"
	"bid-wiser.backend/pkg/utils"
)

// extensions for the allow-listed profile image media types
var extByContentType = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore stores profile images in an S3-compatible bucket and returns
// stable key + URL references.
type S3ImageStore struct {
	client        s3API
	bucket        string
	region        string
	publicBaseURL string
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewS3ImageStore creates an image store from storage configuration.
func NewS3ImageStore(ctx context.Context, cfg config.StorageConfig) (*S3ImageStore, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO and friends serve buckets by path, not virtual host.
			o.UsePathStyle = true
		}
	})

	return &S3ImageStore{
		client:        client,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// newS3ImageStoreWithClient is used by tests to inject a fake client.
func newS3ImageStoreWithClient(client s3API, bucket, region, publicBaseURL string) *S3ImageStore {
	return &S3ImageStore{
		client:        client,
		bucket:        bucket,
		region:        region,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Upload writes the image under a date-partitioned random key.
func (s *S3ImageStore) Upload(ctx context.Context, upload *entities.ImageUpload) (*entities.ProfileImage, error) {
	key := storageKey(upload.ContentType)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        upload.Body,
		ContentType: aws.String(upload.ContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload profile image: %w", err)
	}

	return &entities.ProfileImage{
		ID:  key,
		URL: s.publicURL(key),
	}, nil
}

func (s *S3ImageStore) publicURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func storageKey(contentType string) string {
	d := time.Now()
	return fmt.Sprintf("profiles/%d/%02d/%v%s", d.Year(), int(d.Month()), utils.GenerateUUIDv7(), extByContentType[contentType])
}
