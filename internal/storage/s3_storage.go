package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ikkim/bookshelf-backend/config"
	"github.com/ikkim/bookshelf-backend/pkg/logger"
)

const (
	coverFolder   = "covers"
	presignExpiry = 15 * time.Minute
)

var ErrUnsupportedContentType = errors.New("content type is not an allowed image type")

// AllowedCoverTypes lists the content types accepted for book covers.
var AllowedCoverTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PresignedURLResponse struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewS3Storage(ctx context.Context, cfg config.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	// Static credentials win; otherwise fall back to the default chain
	// (environment, shared config, instance role).
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Failed to load default AWS config, using region only", map[string]interface{}{
				"error": err.Error(),
			})
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// PresignCoverUpload returns a PUT URL for a new cover object under covers/.
func (s *S3Storage) PresignCoverUpload(ctx context.Context, filename, contentType string) (*PresignedURLResponse, error) {
	if err := ValidateContentType(contentType, AllowedCoverTypes); err != nil {
		return nil, err
	}
	return s.presignPut(ctx, coverFolder, filename, contentType)
}

func (s *S3Storage) presignPut(ctx context.Context, folder, filename, contentType string) (*PresignedURLResponse, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: presignedReq.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		// CloudFront or custom domain
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}

// ValidateContentType validates the content type
func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
}
