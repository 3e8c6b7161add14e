package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appconfig "github.com/tcnr01/storefront-backend/config"
	"github.com/tcnr01/storefront-backend/pkg/logger"
)

// objectPutter is the slice of the S3 API the storage needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Storage struct {
	client  objectPutter
	bucket  string
	region  string
	baseURL string
}

func NewS3Storage(ctx context.Context, cfg *appconfig.S3Config) (*S3Storage, error) {
	var awsCfg aws.Config

	// static keys win; otherwise the default chain (env, ~/.aws, IAM role)
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
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		awsCfg = loaded
	}

	return newS3Storage(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Region, cfg.BaseURL), nil
}

func newS3Storage(client objectPutter, bucket, region, baseURL string) *S3Storage {
	return &S3Storage{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ObjectKey builds a collision-free key under folder keeping the file
// extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return uuid.NewString() + ext
	}
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
}

// PublicURL returns the URL clients load key from: the configured base URL
// (CloudFront or custom domain) or the bucket's virtual-hosted S3 URL.
func (s *S3Storage) PublicURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// UploadFile puts a local file under folder and returns its public URL.
func (s *S3Storage) UploadFile(ctx context.Context, path, folder string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	key := ObjectKey(folder, filepath.Base(path))
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	}); err != nil {
		logger.Error("Failed to upload object", err, map[string]interface{}{
			"bucket": s.bucket,
			"key":    key,
		})
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}

	logger.Debug("Object uploaded", map[string]interface{}{
		"bucket":       s.bucket,
		"key":          key,
		"content_type": contentType,
	})
	return s.PublicURL(key), nil
}
