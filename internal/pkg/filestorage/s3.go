package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// S3Config holds configuration for an S3 compatible bucket (AWS, Spaces, MinIO)
type S3Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	CDNURL    string
}

// S3Storage stores uploads in an S3 compatible bucket
type S3Storage struct {
	client  s3iface.S3API
	bucket  string
	baseURL string
}

var _ FileStorage = (*S3Storage)(nil)

// NewS3Storage creates a session for the configured bucket
func NewS3Storage(config S3Config) (*S3Storage, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage session: %w", err)
	}

	return newS3Storage(s3.New(sess), config), nil
}

func newS3Storage(client s3iface.S3API, config S3Config) *S3Storage {
	baseURL := config.CDNURL
	if baseURL == "" {
		if config.Endpoint != "" {
			baseURL = fmt.Sprintf("https://%s.%s", config.Bucket, config.Endpoint)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.Bucket, config.Region)
		}
	}

	return &S3Storage{
		client:  client,
		bucket:  config.Bucket,
		baseURL: baseURL,
	}
}

// SaveFileWithPath uploads the file under subPath and returns its public URL
func (s *S3Storage) SaveFileWithPath(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := objectKey(subPath, fileHeader.Filename)
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(fileHeader.Size),
		ContentType:   aws.String(contentType),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		logger.Error().Err(err).Str("bucket", s.bucket).Str("key", key).Msg("Failed to upload file")
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

// DeleteFile deletes the object behind fileURL
func (s *S3Storage) DeleteFile(ctx context.Context, fileURL string) error {
	if fileURL == "" {
		return nil
	}

	key, ok := keyFromURL(fileURL, s.baseURL)
	if !ok {
		return fmt.Errorf("file %s is not stored in bucket %s", fileURL, s.bucket)
	}

	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
