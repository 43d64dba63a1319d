package filestore_adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config - бакет и префикс ключей для изображений.
type S3Config struct {
	Bucket string
	Region string
	Prefix string
}

// S3Storage хранит изображения в S3. Ключ объекта = Prefix + очищенное имя файла.
type S3Storage struct {
	client s3PutObjectAPI
	bucket string
	prefix string
}

func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newS3Storage(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

func newS3Storage(client s3PutObjectAPI, bucket, prefix string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Storage) Save(ctx context.Context, filename string, contentType string, body io.Reader) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "S3Storage",
		"bucket":    s.bucket,
		"filename":  filename,
	})

	if err := checkFilename(filename); err != nil {
		return err
	}

	// SDK нужно тело с Seek для подписи, а поток формы его может не поддерживать
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%w: failed to read upload: %v", domain.ErrImageStorage, err)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := path.Join(s.prefix, filename)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("Failed to upload image to S3", err, nil)
		return fmt.Errorf("%w: %v", domain.ErrImageStorage, err)
	}

	logger.Debug("Image uploaded.", port.Fields{"key": key, "bytes": len(data)})
	return nil
}
