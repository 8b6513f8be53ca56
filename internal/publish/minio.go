package publish

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint        string
	bucket          string
	accessKey       string
	secretAccessKey string
	objectName      string
	useSSL          bool
}

func newConfig(opts ...MinioOpts) *minioConfig {
	cfg := &minioConfig{
		useSSL: false,
	}

	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// MinioUploader copies the rendered report to an S3 compatible bucket.
type MinioUploader struct {
	cfg    *minioConfig
	client *minio.Client
}

func NewMinioUploader(opts ...MinioOpts) (*MinioUploader, error) {
	cfg := newConfig(opts...)
	if cfg.bucket == "" {
		return nil, fmt.Errorf("no bucket configured for %s", cfg.endpoint)
	}

	minioClient, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinioUploader{cfg: cfg, client: minioClient}, nil
}

// Upload stores the file at path. The object is named after the file unless
// an object name was configured.
func (u *MinioUploader) Upload(ctx context.Context, path string) error {
	objectName := u.cfg.objectName
	if objectName == "" {
		objectName = filepath.Base(path)
	}

	info, err := u.client.FPutObject(ctx, u.cfg.bucket, objectName, path, minio.PutObjectOptions{
		ContentType: xlsxContentType,
	})
	if err != nil {
		return fmt.Errorf("uploading %s to %s/%s: %w", path, u.cfg.bucket, objectName, err)
	}

	zap.S().Named("publish").Infof("Report uploaded to %s/%s (%d bytes)", info.Bucket, info.Key, info.Size)
	return nil
}

func (u *MinioUploader) Type() string {
	return "minio"
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) {
		c.endpoint = endpoint
	}
}

func WithBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.bucket = bucket
	}
}

func WithObjectName(objectName string) MinioOpts {
	return func(c *minioConfig) {
		c.objectName = objectName
	}
}

func WithAccessKey(accessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
	}
}

func WithSecretKey(secretKey string) MinioOpts {
	return func(c *minioConfig) {
		c.secretAccessKey = secretKey
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) {
		c.useSSL = useSSL
	}
}
