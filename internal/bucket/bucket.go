package bucket

import (
	"context"
	"fmt"
	"io"

	"github.com/localconnect/catalog-manager/internal/dependency"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	defaultImageFolder  = "products"
	defaultMaxImageSize = 5_000_000
)

type Config struct {
	S3AccessKey       string `mapstructure:"s3AccessKey"`
	S3SecretAccessKey string `mapstructure:"s3SecretAccessKey"`
	S3Endpoint        string `mapstructure:"s3Endpoint"`
	S3BucketName      string `mapstructure:"s3BucketName"`
	S3BucketLocation  string `mapstructure:"s3BucketLocation"`
	BaseFolder        string `mapstructure:"baseFolder"`
	ImageFolder       string `mapstructure:"imageFolder"`
	SubdomainEndpoint string `mapstructure:"subdomainEndpoint"`
	DefaultImage      string `mapstructure:"defaultImage"`
	MaxImageSize      int    `mapstructure:"maxImageSize"`
	Insecure          bool   `mapstructure:"insecure"`
}

// objectClient is the part of the minio client the bucket uses.
type objectClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type Bucket struct {
	client objectClient
	*Config
}

var _ dependency.FileStore = (*Bucket)(nil)

// New creates an S3 compatible image store.
func (c *Config) New() (*Bucket, error) {
	cli, err := minio.New(c.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.S3AccessKey, c.S3SecretAccessKey, ""),
		Secure: !c.Insecure,
		Region: c.S3BucketLocation,
	})
	if err != nil {
		return nil, fmt.Errorf("can't create minio client: %w", err)
	}
	return newBucket(cli, c), nil
}

func newBucket(cli objectClient, c *Config) *Bucket {
	if c.ImageFolder == "" {
		c.ImageFolder = defaultImageFolder
	}
	if c.MaxImageSize <= 0 {
		c.MaxImageSize = defaultMaxImageSize
	}
	return &Bucket{
		client: cli,
		Config: c,
	}
}

// DefaultImage is the placeholder reference shared by products without an image.
func (b *Bucket) DefaultImage() string {
	return b.Config.DefaultImage
}
