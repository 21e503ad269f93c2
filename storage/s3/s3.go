// Package s3 stores objects in Amazon S3 or an S3-compatible service.
package s3

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderS3, func(ctx context.Context, cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		return New(ctx, cfg, log)
	})
}

// Storage is a storage.Storage on one S3 bucket.
type Storage struct {
	client *awss3.Client
	bucket string
	log    *logger.Logger
}

var _ storage.Storage = (*Storage)(nil)

// New builds an S3 client from cfg. Without static keys the default AWS
// credential chain is used.
func New(ctx context.Context, cfg storage.Config, log *logger.Logger) (*Storage, error) {
	cfg.ApplyDefaults()
	if cfg.Provider == "" || cfg.Provider == storage.ProviderLocal {
		cfg.Provider = storage.ProviderS3
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Get("storage")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.InvalidConfig("cannot load aws config").WithCause(err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})
	return &Storage{client: client, bucket: cfg.Bucket, log: log}, nil
}

// Upload puts reader at key path.
func (s *Storage) Upload(ctx context.Context, path string, reader io.Reader) error {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
		Body:   reader,
	})
	if err != nil {
		return s.translate(err, path)
	}
	return nil
}

// Open streams the object body.
func (s *Storage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, s.translate(err, path)
	}
	s.log.Debug("s3 object opened", logger.Fields(
		logger.FieldSource, s.bucket+"/"+path,
		"size", aws.ToInt64(out.ContentLength),
	))
	return out.Body, nil
}

// List pages through ListObjectsV2 under prefix.
func (s *Storage) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	pages := awss3.NewListObjectsV2Paginator(s.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, s.translate(err, prefix)
		}
		for _, obj := range page.Contents {
			out = append(out, storage.ObjectInfo{
				Path:         aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return out, nil
}

func (s *Storage) translate(err error, path string) error {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return storage.NotFound(path)
		case "NoSuchBucket", "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return errors.InvalidConfig("s3 bucket " + s.bucket + ": " + apiErr.ErrorCode()).WithCause(err)
		}
	}
	return errors.SourceFailed("s3 "+s.bucket+"/"+path, err)
}
