package remote

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/passync/internal/common"
	"github.com/dmitrijs2005/passync/internal/config"
	"github.com/dmitrijs2005/passync/internal/models"
)

// S3API is the subset of *s3.Client used by S3Drive. Tests provide a fake.
type S3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) S3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Drive is a Drive backed by the AWS SDK. It works against AWS S3 and any
// S3-compatible endpoint.
type S3Drive struct {
	api     S3API
	bucket  string
	pattern string
}

// NewS3Drive configures an S3 client from cfg. Static credentials are used
// when a username is configured, the default AWS chain otherwise.
func NewS3Drive(ctx context.Context, cfg *config.Config) (*S3Drive, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Drive.Region),
	}
	if cfg.Username != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Username, cfg.Password, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Drive.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Drive.Endpoint)
		}
		o.UsePathStyle = cfg.Drive.PathStyle
	})

	return NewS3DriveWithAPI(client, cfg.Drive.Bucket, cfg.Pattern), nil
}

// NewS3DriveWithAPI wraps an existing client.
func NewS3DriveWithAPI(api S3API, bucket, pattern string) *S3Drive {
	return &S3Drive{api: api, bucket: bucket, pattern: pattern}
}

func (d *S3Drive) Authenticate(ctx context.Context) error {
	_, err := d.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(d.bucket)})
	if err != nil {
		return authError(d.bucket, translateS3Error(err))
	}
	return nil
}

func (d *S3Drive) List(ctx context.Context, dir string) (models.Listing, error) {
	l := models.Listing{Location: models.LocationRemote, Dir: dir}
	prefix := dirPrefix(dir)

	p := s3.NewListObjectsV2Paginator(d.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(d.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return l, fmt.Errorf("list %s/%s: %w", d.bucket, prefix, translateS3Error(err))
		}

		for _, obj := range page.Contents {
			name, ok := childName(prefix, aws.ToString(obj.Key))
			if !ok || !matches(d.pattern, name) {
				continue
			}
			l.Files = append(l.Files, models.PasswordFile{
				Name:    name,
				ModTime: aws.ToTime(obj.LastModified),
				Size:    aws.ToInt64(obj.Size),
			})
		}
	}

	return l, nil
}

func (d *S3Drive) Stat(ctx context.Context, dir, name string) (ObjectInfo, error) {
	out, err := d.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(objectKey(dir, name)),
	})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat %s: %w", objectKey(dir, name), translateS3Error(err))
	}

	info := ObjectInfo{
		Name:    name,
		ModTime: aws.ToTime(out.LastModified),
		Size:    aws.ToInt64(out.ContentLength),
	}
	applyMetadata(&info, out.Metadata)
	return info, nil
}

func (d *S3Drive) Open(ctx context.Context, dir, name string) (io.ReadCloser, ObjectInfo, error) {
	out, err := d.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(objectKey(dir, name)),
	})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("get %s: %w", objectKey(dir, name), translateS3Error(err))
	}

	info := ObjectInfo{
		Name:    name,
		ModTime: aws.ToTime(out.LastModified),
		Size:    aws.ToInt64(out.ContentLength),
	}
	applyMetadata(&info, out.Metadata)
	return out.Body, info, nil
}

func (d *S3Drive) Upload(ctx context.Context, dir string, file models.PasswordFile, r io.Reader, digest string) error {
	_, err := d.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(objectKey(dir, file.Name)),
		Body:          r,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String("application/octet-stream"),
		Metadata:      uploadMetadata(digest),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", objectKey(dir, file.Name), translateS3Error(err))
	}
	return nil
}

// translateS3Error maps SDK errors onto the common sentinels.
func translateS3Error(err error) error {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	var nb *types.NoSuchBucket
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return fmt.Errorf("%w: %v", common.ErrNotFound, err)
	}
	if errors.As(err, &nb) {
		return fmt.Errorf("%w: %v", common.ErrAuthFailed, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return fmt.Errorf("%w: %v", common.ErrNotFound, err)
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch", "NoSuchBucket":
			return fmt.Errorf("%w: %v", common.ErrAuthFailed, err)
		}
	}
	return err
}
