package remote

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dmitrijs2005/passync/internal/common"
	"github.com/dmitrijs2005/passync/internal/config"
	"github.com/dmitrijs2005/passync/internal/models"
)

// MinioDrive is a Drive backed by minio-go.
type MinioDrive struct {
	client  *minio.Client
	bucket  string
	pattern string
}

// NewMinioDrive creates a MinIO client. The endpoint may be given with or
// without a scheme; an https scheme turns SSL on.
func NewMinioDrive(cfg *config.Config) (*MinioDrive, error) {
	endpoint, secure, err := splitEndpoint(cfg.Drive.Endpoint, cfg.Drive.UseSSL)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Username, cfg.Password, ""),
		Secure: secure,
		Region: cfg.Drive.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinioDrive{client: client, bucket: cfg.Drive.Bucket, pattern: cfg.Pattern}, nil
}

// splitEndpoint strips the scheme minio-go does not accept.
func splitEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return strings.TrimSuffix(endpoint, "/"), useSSL, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("%w: drive endpoint %q: %v", common.ErrInvalidConfig, endpoint, err)
	}
	switch u.Scheme {
	case "http":
		return u.Host, useSSL, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("%w: drive endpoint scheme %q", common.ErrInvalidConfig, u.Scheme)
	}
}

func (d *MinioDrive) Authenticate(ctx context.Context) error {
	exists, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return authError(d.bucket, translateMinioError(err))
	}
	if !exists {
		return fmt.Errorf("%w: bucket %s does not exist", common.ErrAuthFailed, d.bucket)
	}
	return nil
}

func (d *MinioDrive) List(ctx context.Context, dir string) (models.Listing, error) {
	l := models.Listing{Location: models.LocationRemote, Dir: dir}
	prefix := dirPrefix(dir)

	for obj := range d.client.ListObjects(ctx, d.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return l, fmt.Errorf("list %s/%s: %w", d.bucket, prefix, translateMinioError(obj.Err))
		}
		name, ok := childName(prefix, obj.Key)
		if !ok || !matches(d.pattern, name) {
			continue
		}
		l.Files = append(l.Files, models.PasswordFile{
			Name:    name,
			ModTime: obj.LastModified,
			Size:    obj.Size,
		})
	}

	return l, nil
}

func (d *MinioDrive) Stat(ctx context.Context, dir, name string) (ObjectInfo, error) {
	st, err := d.client.StatObject(ctx, d.bucket, objectKey(dir, name), minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat %s: %w", objectKey(dir, name), translateMinioError(err))
	}
	return minioInfo(name, st), nil
}

func (d *MinioDrive) Open(ctx context.Context, dir, name string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := d.client.GetObject(ctx, d.bucket, objectKey(dir, name), minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("get %s: %w", objectKey(dir, name), translateMinioError(err))
	}

	// GetObject is lazy; Stat surfaces a missing key before any read.
	st, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, ObjectInfo{}, fmt.Errorf("get %s: %w", objectKey(dir, name), translateMinioError(err))
	}

	return obj, minioInfo(name, st), nil
}

func (d *MinioDrive) Upload(ctx context.Context, dir string, file models.PasswordFile, r io.Reader, digest string) error {
	_, err := d.client.PutObject(ctx, d.bucket, objectKey(dir, file.Name), r, file.Size, minio.PutObjectOptions{
		ContentType:  "application/octet-stream",
		UserMetadata: uploadMetadata(digest),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", objectKey(dir, file.Name), translateMinioError(err))
	}
	return nil
}

func minioInfo(name string, st minio.ObjectInfo) ObjectInfo {
	info := ObjectInfo{Name: name, ModTime: st.LastModified, Size: st.Size}
	applyMetadata(&info, st.UserMetadata)
	return info
}

func translateMinioError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return fmt.Errorf("%w: %v", common.ErrNotFound, err)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "NoSuchBucket":
		return fmt.Errorf("%w: %v", common.ErrAuthFailed, err)
	default:
		return err
	}
}
