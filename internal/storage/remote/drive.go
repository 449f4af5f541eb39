// Package remote talks to the cloud drive holding the remote copies of the
// password exports. The drive is an S3-compatible bucket; a directory on the
// drive is a key prefix inside that bucket.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/passync/internal/common"
	"github.com/dmitrijs2005/passync/internal/config"
	"github.com/dmitrijs2005/passync/internal/models"
)

// ObjectInfo describes one stored export.
type ObjectInfo struct {
	Name    string
	ModTime time.Time
	Size    int64

	// Digest comes from object metadata written by Upload. It is empty for
	// objects uploaded by other tools.
	Digest string
}

// Drive is the remote side of a sync.
type Drive interface {
	// Authenticate verifies the credentials against the bucket.
	Authenticate(ctx context.Context) error
	// List returns the files directly under dir.
	List(ctx context.Context, dir string) (models.Listing, error)
	// Stat returns metadata of dir/name, or common.ErrNotFound.
	Stat(ctx context.Context, dir, name string) (ObjectInfo, error)
	// Open streams the content of dir/name.
	Open(ctx context.Context, dir, name string) (io.ReadCloser, ObjectInfo, error)
	// Upload stores r as dir/<file.Name>, recording digest.
	Upload(ctx context.Context, dir string, file models.PasswordFile, r io.Reader, digest string) error
}

// New builds the Drive selected by cfg.Drive.Provider.
func New(ctx context.Context, cfg *config.Config) (Drive, error) {
	switch cfg.Drive.Provider {
	case config.ProviderS3:
		return NewS3Drive(ctx, cfg)
	case config.ProviderMinio:
		return NewMinioDrive(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown drive provider %q", common.ErrInvalidConfig, cfg.Drive.Provider)
	}
}

// dirPrefix turns a directory into the key prefix of its children.
func dirPrefix(dir string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return ""
	}
	return dir + "/"
}

func objectKey(dir, name string) string {
	return dirPrefix(dir) + name
}

// childName returns the file name of key if it is a direct child of prefix.
func childName(prefix, key string) (string, bool) {
	if !strings.HasPrefix(key, prefix) {
		return "", false
	}
	name := key[len(prefix):]
	if name == "" || strings.Contains(name, "/") || strings.HasPrefix(name, ".") {
		return "", false
	}
	return name, true
}

func matches(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, _ := path.Match(pattern, name)
	return ok
}

func uploadMetadata(digest string) map[string]string {
	meta := map[string]string{}
	if digest != "" {
		meta[common.MetaDigest] = digest
	}
	return meta
}

// applyMetadata fills the metadata-derived fields of info. Key lookup is
// case-insensitive since providers normalise header case differently.
func applyMetadata(info *ObjectInfo, meta map[string]string) {
	for k, v := range meta {
		if strings.ToLower(k) == common.MetaDigest {
			info.Digest = v
		}
	}
}

// authError classifies a failed bucket probe. Rejected credentials and a
// missing bucket are ErrAuthFailed; anything else stays retryable.
func authError(bucket string, err error) error {
	switch {
	case errors.Is(err, common.ErrAuthFailed):
		return fmt.Errorf("bucket %s: %w", bucket, err)
	case errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("%w: bucket %s: %v", common.ErrAuthFailed, bucket, err)
	default:
		return fmt.Errorf("probe bucket %s: %w", bucket, err)
	}
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrAuthFailed),
		errors.Is(err, common.ErrInvalidConfig),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}
