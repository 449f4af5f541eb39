// Package local lists and writes password exports in the local directory
// through a go-billy filesystem rooted at that directory.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/passync/internal/common"
	"github.com/dmitrijs2005/passync/internal/cryptox"
	"github.com/dmitrijs2005/passync/internal/models"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"
)

// Store is the local side of a sync.
type Store struct {
	fs      billy.Filesystem
	dir     string
	pattern string

	// osRoot is set when fs is the OS directory dir. Timestamps are then
	// applied through the OS, since the chrooted osfs has no billy.Change.
	osRoot string
}

// New returns a Store over the OS directory dir. The directory does not have
// to exist yet.
func New(dir, pattern string) *Store {
	s := NewWithFS(osfs.New(dir), dir, pattern)
	s.osRoot = dir
	return s
}

// NewWithFS returns a Store over fs, whose root is the passwords directory.
// dir is only used for reporting.
func NewWithFS(fs billy.Filesystem, dir, pattern string) *Store {
	if pattern == "" {
		pattern = "*"
	}
	return &Store{fs: fs, dir: dir, pattern: pattern}
}

// Dir returns the directory the store reports as its location.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the password files in the directory. Hidden files,
// sub-directories and names not matching the pattern are skipped.
func (s *Store) List(ctx context.Context) (models.Listing, error) {
	l := models.Listing{Location: models.LocationLocal, Dir: s.dir}

	if err := ctx.Err(); err != nil {
		return l, err
	}

	infos, err := s.fs.ReadDir("/")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l, fmt.Errorf("%w: %s", common.ErrDirNotFound, s.dir)
		}
		return l, fmt.Errorf("read dir %s: %w", s.dir, err)
	}

	for _, fi := range infos {
		if !fi.Mode().IsRegular() || strings.HasPrefix(fi.Name(), ".") {
			continue
		}
		if ok, _ := path.Match(s.pattern, fi.Name()); !ok {
			continue
		}
		l.Files = append(l.Files, models.PasswordFile{
			Name:    fi.Name(),
			ModTime: fi.ModTime(),
			Size:    fi.Size(),
		})
	}

	return l, nil
}

// Open opens name for reading.
func (s *Store) Open(name string) (billy.File, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, name)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// Digest returns the content digest of name.
func (s *Store) Digest(name string) (string, error) {
	f, err := s.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return cryptox.Digest(f)
}

// Write stores the content of r as name. The data lands in a hidden staging
// file first and is renamed over name once complete, so a failed transfer
// never leaves a truncated export behind. modTime is applied when the
// filesystem can set timestamps; otherwise Write fails before touching
// anything. It returns the number of bytes written.
func (s *Store) Write(name string, r io.Reader, modTime time.Time) (int64, error) {
	if !modTime.IsZero() && !s.canTouch() {
		return 0, fmt.Errorf("%w: %s", common.ErrMtimeUnsupported, s.dir)
	}

	if err := s.fs.MkdirAll("/", 0o700); err != nil {
		return 0, fmt.Errorf("create %s: %w", s.dir, err)
	}

	staging := common.StagingPrefix + uuid.NewString() + ".tmp"
	f, err := s.fs.OpenFile(staging, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("create staging file: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(staging)
		return n, fmt.Errorf("write %s: %w", name, err)
	}

	if err := s.fs.Rename(staging, name); err != nil {
		_ = s.fs.Remove(staging)
		return n, fmt.Errorf("rename %s: %w", name, err)
	}

	if err := s.Touch(name, modTime); err != nil {
		return n, err
	}

	return n, nil
}

func (s *Store) canTouch() bool {
	_, ok := s.fs.(billy.Change)
	return ok || s.osRoot != ""
}

// Touch sets the mtime of name. A zero modTime is a no-op; a filesystem that
// cannot set timestamps yields common.ErrMtimeUnsupported.
func (s *Store) Touch(name string, modTime time.Time) error {
	if modTime.IsZero() {
		return nil
	}

	var err error
	if s.osRoot != "" {
		err = os.Chtimes(filepath.Join(s.osRoot, filepath.FromSlash(name)), modTime, modTime)
	} else if ch, ok := s.fs.(billy.Change); ok {
		err = ch.Chtimes(name, modTime, modTime)
	} else {
		return fmt.Errorf("%w: %s", common.ErrMtimeUnsupported, name)
	}

	if err != nil {
		return fmt.Errorf("set mtime of %s: %w", name, err)
	}
	return nil
}
