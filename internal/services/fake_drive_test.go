package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"github.com/dmitrijs2005/passync/internal/common"
	"github.com/dmitrijs2005/passync/internal/models"
	"github.com/dmitrijs2005/passync/internal/storage/remote"
)

type fakeObject struct {
	data    []byte
	mod     time.Time
	digest  string
}

// fakeDrive is an in-memory remote.Drive. Errors listed in the *Errs slices
// are returned by consecutive calls before the call succeeds.
type fakeDrive struct {
	mu      sync.Mutex
	objects map[string]fakeObject

	// Now is the LastModified stamped on uploads.
	Now time.Time

	AuthErr    error
	ListErrs   []error
	StatErrs   []error
	UploadErrs []error
	OpenErrs   []error

	authCalls   int
	listCalls   int
	uploadCalls int
	openCalls   int
}

var _ remote.Drive = (*fakeDrive)(nil)

func newFakeDrive(now time.Time) *fakeDrive {
	return &fakeDrive{objects: map[string]fakeObject{}, Now: now}
}

func (d *fakeDrive) put(dir, name string, data []byte, mod time.Time, digest string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.objects[path.Join(dir, name)] = fakeObject{data: data, mod: mod, digest: digest}
}

func (d *fakeDrive) get(dir, name string) (fakeObject, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	o, ok := d.objects[path.Join(dir, name)]
	return o, ok
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (d *fakeDrive) Authenticate(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.authCalls++
	return d.AuthErr
}

func (d *fakeDrive) List(ctx context.Context, dir string) (models.Listing, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listCalls++
	l := models.Listing{Location: models.LocationRemote, Dir: dir}
	if err := pop(&d.ListErrs); err != nil {
		return l, err
	}
	for key, o := range d.objects {
		if path.Dir(key) == dir {
			l.Files = append(l.Files, models.PasswordFile{Name: path.Base(key), ModTime: o.mod, Size: int64(len(o.data))})
		}
	}
	return l, nil
}

func (d *fakeDrive) Stat(ctx context.Context, dir, name string) (remote.ObjectInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := pop(&d.StatErrs); err != nil {
		return remote.ObjectInfo{}, err
	}
	o, ok := d.objects[path.Join(dir, name)]
	if !ok {
		return remote.ObjectInfo{}, fmt.Errorf("%w: %s", common.ErrNotFound, name)
	}
	return remote.ObjectInfo{
		Name: name, ModTime: o.mod, Size: int64(len(o.data)),
		Digest: o.digest,
	}, nil
}

func (d *fakeDrive) Open(ctx context.Context, dir, name string) (io.ReadCloser, remote.ObjectInfo, error) {
	info, err := d.Stat(ctx, dir, name)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.openCalls++
	if err := pop(&d.OpenErrs); err != nil {
		return nil, remote.ObjectInfo{}, err
	}
	if err != nil {
		return nil, remote.ObjectInfo{}, err
	}
	o := d.objects[path.Join(dir, name)]
	return io.NopCloser(bytes.NewReader(o.data)), info, nil
}

func (d *fakeDrive) Upload(ctx context.Context, dir string, file models.PasswordFile, r io.Reader, digest string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.uploadCalls++
	if err := pop(&d.UploadErrs); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	d.objects[path.Join(dir, file.Name)] = fakeObject{data: data, mod: d.Now, digest: digest}
	return nil
}

type fakeJournal struct {
	records []models.HistoryRecord
	err     error
}

func (j *fakeJournal) Record(ctx context.Context, rec *models.HistoryRecord) error {
	if j.err != nil {
		return j.err
	}
	rec.ID = int64(len(j.records) + 1)
	j.records = append(j.records, *rec)
	return nil
}

func (j *fakeJournal) List(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	return j.records, nil
}

func (j *fakeJournal) Last(ctx context.Context) (*models.HistoryRecord, error) {
	if len(j.records) == 0 {
		return nil, nil
	}
	r := j.records[len(j.records)-1]
	return &r, nil
}
