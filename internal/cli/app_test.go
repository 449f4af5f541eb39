package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/passync/internal/common"
	"github.com/dmitrijs2005/passync/internal/config"
	"github.com/dmitrijs2005/passync/internal/models"
	"github.com/dmitrijs2005/passync/internal/storage/remote"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)

// memDrive is a minimal in-memory remote.Drive.
type memDrive struct {
	authErr error
	files   map[string][]byte
	mod     map[string]time.Time
	meta    map[string]string
}

func newMemDrive() *memDrive {
	return &memDrive{files: map[string][]byte{}, mod: map[string]time.Time{}, meta: map[string]string{}}
}

func (d *memDrive) Authenticate(ctx context.Context) error { return d.authErr }

func (d *memDrive) List(ctx context.Context, dir string) (models.Listing, error) {
	l := models.Listing{Location: models.LocationRemote, Dir: dir}
	for name, b := range d.files {
		l.Files = append(l.Files, models.PasswordFile{Name: name, ModTime: d.mod[name], Size: int64(len(b))})
	}
	return l, nil
}

func (d *memDrive) Stat(ctx context.Context, dir, name string) (remote.ObjectInfo, error) {
	b, ok := d.files[name]
	if !ok {
		return remote.ObjectInfo{}, common.ErrNotFound
	}
	return remote.ObjectInfo{Name: name, ModTime: d.mod[name], Size: int64(len(b)), Digest: d.meta[name]}, nil
}

func (d *memDrive) Open(ctx context.Context, dir, name string) (io.ReadCloser, remote.ObjectInfo, error) {
	info, err := d.Stat(ctx, dir, name)
	if err != nil {
		return nil, info, err
	}
	return io.NopCloser(bytes.NewReader(d.files[name])), info, nil
}

func (d *memDrive) Upload(ctx context.Context, dir string, file models.PasswordFile, r io.Reader, digest string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	d.files[file.Name] = b
	d.mod[file.Name] = t0.Add(48 * time.Hour)
	d.meta[file.Name] = digest
	return nil
}

type harness struct {
	app      *App
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	drive    *memDrive
	cfgPath  string
	localDir string
	seenCfg  *config.Config
}

func newHarness(t *testing.T, extraYAML string) *harness {
	t.Helper()
	root := t.TempDir()
	h := &harness{
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
		drive:    newMemDrive(),
		localDir: filepath.Join(root, "local"),
		cfgPath:  filepath.Join(root, "config.yaml"),
	}
	require.NoError(t, os.MkdirAll(h.localDir, 0o700))

	body := "paths:\n" +
		"  local_passwords_dir: " + h.localDir + "\n" +
		"  icloud_passwords_dir: passwords\n" +
		"drive:\n" +
		"  bucket: vault\n" +
		"sync:\n" +
		"  retries: 0\n" +
		"  journal: " + filepath.Join(root, "journal.db") + "\n" +
		extraYAML
	require.NoError(t, os.WriteFile(h.cfgPath, []byte(body), 0o600))

	h.app = NewApp(h.out, h.errOut)
	h.app.clock = clockwork.NewFakeClockAt(t0)
	h.app.newDrive = func(ctx context.Context, cfg *config.Config) (remote.Drive, error) {
		h.seenCfg = cfg
		return h.drive, nil
	}
	return h
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.errOut.Reset()
	return h.app.Execute(context.Background(), append([]string{"-c", h.cfgPath}, args...))
}

func (h *harness) writeLocal(t *testing.T, name, content string, mod time.Time) {
	t.Helper()
	p := filepath.Join(h.localDir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	require.NoError(t, os.Chtimes(p, mod, mod))
}

func TestVersion(t *testing.T) {
	h := newHarness(t, "")
	require.Equal(t, 0, h.run("version"))
	assert.Contains(t, h.out.String(), "Build version:")

	require.Equal(t, 0, h.run("--version"))
	assert.Contains(t, h.out.String(), "passync version N/A")
}

func TestStatus_ListsFilesNewestFirstAndLastRun(t *testing.T) {
	h := newHarness(t, "")
	h.writeLocal(t, "l-old.csv", "1", t0)
	h.writeLocal(t, "l-new.csv", "22", t0.Add(2*time.Hour))
	for name, off := range map[string]time.Duration{"r-old.csv": 0, "r-mid.csv": time.Hour, "r-new.csv": 3 * time.Hour} {
		h.drive.files[name] = []byte("x")
		h.drive.mod[name] = t0.Add(off)
	}

	require.Equal(t, 0, h.run("status"), h.errOut.String())
	out := h.out.String()

	assert.Contains(t, out, "Files in remote directory passwords:")
	assert.Contains(t, out, "Files in local directory "+h.localDir+":")
	assert.Contains(t, out, t0.Add(3*time.Hour).Format(time.RFC3339))
	assert.Contains(t, out, "last run: never")

	rNew, rMid, rOld := strings.Index(out, "  r-new.csv"), strings.Index(out, "  r-mid.csv"), strings.Index(out, "  r-old.csv")
	require.True(t, rNew >= 0 && rMid >= 0 && rOld >= 0, out)
	assert.Less(t, rNew, rMid)
	assert.Less(t, rMid, rOld)
	lNew, lOld := strings.Index(out, "  l-new.csv"), strings.Index(out, "  l-old.csv")
	require.True(t, lNew >= 0 && lOld >= 0, out)
	assert.Less(t, lNew, lOld)

	require.Equal(t, 0, h.run("status"), h.errOut.String())
	assert.Regexp(t, `last run: \S+ pull planned`, h.out.String())
}

func TestStatus_EmptySides(t *testing.T) {
	h := newHarness(t, "")
	require.Equal(t, 0, h.run("status"), h.errOut.String())
	assert.Contains(t, h.out.String(), "No remote files in passwords")
	assert.Contains(t, h.out.String(), "No local files in "+h.localDir)
}

func TestStatus_PrintsNewestAndDirection(t *testing.T) {
	h := newHarness(t, "")
	h.writeLocal(t, "export.csv", "local", t0.Add(time.Hour))
	h.drive.files["old.csv"] = []byte("remote")
	h.drive.mod["old.csv"] = t0

	require.Equal(t, 0, h.run("status"), h.errOut.String())

	out := h.out.String()
	assert.Contains(t, out, `Authenticated to s3 bucket "vault"`)
	assert.Contains(t, out, "old.csv")
	assert.Contains(t, out, "export.csv")
	assert.Regexp(t, `direction:\s+push`, out)
	assert.Empty(t, h.drive.meta, "status does not upload")
}

func TestSync_ThenHistory(t *testing.T) {
	h := newHarness(t, "")
	h.writeLocal(t, "export.csv", "secret rows", t0)

	require.Equal(t, 0, h.run("sync"), h.errOut.String())
	assert.Regexp(t, `outcome:\s+transferred`, h.out.String())
	assert.Equal(t, "secret rows", string(h.drive.files["export.csv"]))

	require.Equal(t, 0, h.run("sync", "--dry-run"), h.errOut.String())
	assert.Contains(t, h.out.String(), "would copy:")

	require.Equal(t, 0, h.run("history", "-n", "1"))
	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "planned")

	require.Equal(t, 0, h.run("history"))
	assert.Contains(t, h.out.String(), "transferred")
}

func TestHistory_Empty(t *testing.T) {
	h := newHarness(t, "")
	require.Equal(t, 0, h.run("history"))
	assert.Contains(t, h.out.String(), "No runs recorded")
}

func TestHistory_NeedsOnlyTheJournal(t *testing.T) {
	h := newHarness(t, "")
	journal := filepath.Join(t.TempDir(), "j.db")
	require.NoError(t, os.WriteFile(h.cfgPath, []byte("sync:\n  journal: "+journal+"\n"), 0o600))

	require.Equal(t, 0, h.run("history"), h.errOut.String())
	assert.Contains(t, h.out.String(), "No runs recorded")

	assert.Equal(t, common.ExitFailure, h.run("status"))
	assert.Contains(t, h.errOut.String(), common.ErrRemoteDirRequired.Error())
}

func TestRemoteDirFlagOverridesConfig(t *testing.T) {
	h := newHarness(t, "")
	require.Equal(t, 0, h.run("--remote-dir", "elsewhere", "status"), h.errOut.String())
	require.NotNil(t, h.seenCfg)
	assert.Equal(t, "elsewhere", h.seenCfg.RemoteDir)
}

func TestMissingRemoteDirExitsWithFailure(t *testing.T) {
	h := newHarness(t, "")
	body := "paths:\n  local_passwords_dir: " + h.localDir + "\ndrive:\n  bucket: vault\n"
	require.NoError(t, os.WriteFile(h.cfgPath, []byte(body), 0o600))

	assert.Equal(t, common.ExitFailure, h.run("status"))
	assert.Contains(t, h.errOut.String(), common.ErrRemoteDirRequired.Error())
}

func TestMissingLocalDirIsReportedAndRunContinues(t *testing.T) {
	h := newHarness(t, "")
	require.NoError(t, os.RemoveAll(h.localDir))

	require.Equal(t, 0, h.run("status"), h.errOut.String())
	assert.Contains(t, h.errOut.String(), "does not exist")
}

func TestAuthFailureExitsWithFailure(t *testing.T) {
	h := newHarness(t, "")
	h.drive.authErr = common.ErrAuthFailed

	assert.Equal(t, common.ExitFailure, h.run("sync"))
	assert.Contains(t, h.errOut.String(), "authentication failed")
}

func TestPasswordIsPromptedWhenMissing(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }

	h := newHarness(t, "login:\n  username: AKIDEXAMPLE\n")
	require.Equal(t, 0, h.run("status"), h.errOut.String())

	require.NotNil(t, h.seenCfg)
	assert.Equal(t, "s3cret", h.seenCfg.Password)
	assert.Contains(t, h.errOut.String(), "Password for AKIDEXAMPLE:")
}
