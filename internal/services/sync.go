package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/passync/internal/common"
	"github.com/dmitrijs2005/passync/internal/logging"
	"github.com/dmitrijs2005/passync/internal/models"
	"github.com/dmitrijs2005/passync/internal/repositories/history"
	"github.com/dmitrijs2005/passync/internal/storage/remote"
	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// SyncService decides and performs the reconciliation of one local and one
// remote passwords directory.
//
// Contract:
//   - Status: authenticate, list both sides and decide; nothing is copied.
//   - Sync: as Status, then copy the newest file to the older side.
//
// Both return the report of the run even when they fail, and append it to
// the journal.
type SyncService interface {
	Status(ctx context.Context) (*models.Report, error)
	Sync(ctx context.Context, opts SyncOptions) (*models.Report, error)
}

type SyncOptions struct {
	// DryRun stops after the plan.
	DryRun bool
}

// Settings are the tunables of a SyncService.
type Settings struct {
	RemoteDir  string
	Retries    int
	RetryDelay time.Duration
}

// LocalStore is the local side as seen by the service. *local.Store
// implements it.
type LocalStore interface {
	Dir() string
	List(ctx context.Context) (models.Listing, error)
	Open(name string) (billy.File, error)
	Digest(name string) (string, error)
	Write(name string, r io.Reader, modTime time.Time) (int64, error)
	Touch(name string, modTime time.Time) error
}

type syncService struct {
	settings Settings
	drive    remote.Drive
	local    LocalStore
	journal  history.Repository
	log      logging.Logger
	clock    clockwork.Clock
}

// NewSyncService wires a SyncService. journal may be nil to disable the
// journal; a nil clock means the real clock.
func NewSyncService(settings Settings, drive remote.Drive, local LocalStore, journal history.Repository, log logging.Logger, clock clockwork.Clock) SyncService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &syncService{
		settings: settings,
		drive:    drive,
		local:    local,
		journal:  journal,
		log:      log,
		clock:    clock,
	}
}

func (s *syncService) Status(ctx context.Context) (*models.Report, error) {
	return s.run(ctx, false, false)
}

func (s *syncService) Sync(ctx context.Context, opts SyncOptions) (*models.Report, error) {
	return s.run(ctx, true, opts.DryRun)
}

func (s *syncService) run(ctx context.Context, transfer, dryRun bool) (*models.Report, error) {
	rep := &models.Report{
		RunID:     uuid.NewString(),
		StartedAt: s.clock.Now(),
		DryRun:    dryRun,
	}
	log := s.log.With("run_id", rep.RunID)

	err := s.plan(ctx, log, rep)
	if err == nil {
		if transfer && !dryRun {
			err = s.apply(ctx, log, rep)
		} else {
			rep.Outcome = models.OutcomePlanned
		}
	}

	rep.Duration = s.clock.Since(rep.StartedAt)
	if err != nil {
		rep.Outcome = models.OutcomeFailed
		rep.Err = err
		log.Error(ctx, "run failed", "error", err)
	} else {
		log.Info(ctx, "run finished",
			"direction", rep.Plan.Direction, "outcome", rep.Outcome,
			"file", rep.File, "bytes", rep.Bytes, "duration", rep.Duration)
	}

	s.record(ctx, log, rep)
	return rep, err
}

// plan authenticates, lists both sides and fills rep.Plan.
func (s *syncService) plan(ctx context.Context, log logging.Logger, rep *models.Report) error {
	err := s.retry(ctx, log, "authenticate", func(ctx context.Context) error {
		return s.drive.Authenticate(ctx)
	})
	if err != nil {
		if errors.Is(err, common.ErrAuthFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", common.ErrAuthFailed, err)
	}
	log.Debug(ctx, "authenticated")

	err = s.retry(ctx, log, "list", func(ctx context.Context) error {
		var err error
		rep.Remote, err = s.drive.List(ctx, s.settings.RemoteDir)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w %s: %w", common.ErrRemoteList, s.settings.RemoteDir, err)
	}
	log.Debug(ctx, "listed directory", "location", models.LocationRemote, "files", len(rep.Remote.Files))

	rep.Local, err = s.local.List(ctx)
	switch {
	case errors.Is(err, common.ErrDirNotFound):
		log.Warn(ctx, "local passwords directory does not exist", "dir", s.local.Dir())
		rep.Local = models.Listing{Location: models.LocationLocal, Dir: s.local.Dir()}
	case err != nil:
		return fmt.Errorf("list local directory: %w", err)
	}
	log.Debug(ctx, "listed directory", "location", models.LocationLocal, "files", len(rep.Local.Files))

	rep.Plan = models.Decide(rep.Local, rep.Remote)
	if src, ok := rep.Plan.Source(); ok {
		rep.File = src.Name
	}
	return nil
}

func (s *syncService) apply(ctx context.Context, log logging.Logger, rep *models.Report) error {
	switch rep.Plan.Direction {
	case models.DirectionPush:
		return s.push(ctx, log, rep)
	case models.DirectionPull:
		return s.pull(ctx, log, rep)
	default:
		rep.Outcome = models.OutcomeSkipped
		return nil
	}
}

// push uploads the newest local file unless the drive already holds the
// same content under that name. In that case the local file takes the
// object's timestamp so that the next run sees both sides in sync.
func (s *syncService) push(ctx context.Context, log logging.Logger, rep *models.Report) error {
	file := rep.Plan.Local

	digest, err := s.local.Digest(file.Name)
	if err != nil {
		return fmt.Errorf("digest %s: %w", file.Name, err)
	}

	var info remote.ObjectInfo
	err = s.retry(ctx, log, "stat", func(ctx context.Context) error {
		var err error
		info, err = s.drive.Stat(ctx, s.settings.RemoteDir, file.Name)
		return err
	})
	switch {
	case err == nil && info.Digest == digest:
		if err := s.local.Touch(file.Name, info.ModTime); err != nil {
			return err
		}
		log.Info(ctx, "remote copy already up to date", "file", file.Name)
		rep.Outcome = models.OutcomeUnchanged
		return nil
	case err != nil && !errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("%w: stat %s: %w", common.ErrTransfer, file.Name, err)
	}

	err = s.retry(ctx, log, "upload", func(ctx context.Context) error {
		f, err := s.local.Open(file.Name)
		if err != nil {
			return err
		}
		defer f.Close()
		return s.drive.Upload(ctx, s.settings.RemoteDir, file, f, digest)
	})
	if err != nil {
		return fmt.Errorf("%w: upload %s: %w", common.ErrTransfer, file.Name, err)
	}

	log.Info(ctx, "uploaded", "file", file.Name, "bytes", file.Size)
	rep.Outcome = models.OutcomeTransferred
	rep.Bytes = file.Size
	return nil
}

// pull downloads the newest remote file. The local copy takes the remote
// timestamp so that the next run sees both sides in sync. A local file with
// the same content only has its timestamp aligned.
func (s *syncService) pull(ctx context.Context, log logging.Logger, rep *models.Report) error {
	file := rep.Plan.Remote

	if _, ok := rep.Local.Find(file.Name); ok {
		localDigest, err := s.local.Digest(file.Name)
		if err != nil {
			return fmt.Errorf("digest %s: %w", file.Name, err)
		}

		var info remote.ObjectInfo
		err = s.retry(ctx, log, "stat", func(ctx context.Context) error {
			var err error
			info, err = s.drive.Stat(ctx, s.settings.RemoteDir, file.Name)
			return err
		})
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: stat %s: %w", common.ErrTransfer, file.Name, err)
		}
		if err == nil && info.Digest == localDigest {
			if err := s.local.Touch(file.Name, file.ModTime); err != nil {
				return err
			}
			log.Info(ctx, "local copy already up to date", "file", file.Name)
			rep.Outcome = models.OutcomeUnchanged
			return nil
		}
	}

	var n int64
	err := s.retry(ctx, log, "download", func(ctx context.Context) error {
		rc, _, err := s.drive.Open(ctx, s.settings.RemoteDir, file.Name)
		if err != nil {
			return err
		}
		defer rc.Close()
		n, err = s.local.Write(file.Name, rc, file.ModTime)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: download %s: %w", common.ErrTransfer, file.Name, err)
	}

	log.Info(ctx, "downloaded", "file", file.Name, "bytes", n)
	rep.Outcome = models.OutcomeTransferred
	rep.Bytes = n
	return nil
}

func (s *syncService) retry(ctx context.Context, log logging.Logger, op string, fn func(ctx context.Context) error) error {
	return withRetry(ctx, log, op, s.settings.Retries, s.settings.RetryDelay, fn)
}

// record appends the run to the journal. A journal failure is logged and
// does not change the outcome of the run.
func (s *syncService) record(ctx context.Context, log logging.Logger, rep *models.Report) {
	if s.journal == nil {
		return
	}

	rec := &models.HistoryRecord{
		RunID:     rep.RunID,
		StartedAt: rep.StartedAt,
		Direction: rep.Plan.Direction,
		Outcome:   rep.Outcome,
		File:      rep.File,
		Bytes:     rep.Bytes,
	}
	if rep.Err != nil {
		rec.Error = rep.Err.Error()
	}

	if err := s.journal.Record(context.WithoutCancel(ctx), rec); err != nil {
		log.Warn(ctx, "failed to record run", "error", err)
	}
}
