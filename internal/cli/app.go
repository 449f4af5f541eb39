package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/passync/internal/common"
	"github.com/dmitrijs2005/passync/internal/config"
	"github.com/dmitrijs2005/passync/internal/dbx"
	"github.com/dmitrijs2005/passync/internal/logging"
	"github.com/dmitrijs2005/passync/internal/repositories/history"
	"github.com/dmitrijs2005/passync/internal/services"
	"github.com/dmitrijs2005/passync/internal/storage/local"
	"github.com/dmitrijs2005/passync/internal/storage/remote"
	"github.com/jonboulle/clockwork"
)

// App holds the command line state shared by all commands.
type App struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	overrides  config.Overrides

	newDrive func(ctx context.Context, cfg *config.Config) (remote.Drive, error)
	clock    clockwork.Clock
}

func NewApp(out, errOut io.Writer) *App {
	return &App{
		out:      out,
		errOut:   errOut,
		newDrive: remote.New,
		clock:    clockwork.NewRealClock(),
	}
}

// session is everything one command needs, opened from the configuration.
type session struct {
	cfg     *config.Config
	log     logging.Logger
	db      *sql.DB
	journal history.Repository
	sync    services.SyncService
}

func (s *session) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if z, ok := s.log.(interface{ Sync() error }); ok {
		_ = z.Sync()
	}
}

// openJournal loads the configuration, builds the logger and opens the
// journal database. With full set, the whole configuration is validated.
func (a *App) openJournal(ctx context.Context, full bool) (*session, error) {
	load := config.LoadJournal
	if full {
		load = config.Load
	}

	cfg, err := load(a.configPath, a.overrides)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{
		Backend: cfg.Log.Backend,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  a.errOut,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	for _, w := range cfg.Warnings {
		log.Warn(ctx, w)
	}

	db, err := dbx.OpenSQLite(ctx, cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	return &session{
		cfg:     cfg,
		log:     log,
		db:      db,
		journal: history.NewSQLiteRepository(db, a.clock, history.DefaultKeep),
	}, nil
}

// openSession extends openJournal with the drive and the sync service.
// A missing password is prompted for on the terminal.
func (a *App) openSession(ctx context.Context) (*session, error) {
	s, err := a.openJournal(ctx, true)
	if err != nil {
		return nil, err
	}

	if s.cfg.NeedsPassword() {
		pw, err := GetPassword(a.errOut, s.cfg.Username)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("read password: %w", err)
		}
		s.cfg.Password = string(pw)
		common.WipeByteArray(pw)
	}

	drive, err := a.newDrive(ctx, s.cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.sync = services.NewSyncService(
		services.Settings{
			RemoteDir:  s.cfg.RemoteDir,
			Retries:    s.cfg.Retries,
			RetryDelay: s.cfg.RetryDelay,
		},
		drive,
		local.New(s.cfg.LocalDir, s.cfg.Pattern),
		s.journal,
		s.log,
		a.clock,
	)

	return s, nil
}

// Execute runs the command tree with args and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	root := NewRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return common.ExitFailure
	}
	return 0
}

// Execute is the entry point used by main.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	return NewApp(out, errOut).Execute(ctx, args)
}
