package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passync/internal/dbx"
	"github.com/dmitrijs2005/passync/internal/models"
	"github.com/jonboulle/clockwork"
)

// DefaultKeep is the number of journal rows retained.
const DefaultKeep = 500

type SQLiteRepository struct {
	db    *sql.DB
	clock clockwork.Clock
	keep  int
}

func NewSQLiteRepository(db *sql.DB, clock clockwork.Clock, keep int) *SQLiteRepository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &SQLiteRepository{db: db, clock: clock, keep: keep}
}

// Record inserts rec and prunes rows beyond the retention limit. A zero
// StartedAt is filled from the clock. rec.ID is set on success.
func (r *SQLiteRepository) Record(ctx context.Context, rec *models.HistoryRecord) error {
	if rec.StartedAt.IsZero() {
		rec.StartedAt = r.clock.Now()
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO history (run_id, started_at, direction, outcome, file, bytes, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, rec.StartedAt.UTC().Format(time.RFC3339Nano), string(rec.Direction),
			string(rec.Outcome), rec.File, rec.Bytes, rec.Error)
		if err != nil {
			return fmt.Errorf("failed to insert history record: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get history id: %w", err)
		}
		rec.ID = id

		_, err = tx.ExecContext(ctx, `
			DELETE FROM history WHERE id NOT IN (
				SELECT id FROM history ORDER BY id DESC LIMIT ?
			)`, r.keep)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
		return nil
	})
}

// List returns up to limit records, newest first. limit <= 0 means all.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, started_at, direction, outcome, file, bytes, error
		FROM history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var result []models.HistoryRecord
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}

	return result, nil
}

// Last returns the newest record, or (nil, nil) for an empty journal.
func (r *SQLiteRepository) Last(ctx context.Context) (*models.HistoryRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, run_id, started_at, direction, outcome, file, bytes, error
		FROM history ORDER BY id DESC LIMIT 1`)

	rec, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.HistoryRecord, error) {
	var (
		rec       models.HistoryRecord
		startedAt string
		direction string
		outcome   string
	)

	err := s.Scan(&rec.ID, &rec.RunID, &startedAt, &direction, &outcome, &rec.File, &rec.Bytes, &rec.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan history row: %w", err)
	}

	rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("bad started_at %q: %w", startedAt, err)
	}
	rec.Direction = models.Direction(direction)
	rec.Outcome = models.Outcome(outcome)

	return &rec, nil
}
