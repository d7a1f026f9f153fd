package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dockhosts/internal/syncer"

	_ "modernc.org/sqlite"
)

var _ syncer.Journal = (*Journal)(nil)

// Journal records reconciliation passes in a local SQLite database.
type Journal struct {
	db *sql.DB
}

func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal db journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal db busy timeout: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS passes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	trigger TEXT NOT NULL,
	network TEXT NOT NULL,
	records INTEGER NOT NULL,
	changed INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT ''
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize passes schema: %w", err)
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) RecordPass(ctx context.Context, r syncer.PassReport) error {
	changed := 0
	if r.Changed {
		changed = 1
	}
	_, err := j.db.ExecContext(ctx, `
INSERT INTO passes (started_at, trigger, network, records, changed, duration_ms, error)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.Trigger,
		r.Network,
		r.Records,
		changed,
		r.Duration.Milliseconds(),
		r.Err,
	)
	if err != nil {
		return fmt.Errorf("insert pass: %w", err)
	}
	return nil
}

// Recent returns up to limit passes, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]syncer.PassReport, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT started_at, trigger, network, records, changed, duration_ms, error
FROM passes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list passes: %w", err)
	}
	defer rows.Close()

	out := make([]syncer.PassReport, 0)
	for rows.Next() {
		var (
			startedAt  string
			r          syncer.PassReport
			changed    int
			durationMS int64
		)
		if err := rows.Scan(&startedAt, &r.Trigger, &r.Network, &r.Records, &changed, &durationMS, &r.Err); err != nil {
			return nil, fmt.Errorf("scan pass row: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse pass time %q: %w", startedAt, err)
		}
		r.Changed = changed != 0
		r.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pass rows: %w", err)
	}
	return out, nil
}
