package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/migration/domain/repository"
	"workspace-migrator/internal/shared/logger"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT NOT NULL,
	migration   TEXT NOT NULL,
	status      TEXT NOT NULL,
	total       INTEGER NOT NULL,
	migrated    INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	PRIMARY KEY (run_id, migration)
);
CREATE INDEX IF NOT EXISTS idx_runs_migration ON runs(migration, finished_at DESC);
`

// SQLiteRunHistory keeps a local ledger of finished runs so operators can
// query migration history without trawling report files.
type SQLiteRunHistory struct {
	db  *sql.DB
	log logger.Logger
}

// NewSQLiteRunHistory opens (and initializes) the history database at path.
func NewSQLiteRunHistory(path string, log logger.Logger) (*SQLiteRunHistory, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}

	return &SQLiteRunHistory{db: db, log: log.WithComponent("run-history")}, nil
}

// Append records one finished run.
func (h *SQLiteRunHistory) Append(ctx context.Context, entry repository.RunEntry) error {
	_, err := h.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_id, migration, status, total, migrated, failed, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID, entry.Migration, string(entry.Status),
		entry.Total, entry.Migrated, entry.Failed,
		entry.StartedAt, entry.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("append run history: %w", err)
	}
	return nil
}

// Recent returns the most recently finished runs, newest first.
func (h *SQLiteRunHistory) Recent(ctx context.Context, limit int) ([]repository.RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT run_id, migration, status, total, migrated, failed, started_at, finished_at
		 FROM runs ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	var entries []repository.RunEntry
	for rows.Next() {
		var entry repository.RunEntry
		var status string
		if err := rows.Scan(&entry.RunID, &entry.Migration, &status,
			&entry.Total, &entry.Migrated, &entry.Failed,
			&entry.StartedAt, &entry.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run history row: %w", err)
		}
		entry.Status = model.JobStatus(status)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (h *SQLiteRunHistory) Close() error {
	return h.db.Close()
}
