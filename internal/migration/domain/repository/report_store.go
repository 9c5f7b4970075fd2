package repository

import (
	"context"

	"workspace-migrator/internal/migration/domain/model"
)

// ReportStore persists run reports as durable artifacts. Implementations
// must not fail the migration on write errors; callers log and continue.
type ReportStore interface {
	// WriteRunReport persists one migration job report and returns the
	// artifact path.
	WriteRunReport(ctx context.Context, report model.RunReport) (string, error)
	// WriteBatchReport persists one aggregate batch report and returns the
	// artifact path.
	WriteBatchReport(ctx context.Context, report model.BatchReport) (string, error)
	// WriteLinkReport persists one relation-linking report and returns the
	// artifact path.
	WriteLinkReport(ctx context.Context, report model.LinkReport) (string, error)
}

// RunEntry is one row of the run-history ledger.
type RunEntry struct {
	RunID      string
	Migration  string
	Status     model.JobStatus
	Total      int
	Migrated   int
	Failed     int
	StartedAt  int64
	FinishedAt int64
}

// RunHistory records finished runs for post-hoc querying by operators.
type RunHistory interface {
	Append(ctx context.Context, entry RunEntry) error
	Recent(ctx context.Context, limit int) ([]RunEntry, error)
	Close() error
}
