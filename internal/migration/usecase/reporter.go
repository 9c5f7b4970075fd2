package usecase

import (
	"context"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/migration/domain/repository"
	"workspace-migrator/internal/shared/logger"
)

// Reporter persists run artifacts. Report writes never fail a migration: a
// missing report must not mask a successful run, so failures are logged and
// swallowed.
type Reporter struct {
	store   repository.ReportStore
	history repository.RunHistory // nil disables the run-history ledger
	log     logger.Logger
}

// NewReporter creates a Reporter. history may be nil.
func NewReporter(store repository.ReportStore, history repository.RunHistory, log logger.Logger) *Reporter {
	return &Reporter{
		store:   store,
		history: history,
		log:     log.WithComponent("reporter"),
	}
}

// PersistRun writes one job report plus its run-history row.
func (r *Reporter) PersistRun(ctx context.Context, report model.RunReport, status model.JobStatus, startedAt, finishedAt int64) {
	path, err := r.store.WriteRunReport(ctx, report)
	if err != nil {
		r.log.Errorf("failed to persist report for %s: %v", report.Migration, err)
	} else {
		r.log.Infof("report written: %s", path)
	}

	if r.history == nil {
		return
	}
	entry := repository.RunEntry{
		RunID:      report.RunID,
		Migration:  report.Migration,
		Status:     status,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
	if report.Stats != nil {
		entry.Total = report.Stats.Total
		entry.Migrated = report.Stats.Migrated
		entry.Failed = report.Stats.Failed
	}
	if err := r.history.Append(ctx, entry); err != nil {
		r.log.Errorf("failed to append run history for %s: %v", report.Migration, err)
	}
}

// PersistBatch writes the aggregate batch report.
func (r *Reporter) PersistBatch(ctx context.Context, report model.BatchReport) {
	path, err := r.store.WriteBatchReport(ctx, report)
	if err != nil {
		r.log.Errorf("failed to persist batch report: %v", err)
		return
	}
	r.log.Infof("batch report written: %s", path)
}

// PersistLink writes the relation-linking report.
func (r *Reporter) PersistLink(ctx context.Context, report model.LinkReport) {
	path, err := r.store.WriteLinkReport(ctx, report)
	if err != nil {
		r.log.Errorf("failed to persist link report: %v", err)
		return
	}
	r.log.Infof("link report written: %s", path)
}
