package usecase

import (
	"context"
	"time"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/migration/domain/repository"
	"workspace-migrator/internal/shared/logger"
)

const (
	// DefaultBatchSize is the bulk-insert batch size.
	DefaultBatchSize = 50
	// DefaultBatchDelay is the pause between batches, to respect the target
	// store's rate limits.
	DefaultBatchDelay = 350 * time.Millisecond
)

// bulkInsertFunc inserts a batch of records in one call.
type bulkInsertFunc func(ctx context.Context, records []model.TargetRecord) error

// singleInsertFunc inserts one record.
type singleInsertFunc func(ctx context.Context, record model.TargetRecord) error

// insertWithFallback attempts one bulk insert; on failure it retries every
// record of the batch individually, so one malformed record never sinks the
// whole batch. The fallback replaces the failed bulk attempt, it does not
// append to it. Returns the number of records persisted and the per-record
// failures.
func insertWithFallback(ctx context.Context, records []model.TargetRecord, bulk bulkInsertFunc, single singleInsertFunc) (int, []model.RecordFailure) {
	if len(records) == 0 {
		return 0, nil
	}

	if err := bulk(ctx, records); err == nil {
		return len(records), nil
	}

	migrated := 0
	var failures []model.RecordFailure
	for _, rec := range records {
		if err := single(ctx, rec); err != nil {
			failures = append(failures, model.RecordFailure{
				SourceID: rec.SourceID(),
				Message:  err.Error(),
			})
			continue
		}
		migrated++
	}
	return migrated, failures
}

// Loader inserts transformed records into the target store in fixed-size
// batches with graceful degradation to per-record inserts.
type Loader struct {
	target     repository.TargetStore
	batchSize  int
	batchDelay time.Duration
	log        logger.Logger
}

// NewLoader creates a Loader. Non-positive batchSize or negative delay fall
// back to the defaults.
func NewLoader(target repository.TargetStore, batchSize int, batchDelay time.Duration, log logger.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchDelay < 0 {
		batchDelay = DefaultBatchDelay
	}
	return &Loader{
		target:     target,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		log:        log.WithComponent("loader"),
	}
}

// Load inserts the records into the collection, updating the stats with the
// migrated/failed outcome of every record. Record-level failures never
// abort the run.
func (l *Loader) Load(ctx context.Context, collection string, records []model.TargetRecord, stats *model.MigrationStats) {
	bulk := func(ctx context.Context, batch []model.TargetRecord) error {
		return l.target.CreateItems(ctx, collection, batch)
	}
	single := func(ctx context.Context, rec model.TargetRecord) error {
		return l.target.CreateItem(ctx, collection, rec)
	}

	for start := 0; start < len(records); start += l.batchSize {
		end := start + l.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		migrated, failures := insertWithFallback(ctx, batch, bulk, single)
		stats.AddMigrated(migrated)
		for _, f := range failures {
			l.log.Warnf("record %s: load failed: %s", f.SourceID, f.Message)
			stats.RecordFailed(f.SourceID, f.Message)
		}
		if len(failures) > 0 {
			l.log.Warnf("batch %d-%d of %s degraded to individual inserts: %d of %d persisted",
				start, end, collection, migrated, len(batch))
		}

		if end < len(records) && l.batchDelay > 0 {
			time.Sleep(l.batchDelay)
		}
	}

	l.log.Infof("loaded %d/%d records into %s", stats.Migrated, len(records), collection)
}
