package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/migration/domain/repository"
	"workspace-migrator/internal/shared/contextkeys"
	"workspace-migrator/internal/shared/logger"
)

// Pipeline runs one migration job end to end: extract, provision, transform,
// load, validate, report. Everything is sequential; the only suspension
// points are store calls.
type Pipeline struct {
	source      repository.SourceStore
	target      repository.TargetStore
	provisioner *SchemaProvisioner
	reporter    *Reporter
	pageSize    int
	batchSize   int
	batchDelay  time.Duration
	log         logger.Logger
}

// NewPipeline wires a Pipeline from its collaborators.
func NewPipeline(source repository.SourceStore, target repository.TargetStore, provisioner *SchemaProvisioner, reporter *Reporter, pageSize, batchSize int, batchDelay time.Duration, log logger.Logger) *Pipeline {
	return &Pipeline{
		source:      source,
		target:      target,
		provisioner: provisioner,
		reporter:    reporter,
		pageSize:    pageSize,
		batchSize:   batchSize,
		batchDelay:  batchDelay,
		log:         log,
	}
}

// Run executes one migration job. The returned error is non-nil only for
// fatal conditions (extraction or schema provisioning); record-level
// failures are reported through the stats. A report is persisted either
// way.
func (p *Pipeline) Run(ctx context.Context, job *MigrationJob) (*model.RunReport, error) {
	runID := uuid.NewString()
	started := time.Now()

	ctx = context.WithValue(ctx, contextkeys.RunIDKey, runID)
	ctx = context.WithValue(ctx, contextkeys.MigrationKey, job.Name)
	log := p.log.WithContext(ctx)
	log.Infof("migration %s starting (run %s)", job.Name, runID)

	stats := model.NewMigrationStats()
	report := model.RunReport{
		Migration: job.Name,
		RunID:     runID,
		Timestamp: started.UTC(),
		Stats:     stats,
	}

	records, err := NewExtractor(p.source, p.pageSize, p.log).ExtractAll(ctx, job.SourceDatabaseID)
	if err != nil {
		log.Errorf("migration %s aborted: %v", job.Name, err)
		stats.AddWarning("run aborted: " + err.Error())
		p.finish(ctx, &report, model.JobFailed, started)
		return nil, err
	}
	stats.SetTotal(len(records))

	if err := p.provisioner.Provision(ctx, job); err != nil {
		log.Errorf("migration %s aborted: %v", job.Name, err)
		stats.AddWarning("run aborted: " + err.Error())
		p.finish(ctx, &report, model.JobFailed, started)
		return nil, err
	}

	targets := NewTransformer(job, p.log).TransformAll(records, stats)

	NewLoader(p.target, p.batchSize, p.batchDelay, p.log).Load(ctx, job.Collection, targets, stats)

	expectedSums := make(map[string]float64, len(job.SumFields))
	for _, f := range job.SumFields {
		expectedSums[f] = sumField(targets, f)
	}
	validation := NewValidator(p.target, p.log).Validate(ctx, job.Collection, len(targets), expectedSums, stats)
	report.Validation = &validation

	p.finish(ctx, &report, model.JobSucceeded, started)
	log.Infof("migration %s finished: %d/%d migrated, %d failed, %d warnings",
		job.Name, stats.Migrated, stats.Total, stats.Failed, len(stats.Warnings))
	return &report, nil
}

func (p *Pipeline) finish(ctx context.Context, report *model.RunReport, status model.JobStatus, started time.Time) {
	report.Errors = report.Stats.Errors
	p.reporter.PersistRun(ctx, *report, status, started.Unix(), time.Now().Unix())
}
