package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/shared/logger"
)

// DefaultJobDelay is the pause between orchestrated jobs.
const DefaultJobDelay = 2 * time.Second

// jobRunner runs one migration job; satisfied by *Pipeline.
type jobRunner interface {
	Run(ctx context.Context, job *MigrationJob) (*model.RunReport, error)
}

// BatchOrchestrator runs the fixed job list in order, continuing past
// individual failures unless fail-fast is configured. The aggregate report
// and a non-zero exit for any failed job are the only fatal/non-fatal
// distinction exposed to callers.
type BatchOrchestrator struct {
	runner   jobRunner
	registry *JobRegistry
	reporter *Reporter
	failFast bool
	jobDelay time.Duration
	log      logger.Logger
}

// NewBatchOrchestrator creates a BatchOrchestrator. A negative jobDelay
// falls back to the default.
func NewBatchOrchestrator(runner jobRunner, registry *JobRegistry, reporter *Reporter, failFast bool, jobDelay time.Duration, log logger.Logger) *BatchOrchestrator {
	if jobDelay < 0 {
		jobDelay = DefaultJobDelay
	}
	return &BatchOrchestrator{
		runner:   runner,
		registry: registry,
		reporter: reporter,
		failFast: failFast,
		jobDelay: jobDelay,
		log:      log.WithComponent("orchestrator"),
	}
}

// RunAll executes every registered job and persists the aggregate report.
func (o *BatchOrchestrator) RunAll(ctx context.Context) model.BatchReport {
	report := model.BatchReport{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}

	jobs := o.registry.Jobs()
	for i, job := range jobs {
		start := time.Now()
		runReport, err := o.runner.Run(ctx, job)
		result := model.JobResult{
			Migration:  job.Name,
			DurationMS: time.Since(start).Milliseconds(),
		}

		if err != nil {
			result.Status = model.JobFailed
			result.Error = err.Error()
			report.Summary.Failed++
			o.log.Errorf("job %s failed after %dms: %v", job.Name, result.DurationMS, err)
		} else {
			result.Status = model.JobSucceeded
			result.Stats = runReport.Stats
			report.Summary.Succeeded++
			o.log.Infof("job %s succeeded in %dms", job.Name, result.DurationMS)
		}
		report.Jobs = append(report.Jobs, result)

		if err != nil && o.failFast {
			o.log.Warnf("fail-fast enabled, skipping remaining %d jobs", len(jobs)-i-1)
			break
		}
		if i < len(jobs)-1 && o.jobDelay > 0 {
			time.Sleep(o.jobDelay)
		}
	}

	o.reporter.PersistBatch(ctx, report)
	o.log.Infof("batch finished: %d succeeded, %d failed", report.Summary.Succeeded, report.Summary.Failed)
	return report
}
