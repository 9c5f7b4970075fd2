package model

import (
	"fmt"
	"time"
)

// RecordFailure is one record-level, recovered error.
type RecordFailure struct {
	SourceID string `json:"source_id"`
	Message  string `json:"message"`
}

// MigrationStats accumulates the outcome of one migration job. Mutated
// monotonically during the run and finalized into the report at run end.
// Total is fixed once extraction completes; Migrated+Failed never exceeds
// Total because every record is counted exactly once by the pipeline.
type MigrationStats struct {
	Total      int             `json:"total"`
	Migrated   int             `json:"migrated"`
	Failed     int             `json:"failed"`
	OverBudget int             `json:"over_budget,omitempty"`
	Warnings   []string        `json:"warnings"`
	Errors     []RecordFailure `json:"-"`
}

// NewMigrationStats returns zeroed stats with allocated slices so the report
// serializes [] rather than null.
func NewMigrationStats() *MigrationStats {
	return &MigrationStats{
		Warnings: []string{},
		Errors:   []RecordFailure{},
	}
}

// SetTotal freezes the expected record count. Only the first call takes
// effect.
func (s *MigrationStats) SetTotal(n int) {
	if s.Total == 0 {
		s.Total = n
	}
}

// AddMigrated counts n records as successfully loaded.
func (s *MigrationStats) AddMigrated(n int) {
	s.Migrated += n
}

// RecordFailed counts one record as failed and keeps its error for the
// report.
func (s *MigrationStats) RecordFailed(sourceID, message string) {
	s.Failed++
	s.Errors = append(s.Errors, RecordFailure{SourceID: sourceID, Message: message})
}

// AddWarning appends an advisory warning.
func (s *MigrationStats) AddWarning(message string) {
	s.Warnings = append(s.Warnings, message)
}

// RecordOverBudget counts one over-budget record. Advisory: the record still
// migrates, the condition is surfaced in the report.
func (s *MigrationStats) RecordOverBudget(sourceID string, overage float64) {
	s.OverBudget++
	s.AddWarning(overBudgetWarning(sourceID, overage))
}

func overBudgetWarning(sourceID string, overage float64) string {
	return fmt.Sprintf("record %s over budget by %.2f", sourceID, overage)
}

// SumCheck is one aggregate-sum comparison of a financial field.
type SumCheck struct {
	Field    string  `json:"field"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
	Passed   bool    `json:"passed"`
}

// ValidationResult is the advisory outcome of the post-load validation.
type ValidationResult struct {
	Collection    string     `json:"collection"`
	ExpectedCount int        `json:"expected_count"`
	ActualCount   int        `json:"actual_count"`
	SumChecks     []SumCheck `json:"sum_checks,omitempty"`
	Passed        bool       `json:"passed"`
}

// RunReport is the persisted artifact of one migration job run.
type RunReport struct {
	Migration  string            `json:"migration"`
	RunID      string            `json:"run_id"`
	Timestamp  time.Time         `json:"timestamp"`
	Stats      *MigrationStats   `json:"stats"`
	Errors     []RecordFailure   `json:"errors"`
	Validation *ValidationResult `json:"validation,omitempty"`
}

// JobStatus is the terminal state of one orchestrated job.
type JobStatus string

const (
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// JobResult is one entry of the batch aggregate report.
type JobResult struct {
	Migration  string          `json:"migration"`
	Status     JobStatus       `json:"status"`
	DurationMS int64           `json:"duration_ms"`
	Error      string          `json:"error,omitempty"`
	Stats      *MigrationStats `json:"stats,omitempty"`
}

// BatchReport aggregates one orchestrated batch run.
type BatchReport struct {
	RunID     string       `json:"run_id"`
	Timestamp time.Time    `json:"timestamp"`
	Jobs      []JobResult  `json:"jobs"`
	Summary   BatchSummary `json:"summary"`
}

// BatchSummary counts job outcomes.
type BatchSummary struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// HasFailures reports whether any job in the batch failed.
func (b BatchReport) HasFailures() bool {
	return b.Summary.Failed > 0
}
