package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/shared/logger"
)

// FileReportStore writes reports as timestamped JSON artifacts under the
// report directory. The artifact name carries the migration name and run
// date so operators can find a run without opening files.
type FileReportStore struct {
	dir string
	log logger.Logger
}

// NewFileReportStore creates a filesystem report store.
func NewFileReportStore(dir string, log logger.Logger) *FileReportStore {
	return &FileReportStore{
		dir: dir,
		log: log.WithComponent("report-store"),
	}
}

// WriteRunReport persists one job report.
func (s *FileReportStore) WriteRunReport(_ context.Context, report model.RunReport) (string, error) {
	name := fmt.Sprintf("%s-%s-%s.json", report.Migration, report.Timestamp.Format("2006-01-02"), shortID(report.RunID))
	return s.write(name, report)
}

// WriteBatchReport persists one aggregate batch report.
func (s *FileReportStore) WriteBatchReport(_ context.Context, report model.BatchReport) (string, error) {
	name := fmt.Sprintf("batch-%s-%s.json", report.Timestamp.Format("2006-01-02"), shortID(report.RunID))
	return s.write(name, report)
}

// WriteLinkReport persists one relation-linking report.
func (s *FileReportStore) WriteLinkReport(_ context.Context, report model.LinkReport) (string, error) {
	name := fmt.Sprintf("link-%s-%s.json", report.Timestamp.Format("2006-01-02"), shortID(report.RunID))
	return s.write(name, report)
}

func (s *FileReportStore) write(name string, report interface{}) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
