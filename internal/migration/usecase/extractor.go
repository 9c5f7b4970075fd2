package usecase

import (
	"context"
	"fmt"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/migration/domain/repository"
	apperrors "workspace-migrator/internal/shared/errors"
	"workspace-migrator/internal/shared/logger"
)

// DefaultPageSize is the source-store query page size.
const DefaultPageSize = 100

// Extractor pulls every record of a source database by following the
// continuation cursor until the store reports no further pages.
type Extractor struct {
	source   repository.SourceStore
	pageSize int
	log      logger.Logger
}

// NewExtractor creates an Extractor. pageSize <= 0 falls back to the
// default.
func NewExtractor(source repository.SourceStore, pageSize int, log logger.Logger) *Extractor {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Extractor{
		source:   source,
		pageSize: pageSize,
		log:      log.WithComponent("extractor"),
	}
}

// ExtractAll accumulates every record of the database. Any page failure
// aborts the whole extraction: a partially extracted set would desynchronize
// the expected-vs-migrated counts downstream.
func (e *Extractor) ExtractAll(ctx context.Context, databaseID string) ([]model.RawRecord, error) {
	if databaseID == "" {
		return nil, fmt.Errorf("%w: empty database ID", apperrors.ErrInvalidDatabaseID)
	}

	var all []model.RawRecord
	cursor := ""
	pages := 0

	for {
		page, err := e.source.QueryPage(ctx, databaseID, e.pageSize, cursor)
		if err != nil {
			return nil, apperrors.NewFatalError(fmt.Sprintf("query page %d (cursor %q) of %s", pages+1, cursor, databaseID)).
				WithCause(fmt.Errorf("%w: %v", apperrors.ErrExtractionFailed, err)).
				WithComponent("extractor")
		}
		pages++
		all = append(all, page.Results...)

		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	e.log.Infof("extracted %d records from %s in %d pages", len(all), databaseID, pages)
	return all, nil
}
