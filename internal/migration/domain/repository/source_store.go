package repository

import (
	"context"

	"workspace-migrator/internal/migration/domain/model"
)

// SourceStore defines the interface for the document-oriented workspace
// store records are extracted from.
type SourceStore interface {
	// QueryPage returns one page of records from the given source database.
	// startCursor is "" for the first page; the returned page carries the
	// continuation cursor and a has-more flag.
	QueryPage(ctx context.Context, databaseID string, pageSize int, startCursor string) (model.Page, error)
}
