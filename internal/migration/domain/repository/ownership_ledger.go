package repository

import (
	"context"

	"workspace-migrator/internal/migration/domain/model"
)

// OwnershipLedger remembers which owner tag was written for a record in a
// previous relation-linking run, and through which cascade tier. Ownership
// is first-write-wins across runs: a tag present in the ledger is reused
// verbatim, even when it came from the random-fallback tier.
type OwnershipLedger interface {
	// Get returns the recorded owner for a record, if any.
	Get(ctx context.Context, collection, recordID string) (model.OwnerTag, bool, error)
	// Record stores a newly resolved owner together with the tier that
	// produced it.
	Record(ctx context.Context, collection, recordID string, owner model.OwnerTag, tier string) error
}
