package mongosnapshot

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"workspace-migrator/internal/migration/domain/model"
	apperrors "workspace-migrator/internal/shared/errors"
	"workspace-migrator/internal/shared/logger"
)

// SnapshotStore reads raw records from a MongoDB export of the workspace
// store, one snapshot collection per source database, one document per raw
// record. Used for offline re-runs when the workspace API is unavailable
// or rate-limited; it serves the same pages the live API would.
type SnapshotStore struct {
	db  *mongo.Database
	log logger.Logger
}

// NewSnapshotStore creates a snapshot-backed source store.
func NewSnapshotStore(db *mongo.Database, log logger.Logger) *SnapshotStore {
	return &SnapshotStore{
		db:  db,
		log: log.WithComponent("mongo-snapshot"),
	}
}

// QueryPage pages through the snapshot collection ordered by record ID,
// using the last ID of the previous page as the continuation cursor.
func (s *SnapshotStore) QueryPage(ctx context.Context, databaseID string, pageSize int, startCursor string) (model.Page, error) {
	if databaseID == "" {
		return model.Page{}, apperrors.ErrInvalidDatabaseID
	}

	filter := bson.M{}
	if startCursor != "" {
		filter["_id"] = bson.M{"$gt": startCursor}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(pageSize))

	cursor, err := s.db.Collection(databaseID).Find(ctx, filter, opts)
	if err != nil {
		return model.Page{}, fmt.Errorf("%w: query snapshot %s: %v", apperrors.ErrSourceUnavailable, databaseID, err)
	}
	defer cursor.Close(ctx)

	var records []model.RawRecord
	if err := cursor.All(ctx, &records); err != nil {
		return model.Page{}, fmt.Errorf("%w: decode snapshot %s: %v", apperrors.ErrSourceUnavailable, databaseID, err)
	}

	page := model.Page{Results: records}
	if len(records) == pageSize {
		page.HasMore = true
		page.NextCursor = records[len(records)-1].ID
	}

	s.log.Debugf("snapshot %s: fetched %d records (cursor %q)", databaseID, len(records), startCursor)
	return page, nil
}
