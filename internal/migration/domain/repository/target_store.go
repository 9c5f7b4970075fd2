package repository

import (
	"context"

	"workspace-migrator/internal/migration/domain/model"
)

// AggregateResult is the outcome of an aggregate-count/sum query against a
// target collection.
type AggregateResult struct {
	Count int
	Sums  map[string]float64
}

// TargetStore defines the interface for the relational target store: schema
// management plus item CRUD and aggregates. Read methods return an error
// satisfying errors.IsNotFound when the resource does not exist; create
// methods return an error satisfying errors.IsAlreadyExists when it does.
type TargetStore interface {
	// Schema methods
	GetCollection(ctx context.Context, name string) error
	CreateCollection(ctx context.Context, schema model.CollectionSchema) error
	GetField(ctx context.Context, collection, field string) error
	CreateField(ctx context.Context, collection string, field model.FieldSpec) error
	GetRelation(ctx context.Context, collection, field string) error
	CreateRelation(ctx context.Context, spec model.RelationSpec) error

	// Item methods
	CreateItems(ctx context.Context, collection string, records []model.TargetRecord) error
	CreateItem(ctx context.Context, collection string, record model.TargetRecord) error
	UpdateItem(ctx context.Context, collection, id string, fields map[string]interface{}) error
	ListItems(ctx context.Context, collection string, filter map[string]interface{}, limit, page int) ([]map[string]interface{}, error)
	Aggregate(ctx context.Context, collection string, sumFields []string) (AggregateResult, error)
}
