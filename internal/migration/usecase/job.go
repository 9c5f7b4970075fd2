package usecase

import (
	"workspace-migrator/internal/migration/domain/model"
)

// FieldMapping maps one source property to one target field. When Vocab is
// set, the extracted value is passed through the vocabulary mapper (an
// absent property maps to the vocabulary's default).
type FieldMapping struct {
	Source string
	Target string
	Vocab  VocabMapper
}

// DeriveFunc computes collection-specific derived fields after the mapped
// fields are in place. Advisory conditions go to stats; a returned error
// fails only this record.
type DeriveFunc func(raw model.RawRecord, rec model.TargetRecord, stats *model.MigrationStats) error

// MigrationJob declares one fixed migration: a source database, a target
// collection schema, the field mappings, and optional derived fields.
type MigrationJob struct {
	Name             string
	SourceDatabaseID string
	Collection       string
	Schema           model.CollectionSchema
	Mappings         []FieldMapping
	Derive           DeriveFunc
	// SumFields are the monetary fields the validator cross-checks with
	// aggregate sums.
	SumFields []string
}
