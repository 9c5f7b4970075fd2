package usecase

import (
	"context"
	"fmt"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/migration/domain/repository"
	apperrors "workspace-migrator/internal/shared/errors"
	"workspace-migrator/internal/shared/logger"
)

// SchemaProvisioner ensures target collections, fields and relations exist
// before records are loaded. All operations are idempotent: migrations are
// re-run after partial failures, and an "already exists" answer from the
// store (a race with a previous run) counts as success.
type SchemaProvisioner struct {
	target repository.TargetStore
	log    logger.Logger
}

// NewSchemaProvisioner creates a SchemaProvisioner.
func NewSchemaProvisioner(target repository.TargetStore, log logger.Logger) *SchemaProvisioner {
	return &SchemaProvisioner{
		target: target,
		log:    log.WithComponent("provisioner"),
	}
}

// EnsureCollection makes sure the collection exists. Read, create on
// not-found, treat a create-time conflict as exists.
func (p *SchemaProvisioner) EnsureCollection(ctx context.Context, schema model.CollectionSchema) (model.EnsureResult, error) {
	err := p.target.GetCollection(ctx, schema.Collection)
	if err == nil {
		return model.EnsureExists, nil
	}
	if !apperrors.IsNotFound(err) {
		return "", fmt.Errorf("read collection %s: %w", schema.Collection, err)
	}

	if err := p.target.CreateCollection(ctx, schema); err != nil {
		if apperrors.IsAlreadyExists(err) {
			return model.EnsureExists, nil
		}
		return "", fmt.Errorf("create collection %s: %w", schema.Collection, err)
	}

	p.log.Infof("created collection %s", schema.Collection)
	return model.EnsureCreated, nil
}

// EnsureField makes sure the field exists on the collection.
func (p *SchemaProvisioner) EnsureField(ctx context.Context, collection string, spec model.FieldSpec) (model.EnsureResult, error) {
	err := p.target.GetField(ctx, collection, spec.Field)
	if err == nil {
		return model.EnsureExists, nil
	}
	if !apperrors.IsNotFound(err) {
		return "", fmt.Errorf("read field %s.%s: %w", collection, spec.Field, err)
	}

	if err := p.target.CreateField(ctx, collection, spec); err != nil {
		if apperrors.IsAlreadyExists(err) {
			return model.EnsureExists, nil
		}
		return "", fmt.Errorf("create field %s.%s: %w", collection, spec.Field, err)
	}

	p.log.Infof("created field %s.%s", collection, spec.Field)
	return model.EnsureCreated, nil
}

// EnsureRelation makes sure the foreign-key metadata exists.
func (p *SchemaProvisioner) EnsureRelation(ctx context.Context, spec model.RelationSpec) (model.EnsureResult, error) {
	err := p.target.GetRelation(ctx, spec.Collection, spec.Field)
	if err == nil {
		return model.EnsureExists, nil
	}
	if !apperrors.IsNotFound(err) {
		return "", fmt.Errorf("read relation %s.%s: %w", spec.Collection, spec.Field, err)
	}

	if err := p.target.CreateRelation(ctx, spec); err != nil {
		if apperrors.IsAlreadyExists(err) {
			return model.EnsureExists, nil
		}
		return "", fmt.Errorf("create relation %s.%s -> %s: %w", spec.Collection, spec.Field, spec.RelatedCollection, err)
	}

	p.log.Infof("created relation %s.%s -> %s", spec.Collection, spec.Field, spec.RelatedCollection)
	return model.EnsureCreated, nil
}

// Provision ensures the job's collection and every declared field. A failure
// here is fatal for the migration run.
func (p *SchemaProvisioner) Provision(ctx context.Context, job *MigrationJob) error {
	if _, err := p.EnsureCollection(ctx, job.Schema); err != nil {
		return provisioningFatal(job.Collection, err)
	}
	for _, spec := range job.Schema.Fields {
		if _, err := p.EnsureField(ctx, job.Collection, spec); err != nil {
			return provisioningFatal(job.Collection, err)
		}
	}
	return nil
}

func provisioningFatal(collection string, err error) *apperrors.AppError {
	return apperrors.NewFatalError("provisioning " + collection).
		WithCause(fmt.Errorf("%w: %v", apperrors.ErrSchemaProvisioning, err)).
		WithComponent("provisioner")
}
