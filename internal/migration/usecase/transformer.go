package usecase

import (
	"fmt"

	"workspace-migrator/internal/migration/domain/model"
	apperrors "workspace-migrator/internal/shared/errors"
	"workspace-migrator/internal/shared/logger"
)

// Transformer shapes raw records into target records by applying a job's
// field mappings, vocabulary mappers and derived fields.
type Transformer struct {
	job *MigrationJob
	log logger.Logger
}

// NewTransformer creates a Transformer for one migration job.
func NewTransformer(job *MigrationJob, log logger.Logger) *Transformer {
	return &Transformer{
		job: job,
		log: log.WithComponent("transformer"),
	}
}

// Transform shapes one raw record. The result always carries the source
// record's identifier. Deterministic: unchanged input yields an identical
// record.
func (t *Transformer) Transform(raw model.RawRecord, stats *model.MigrationStats) (model.TargetRecord, error) {
	rec := model.TargetRecord{model.SourceIDField: raw.ID}

	for _, m := range t.job.Mappings {
		prop, ok := raw.Property(m.Source)
		if m.Vocab != nil {
			// Vocabulary fields always land on a valid value; an absent
			// property maps to the vocabulary default.
			label := ""
			if ok {
				if s, isStr := ExtractProperty(prop).(string); isStr {
					label = s
				}
			}
			rec[m.Target] = m.Vocab(label)
			continue
		}
		if !ok {
			continue
		}
		if v := ExtractProperty(prop); v != nil {
			rec[m.Target] = v
		}
	}

	if t.job.Derive != nil {
		if err := t.job.Derive(raw, rec, stats); err != nil {
			return nil, apperrors.NewRecordError(raw.ID, "derive fields").WithCause(err)
		}
	}

	return rec, nil
}

// TransformAll shapes every record, collecting per-record failures into the
// stats instead of aborting the batch.
func (t *Transformer) TransformAll(records []model.RawRecord, stats *model.MigrationStats) []model.TargetRecord {
	out := make([]model.TargetRecord, 0, len(records))

	for _, raw := range records {
		rec, err := t.transformSafe(raw, stats)
		if err != nil {
			t.log.Warnf("record %s: transform failed: %v", raw.ID, err)
			stats.RecordFailed(raw.ID, err.Error())
			continue
		}
		out = append(out, rec)
	}

	return out
}

// transformSafe converts panics out of derive hooks into per-record errors
// so one malformed record cannot abort the batch.
func (t *Transformer) transformSafe(raw model.RawRecord, stats *model.MigrationStats) (rec model.TargetRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = apperrors.NewRecordError(raw.ID, fmt.Sprintf("transform panicked: %v", r))
		}
	}()
	return t.Transform(raw, stats)
}

// sumField totals a numeric target field over transformed records, for the
// validator's aggregate-sum comparison.
func sumField(records []model.TargetRecord, field string) float64 {
	var total float64
	for _, rec := range records {
		if v, ok := rec[field].(float64); ok {
			total += v
		}
	}
	return round2(total)
}
