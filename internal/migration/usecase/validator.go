package usecase

import (
	"context"
	"math"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/migration/domain/repository"
	"workspace-migrator/internal/shared/logger"
)

// sumTolerance absorbs two-decimal rounding drift in aggregate-sum checks.
const sumTolerance = 0.01

// Validator compares post-load aggregates in the target store against the
// counts and sums the transformer emitted. Validation is advisory:
// mismatches become warnings, never fatal errors, since migrations are
// expected to be re-run.
type Validator struct {
	target repository.TargetStore
	log    logger.Logger
}

// NewValidator creates a Validator.
func NewValidator(target repository.TargetStore, log logger.Logger) *Validator {
	return &Validator{
		target: target,
		log:    log.WithComponent("validator"),
	}
}

// Validate runs one aggregate query and compares the count, plus per-field
// sums for financial collections. expectedSums may be nil for non-financial
// collections.
func (v *Validator) Validate(ctx context.Context, collection string, expectedCount int, expectedSums map[string]float64, stats *model.MigrationStats) model.ValidationResult {
	result := model.ValidationResult{
		Collection:    collection,
		ExpectedCount: expectedCount,
		Passed:        true,
	}

	sumFields := make([]string, 0, len(expectedSums))
	for f := range expectedSums {
		sumFields = append(sumFields, f)
	}

	agg, err := v.target.Aggregate(ctx, collection, sumFields)
	if err != nil {
		v.log.Warnf("validation of %s skipped: aggregate query failed: %v", collection, err)
		stats.AddWarning("validation skipped: " + err.Error())
		result.Passed = false
		return result
	}

	result.ActualCount = agg.Count
	if agg.Count != expectedCount {
		v.log.Warnf("validation mismatch in %s: expected %d records, counted %d", collection, expectedCount, agg.Count)
		stats.AddWarning(countMismatchWarning(collection, expectedCount, agg.Count))
		result.Passed = false
	}

	for _, field := range sortedKeys(expectedSums) {
		expected := expectedSums[field]
		actual := agg.Sums[field]
		check := model.SumCheck{
			Field:    field,
			Expected: expected,
			Actual:   actual,
			Passed:   math.Abs(actual-expected) <= sumTolerance,
		}
		if !check.Passed {
			v.log.Warnf("validation mismatch in %s.%s: expected sum %.2f, got %.2f", collection, field, expected, actual)
			stats.AddWarning(sumMismatchWarning(collection, field, expected, actual))
			result.Passed = false
		}
		result.SumChecks = append(result.SumChecks, check)
	}

	if result.Passed {
		v.log.Infof("validation passed for %s: %d records", collection, agg.Count)
	}
	return result
}
