package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/migration/domain/repository"
)

func TestValidatePasses(t *testing.T) {
	store := newFakeTargetStore()
	store.aggregateFn = func(string, []string) (repository.AggregateResult, error) {
		return repository.AggregateResult{Count: 3, Sums: map[string]float64{"amount": 4500.50}}, nil
	}
	stats := model.NewMigrationStats()

	result := NewValidator(store, testLogger()).Validate(context.Background(), "invoices", 3,
		map[string]float64{"amount": 4500.50}, stats)

	assert.True(t, result.Passed)
	assert.Equal(t, 3, result.ActualCount)
	assert.Empty(t, stats.Warnings)
	require.Len(t, result.SumChecks, 1)
	assert.True(t, result.SumChecks[0].Passed)
}

func TestValidateToleratesRoundingDrift(t *testing.T) {
	store := newFakeTargetStore()
	store.aggregateFn = func(string, []string) (repository.AggregateResult, error) {
		return repository.AggregateResult{Count: 1, Sums: map[string]float64{"amount": 100.009}}, nil
	}

	result := NewValidator(store, testLogger()).Validate(context.Background(), "invoices", 1,
		map[string]float64{"amount": 100.0}, model.NewMigrationStats())

	assert.True(t, result.Passed)
}

func TestValidateCountMismatchIsAdvisory(t *testing.T) {
	store := newFakeTargetStore()
	store.aggregateFn = func(string, []string) (repository.AggregateResult, error) {
		return repository.AggregateResult{Count: 2, Sums: map[string]float64{}}, nil
	}
	stats := model.NewMigrationStats()

	result := NewValidator(store, testLogger()).Validate(context.Background(), "tasks", 5, nil, stats)

	assert.False(t, result.Passed)
	assert.Equal(t, 5, result.ExpectedCount)
	assert.Equal(t, 2, result.ActualCount)
	require.Len(t, stats.Warnings, 1)
	assert.Contains(t, stats.Warnings[0], "tasks")
}

func TestValidateSumMismatch(t *testing.T) {
	store := newFakeTargetStore()
	store.aggregateFn = func(string, []string) (repository.AggregateResult, error) {
		return repository.AggregateResult{Count: 2, Sums: map[string]float64{"amount": 90.0, "total_amount": 200.0}}, nil
	}
	stats := model.NewMigrationStats()

	result := NewValidator(store, testLogger()).Validate(context.Background(), "invoices", 2,
		map[string]float64{"amount": 100.0, "total_amount": 200.0}, stats)

	assert.False(t, result.Passed)
	require.Len(t, result.SumChecks, 2)
	// sortedKeys keeps the check order stable.
	assert.Equal(t, "amount", result.SumChecks[0].Field)
	assert.False(t, result.SumChecks[0].Passed)
	assert.True(t, result.SumChecks[1].Passed)
	require.Len(t, stats.Warnings, 1)
}

func TestValidateAggregateFailureIsAdvisory(t *testing.T) {
	store := newFakeTargetStore()
	store.aggregateFn = func(string, []string) (repository.AggregateResult, error) {
		return repository.AggregateResult{}, fmt.Errorf("store timeout")
	}
	stats := model.NewMigrationStats()

	result := NewValidator(store, testLogger()).Validate(context.Background(), "budgets", 4, nil, stats)

	assert.False(t, result.Passed)
	require.Len(t, stats.Warnings, 1)
	assert.Contains(t, stats.Warnings[0], "validation skipped")
}
