package usecase

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workspace-migrator/internal/migration/domain/model"
)

func TestResolveOwnerByKeyword(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected model.OwnerTag
		found    bool
	}{
		{"lexaia mail domain", "kontakt@lexaia.ch", model.OwnerLexaia, true},
		{"legal industry", "Legal Services AG", model.OwnerLexaia, true},
		{"german legal keyword", "Anwaltskanzlei Muster", model.OwnerLexaia, true},
		{"fides domain", "https://fides-treuhand.ch", model.OwnerFides, true},
		{"treuhand keyword", "Treuhand und Revision", model.OwnerFides, true},
		{"accounting keyword", "ACME Accounting", model.OwnerFides, true},
		{"orbis keyword", "Orbis Gruppe", model.OwnerOrbis, true},
		{"consulting keyword", "Strategy Consulting GmbH", model.OwnerOrbis, true},
		{"case insensitive", "INFO@LEXAIA.CH", model.OwnerLexaia, true},
		{"no signal", "Bäckerei Frisch", "", false},
		{"empty text", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, ok := ResolveOwnerByKeyword(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, owner)
		})
	}
}

func newTestLinker(store *fakeTargetStore, ledger *fakeLedger) *RelationLinker {
	var l *RelationLinker
	if ledger != nil {
		l = NewRelationLinker(store, NewSchemaProvisioner(store, testLogger()), ledger, testLogger())
	} else {
		l = NewRelationLinker(store, NewSchemaProvisioner(store, testLogger()), nil, testLogger())
	}
	l.rng = rand.New(rand.NewSource(1))
	return l
}

func seedItem(store *fakeTargetStore, collection string, item map[string]interface{}) {
	store.items[collection] = append(store.items[collection], item)
}

func ownerOf(store *fakeTargetStore, collection, id string) string {
	for _, item := range store.items[collection] {
		if itemID(item) == id {
			return stringField(item, "owner")
		}
	}
	return ""
}

func TestLinkerKeywordTier(t *testing.T) {
	store := newFakeTargetStore()
	seedItem(store, "companies", map[string]interface{}{
		"id": "c1", "source_id": "src-c1", "email": "info@lexaia.ch",
	})
	seedItem(store, "companies", map[string]interface{}{
		"id": "c2", "source_id": "src-c2", "name": "Fides Treuhand AG",
	})

	report, err := newTestLinker(store, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "LEXAIA", ownerOf(store, "companies", "c1"))
	assert.Equal(t, "FIDES", ownerOf(store, "companies", "c2"))

	companies := report.Collections[0]
	assert.Equal(t, "companies", companies.Collection)
	assert.Equal(t, 2, companies.Scanned)
	assert.Equal(t, 2, companies.Linked)
	assert.Equal(t, 2, companies.ByTier[model.TierKeyword])
}

func TestLinkerExplicitFKBeatsKeyword(t *testing.T) {
	store := newFakeTargetStore()
	seedItem(store, "companies", map[string]interface{}{
		"id": "c1", "source_id": "src-c1", "name": "Fides Treuhand AG",
	})
	// The project's name screams LEXAIA, but its company FK points at a
	// FIDES company; the FK tier sits above the keyword tier.
	seedItem(store, "projects", map[string]interface{}{
		"id": "p1", "source_id": "src-p1", "name": "Lexaia Rollout", "company_id": "c1",
	})

	report, err := newTestLinker(store, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "FIDES", ownerOf(store, "projects", "p1"))
	projects := report.Collections[1]
	assert.Equal(t, 1, projects.ByTier[model.TierCompanyFK])
	assert.Zero(t, projects.ByTier[model.TierKeyword])
}

func TestLinkerFKResolvesThroughSourceID(t *testing.T) {
	store := newFakeTargetStore()
	seedItem(store, "companies", map[string]interface{}{
		"id": "c1", "source_id": "src-c1", "email": "mail@orbis-consulting.ch",
	})
	// The invoice carries the workspace-side identifier, not the target
	// item ID; the cache indexes both.
	seedItem(store, "invoices", map[string]interface{}{
		"id": "i1", "source_id": "src-i1", "company_id": "src-c1",
	})

	_, err := newTestLinker(store, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORBIS", ownerOf(store, "invoices", "i1"))
}

func TestLinkerCascadesProjectFKForTasks(t *testing.T) {
	store := newFakeTargetStore()
	seedItem(store, "companies", map[string]interface{}{
		"id": "c1", "source_id": "src-c1", "email": "info@lexaia.ch",
	})
	seedItem(store, "projects", map[string]interface{}{
		"id": "p1", "source_id": "src-p1", "company_id": "c1",
	})
	seedItem(store, "tasks", map[string]interface{}{
		"id": "t1", "source_id": "src-t1", "project_id": "p1",
	})

	report, err := newTestLinker(store, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "LEXAIA", ownerOf(store, "tasks", "t1"), "ownership cascades company -> project -> task")
	tasks := report.Collections[2]
	assert.Equal(t, 1, tasks.ByTier[model.TierProjectFK])
}

func TestLinkerRandomFallbackProducesValidTag(t *testing.T) {
	store := newFakeTargetStore()
	for i := 0; i < 20; i++ {
		seedItem(store, "companies", map[string]interface{}{
			"id": string(rune('a' + i)), "source_id": "src", "name": "Firma",
		})
	}

	report, err := newTestLinker(store, nil).Run(context.Background())
	require.NoError(t, err)

	companies := report.Collections[0]
	assert.Equal(t, 20, companies.ByTier[model.TierRandom])
	for _, item := range store.items["companies"] {
		assert.True(t, model.OwnerTag(stringField(item, "owner")).Valid())
	}
}

func TestLinkerSkipsAlreadyTaggedRecords(t *testing.T) {
	store := newFakeTargetStore()
	seedItem(store, "companies", map[string]interface{}{
		"id": "c1", "source_id": "src-c1", "owner": "ORBIS", "email": "info@lexaia.ch",
	})

	report, err := newTestLinker(store, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ORBIS", ownerOf(store, "companies", "c1"), "existing tags are never rewritten")
	assert.Zero(t, report.Collections[0].Scanned)
}

func TestLinkerLedgerWinsOverCascade(t *testing.T) {
	store := newFakeTargetStore()
	seedItem(store, "companies", map[string]interface{}{
		"id": "c1", "source_id": "src-c1", "email": "info@lexaia.ch",
	})
	ledger := newFakeLedger()
	// A previous run resolved this record to ORBIS; first write wins, even
	// against a deterministic keyword signal.
	require.NoError(t, ledger.Record(context.Background(), "companies", "src-c1", model.OwnerOrbis, model.TierRandom))

	report, err := newTestLinker(store, ledger).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ORBIS", ownerOf(store, "companies", "c1"))
	assert.Equal(t, 1, report.Collections[0].ByTier[model.TierLedger])
}

func TestLinkerRecordsNewResolutionsInLedger(t *testing.T) {
	store := newFakeTargetStore()
	seedItem(store, "companies", map[string]interface{}{
		"id": "c1", "source_id": "src-c1", "email": "info@lexaia.ch",
	})
	ledger := newFakeLedger()

	_, err := newTestLinker(store, ledger).Run(context.Background())
	require.NoError(t, err)

	owner, ok, err := ledger.Get(context.Background(), "companies", "src-c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.OwnerLexaia, owner)
	assert.Equal(t, model.TierKeyword, ledger.tiers[ledgerTestKey("companies", "src-c1")])
}

func TestDeclareRelations(t *testing.T) {
	store := newFakeTargetStore()
	linker := newTestLinker(store, nil)

	created, err := linker.DeclareRelations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, created)
	assert.Contains(t, store.relations, fieldKey("tasks", "project_id"))
	assert.Contains(t, store.relations, fieldKey("compliance_items", "company_id"))

	// Second declaration is a no-op.
	created, err = linker.DeclareRelations(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
}
