package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/migration/domain/repository"
	"workspace-migrator/internal/shared/logger"
)

// LinkTarget describes one collection covered by the linking sweep.
type LinkTarget struct {
	Collection string
	// OwnerField is the foreign key the sweep backfills.
	OwnerField string
	// ProjectRef is a field carrying an explicit project FK, "" when the
	// collection has none.
	ProjectRef string
	// CompanyRefs are fields carrying company/client FKs, tried in order.
	CompanyRefs []string
	// TextFields feed the keyword/domain heuristic.
	TextFields []string
}

// linkTargets is the fixed sweep order: companies first (they seed the
// company cache), then projects (they seed the project cache), then the
// leaf collections.
func linkTargets() []LinkTarget {
	return []LinkTarget{
		{Collection: "companies", OwnerField: "owner", TextFields: []string{"email", "website", "industry", "name"}},
		{Collection: "projects", OwnerField: "owner", CompanyRefs: []string{"company_id"}, TextFields: []string{"name"}},
		{Collection: "tasks", OwnerField: "owner", ProjectRef: "project_id", TextFields: []string{"name"}},
		{Collection: "invoices", OwnerField: "owner", CompanyRefs: []string{"company_id", "client_id"}, TextFields: []string{"invoice_number"}},
		{Collection: "budgets", OwnerField: "owner", ProjectRef: "project_id", TextFields: []string{"name"}},
		{Collection: "compliance_items", OwnerField: "owner", CompanyRefs: []string{"company_id"}, TextFields: []string{"title"}},
	}
}

// relationSpecs is the foreign-key metadata declared after the sweep.
func relationSpecs() []model.RelationSpec {
	return []model.RelationSpec{
		{Collection: "projects", Field: "company_id", RelatedCollection: "companies"},
		{Collection: "tasks", Field: "project_id", RelatedCollection: "projects"},
		{Collection: "invoices", Field: "company_id", RelatedCollection: "companies"},
		{Collection: "budgets", Field: "project_id", RelatedCollection: "projects"},
		{Collection: "compliance_items", Field: "company_id", RelatedCollection: "companies"},
	}
}

type ownerKeyword struct {
	keyword string
	owner   model.OwnerTag
}

// ownerKeywords maps domain and industry signals to tenants. Ordered;
// first match wins. New variants are additions to this table, not code.
var ownerKeywords = []ownerKeyword{
	{"lexaia.ch", model.OwnerLexaia},
	{"lexaia", model.OwnerLexaia},
	{"legal", model.OwnerLexaia},
	{"recht", model.OwnerLexaia},
	{"anwalt", model.OwnerLexaia},
	{"fides-treuhand.ch", model.OwnerFides},
	{"fides", model.OwnerFides},
	{"treuhand", model.OwnerFides},
	{"fiduciary", model.OwnerFides},
	{"accounting", model.OwnerFides},
	{"buchhaltung", model.OwnerFides},
	{"orbis-consulting.ch", model.OwnerOrbis},
	{"orbis", model.OwnerOrbis},
	{"consulting", model.OwnerOrbis},
	{"beratung", model.OwnerOrbis},
	{"advisory", model.OwnerOrbis},
}

// ResolveOwnerByKeyword matches the keyword table against the text.
func ResolveOwnerByKeyword(text string) (model.OwnerTag, bool) {
	lower := strings.ToLower(text)
	for _, kw := range ownerKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.owner, true
		}
	}
	return "", false
}

type ownerWeight struct {
	owner  model.OwnerTag
	weight int
}

// ownerDistribution is the weighted-random fallback: LEXAIA 45%, FIDES 35%,
// ORBIS 20%. Used only when no deterministic signal exists, so every record
// ends up tagged rather than left null.
var ownerDistribution = []ownerWeight{
	{model.OwnerLexaia, 45},
	{model.OwnerFides, 35},
	{model.OwnerOrbis, 20},
}

// ownerResolver is one tier of the cascade.
type ownerResolver struct {
	tier    string
	resolve func(item map[string]interface{}) (model.OwnerTag, bool)
}

// RelationLinker backfills missing owner foreign keys across the loaded
// target collections using a prioritized cascade, then declares the formal
// relation metadata. Independent of the extract/transform/load flow.
type RelationLinker struct {
	target      repository.TargetStore
	provisioner *SchemaProvisioner
	ledger      repository.OwnershipLedger // nil disables cross-run memory
	pageSize    int
	rng         *rand.Rand
	log         logger.Logger
}

// NewRelationLinker creates a RelationLinker. ledger may be nil.
func NewRelationLinker(target repository.TargetStore, provisioner *SchemaProvisioner, ledger repository.OwnershipLedger, log logger.Logger) *RelationLinker {
	return &RelationLinker{
		target:      target,
		provisioner: provisioner,
		ledger:      ledger,
		pageSize:    DefaultPageSize,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		log:         log.WithComponent("linker"),
	}
}

// Run executes one full linking sweep: companies, then projects, then the
// leaf collections, each against caches pre-loaded from the already-linked
// parents; finally the relation metadata is declared.
func (l *RelationLinker) Run(ctx context.Context) (*model.LinkReport, error) {
	report := &model.LinkReport{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}

	companyCache := model.NewOwnershipCache()
	projectCache := model.NewOwnershipCache()

	for _, lt := range linkTargets() {
		res, err := l.linkCollection(ctx, lt, projectCache, companyCache)
		if err != nil {
			return nil, fmt.Errorf("link %s: %w", lt.Collection, err)
		}
		report.Collections = append(report.Collections, res)

		// Parent caches are built right after their collection is fully
		// tagged, once per run.
		switch lt.Collection {
		case "companies":
			if err := l.buildCache(ctx, "companies", companyCache); err != nil {
				return nil, fmt.Errorf("build company cache: %w", err)
			}
			l.log.Infof("company cache loaded: %d entries", companyCache.Len())
		case "projects":
			if err := l.buildCache(ctx, "projects", projectCache); err != nil {
				return nil, fmt.Errorf("build project cache: %w", err)
			}
			l.log.Infof("project cache loaded: %d entries", projectCache.Len())
		}
	}

	declared, err := l.DeclareRelations(ctx)
	if err != nil {
		return nil, err
	}
	report.RelationsDeclared = declared

	l.log.Infof("linking sweep finished: %d records tagged, %d relations declared",
		report.TotalLinked(), declared)
	return report, nil
}

// buildCache loads every record of a parent collection and indexes its
// owner under both the target item ID and the source record ID, so explicit
// FKs resolve regardless of which identifier the child carries.
func (l *RelationLinker) buildCache(ctx context.Context, collection string, cache *model.OwnershipCache) error {
	items, err := l.listAll(ctx, collection, nil)
	if err != nil {
		return err
	}
	for _, item := range items {
		owner := model.OwnerTag(stringField(item, "owner"))
		if !owner.Valid() {
			continue
		}
		cache.Put(itemID(item), owner)
		cache.Put(stringField(item, model.SourceIDField), owner)
	}
	return nil
}

// linkCollection backfills the owner field for every record missing it.
func (l *RelationLinker) linkCollection(ctx context.Context, lt LinkTarget, projectCache, companyCache *model.OwnershipCache) (model.CollectionLinkResult, error) {
	res := model.CollectionLinkResult{
		Collection: lt.Collection,
		ByTier:     make(map[string]int),
	}

	// Records already tagged stay untouched: the sweep only sees rows where
	// the owner is null.
	items, err := l.listAll(ctx, lt.Collection, map[string]interface{}{lt.OwnerField: nil})
	if err != nil {
		return res, err
	}
	res.Scanned = len(items)

	resolvers := l.cascadeFor(lt, projectCache, companyCache)

	for _, item := range items {
		owner, tier := l.resolveOwner(ctx, lt, item, resolvers)

		id := itemID(item)
		if id == "" {
			res.Failed++
			continue
		}
		if err := l.target.UpdateItem(ctx, lt.Collection, id, map[string]interface{}{lt.OwnerField: string(owner)}); err != nil {
			l.log.Warnf("record %s in %s: owner update failed: %v", id, lt.Collection, err)
			res.Failed++
			continue
		}
		res.Linked++
		res.ByTier[tier]++

		if l.ledger != nil && tier != model.TierLedger {
			sourceID := stringField(item, model.SourceIDField)
			if sourceID != "" {
				if err := l.ledger.Record(ctx, lt.Collection, sourceID, owner, tier); err != nil {
					l.log.Warnf("ownership ledger write failed for %s/%s: %v", lt.Collection, sourceID, err)
				}
			}
		}
	}

	l.log.Infof("linked %d/%d records in %s (%v)", res.Linked, res.Scanned, lt.Collection, res.ByTier)
	return res, nil
}

// cascadeFor builds the ordered resolver list for one collection. First hit
// wins; the trailing random tier guarantees a hit.
func (l *RelationLinker) cascadeFor(lt LinkTarget, projectCache, companyCache *model.OwnershipCache) []ownerResolver {
	var resolvers []ownerResolver

	if lt.ProjectRef != "" {
		ref := lt.ProjectRef
		resolvers = append(resolvers, ownerResolver{
			tier: model.TierProjectFK,
			resolve: func(item map[string]interface{}) (model.OwnerTag, bool) {
				return projectCache.Resolve(stringField(item, ref))
			},
		})
	}
	if len(lt.CompanyRefs) > 0 {
		refs := lt.CompanyRefs
		resolvers = append(resolvers, ownerResolver{
			tier: model.TierCompanyFK,
			resolve: func(item map[string]interface{}) (model.OwnerTag, bool) {
				for _, ref := range refs {
					if owner, ok := companyCache.Resolve(stringField(item, ref)); ok {
						return owner, true
					}
				}
				return "", false
			},
		})
	}
	if len(lt.TextFields) > 0 {
		fields := lt.TextFields
		resolvers = append(resolvers, ownerResolver{
			tier: model.TierKeyword,
			resolve: func(item map[string]interface{}) (model.OwnerTag, bool) {
				var sb strings.Builder
				for _, f := range fields {
					sb.WriteString(stringField(item, f))
					sb.WriteByte(' ')
				}
				return ResolveOwnerByKeyword(sb.String())
			},
		})
	}
	resolvers = append(resolvers, ownerResolver{
		tier: model.TierRandom,
		resolve: func(map[string]interface{}) (model.OwnerTag, bool) {
			return l.randomOwner(), true
		},
	})
	return resolvers
}

// resolveOwner consults the ledger, then walks the cascade.
func (l *RelationLinker) resolveOwner(ctx context.Context, lt LinkTarget, item map[string]interface{}, resolvers []ownerResolver) (model.OwnerTag, string) {
	if l.ledger != nil {
		if sourceID := stringField(item, model.SourceIDField); sourceID != "" {
			owner, ok, err := l.ledger.Get(ctx, lt.Collection, sourceID)
			if err != nil {
				l.log.Warnf("ownership ledger read failed for %s/%s: %v", lt.Collection, sourceID, err)
			} else if ok {
				return owner, model.TierLedger
			}
		}
	}
	for _, r := range resolvers {
		if owner, ok := r.resolve(item); ok {
			return owner, r.tier
		}
	}
	// Unreachable: the random tier always resolves.
	return l.randomOwner(), model.TierRandom
}

func (l *RelationLinker) randomOwner() model.OwnerTag {
	total := 0
	for _, w := range ownerDistribution {
		total += w.weight
	}
	n := l.rng.Intn(total)
	for _, w := range ownerDistribution {
		n -= w.weight
		if n < 0 {
			return w.owner
		}
	}
	return ownerDistribution[len(ownerDistribution)-1].owner
}

// DeclareRelations declares the formal foreign-key metadata, ensuring each
// referenced column exists first. Idempotent; returns the number of
// relations newly created.
func (l *RelationLinker) DeclareRelations(ctx context.Context) (int, error) {
	created := 0
	for _, spec := range relationSpecs() {
		fkField := model.FieldSpec{Field: spec.Field, Type: model.FieldTypeString, Interface: "input"}
		if _, err := l.provisioner.EnsureField(ctx, spec.Collection, fkField); err != nil {
			return created, err
		}
		result, err := l.provisioner.EnsureRelation(ctx, spec)
		if err != nil {
			return created, err
		}
		if result == model.EnsureCreated {
			created++
		}
	}
	return created, nil
}

// listAll pages through a collection. A nil value in the filter means
// "field is null".
func (l *RelationLinker) listAll(ctx context.Context, collection string, filter map[string]interface{}) ([]map[string]interface{}, error) {
	var all []map[string]interface{}
	for page := 1; ; page++ {
		items, err := l.target.ListItems(ctx, collection, filter, l.pageSize, page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < l.pageSize {
			break
		}
	}
	return all, nil
}

func stringField(item map[string]interface{}, key string) string {
	if key == "" || item == nil {
		return ""
	}
	if s, ok := item[key].(string); ok {
		return s
	}
	return ""
}

// itemID renders the target item identifier, tolerating the numeric IDs
// JSON decoding produces.
func itemID(item map[string]interface{}) string {
	switch v := item["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
