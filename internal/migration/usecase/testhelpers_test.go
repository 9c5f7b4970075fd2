package usecase

import (
	"context"
	"fmt"
	"sync"

	"workspace-migrator/internal/migration/domain/model"
	"workspace-migrator/internal/migration/domain/repository"
	apperrors "workspace-migrator/internal/shared/errors"
	"workspace-migrator/internal/shared/logger"
)

func testLogger() logger.Logger {
	return logger.NewLoggerWithConfig("error", "text")
}

// fakeTargetStore is an in-memory TargetStore. Function fields inject
// failures; when nil the default in-memory behavior applies.
type fakeTargetStore struct {
	mu          sync.Mutex
	collections map[string]model.CollectionSchema
	fields      map[string]model.FieldSpec
	relations   map[string]model.RelationSpec
	items       map[string][]map[string]interface{}

	getCollectionCalls int
	createCollCalls    int

	createCollectionErr error
	createItemsErr      error
	createItemErr       func(rec model.TargetRecord) error
	updateItemErr       func(collection, id string) error
	aggregateFn         func(collection string, sumFields []string) (repository.AggregateResult, error)
}

func newFakeTargetStore() *fakeTargetStore {
	return &fakeTargetStore{
		collections: make(map[string]model.CollectionSchema),
		fields:      make(map[string]model.FieldSpec),
		relations:   make(map[string]model.RelationSpec),
		items:       make(map[string][]map[string]interface{}),
	}
}

func fieldKey(collection, field string) string {
	return collection + "." + field
}

func (s *fakeTargetStore) GetCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCollectionCalls++
	if _, ok := s.collections[name]; ok {
		return nil
	}
	return fmt.Errorf("%w: collection %s", apperrors.ErrNotFound, name)
}

func (s *fakeTargetStore) CreateCollection(ctx context.Context, schema model.CollectionSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCollCalls++
	if s.createCollectionErr != nil {
		return s.createCollectionErr
	}
	if _, ok := s.collections[schema.Collection]; ok {
		return fmt.Errorf("%w: collection %s", apperrors.ErrAlreadyExists, schema.Collection)
	}
	s.collections[schema.Collection] = schema
	return nil
}

func (s *fakeTargetStore) GetField(ctx context.Context, collection, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fields[fieldKey(collection, field)]; ok {
		return nil
	}
	return fmt.Errorf("%w: field %s.%s", apperrors.ErrNotFound, collection, field)
}

func (s *fakeTargetStore) CreateField(ctx context.Context, collection string, field model.FieldSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fieldKey(collection, field.Field)
	if _, ok := s.fields[key]; ok {
		return fmt.Errorf("%w: field %s", apperrors.ErrAlreadyExists, key)
	}
	s.fields[key] = field
	return nil
}

func (s *fakeTargetStore) GetRelation(ctx context.Context, collection, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.relations[fieldKey(collection, field)]; ok {
		return nil
	}
	return fmt.Errorf("%w: relation %s.%s", apperrors.ErrNotFound, collection, field)
}

func (s *fakeTargetStore) CreateRelation(ctx context.Context, spec model.RelationSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fieldKey(spec.Collection, spec.Field)
	if _, ok := s.relations[key]; ok {
		return fmt.Errorf("%w: relation %s", apperrors.ErrAlreadyExists, key)
	}
	s.relations[key] = spec
	return nil
}

func (s *fakeTargetStore) CreateItems(ctx context.Context, collection string, records []model.TargetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createItemsErr != nil {
		return s.createItemsErr
	}
	for _, rec := range records {
		s.items[collection] = append(s.items[collection], map[string]interface{}(rec))
	}
	return nil
}

func (s *fakeTargetStore) CreateItem(ctx context.Context, collection string, record model.TargetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createItemErr != nil {
		if err := s.createItemErr(record); err != nil {
			return err
		}
	}
	s.items[collection] = append(s.items[collection], map[string]interface{}(record))
	return nil
}

func (s *fakeTargetStore) UpdateItem(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateItemErr != nil {
		if err := s.updateItemErr(collection, id); err != nil {
			return err
		}
	}
	for _, item := range s.items[collection] {
		if itemID(item) == id {
			for k, v := range fields {
				item[k] = v
			}
			return nil
		}
	}
	return fmt.Errorf("%w: item %s/%s", apperrors.ErrNotFound, collection, id)
}

func (s *fakeTargetStore) ListItems(ctx context.Context, collection string, filter map[string]interface{}, limit, page int) ([]map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []map[string]interface{}
	for _, item := range s.items[collection] {
		if matchesFilter(item, filter) {
			matched = append(matched, item)
		}
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func matchesFilter(item, filter map[string]interface{}) bool {
	for k, want := range filter {
		got, present := item[k]
		if want == nil {
			if present && got != nil && got != "" {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func (s *fakeTargetStore) Aggregate(ctx context.Context, collection string, sumFields []string) (repository.AggregateResult, error) {
	if s.aggregateFn != nil {
		return s.aggregateFn(collection, sumFields)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result := repository.AggregateResult{
		Count: len(s.items[collection]),
		Sums:  make(map[string]float64),
	}
	for _, field := range sumFields {
		for _, item := range s.items[collection] {
			if v, ok := item[field].(float64); ok {
				result.Sums[field] += v
			}
		}
	}
	return result, nil
}

// fakeSourceStore serves a fixed page sequence; errAtPage injects a failure
// on the 1-based page index.
type fakeSourceStore struct {
	pages     []model.Page
	errAtPage int
	calls     int
	cursors   []string
}

func (s *fakeSourceStore) QueryPage(ctx context.Context, databaseID string, pageSize int, startCursor string) (model.Page, error) {
	s.calls++
	s.cursors = append(s.cursors, startCursor)
	if s.errAtPage > 0 && s.calls == s.errAtPage {
		return model.Page{}, fmt.Errorf("connection reset")
	}
	if s.calls > len(s.pages) {
		return model.Page{}, fmt.Errorf("no page %d", s.calls)
	}
	return s.pages[s.calls-1], nil
}

// fakeReportStore records persisted reports in memory.
type fakeReportStore struct {
	mu      sync.Mutex
	runs    []model.RunReport
	batches []model.BatchReport
	links   []model.LinkReport
}

func (s *fakeReportStore) WriteRunReport(ctx context.Context, report model.RunReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, report)
	return "memory://" + report.RunID, nil
}

func (s *fakeReportStore) WriteBatchReport(ctx context.Context, report model.BatchReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, report)
	return "memory://" + report.RunID, nil
}

func (s *fakeReportStore) WriteLinkReport(ctx context.Context, report model.LinkReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, report)
	return "memory://" + report.RunID, nil
}

// fakeLedger is an in-memory first-write-wins OwnershipLedger.
type fakeLedger struct {
	mu      sync.Mutex
	entries map[string]model.OwnerTag
	tiers   map[string]string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		entries: make(map[string]model.OwnerTag),
		tiers:   make(map[string]string),
	}
}

func ledgerTestKey(collection, recordID string) string {
	return collection + "/" + recordID
}

func (l *fakeLedger) Get(ctx context.Context, collection, recordID string) (model.OwnerTag, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	owner, ok := l.entries[ledgerTestKey(collection, recordID)]
	return owner, ok, nil
}

func (l *fakeLedger) Record(ctx context.Context, collection, recordID string, owner model.OwnerTag, tier string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := ledgerTestKey(collection, recordID)
	if _, ok := l.entries[key]; ok {
		return nil
	}
	l.entries[key] = owner
	l.tiers[key] = tier
	return nil
}

// Property builders for transformer tests.

func titleProp(text string) model.PropertyValue {
	return model.PropertyValue{Type: model.PropertyTitle, Title: []model.TextRun{{PlainText: text}}}
}

func richTextProp(text string) model.PropertyValue {
	return model.PropertyValue{Type: model.PropertyRichText, RichText: []model.TextRun{{PlainText: text}}}
}

func selectProp(name string) model.PropertyValue {
	return model.PropertyValue{Type: model.PropertySelect, Select: &model.SelectOption{Name: name}}
}

func numberProp(v float64) model.PropertyValue {
	return model.PropertyValue{Type: model.PropertyNumber, Number: &v}
}

func dateProp(start string) model.PropertyValue {
	return model.PropertyValue{Type: model.PropertyDate, Date: &model.DateValue{Start: start}}
}
