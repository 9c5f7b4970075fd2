package model

// SourceIDField is the target field carrying the originating raw record's
// identifier. Every loaded record has it, for idempotent re-migration and
// audit.
const SourceIDField = "source_id"

// RawRecord is one record as returned by the source store: an opaque
// identifier plus a bag of typed property values. Immutable once extracted.
type RawRecord struct {
	ID         string                   `json:"id" bson:"_id"`
	Properties map[string]PropertyValue `json:"properties" bson:"properties"`
}

// Property returns the named property and whether it is present.
func (r RawRecord) Property(name string) (PropertyValue, bool) {
	p, ok := r.Properties[name]
	return p, ok
}

// TargetRecord is a transformed record shaped for the target store: a flat
// mapping from target field name to normalized scalar or array value.
type TargetRecord map[string]interface{}

// SourceID returns the originating raw record's identifier, or "" when the
// record was built without one.
func (t TargetRecord) SourceID() string {
	if id, ok := t[SourceIDField].(string); ok {
		return id
	}
	return ""
}

// Page is one page of a paginated source-store query.
type Page struct {
	Results    []RawRecord `json:"results"`
	HasMore    bool        `json:"has_more"`
	NextCursor string      `json:"next_cursor"`
}
