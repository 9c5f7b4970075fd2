package model

// FieldType is the target store's column type vocabulary.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeText    FieldType = "text"
	FieldTypeInteger FieldType = "integer"
	FieldTypeFloat   FieldType = "float"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeUUID    FieldType = "uuid"
	FieldTypeJSON    FieldType = "json"
)

// FieldSpec declares one target collection field.
type FieldSpec struct {
	Field     string    `json:"field"`
	Type      FieldType `json:"type"`
	Interface string    `json:"interface,omitempty"`
	Choices   []string  `json:"choices,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// CollectionSchema declares a target collection: its identity field, the
// field shown in listings, and the remaining fields. Never mutated after
// creation; re-applying it to an existing collection is a no-op.
type CollectionSchema struct {
	Collection    string      `json:"collection"`
	IdentityField FieldSpec   `json:"identity_field"`
	DisplayField  string      `json:"display_field,omitempty"`
	Note          string      `json:"note,omitempty"`
	Fields        []FieldSpec `json:"fields"`
}

// AllFields returns the identity field followed by the declared fields.
func (s CollectionSchema) AllFields() []FieldSpec {
	out := make([]FieldSpec, 0, len(s.Fields)+1)
	out = append(out, s.IdentityField)
	out = append(out, s.Fields...)
	return out
}

// RelationSpec declares an intended foreign key between two target
// collections. Declared once; creation tolerates "already exists".
type RelationSpec struct {
	Collection        string `json:"collection"`
	Field             string `json:"field"`
	RelatedCollection string `json:"related_collection"`
}

// EnsureResult is the outcome of an idempotent ensure-style schema call.
type EnsureResult string

const (
	EnsureCreated EnsureResult = "created"
	EnsureExists  EnsureResult = "exists"
)
