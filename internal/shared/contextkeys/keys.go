package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "workspace-migrator context key " + string(c)
}

// RunIDKey is the key for the migration run identifier in context.Context.
const RunIDKey = contextKey("runID")

// MigrationKey is the key for the current migration job name in context.Context.
const MigrationKey = contextKey("migration")

// CollectionKey is the key for the target collection in context.Context.
const CollectionKey = contextKey("collection")

// ComponentKey is the key for the pipeline component name in context.Context.
const ComponentKey = contextKey("component")
