package model

// OwnerTag partitions records by business unit. The set is fixed; every
// loaded record ends up carrying exactly one tag after the relation-linking
// sweep.
type OwnerTag string

const (
	OwnerLexaia OwnerTag = "LEXAIA"
	OwnerFides  OwnerTag = "FIDES"
	OwnerOrbis  OwnerTag = "ORBIS"
)

// AllOwnerTags lists the fixed tenant set in a stable order.
func AllOwnerTags() []OwnerTag {
	return []OwnerTag{OwnerLexaia, OwnerFides, OwnerOrbis}
}

// Valid reports whether the tag is one of the fixed tenant identifiers.
func (o OwnerTag) Valid() bool {
	switch o {
	case OwnerLexaia, OwnerFides, OwnerOrbis:
		return true
	}
	return false
}

// OwnershipCache maps a parent collection's record identifiers to their
// resolved owner tags. Built once per relation-linker run from
// already-resolved parent records, read-only during the sweep.
type OwnershipCache struct {
	owners map[string]OwnerTag
}

// NewOwnershipCache returns an empty cache.
func NewOwnershipCache() *OwnershipCache {
	return &OwnershipCache{owners: make(map[string]OwnerTag)}
}

// Put records the owner for a parent record. Only called during cache build.
func (c *OwnershipCache) Put(recordID string, owner OwnerTag) {
	if recordID == "" || !owner.Valid() {
		return
	}
	c.owners[recordID] = owner
}

// Resolve returns the owner for a parent record ID.
func (c *OwnershipCache) Resolve(recordID string) (OwnerTag, bool) {
	owner, ok := c.owners[recordID]
	return owner, ok
}

// Len returns the number of cached parent records.
func (c *OwnershipCache) Len() int {
	return len(c.owners)
}
