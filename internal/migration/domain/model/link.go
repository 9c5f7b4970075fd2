package model

import "time"

// Cascade tier names, in resolution order. Ledger is consulted before the
// cascade: ownership is first-write-wins across runs.
const (
	TierLedger    = "ledger"
	TierProjectFK = "project_fk"
	TierCompanyFK = "company_fk"
	TierKeyword   = "keyword"
	TierRandom    = "random"
)

// CollectionLinkResult is the per-collection outcome of one linking sweep.
type CollectionLinkResult struct {
	Collection string         `json:"collection"`
	Scanned    int            `json:"scanned"`
	Linked     int            `json:"linked"`
	Failed     int            `json:"failed"`
	ByTier     map[string]int `json:"by_tier"`
}

// LinkReport is the persisted artifact of one relation-linking run.
type LinkReport struct {
	RunID             string                 `json:"run_id"`
	Timestamp         time.Time              `json:"timestamp"`
	Collections       []CollectionLinkResult `json:"collections"`
	RelationsDeclared int                    `json:"relations_declared"`
}

// TotalLinked sums linked records across collections.
func (r LinkReport) TotalLinked() int {
	total := 0
	for _, c := range r.Collections {
		total += c.Linked
	}
	return total
}
