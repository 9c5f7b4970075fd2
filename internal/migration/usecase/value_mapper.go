package usecase

import (
	"math"
	"strings"
)

// Vocabulary mappers translate source labels (German or English) into the
// target store's fixed vocabularies. Each mapper lower-cases and trims the
// label and falls back to a documented default on a miss; mappers never
// return "". Unanticipated label variants must not stall a migration.

// VocabMapper maps one source label to a target vocabulary value.
type VocabMapper func(label string) string

// mapWithDefault builds a VocabMapper over an immutable lookup table.
func mapWithDefault(table map[string]string, def string) VocabMapper {
	return func(label string) string {
		if v, ok := table[strings.ToLower(strings.TrimSpace(label))]; ok {
			return v
		}
		return def
	}
}

// MapProjectStatus maps project and task status labels; default "planned".
var MapProjectStatus = mapWithDefault(map[string]string{
	"geplant":        "planned",
	"planned":        "planned",
	"in bearbeitung": "in_progress",
	"in progress":    "in_progress",
	"pausiert":       "on_hold",
	"on hold":        "on_hold",
	"abgeschlossen":  "done",
	"done":           "done",
	"completed":      "done",
	"abgebrochen":    "cancelled",
	"cancelled":      "cancelled",
}, "planned")

// MapInvoiceStatus maps invoice status labels; default "open".
var MapInvoiceStatus = mapWithDefault(map[string]string{
	"entwurf":      "draft",
	"draft":        "draft",
	"offen":        "open",
	"open":         "open",
	"sent":         "open",
	"bezahlt":      "paid",
	"paid":         "paid",
	"überfällig":   "overdue",
	"ueberfaellig": "overdue",
	"overdue":      "overdue",
	"storniert":    "void",
	"void":         "void",
}, "open")

// MapRiskLevel maps risk level labels; default "medium".
var MapRiskLevel = mapWithDefault(map[string]string{
	"niedrig":  "low",
	"low":      "low",
	"mittel":   "medium",
	"medium":   "medium",
	"hoch":     "high",
	"high":     "high",
	"kritisch": "critical",
	"critical": "critical",
}, "medium")

// MapComplianceType maps compliance type labels; default "regulatory".
var MapComplianceType = mapWithDefault(map[string]string{
	"datenschutz":   "privacy",
	"privacy":       "privacy",
	"steuern":       "tax",
	"tax":           "tax",
	"arbeitsrecht":  "labor",
	"labor":         "labor",
	"finanzen":      "financial",
	"financial":     "financial",
	"regulatorisch": "regulatory",
	"regulatory":    "regulatory",
}, "regulatory")

// MapComplianceStatus maps compliance status labels; default "review", so
// anything unrecognized lands in the review queue instead of passing
// silently.
var MapComplianceStatus = mapWithDefault(map[string]string{
	"offen":         "open",
	"open":          "open",
	"in prüfung":    "review",
	"in pruefung":   "review",
	"in review":     "review",
	"erfüllt":       "compliant",
	"erfuellt":      "compliant",
	"compliant":     "compliant",
	"nicht erfüllt": "non_compliant",
	"non-compliant": "non_compliant",
}, "review")

// MapBudgetCategory maps budget category labels; default "operations".
var MapBudgetCategory = mapWithDefault(map[string]string{
	"personal":    "staff",
	"staff":       "staff",
	"betrieb":     "operations",
	"operations":  "operations",
	"marketing":   "marketing",
	"it":          "technology",
	"technologie": "technology",
	"technology":  "technology",
	"beratung":    "consulting",
	"consulting":  "consulting",
}, "operations")

// MapBudgetPeriod maps budget period labels; default "monthly".
var MapBudgetPeriod = mapWithDefault(map[string]string{
	"monatlich": "monthly",
	"monthly":   "monthly",
	"quartal":   "quarterly",
	"quarterly": "quarterly",
	"jährlich":  "yearly",
	"jaehrlich": "yearly",
	"yearly":    "yearly",
	"annual":    "yearly",
}, "monthly")

// MapCompanyStatus maps company status labels; default "prospect".
var MapCompanyStatus = mapWithDefault(map[string]string{
	"aktiv":       "active",
	"active":      "active",
	"interessent": "prospect",
	"prospect":    "prospect",
	"lead":        "prospect",
	"archiviert":  "archived",
	"archived":    "archived",
	"inactive":    "archived",
}, "prospect")

// MapTaskPriority maps task priority labels; default "medium".
var MapTaskPriority = mapWithDefault(map[string]string{
	"niedrig":  "low",
	"low":      "low",
	"normal":   "medium",
	"medium":   "medium",
	"hoch":     "high",
	"high":     "high",
	"dringend": "urgent",
	"urgent":   "urgent",
}, "medium")

// round2 rounds to two decimals. Derived monetary fields round after the
// computation, never before.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
