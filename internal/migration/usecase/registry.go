package usecase

import (
	"fmt"

	"workspace-migrator/internal/migration/domain/model"
	apperrors "workspace-migrator/internal/shared/errors"
)

// DatabaseIDs carries the per-job source database identifiers, resolved from
// configuration.
type DatabaseIDs struct {
	Companies       string
	Projects        string
	Tasks           string
	Invoices        string
	Budgets         string
	ComplianceItems string
}

// JobRegistry holds the fixed, ordered set of migration jobs. Companies
// migrate first since every other collection links back to them.
type JobRegistry struct {
	order []string
	jobs  map[string]*MigrationJob
}

// NewJobRegistry builds the fixed job list.
func NewJobRegistry(dbs DatabaseIDs) *JobRegistry {
	r := &JobRegistry{jobs: make(map[string]*MigrationJob)}
	for _, job := range []*MigrationJob{
		companiesJob(dbs.Companies),
		projectsJob(dbs.Projects),
		tasksJob(dbs.Tasks),
		invoicesJob(dbs.Invoices),
		budgetsJob(dbs.Budgets),
		complianceItemsJob(dbs.ComplianceItems),
	} {
		r.order = append(r.order, job.Name)
		r.jobs[job.Name] = job
	}
	return r
}

// Get returns the named job.
func (r *JobRegistry) Get(name string) (*MigrationJob, error) {
	job, ok := r.jobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownJob, name)
	}
	return job, nil
}

// Order returns the job names in execution order.
func (r *JobRegistry) Order() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Jobs returns the jobs in execution order.
func (r *JobRegistry) Jobs() []*MigrationJob {
	out := make([]*MigrationJob, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.jobs[name])
	}
	return out
}

func field(name string, t model.FieldType, iface string) model.FieldSpec {
	return model.FieldSpec{Field: name, Type: t, Interface: iface}
}

func choiceField(name string, choices ...string) model.FieldSpec {
	return model.FieldSpec{Field: name, Type: model.FieldTypeString, Interface: "select-dropdown", Choices: choices}
}

func idField() model.FieldSpec {
	return model.FieldSpec{Field: "id", Type: model.FieldTypeInteger}
}

func companiesJob(databaseID string) *MigrationJob {
	return &MigrationJob{
		Name:             "companies",
		SourceDatabaseID: databaseID,
		Collection:       "companies",
		Schema: model.CollectionSchema{
			Collection:    "companies",
			IdentityField: idField(),
			DisplayField:  "name",
			Note:          "Client companies migrated from the workspace store",
			Fields: []model.FieldSpec{
				field("name", model.FieldTypeString, "input"),
				field("email", model.FieldTypeString, "input"),
				field("website", model.FieldTypeString, "input"),
				field("industry", model.FieldTypeString, "input"),
				choiceField("status", "active", "prospect", "archived"),
				field("contact_person", model.FieldTypeString, "input"),
				field("notes", model.FieldTypeText, "input-multiline"),
				field(model.SourceIDField, model.FieldTypeString, "input"),
				choiceField("owner", "LEXAIA", "FIDES", "ORBIS"),
			},
		},
		Mappings: []FieldMapping{
			{Source: "Name", Target: "name"},
			{Source: "E-Mail", Target: "email"},
			{Source: "Website", Target: "website"},
			{Source: "Branche", Target: "industry"},
			{Source: "Status", Target: "status", Vocab: MapCompanyStatus},
			{Source: "Kontakt", Target: "contact_person"},
			{Source: "Notizen", Target: "notes"},
		},
	}
}

func projectsJob(databaseID string) *MigrationJob {
	return &MigrationJob{
		Name:             "projects",
		SourceDatabaseID: databaseID,
		Collection:       "projects",
		Schema: model.CollectionSchema{
			Collection:    "projects",
			IdentityField: idField(),
			DisplayField:  "name",
			Fields: []model.FieldSpec{
				field("name", model.FieldTypeString, "input"),
				choiceField("status", "planned", "in_progress", "on_hold", "done", "cancelled"),
				choiceField("risk_level", "low", "medium", "high", "critical"),
				field("start_date", model.FieldTypeDate, "datetime"),
				field("end_date", model.FieldTypeDate, "datetime"),
				field("tags", model.FieldTypeJSON, "tags"),
				field("company_id", model.FieldTypeString, "input"),
				field(model.SourceIDField, model.FieldTypeString, "input"),
				choiceField("owner", "LEXAIA", "FIDES", "ORBIS"),
			},
		},
		Mappings: []FieldMapping{
			{Source: "Name", Target: "name"},
			{Source: "Status", Target: "status", Vocab: MapProjectStatus},
			{Source: "Risiko", Target: "risk_level", Vocab: MapRiskLevel},
			{Source: "Start", Target: "start_date"},
			{Source: "Ende", Target: "end_date"},
			{Source: "Tags", Target: "tags"},
			{Source: "Kunde", Target: "company_id"},
		},
	}
}

func tasksJob(databaseID string) *MigrationJob {
	return &MigrationJob{
		Name:             "tasks",
		SourceDatabaseID: databaseID,
		Collection:       "tasks",
		Schema: model.CollectionSchema{
			Collection:    "tasks",
			IdentityField: idField(),
			DisplayField:  "name",
			Fields: []model.FieldSpec{
				field("name", model.FieldTypeString, "input"),
				choiceField("status", "planned", "in_progress", "on_hold", "done", "cancelled"),
				choiceField("priority", "low", "medium", "high", "urgent"),
				field("due_date", model.FieldTypeDate, "datetime"),
				field("project_id", model.FieldTypeString, "input"),
				field("assignee", model.FieldTypeString, "input"),
				field("attachments", model.FieldTypeJSON, "list"),
				field(model.SourceIDField, model.FieldTypeString, "input"),
				choiceField("owner", "LEXAIA", "FIDES", "ORBIS"),
			},
		},
		Mappings: []FieldMapping{
			{Source: "Name", Target: "name"},
			{Source: "Status", Target: "status", Vocab: MapProjectStatus},
			{Source: "Priorität", Target: "priority", Vocab: MapTaskPriority},
			{Source: "Fällig", Target: "due_date"},
			{Source: "Projekt", Target: "project_id"},
			{Source: "Zuständig", Target: "assignee"},
			{Source: "Anhänge", Target: "attachments"},
		},
	}
}

func invoicesJob(databaseID string) *MigrationJob {
	return &MigrationJob{
		Name:             "invoices",
		SourceDatabaseID: databaseID,
		Collection:       "invoices",
		Schema: model.CollectionSchema{
			Collection:    "invoices",
			IdentityField: idField(),
			DisplayField:  "invoice_number",
			Fields: []model.FieldSpec{
				field("invoice_number", model.FieldTypeString, "input"),
				field("amount", model.FieldTypeFloat, "input"),
				field("vat_rate", model.FieldTypeFloat, "input"),
				field("vat_amount", model.FieldTypeFloat, "input"),
				field("total_amount", model.FieldTypeFloat, "input"),
				choiceField("status", "draft", "open", "paid", "overdue", "void"),
				field("issued_at", model.FieldTypeDate, "datetime"),
				field("due_date", model.FieldTypeDate, "datetime"),
				field("company_id", model.FieldTypeString, "input"),
				field(model.SourceIDField, model.FieldTypeString, "input"),
				choiceField("owner", "LEXAIA", "FIDES", "ORBIS"),
			},
		},
		Mappings: []FieldMapping{
			{Source: "Nummer", Target: "invoice_number"},
			{Source: "Betrag", Target: "amount"},
			{Source: "MwSt-Satz", Target: "vat_rate"},
			{Source: "Status", Target: "status", Vocab: MapInvoiceStatus},
			{Source: "Rechnungsdatum", Target: "issued_at"},
			{Source: "Fällig", Target: "due_date"},
			{Source: "Kunde", Target: "company_id"},
		},
		Derive:    deriveInvoiceAmounts,
		SumFields: []string{"amount", "total_amount"},
	}
}

// deriveInvoiceAmounts computes VAT and total from the mapped amount and
// rate. Rounding happens after the multiplication so 1234.56 at 8.1%
// yields exactly 100.00.
func deriveInvoiceAmounts(raw model.RawRecord, rec model.TargetRecord, _ *model.MigrationStats) error {
	amount := extractNumber(raw, "Betrag")
	rate := extractNumber(raw, "MwSt-Satz")
	vat := round2(amount * rate / 100)
	rec["vat_amount"] = vat
	rec["total_amount"] = round2(amount + vat)
	return nil
}

func budgetsJob(databaseID string) *MigrationJob {
	return &MigrationJob{
		Name:             "budgets",
		SourceDatabaseID: databaseID,
		Collection:       "budgets",
		Schema: model.CollectionSchema{
			Collection:    "budgets",
			IdentityField: idField(),
			DisplayField:  "name",
			Fields: []model.FieldSpec{
				field("name", model.FieldTypeString, "input"),
				choiceField("category", "staff", "operations", "marketing", "technology", "consulting"),
				choiceField("period", "monthly", "quarterly", "yearly"),
				field("amount", model.FieldTypeFloat, "input"),
				field("spent_amount", model.FieldTypeFloat, "input"),
				field("remaining_amount", model.FieldTypeFloat, "input"),
				field("over_budget", model.FieldTypeBoolean, "boolean"),
				field("project_id", model.FieldTypeString, "input"),
				field(model.SourceIDField, model.FieldTypeString, "input"),
				choiceField("owner", "LEXAIA", "FIDES", "ORBIS"),
			},
		},
		Mappings: []FieldMapping{
			{Source: "Name", Target: "name"},
			{Source: "Kategorie", Target: "category", Vocab: MapBudgetCategory},
			{Source: "Periode", Target: "period", Vocab: MapBudgetPeriod},
			{Source: "Betrag", Target: "amount"},
			{Source: "Ausgegeben", Target: "spent_amount"},
			{Source: "Projekt", Target: "project_id"},
		},
		Derive:    deriveBudgetAmounts,
		SumFields: []string{"amount", "spent_amount"},
	}
}

// deriveBudgetAmounts computes the remaining amount and flags overspent
// budgets. Over-budget is advisory: the record still migrates, the overage
// lands in the report warnings.
func deriveBudgetAmounts(raw model.RawRecord, rec model.TargetRecord, stats *model.MigrationStats) error {
	amount := extractNumber(raw, "Betrag")
	spent := extractNumber(raw, "Ausgegeben")
	rec["remaining_amount"] = round2(amount - spent)
	over := spent > amount
	rec["over_budget"] = over
	if over && stats != nil {
		stats.RecordOverBudget(raw.ID, round2(spent-amount))
	}
	return nil
}

func complianceItemsJob(databaseID string) *MigrationJob {
	return &MigrationJob{
		Name:             "compliance_items",
		SourceDatabaseID: databaseID,
		Collection:       "compliance_items",
		Schema: model.CollectionSchema{
			Collection:    "compliance_items",
			IdentityField: idField(),
			DisplayField:  "title",
			Fields: []model.FieldSpec{
				field("title", model.FieldTypeString, "input"),
				choiceField("compliance_type", "privacy", "tax", "labor", "financial", "regulatory"),
				choiceField("status", "open", "review", "compliant", "non_compliant"),
				choiceField("risk_level", "low", "medium", "high", "critical"),
				field("review_date", model.FieldTypeDate, "datetime"),
				field("responsible", model.FieldTypeString, "input"),
				field("documents", model.FieldTypeJSON, "list"),
				field("company_id", model.FieldTypeString, "input"),
				field(model.SourceIDField, model.FieldTypeString, "input"),
				choiceField("owner", "LEXAIA", "FIDES", "ORBIS"),
			},
		},
		Mappings: []FieldMapping{
			{Source: "Titel", Target: "title"},
			{Source: "Typ", Target: "compliance_type", Vocab: MapComplianceType},
			{Source: "Status", Target: "status", Vocab: MapComplianceStatus},
			{Source: "Risiko", Target: "risk_level", Vocab: MapRiskLevel},
			{Source: "Prüfdatum", Target: "review_date"},
			{Source: "Zuständig", Target: "responsible"},
			{Source: "Dokumente", Target: "documents"},
			{Source: "Firma", Target: "company_id"},
		},
	}
}
