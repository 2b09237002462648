package domain

import "time"

// AuditAction names the logical action an audit record describes. Lifecycle
// transitions log the action matching the transition, one record per action.
type AuditAction string

const (
	ActionCreate          AuditAction = "CREATE"
	ActionUpdate          AuditAction = "UPDATE"
	ActionSubmit          AuditAction = "SUBMIT"
	ActionApprove         AuditAction = "APPROVE"
	ActionReject          AuditAction = "REJECT"
	ActionPost            AuditAction = "POST"
	ActionReverse         AuditAction = "REVERSE"
	ActionCancel          AuditAction = "CANCEL"
	ActionClosePeriod     AuditAction = "CLOSE_PERIOD"
	ActionReopenPeriod    AuditAction = "REOPEN_PERIOD"
	ActionCloseFiscalYear AuditAction = "CLOSE_FISCAL_YEAR"
)

// IsValid reports whether a is a known audit action.
func (a AuditAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionSubmit, ActionApprove, ActionReject,
		ActionPost, ActionReverse, ActionCancel, ActionClosePeriod,
		ActionReopenPeriod, ActionCloseFiscalYear:
		return true
	}
	return false
}

// EntityKind tags the polymorphic (kind, id) reference used by audit records
// and journal source links. Engine-owned kinds resolve through the entity
// resolver registry; external kinds (payroll run, cash advance) are carried
// as-is and are opaque to the engine.
type EntityKind string

const (
	KindJournal          EntityKind = "journal"
	KindJournalEntry     EntityKind = "journal_entry"
	KindAccount          EntityKind = "account"
	KindFiscalYear       EntityKind = "fiscal_year"
	KindAccountingPeriod EntityKind = "accounting_period"
	KindUser             EntityKind = "user"
	KindPayrollRun       EntityKind = "payroll_run"
	KindCashAdvance      EntityKind = "cash_advance"
)

// FieldChange records one field's before/after values inside an audit record.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// AuditEvent is the payload written to the audit outbox in the same database
// transaction as the financial change it describes. A flush step later copies
// it into the queryable audit trail; until then it stays in the outbox, so an
// event is never recorded for a change that rolled back and never silently
// lost when delivery fails.
type AuditEvent struct {
	EventID    string                 `json:"eventID"`  // Primary Key (e.g., UUID)
	ActorID    *string                `json:"actorID"`  // Nil for system actions
	Action     AuditAction            `json:"action"`   // CREATE, POST, REVERSE, ...
	EntityKind EntityKind             `json:"entityKind"`
	EntityID   string                 `json:"entityID"`
	Changes    map[string]FieldChange `json:"changes"` // field -> {old, new}
	Reason     *string                `json:"reason"`  // Free-text justification
	IPAddress  string                 `json:"ipAddress"`
	UserAgent  string                 `json:"userAgent"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// AuditRecord is one delivered, immutable row of the audit trail. Records are
// never updated; the only permitted delete is maintenance cleanup of rows
// whose referenced entity no longer exists.
type AuditRecord struct {
	RecordID   string                 `json:"recordID"` // Primary Key (e.g., UUID)
	ActorID    *string                `json:"actorID"`  // Nil for system actions
	Action     AuditAction            `json:"action"`
	EntityKind EntityKind             `json:"entityKind"`
	EntityID   string                 `json:"entityID"`
	Changes    map[string]FieldChange `json:"changes"`
	Reason     *string                `json:"reason"`
	IPAddress  string                 `json:"ipAddress"`
	UserAgent  string                 `json:"userAgent"`
	CreatedAt  time.Time              `json:"createdAt"`
}
