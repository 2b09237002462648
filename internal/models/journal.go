package models

import "time"

// Journal represents a journal header row. Entries live in journal_entries
// and are loaded separately.
type Journal struct {
	JournalID          string     `db:"journal_id"`
	TransactionNumber  string     `db:"transaction_number"` // Unique per fiscal year
	JournalDate        time.Time  `db:"journal_date"`
	Description        string     `db:"description"`
	FiscalYearID       string     `db:"fiscal_year_id"`
	PeriodID           string     `db:"period_id"`
	Status             string     `db:"status"`
	SourceKind         *string    `db:"source_kind"` // Nullable polymorphic origin
	SourceID           *string    `db:"source_id"`
	ReversedJournalID  *string    `db:"reversed_journal_id"`  // Set on a reversal
	ReversingJournalID *string    `db:"reversing_journal_id"` // Set on a reversed original
	ReversalReason     *string    `db:"reversal_reason"`
	ApprovedBy         *string    `db:"approved_by"`
	ApprovedAt         *time.Time `db:"approved_at"`
	PostedBy           *string    `db:"posted_by"`
	PostedAt           *time.Time `db:"posted_at"`
	AuditFields
}
