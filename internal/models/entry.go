package models

import "github.com/shopspring/decimal"

// JournalEntry represents a single debit or credit line within a journal.
type JournalEntry struct {
	EntryID   string          `db:"entry_id"`
	JournalID string          `db:"journal_id"`
	AccountID string          `db:"account_id"`
	EntryType string          `db:"entry_type"` // DEBIT or CREDIT
	Amount    decimal.Decimal `db:"amount"`     // Always positive
	Memo      *string         `db:"memo"`       // Nullable
	AuditFields
}
