package domain

import "github.com/shopspring/decimal"

// EntryType indicates whether a journal entry is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// IsValid reports whether t is DEBIT or CREDIT.
func (t EntryType) IsValid() bool {
	return t == Debit || t == Credit
}

// Opposite returns the offsetting side. Reversal journals are built by
// flipping every entry of the original through this.
func (t EntryType) Opposite() EntryType {
	if t == Debit {
		return Credit
	}
	return Debit
}

// JournalEntry represents a single line item within a Journal, affecting one account.
type JournalEntry struct {
	EntryID     string          `json:"entryID"`     // Primary Key (e.g., UUID)
	JournalID   string          `json:"journalID"`   // FK -> Journal.journalID (Not Null)
	AccountID   string          `json:"accountID"`   // FK -> Account.accountID (Not Null)
	EntryType   EntryType       `json:"entryType"`   // DEBIT or CREDIT (Not Null)
	Amount      decimal.Decimal `json:"amount"`      // Strictly positive; precise decimal type
	Memo        *string         `json:"memo"`        // Nullable line note
	AuditFields                 // Embed CreatedAt, CreatedBy, etc.
}
