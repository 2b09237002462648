package models

// Account represents a ledger account row.
// Note: no balance column; balances are always derived from posted entries.
type Account struct {
	AccountID     string `db:"account_id"`
	AccountNumber string `db:"account_number"` // User-facing code (e.g., "1000")
	Name          string `db:"name"`
	AccountType   string `db:"account_type"` // ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE
	Description   string `db:"description"`  // Empty string when unset
	IsActive      bool   `db:"is_active"`
	AuditFields
}
