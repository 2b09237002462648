package domain

// AccountType defines the fundamental accounting classification of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five supported account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalSide returns the entry side that increases an account of this type.
// Asset and expense accounts grow with debits; liability, equity and revenue
// accounts grow with credits.
func (t AccountType) NormalSide() EntryType {
	if t == Asset || t == Expense {
		return Debit
	}
	return Credit
}

// Account represents one account in the chart of accounts.
// This is the primary representation used by services.
//
// An account carries no stored balance: balances are always derived by
// summing the entries of posted journals (see ReportingService).
type Account struct {
	AccountID     string      `json:"accountID"`     // Primary Key (e.g., UUID)
	AccountNumber string      `json:"accountNumber"` // Globally unique ledger code (e.g., "1000")
	Name          string      `json:"name"`          // Globally unique user-defined name
	AccountType   AccountType `json:"accountType"`   // ASSET, LIABILITY, etc.
	Description   string      `json:"description"`   // Nullable user description
	IsActive      bool        `json:"isActive"`      // Inactive accounts reject new entries
	AuditFields               // Embed CreatedAt, CreatedBy, etc.
}

// IsDebitNormal reports whether the account grows on the debit side.
func (a *Account) IsDebitNormal() bool {
	return a.AccountType.NormalSide() == Debit
}
