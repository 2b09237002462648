package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account's totals in a trial balance.
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	Debit         decimal.Decimal `json:"debit"`   // Sum of DEBIT entries in the window
	Credit        decimal.Decimal `json:"credit"`  // Sum of CREDIT entries in the window
	Balance       decimal.Decimal `json:"balance"` // Net amount on the account's normal side
	BalanceSide   EntryType       `json:"balanceSide"`
}

// TrialBalance is the full report: one row per account with posted activity
// in the window plus the debit/credit totals. TotalDebits always equals
// TotalCredits when every underlying journal balanced.
type TrialBalance struct {
	AsOf         *time.Time        `json:"asOf,omitempty"`
	PeriodID     *string           `json:"periodID,omitempty"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	IsBalanced   bool              `json:"isBalanced"`
}

// LedgerLine is one entry of an account's general ledger, in chronological
// order, with the balance after applying it.
type LedgerLine struct {
	JournalID         string          `json:"journalID"`
	TransactionNumber string          `json:"transactionNumber"`
	JournalDate       time.Time       `json:"journalDate"`
	Description       string          `json:"description"`
	EntryID           string          `json:"entryID"`
	EntryType         EntryType       `json:"entryType"`
	Amount            decimal.Decimal `json:"amount"`
	Memo              *string         `json:"memo,omitempty"`
	SignedAmount      decimal.Decimal `json:"signedAmount"`   // Amount signed by the account's normal side
	RunningBalance    decimal.Decimal `json:"runningBalance"` // Balance after this line
}

// GeneralLedger lists an account's posted entries with a running balance.
// When windowed to a period, OpeningBalance carries the activity before the
// window so RunningBalance stays a true account balance.
type GeneralLedger struct {
	AccountID      string          `json:"accountID"`
	AccountName    string          `json:"accountName"`
	PeriodID       *string         `json:"periodID,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []LedgerLine    `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}
