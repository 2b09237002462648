package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// TrialBalanceParams defines query parameters for the trial balance report.
// PeriodID and AsOf are mutually exclusive; neither means all time.
type TrialBalanceParams struct {
	PeriodID *string    `form:"periodID"`
	AsOf     *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// GeneralLedgerParams defines query parameters for the general ledger report.
type GeneralLedgerParams struct {
	PeriodID *string    `form:"periodID"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	AccountType   string          `json:"accountType"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
	BalanceSide   string          `json:"balanceSide"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf     *string                   `json:"asOf,omitempty"`
	PeriodID *string                   `json:"periodID,omitempty"`
	Rows     []TrialBalanceRowResponse `json:"rows"`
	Totals   struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	IsBalanced bool `json:"isBalanced"`
}

// LedgerLineResponse represents one general ledger line.
type LedgerLineResponse struct {
	JournalID         string          `json:"journalID"`
	TransactionNumber string          `json:"transactionNumber"`
	Date              time.Time       `json:"date"`
	Description       string          `json:"description"`
	EntryID           string          `json:"entryID"`
	EntryType         string          `json:"entryType"`
	Amount            decimal.Decimal `json:"amount"`
	Memo              *string         `json:"memo,omitempty"`
	RunningBalance    decimal.Decimal `json:"runningBalance"`
}

// GeneralLedgerResponse represents an account's general ledger report.
type GeneralLedgerResponse struct {
	AccountID      string               `json:"accountID"`
	AccountName    string               `json:"accountName"`
	PeriodID       *string              `json:"periodID,omitempty"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	Lines          []LedgerLineResponse `json:"lines"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance to its DTO response.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	response := TrialBalanceResponse{
		PeriodID:   tb.PeriodID,
		Rows:       make([]TrialBalanceRowResponse, len(tb.Rows)),
		IsBalanced: tb.IsBalanced,
	}
	if tb.AsOf != nil {
		formatted := tb.AsOf.Format("2006-01-02")
		response.AsOf = &formatted
	}
	for i, row := range tb.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:     row.AccountID,
			AccountNumber: row.AccountNumber,
			AccountName:   row.AccountName,
			AccountType:   string(row.AccountType),
			Debit:         row.Debit,
			Credit:        row.Credit,
			Balance:       row.Balance,
			BalanceSide:   string(row.BalanceSide),
		}
	}
	response.Totals.Debit = tb.TotalDebits
	response.Totals.Credit = tb.TotalCredits
	return response
}

// ToGeneralLedgerResponse converts a domain.GeneralLedger to its DTO response.
func ToGeneralLedgerResponse(gl *domain.GeneralLedger) GeneralLedgerResponse {
	response := GeneralLedgerResponse{
		AccountID:      gl.AccountID,
		AccountName:    gl.AccountName,
		PeriodID:       gl.PeriodID,
		OpeningBalance: gl.OpeningBalance,
		Lines:          make([]LedgerLineResponse, len(gl.Lines)),
		ClosingBalance: gl.ClosingBalance,
	}
	for i, line := range gl.Lines {
		response.Lines[i] = LedgerLineResponse{
			JournalID:         line.JournalID,
			TransactionNumber: line.TransactionNumber,
			Date:              line.JournalDate,
			Description:       line.Description,
			EntryID:           line.EntryID,
			EntryType:         string(line.EntryType),
			Amount:            line.Amount,
			Memo:              line.Memo,
			RunningBalance:    line.RunningBalance,
		}
	}
	return response
}
