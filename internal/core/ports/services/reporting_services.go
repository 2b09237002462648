package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

// ReportingSvc defines the ledger query engine. All reads project posted
// entries only; journals that never reached POSTED are invisible here.
type ReportingSvc interface {
	// GetTrialBalance reports per-account debit and credit totals for a
	// window (a period, an as-of date, or all time), with the grand totals.
	// Total debits equal total credits whenever the ledger is consistent.
	GetTrialBalance(ctx context.Context, params dto.TrialBalanceParams) (*domain.TrialBalance, error)

	// GetAccountBalanceAsOf derives one account's balance from posted
	// entries dated at or before the given date.
	GetAccountBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)

	// GetGeneralLedger lists an account's posted entries chronologically
	// with a running balance, optionally windowed to a period.
	GetGeneralLedger(ctx context.Context, accountID string, params dto.GeneralLedgerParams) (*domain.GeneralLedger, error)
}
