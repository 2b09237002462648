package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// ReportingRepository defines read operations over posted ledger activity.
// "Posted" here means journals in POSTED or REVERSED status: a reversed
// journal stays in the ledger and is offset by its reversal's flipped
// entries. DRAFT, PENDING_APPROVAL, APPROVED and CANCELLED journals never
// contribute.
type ReportingRepository interface {
	// GetTrialBalanceRows retrieves per-account debit and credit totals for
	// the window. Nil from means from the beginning; nil to means up to now.
	GetTrialBalanceRows(ctx context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error)

	// GetAccountTotals retrieves one account's debit and credit totals for
	// the window.
	GetAccountTotals(ctx context.Context, accountID string, from, to *time.Time) (debit, credit decimal.Decimal, err error)

	// GetLedgerLines retrieves an account's entries in chronological order
	// (journal date, then creation time, then entry ID) for the window.
	// Running balances are computed by the caller.
	GetLedgerLines(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerLine, error)
}
