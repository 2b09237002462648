package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
)

// ledgerStatuses is the set of journal statuses that contribute to ledger
// reports. A reversed journal stays in; its reversal carries the offset.
const ledgerStatuses = `('POSTED', 'REVERSED')`

type ReportingRepository struct {
	pool *pgxpool.Pool
}

// newReportingRepository creates a new repository for ledger reports.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &ReportingRepository{pool: pool}
}

// Ensure ReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

// GetTrialBalanceRows aggregates per-account debit and credit totals over
// journals in the window. Only accounts with activity appear; the service
// derives the net balance and its side per row.
func (r *ReportingRepository) GetTrialBalanceRows(ctx context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error) {
	inner := `
		SELECT e.account_id,
		       SUM(CASE WHEN e.entry_type = 'DEBIT' THEN e.amount ELSE 0 END) AS total_debit,
		       SUM(CASE WHEN e.entry_type = 'CREDIT' THEN e.amount ELSE 0 END) AS total_credit
		FROM journal_entries e
		JOIN journals j ON j.journal_id = e.journal_id
		WHERE j.status IN ` + ledgerStatuses
	args := []interface{}{}
	if from != nil {
		args = append(args, *from)
		inner += ` AND j.journal_date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		inner += ` AND j.journal_date <= $` + strconv.Itoa(len(args))
	}
	inner += ` GROUP BY e.account_id`

	query := `
		SELECT a.account_id, a.account_number, a.name, a.account_type, t.total_debit, t.total_credit
		FROM (` + inner + `) t
		JOIN accounts a ON a.account_id = t.account_id
		ORDER BY a.account_number;
	`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trial balance rows", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string
		if err := rows.Scan(
			&row.AccountID,
			&row.AccountNumber,
			&row.AccountName,
			&accountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row", err)
		}
		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trial balance rows", err)
	}
	return result, nil
}

// GetAccountTotals aggregates one account's debit and credit totals over
// journals in the window.
func (r *ReportingRepository) GetAccountTotals(ctx context.Context, accountID string, from, to *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN e.entry_type = 'DEBIT' THEN e.amount ELSE 0 END), 0) AS total_debit,
		       COALESCE(SUM(CASE WHEN e.entry_type = 'CREDIT' THEN e.amount ELSE 0 END), 0) AS total_credit
		FROM journal_entries e
		JOIN journals j ON j.journal_id = e.journal_id
		WHERE e.account_id = $1 AND j.status IN ` + ledgerStatuses
	args := []interface{}{accountID}
	if from != nil {
		args = append(args, *from)
		query += ` AND j.journal_date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND j.journal_date <= $` + strconv.Itoa(len(args))
	}
	query += `;`

	var debit, credit decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to query totals for account "+accountID, err)
	}
	return debit, credit, nil
}

// GetLedgerLines retrieves an account's entries in chronological order for
// the window. Signed amounts and running balances are computed by the caller.
func (r *ReportingRepository) GetLedgerLines(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT j.journal_id, j.transaction_number, j.journal_date, j.description,
		       e.entry_id, e.entry_type, e.amount, e.memo
		FROM journal_entries e
		JOIN journals j ON j.journal_id = e.journal_id
		WHERE e.account_id = $1 AND j.status IN ` + ledgerStatuses
	args := []interface{}{accountID}
	if from != nil {
		args = append(args, *from)
		query += ` AND j.journal_date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND j.journal_date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY j.journal_date, e.created_at, e.entry_id;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger lines for account "+accountID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var line domain.LedgerLine
		var entryType string
		if err := rows.Scan(
			&line.JournalID,
			&line.TransactionNumber,
			&line.JournalDate,
			&line.Description,
			&line.EntryID,
			&entryType,
			&line.Amount,
			&line.Memo,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger line", err)
		}
		line.EntryType = domain.EntryType(entryType)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger lines", err)
	}
	return lines, nil
}
