package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
	"github.com/zayyadi/paroll-sub000/internal/utils/accounting"
)

// reportingService is the ledger query engine. Every read projects posted
// journals only (POSTED and REVERSED); nothing else ever shows up in a
// report, no matter how far along the approval queue it is.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	fiscalSvc     portssvc.PeriodReaderSvc
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountReader, fiscalSvc portssvc.PeriodReaderSvc) portssvc.ReportingSvc {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
		fiscalSvc:     fiscalSvc,
	}
}

// Ensure reportingService implements the portssvc.ReportingSvc interface
var _ portssvc.ReportingSvc = (*reportingService)(nil)

// windowForPeriod translates a period into the date window of its range.
func (s *reportingService) windowForPeriod(ctx context.Context, periodID string) (*time.Time, *time.Time, error) {
	period, err := s.fiscalSvc.GetPeriodByID(ctx, periodID)
	if err != nil {
		return nil, nil, err
	}
	return &period.StartDate, &period.EndDate, nil
}

// GetTrialBalance reports per-account debit and credit totals for the
// window, netting each account's balance onto its normal side. Only accounts
// with posted activity appear; the grand totals balance whenever every
// underlying journal did.
func (s *reportingService) GetTrialBalance(ctx context.Context, params dto.TrialBalanceParams) (*domain.TrialBalance, error) {
	if params.PeriodID != nil && params.AsOf != nil {
		return nil, fmt.Errorf("%w: periodID and asOf are mutually exclusive", apperrors.ErrValidation)
	}

	report := &domain.TrialBalance{PeriodID: params.PeriodID}
	var from, to *time.Time
	switch {
	case params.PeriodID != nil:
		f, t, err := s.windowForPeriod(ctx, *params.PeriodID)
		if err != nil {
			return nil, err
		}
		from, to = f, t
	case params.AsOf != nil:
		d := normalizeDate(*params.AsOf)
		to = &d
		report.AsOf = &d
	}

	rows, err := s.reportingRepo.GetTrialBalanceRows(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "failed to retrieve trial balance rows")
		return nil, fmt.Errorf("failed to retrieve trial balance: %w", err)
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for i := range rows {
		rows[i].Balance = accounting.NetOnNormalSide(rows[i].AccountType, rows[i].Debit, rows[i].Credit)
		rows[i].BalanceSide = rows[i].AccountType.NormalSide()
		if rows[i].Balance.IsNegative() {
			rows[i].BalanceSide = rows[i].BalanceSide.Opposite()
		}
		totalDebits = totalDebits.Add(rows[i].Debit)
		totalCredits = totalCredits.Add(rows[i].Credit)
	}

	report.Rows = rows
	report.TotalDebits = totalDebits
	report.TotalCredits = totalCredits
	report.IsBalanced = totalDebits.Equal(totalCredits)

	s.LogInfo(ctx, "trial balance generated",
		slog.Int("row_count", len(rows)),
		slog.Bool("is_balanced", report.IsBalanced))
	return report, nil
}

// GetAccountBalanceAsOf derives one account's balance from posted entries
// dated at or before asOf.
func (s *reportingService) GetAccountBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	d := normalizeDate(asOf)
	debit, credit, err := s.reportingRepo.GetAccountTotals(ctx, accountID, nil, &d)
	if err != nil {
		s.LogError(ctx, err, "failed to total account entries", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to retrieve balance for account %s: %w", accountID, err)
	}
	return accounting.NetOnNormalSide(account.AccountType, debit, credit), nil
}

// GetGeneralLedger lists an account's posted entries chronologically with a
// running balance. When windowed, the opening balance carries the activity
// before the window so the running balance stays a true account balance.
func (s *reportingService) GetGeneralLedger(ctx context.Context, accountID string, params dto.GeneralLedgerParams) (*domain.GeneralLedger, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var from, to *time.Time
	if params.PeriodID != nil {
		if params.From != nil || params.To != nil {
			return nil, fmt.Errorf("%w: periodID and a from/to range are mutually exclusive", apperrors.ErrValidation)
		}
		from, to, err = s.windowForPeriod(ctx, *params.PeriodID)
		if err != nil {
			return nil, err
		}
	} else {
		if params.From != nil {
			d := normalizeDate(*params.From)
			from = &d
		}
		if params.To != nil {
			d := normalizeDate(*params.To)
			to = &d
		}
		if from != nil && to != nil && from.After(*to) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidDateRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
		}
	}

	ledger := &domain.GeneralLedger{
		AccountID:      accountID,
		AccountName:    account.Name,
		PeriodID:       params.PeriodID,
		OpeningBalance: decimal.Zero,
	}

	if from != nil {
		// Dates are whole days, so everything before the window is
		// everything dated up to the previous day.
		dayBefore := from.AddDate(0, 0, -1)
		debit, credit, err := s.reportingRepo.GetAccountTotals(ctx, accountID, nil, &dayBefore)
		if err != nil {
			s.LogError(ctx, err, "failed to total pre-window entries", slog.String("account_id", accountID))
			return nil, fmt.Errorf("failed to compute opening balance for account %s: %w", accountID, err)
		}
		ledger.OpeningBalance = accounting.NetOnNormalSide(account.AccountType, debit, credit)
	}

	lines, err := s.reportingRepo.GetLedgerLines(ctx, accountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "failed to retrieve ledger lines", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve general ledger for account %s: %w", accountID, err)
	}

	running := ledger.OpeningBalance
	for i := range lines {
		entry := domain.JournalEntry{
			EntryID:   lines[i].EntryID,
			AccountID: accountID,
			EntryType: lines[i].EntryType,
			Amount:    lines[i].Amount,
		}
		signed, err := accounting.CalculateSignedAmount(entry, account.AccountType)
		if err != nil {
			return nil, err
		}
		lines[i].SignedAmount = signed
		running = running.Add(signed)
		lines[i].RunningBalance = running
	}

	ledger.Lines = lines
	ledger.ClosingBalance = running

	s.LogInfo(ctx, "general ledger generated",
		slog.String("account_id", accountID),
		slog.Int("line_count", len(lines)))
	return ledger, nil
}
