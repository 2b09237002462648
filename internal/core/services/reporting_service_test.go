package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/core/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockAccountRepo   *MockAccountRepository
	mockFiscalSvc     *MockFiscalService
	service           portssvc.ReportingSvc

	cashAccount domain.Account
	period      domain.AccountingPeriod
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockFiscalSvc = new(MockFiscalService)

	suite.service = services.NewReportingService(suite.mockReportingRepo, suite.mockAccountRepo, suite.mockFiscalSvc)

	suite.cashAccount = domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: "1000",
		Name:          "Cash",
		AccountType:   domain.Asset,
		IsActive:      true,
	}
	suite.period = domain.AccountingPeriod{
		PeriodID:     uuid.NewString(),
		FiscalYearID: uuid.NewString(),
		PeriodNumber: 3,
		Name:         "March 2025",
		StartDate:    time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *ReportingServiceTestSuite) TestGetTrialBalance_BalancedTotals() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		{AccountID: uuid.NewString(), AccountNumber: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
		{AccountID: uuid.NewString(), AccountNumber: "4000", AccountName: "Revenue", AccountType: domain.Revenue, Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
	}
	suite.mockReportingRepo.On("GetTrialBalanceRows", ctx, (*time.Time)(nil), (*time.Time)(nil)).Return(rows, nil).Once()

	report, err := suite.service.GetTrialBalance(ctx, dto.TrialBalanceParams{})

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 2)
	suite.True(report.TotalDebits.Equal(decimal.NewFromInt(500)))
	suite.True(report.TotalCredits.Equal(decimal.NewFromInt(500)))
	suite.True(report.IsBalanced)

	suite.True(report.Rows[0].Balance.Equal(decimal.NewFromInt(500)))
	suite.Equal(domain.Debit, report.Rows[0].BalanceSide)
	suite.True(report.Rows[1].Balance.Equal(decimal.NewFromInt(500)))
	suite.Equal(domain.Credit, report.Rows[1].BalanceSide)
}

func (suite *ReportingServiceTestSuite) TestGetTrialBalance_FlipsSideWhenNegative() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		// An asset more credited than debited shows a credit balance.
		{AccountID: uuid.NewString(), AccountNumber: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(300)},
		{AccountID: uuid.NewString(), AccountNumber: "2000", AccountName: "Payables", AccountType: domain.Liability, Debit: decimal.NewFromInt(300), Credit: decimal.NewFromInt(100)},
	}
	suite.mockReportingRepo.On("GetTrialBalanceRows", ctx, (*time.Time)(nil), (*time.Time)(nil)).Return(rows, nil).Once()

	report, err := suite.service.GetTrialBalance(ctx, dto.TrialBalanceParams{})

	suite.Require().NoError(err)
	suite.True(report.Rows[0].Balance.Equal(decimal.NewFromInt(-200)))
	suite.Equal(domain.Credit, report.Rows[0].BalanceSide)
	suite.True(report.Rows[1].Balance.Equal(decimal.NewFromInt(-200)))
	suite.Equal(domain.Debit, report.Rows[1].BalanceSide)
	suite.True(report.IsBalanced)
}

func (suite *ReportingServiceTestSuite) TestGetTrialBalance_PeriodWindow() {
	ctx := context.Background()
	period := suite.period

	suite.mockFiscalSvc.On("GetPeriodByID", ctx, period.PeriodID).Return(&period, nil).Once()
	suite.mockReportingRepo.On("GetTrialBalanceRows", ctx, mock.MatchedBy(func(from *time.Time) bool {
		return from != nil && from.Equal(period.StartDate)
	}), mock.MatchedBy(func(to *time.Time) bool {
		return to != nil && to.Equal(period.EndDate)
	})).Return([]domain.TrialBalanceRow{}, nil).Once()

	report, err := suite.service.GetTrialBalance(ctx, dto.TrialBalanceParams{PeriodID: &period.PeriodID})

	suite.Require().NoError(err)
	suite.Require().NotNil(report.PeriodID)
	suite.Equal(period.PeriodID, *report.PeriodID)
	suite.True(report.IsBalanced) // zero equals zero
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetTrialBalance_AsOfWindow() {
	ctx := context.Background()
	asOf := time.Date(2025, time.June, 30, 18, 15, 0, 0, time.UTC)
	day := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	suite.mockReportingRepo.On("GetTrialBalanceRows", ctx, (*time.Time)(nil), mock.MatchedBy(func(to *time.Time) bool {
		return to != nil && to.Equal(day)
	})).Return([]domain.TrialBalanceRow{}, nil).Once()

	report, err := suite.service.GetTrialBalance(ctx, dto.TrialBalanceParams{AsOf: &asOf})

	suite.Require().NoError(err)
	suite.Require().NotNil(report.AsOf)
	suite.True(report.AsOf.Equal(day))
}

func (suite *ReportingServiceTestSuite) TestGetTrialBalance_PeriodAndAsOfExclusive() {
	ctx := context.Background()
	periodID := uuid.NewString()
	asOf := time.Now().UTC()

	_, err := suite.service.GetTrialBalance(ctx, dto.TrialBalanceParams{PeriodID: &periodID, AsOf: &asOf})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetTrialBalanceRows", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestGetAccountBalanceAsOf() {
	ctx := context.Background()
	account := suite.cashAccount
	asOf := time.Date(2025, time.May, 31, 23, 0, 0, 0, time.UTC)
	day := time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockReportingRepo.On("GetAccountTotals", ctx, account.AccountID, (*time.Time)(nil), mock.MatchedBy(func(to *time.Time) bool {
		return to != nil && to.Equal(day)
	})).Return(decimal.NewFromInt(800), decimal.NewFromInt(150), nil).Once()

	balance, err := suite.service.GetAccountBalanceAsOf(ctx, account.AccountID, asOf)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(650)))
}

func (suite *ReportingServiceTestSuite) TestGetGeneralLedger_RunningBalance() {
	ctx := context.Background()
	account := suite.cashAccount
	lines := []domain.LedgerLine{
		{JournalID: uuid.NewString(), TransactionNumber: "TXN000001", JournalDate: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), EntryID: uuid.NewString(), EntryType: domain.Debit, Amount: decimal.NewFromInt(100)},
		{JournalID: uuid.NewString(), TransactionNumber: "TXN000002", JournalDate: time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC), EntryID: uuid.NewString(), EntryType: domain.Credit, Amount: decimal.NewFromInt(30)},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockReportingRepo.On("GetLedgerLines", ctx, account.AccountID, (*time.Time)(nil), (*time.Time)(nil)).Return(lines, nil).Once()

	ledger, err := suite.service.GetGeneralLedger(ctx, account.AccountID, dto.GeneralLedgerParams{})

	suite.Require().NoError(err)
	suite.Equal(account.Name, ledger.AccountName)
	suite.True(ledger.OpeningBalance.IsZero())
	suite.Require().Len(ledger.Lines, 2)
	// A debit adds on a debit-normal account, a credit subtracts.
	suite.True(ledger.Lines[0].SignedAmount.Equal(decimal.NewFromInt(100)))
	suite.True(ledger.Lines[0].RunningBalance.Equal(decimal.NewFromInt(100)))
	suite.True(ledger.Lines[1].SignedAmount.Equal(decimal.NewFromInt(-30)))
	suite.True(ledger.Lines[1].RunningBalance.Equal(decimal.NewFromInt(70)))
	suite.True(ledger.ClosingBalance.Equal(decimal.NewFromInt(70)))
	// No window means no pre-window totals are needed.
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetAccountTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestGetGeneralLedger_WindowedOpeningBalance() {
	ctx := context.Background()
	account := suite.cashAccount
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	dayBefore := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
	lines := []domain.LedgerLine{
		{JournalID: uuid.NewString(), TransactionNumber: "TXN000010", JournalDate: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC), EntryID: uuid.NewString(), EntryType: domain.Credit, Amount: decimal.NewFromInt(50)},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockReportingRepo.On("GetAccountTotals", ctx, account.AccountID, (*time.Time)(nil), mock.MatchedBy(func(to *time.Time) bool {
		return to != nil && to.Equal(dayBefore)
	})).Return(decimal.NewFromInt(300), decimal.NewFromInt(100), nil).Once()
	suite.mockReportingRepo.On("GetLedgerLines", ctx, account.AccountID, mock.MatchedBy(func(f *time.Time) bool {
		return f != nil && f.Equal(from)
	}), (*time.Time)(nil)).Return(lines, nil).Once()

	ledger, err := suite.service.GetGeneralLedger(ctx, account.AccountID, dto.GeneralLedgerParams{From: &from})

	suite.Require().NoError(err)
	suite.True(ledger.OpeningBalance.Equal(decimal.NewFromInt(200)))
	suite.Require().Len(ledger.Lines, 1)
	suite.True(ledger.Lines[0].RunningBalance.Equal(decimal.NewFromInt(150)))
	suite.True(ledger.ClosingBalance.Equal(decimal.NewFromInt(150)))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetGeneralLedger_PeriodWindow() {
	ctx := context.Background()
	account := suite.cashAccount
	period := suite.period
	dayBefore := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockFiscalSvc.On("GetPeriodByID", ctx, period.PeriodID).Return(&period, nil).Once()
	suite.mockReportingRepo.On("GetAccountTotals", ctx, account.AccountID, (*time.Time)(nil), mock.MatchedBy(func(to *time.Time) bool {
		return to != nil && to.Equal(dayBefore)
	})).Return(decimal.Zero, decimal.Zero, nil).Once()
	suite.mockReportingRepo.On("GetLedgerLines", ctx, account.AccountID, mock.MatchedBy(func(f *time.Time) bool {
		return f != nil && f.Equal(period.StartDate)
	}), mock.MatchedBy(func(t *time.Time) bool {
		return t != nil && t.Equal(period.EndDate)
	})).Return([]domain.LedgerLine{}, nil).Once()

	ledger, err := suite.service.GetGeneralLedger(ctx, account.AccountID, dto.GeneralLedgerParams{PeriodID: &period.PeriodID})

	suite.Require().NoError(err)
	suite.True(ledger.OpeningBalance.IsZero())
	suite.Empty(ledger.Lines)
	suite.True(ledger.ClosingBalance.IsZero())
}

func (suite *ReportingServiceTestSuite) TestGetGeneralLedger_PeriodAndRangeExclusive() {
	ctx := context.Background()
	account := suite.cashAccount
	periodID := uuid.NewString()
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()

	_, err := suite.service.GetGeneralLedger(ctx, account.AccountID, dto.GeneralLedgerParams{PeriodID: &periodID, From: &from})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestGetGeneralLedger_InvalidRange() {
	ctx := context.Background()
	account := suite.cashAccount
	from := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()

	_, err := suite.service.GetGeneralLedger(ctx, account.AccountID, dto.GeneralLedgerParams{From: &from, To: &to})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidDateRange)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetLedgerLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
