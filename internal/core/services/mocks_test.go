package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

// Shared mocks for the service suites. Audit behavior is exercised through
// the real audit service wired to MockAuditRepository, so only repositories
// and the sibling service facades are mocked here.

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindJournalByTransactionNumber(ctx context.Context, transactionNumber string) (*domain.Journal, error) {
	args := m.Called(ctx, transactionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, filter portsrepo.JournalFilter, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var journals []domain.Journal
	if args.Get(0) != nil {
		journals = args.Get(0).([]domain.Journal)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return journals, token, args.Error(2)
}

func (m *MockJournalRepository) FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalEntry, error) {
	args := m.Called(ctx, journalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.JournalEntry, events []domain.AuditEvent) error {
	args := m.Called(ctx, journal, entries, events)
	return args.Error(0)
}

func (m *MockJournalRepository) AddEntry(ctx context.Context, journalID string, entry domain.JournalEntry, events []domain.AuditEvent) error {
	args := m.Called(ctx, journalID, entry, events)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateJournalStatus(ctx context.Context, journal domain.Journal, expected domain.JournalStatus, events []domain.AuditEvent) error {
	args := m.Called(ctx, journal, expected, events)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversal domain.Journal, entries []domain.JournalEntry, original *domain.Journal, events []domain.AuditEvent) error {
	args := m.Called(ctx, reversal, entries, original, events)
	return args.Error(0)
}

// --- Mock SequenceRepository ---

type MockSequenceRepository struct {
	mock.Mock
}

var _ portsrepo.SequenceRepository = (*MockSequenceRepository)(nil)

func (m *MockSequenceRepository) NextTransactionNumber(ctx context.Context, fiscalYearID string, prefix string, padding int) (string, error) {
	args := m.Called(ctx, fiscalYearID, prefix, padding)
	return args.String(0), args.Error(1)
}

func (m *MockSequenceRepository) GetSequence(ctx context.Context, fiscalYearID string, prefix string) (*domain.TransactionSequence, error) {
	args := m.Called(ctx, fiscalYearID, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionSequence), args.Error(1)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account, events []domain.AuditEvent) error {
	args := m.Called(ctx, account, events)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account, events []domain.AuditEvent) error {
	args := m.Called(ctx, account, events)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time, events []domain.AuditEvent) error {
	args := m.Called(ctx, accountID, userID, now, events)
	return args.Error(0)
}

// --- Mock FiscalRepository ---

type MockFiscalRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalRepositoryFacade = (*MockFiscalRepository)(nil)

func (m *MockFiscalRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalRepository) FindFiscalYearByYear(ctx context.Context, year int) (*domain.FiscalYear, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalRepository) FindFiscalYearForDate(ctx context.Context, date time.Time) (*domain.FiscalYear, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalRepository) FindOverlappingYears(ctx context.Context, start, end time.Time, excludeID *string) ([]domain.FiscalYear, error) {
	args := m.Called(ctx, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalRepository) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalRepository) CountOpenPeriods(ctx context.Context, fiscalYearID string) (int, error) {
	args := m.Called(ctx, fiscalYearID)
	return args.Int(0), args.Error(1)
}

func (m *MockFiscalRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockFiscalRepository) FindPeriodByNumber(ctx context.Context, fiscalYearID string, periodNumber int) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, fiscalYearID, periodNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockFiscalRepository) FindPeriodForDate(ctx context.Context, fiscalYearID string, date time.Time) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, fiscalYearID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockFiscalRepository) ListPeriods(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockFiscalRepository) SaveFiscalYear(ctx context.Context, year domain.FiscalYear, events []domain.AuditEvent) error {
	args := m.Called(ctx, year, events)
	return args.Error(0)
}

func (m *MockFiscalRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod, events []domain.AuditEvent) error {
	args := m.Called(ctx, period, events)
	return args.Error(0)
}

func (m *MockFiscalRepository) SavePeriods(ctx context.Context, periods []domain.AccountingPeriod, events []domain.AuditEvent) error {
	args := m.Called(ctx, periods, events)
	return args.Error(0)
}

func (m *MockFiscalRepository) UpdateFiscalYearClosure(ctx context.Context, year domain.FiscalYear, expectClosed bool, events []domain.AuditEvent) error {
	args := m.Called(ctx, year, expectClosed, events)
	return args.Error(0)
}

func (m *MockFiscalRepository) UpdatePeriodClosure(ctx context.Context, period domain.AccountingPeriod, expectClosed bool, events []domain.AuditEvent) error {
	args := m.Called(ctx, period, expectClosed, events)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Mock AuditRepository ---

type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepositoryFacade = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) SaveEvents(ctx context.Context, events []domain.AuditEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockAuditRepository) FlushOutbox(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

func (m *MockAuditRepository) CountPendingEvents(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuditRepository) ListAuditRecords(ctx context.Context, filter portsrepo.AuditFilter, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var records []domain.AuditRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.AuditRecord)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return records, token, args.Error(2)
}

func (m *MockAuditRepository) ListDistinctEntityIDs(ctx context.Context, kind domain.EntityKind) ([]string, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAuditRepository) DeleteRecordsByEntities(ctx context.Context, kind domain.EntityKind, entityIDs []string) (int64, error) {
	args := m.Called(ctx, kind, entityIDs)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceRows(ctx context.Context, from, to *time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetAccountTotals(ctx context.Context, accountID string, from, to *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockReportingRepository) GetLedgerLines(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

// --- Mock AccountReaderSvc (as consumed by journal and reversal services) ---

type MockAccountReaderSvc struct {
	mock.Mock
}

var _ portssvc.AccountReaderSvc = (*MockAccountReaderSvc)(nil)

func (m *MockAccountReaderSvc) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReaderSvc) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReaderSvc) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountReaderSvc) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock FiscalSvcFacade (as consumed by journal and reversal services) ---

type MockFiscalService struct {
	mock.Mock
}

var _ portssvc.FiscalSvcFacade = (*MockFiscalService)(nil)

func (m *MockFiscalService) GetFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalService) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalService) ResolveForDate(ctx context.Context, date time.Time) (*domain.FiscalYear, *domain.AccountingPeriod, error) {
	args := m.Called(ctx, date)
	var year *domain.FiscalYear
	if args.Get(0) != nil {
		year = args.Get(0).(*domain.FiscalYear)
	}
	var period *domain.AccountingPeriod
	if args.Get(1) != nil {
		period = args.Get(1).(*domain.AccountingPeriod)
	}
	return year, period, args.Error(2)
}

func (m *MockFiscalService) CreateFiscalYear(ctx context.Context, actx domain.ActionContext, req dto.CreateFiscalYearRequest) (*domain.FiscalYear, error) {
	args := m.Called(ctx, actx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalService) CloseFiscalYear(ctx context.Context, actx domain.ActionContext, fiscalYearID string, reason *string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, actx, fiscalYearID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalService) GetPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockFiscalService) ListPeriods(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockFiscalService) CreatePeriod(ctx context.Context, actx domain.ActionContext, fiscalYearID string, req dto.CreatePeriodRequest) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, actx, fiscalYearID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockFiscalService) GenerateMonthlyPeriods(ctx context.Context, actx domain.ActionContext, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, actx, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockFiscalService) ClosePeriod(ctx context.Context, actx domain.ActionContext, periodID string, reason *string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, actx, periodID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockFiscalService) ReopenPeriod(ctx context.Context, actx domain.ActionContext, periodID string, reason *string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, actx, periodID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

// --- Mock EntityResolver ---

type MockEntityResolver struct {
	mock.Mock
}

var _ portsrepo.EntityResolver = (*MockEntityResolver)(nil)

func (m *MockEntityResolver) Exists(ctx context.Context, entityID string) (bool, error) {
	args := m.Called(ctx, entityID)
	return args.Bool(0), args.Error(1)
}
