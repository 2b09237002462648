package repositories

import (
	"context"
	"time"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// FiscalYearReader defines read operations for fiscal year data
type FiscalYearReader interface {
	// FindFiscalYearByID retrieves a specific fiscal year by its unique identifier.
	FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)

	// FindFiscalYearByYear retrieves a fiscal year by its year label.
	FindFiscalYearByYear(ctx context.Context, year int) (*domain.FiscalYear, error)

	// FindFiscalYearForDate retrieves the fiscal year whose range contains the date.
	FindFiscalYearForDate(ctx context.Context, date time.Time) (*domain.FiscalYear, error)

	// FindOverlappingYears retrieves fiscal years whose range intersects [start, end],
	// excluding excludeID when non-nil.
	FindOverlappingYears(ctx context.Context, start, end time.Time, excludeID *string) ([]domain.FiscalYear, error)

	// ListFiscalYears retrieves all fiscal years ordered by year.
	ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error)

	// CountOpenPeriods counts child periods of a fiscal year that are not yet closed.
	CountOpenPeriods(ctx context.Context, fiscalYearID string) (int, error)
}

// PeriodReader defines read operations for accounting period data
type PeriodReader interface {
	// FindPeriodByID retrieves a specific period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodByNumber retrieves a period by its number within a fiscal year.
	FindPeriodByNumber(ctx context.Context, fiscalYearID string, periodNumber int) (*domain.AccountingPeriod, error)

	// FindPeriodForDate retrieves the period of a fiscal year whose range contains the date.
	FindPeriodForDate(ctx context.Context, fiscalYearID string, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all periods of a fiscal year ordered by period number.
	ListPeriods(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error)
}

// FiscalWriter defines write operations for fiscal calendar data. Audit
// events ride in the same transaction as the change, like JournalWriter.
type FiscalWriter interface {
	// SaveFiscalYear persists a new fiscal year.
	SaveFiscalYear(ctx context.Context, year domain.FiscalYear, events []domain.AuditEvent) error

	// SavePeriod persists a new accounting period.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod, events []domain.AuditEvent) error

	// SavePeriods persists a batch of accounting periods atomically.
	SavePeriods(ctx context.Context, periods []domain.AccountingPeriod, events []domain.AuditEvent) error

	// UpdateFiscalYearClosure persists the year's closure fields, guarded on
	// the closed flag the caller read (expectClosed). Zero rows updated
	// surfaces as a conflict.
	UpdateFiscalYearClosure(ctx context.Context, year domain.FiscalYear, expectClosed bool, events []domain.AuditEvent) error

	// UpdatePeriodClosure persists the period's closure fields, guarded on
	// the closed flag the caller read (expectClosed).
	UpdatePeriodClosure(ctx context.Context, period domain.AccountingPeriod, expectClosed bool, events []domain.AuditEvent) error
}

// FiscalRepositoryFacade combines all fiscal-calendar repository interfaces
// This is a facade for clients that need access to all operations
type FiscalRepositoryFacade interface {
	FiscalYearReader
	PeriodReader
	FiscalWriter
}

// FiscalRepositoryWithTx extends FiscalRepositoryFacade with transaction capabilities
type FiscalRepositoryWithTx interface {
	FiscalRepositoryFacade
	TransactionManager
}
