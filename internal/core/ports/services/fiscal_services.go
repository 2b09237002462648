package services

import (
	"context"
	"time"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

// FiscalYearReaderSvc defines read operations for fiscal years
type FiscalYearReaderSvc interface {
	// GetFiscalYearByID retrieves a fiscal year by its identifier.
	GetFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)

	// ListFiscalYears retrieves all fiscal years ordered by year.
	ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error)

	// ResolveForDate finds the fiscal year and accounting period containing
	// a date. Journal creation uses it to derive the owning period when the
	// caller does not name one.
	ResolveForDate(ctx context.Context, date time.Time) (*domain.FiscalYear, *domain.AccountingPeriod, error)
}

// FiscalYearWriterSvc defines write operations for fiscal years
type FiscalYearWriterSvc interface {
	// CreateFiscalYear validates the range against every existing year and
	// persists it. Creation is idempotent by year: re-submitting an
	// identical range returns the existing year.
	CreateFiscalYear(ctx context.Context, actx domain.ActionContext, req dto.CreateFiscalYearRequest) (*domain.FiscalYear, error)

	// CloseFiscalYear closes a year whose child periods are all closed,
	// stamping the closer. Closing twice fails.
	CloseFiscalYear(ctx context.Context, actx domain.ActionContext, fiscalYearID string, reason *string) (*domain.FiscalYear, error)
}

// PeriodReaderSvc defines read operations for accounting periods
type PeriodReaderSvc interface {
	// GetPeriodByID retrieves a period by its identifier.
	GetPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves a fiscal year's periods ordered by number.
	ListPeriods(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error)
}

// PeriodWriterSvc defines write operations for accounting periods
type PeriodWriterSvc interface {
	// CreatePeriod validates the range sits inside the parent year without
	// overlapping a sibling and persists it. Creation is idempotent by
	// (fiscal year, period number) for an identical range.
	CreatePeriod(ctx context.Context, actx domain.ActionContext, fiscalYearID string, req dto.CreatePeriodRequest) (*domain.AccountingPeriod, error)

	// GenerateMonthlyPeriods creates the calendar-month periods covering
	// the fiscal year's range, skipping months that already exist.
	GenerateMonthlyPeriods(ctx context.Context, actx domain.ActionContext, fiscalYearID string) ([]domain.AccountingPeriod, error)

	// ClosePeriod closes a period, stamping the closer. A closed period
	// rejects any further journal creation or posting into it.
	ClosePeriod(ctx context.Context, actx domain.ActionContext, periodID string, reason *string) (*domain.AccountingPeriod, error)

	// ReopenPeriod clears a period's closure while its parent year is still
	// open. Admin-gated through the same policy as closing.
	ReopenPeriod(ctx context.Context, actx domain.ActionContext, periodID string, reason *string) (*domain.AccountingPeriod, error)
}

// FiscalSvcFacade combines all fiscal-calendar service interfaces
// This is a facade for clients that need access to all operations
type FiscalSvcFacade interface {
	FiscalYearReaderSvc
	FiscalYearWriterSvc
	PeriodReaderSvc
	PeriodWriterSvc
}
