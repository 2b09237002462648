package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

var (
	ErrInvalidDateRange     = errors.New("start date must fall before end date")
	ErrOverlappingDateRange = errors.New("date range overlaps an existing one")
	ErrOpenPeriodsRemain    = errors.New("fiscal year still has open periods")
	ErrPeriodClosed         = errors.New("accounting period is closed")
	ErrFiscalYearClosed     = errors.New("fiscal year is closed")
)

// normalizeDate truncates a timestamp to its UTC calendar date. The fiscal
// calendar and journal dating work in whole days.
func normalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// fiscalService provides fiscal year and accounting period operations.
type fiscalService struct {
	BaseService
	fiscalRepo portsrepo.FiscalRepositoryFacade
	userRepo   portsrepo.UserReader
	audit      portssvc.AuditSvcFacade
	policy     portssvc.AuthorizationPolicy
}

// NewFiscalService creates a new FiscalService.
func NewFiscalService(fiscalRepo portsrepo.FiscalRepositoryFacade, userRepo portsrepo.UserReader, audit portssvc.AuditSvcFacade, policy portssvc.AuthorizationPolicy) portssvc.FiscalSvcFacade {
	return &fiscalService{
		BaseService: BaseService{Outbox: audit},
		fiscalRepo:  fiscalRepo,
		userRepo:    userRepo,
		audit:       audit,
		policy:      policy,
	}
}

// Ensure fiscalService implements the portssvc.FiscalSvcFacade interface
var _ portssvc.FiscalSvcFacade = (*fiscalService)(nil)

// CreateFiscalYear validates the range against every existing year and
// persists it. Re-submitting the same year with an identical range returns
// the existing row instead of failing, so provisioning can be replayed.
func (s *fiscalService) CreateFiscalYear(ctx context.Context, actx domain.ActionContext, req dto.CreateFiscalYearRequest) (*domain.FiscalYear, error) {
	start := normalizeDate(req.StartDate)
	end := normalizeDate(req.EndDate)
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidDateRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	existing, err := s.fiscalRepo.FindFiscalYearByYear(ctx, req.Year)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.StartDate.Equal(start) && existing.EndDate.Equal(end) {
			return existing, nil
		}
		return nil, fmt.Errorf("%w: fiscal year %d exists with a different range", apperrors.ErrDuplicate, req.Year)
	}

	overlapping, err := s.fiscalRepo.FindOverlappingYears(ctx, start, end, nil)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		o := overlapping[0]
		return nil, fmt.Errorf("%w: fiscal year %d runs %s to %s", ErrOverlappingDateRange, o.Year, o.StartDate.Format(time.DateOnly), o.EndDate.Format(time.DateOnly))
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	year := domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		Year:         req.Year,
		Name:         req.Name,
		StartDate:    start,
		EndDate:      end,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	event := s.audit.BuildEvent(actx, domain.ActionCreate, domain.KindFiscalYear, year.FiscalYearID, map[string]domain.FieldChange{
		"year":      {New: year.Year},
		"name":      {New: year.Name},
		"startDate": {New: start.Format(time.DateOnly)},
		"endDate":   {New: end.Format(time.DateOnly)},
	}, nil)
	if err := s.fiscalRepo.SaveFiscalYear(ctx, year, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to save fiscal year", slog.Int("year", req.Year))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "fiscal year created", slog.String("fiscal_year_id", year.FiscalYearID), slog.Int("year", year.Year))
	return &year, nil
}

// CloseFiscalYear closes a year once every child period is closed. A second
// close attempt fails rather than silently succeeding.
func (s *fiscalService) CloseFiscalYear(ctx context.Context, actx domain.ActionContext, fiscalYearID string, reason *string) (*domain.FiscalYear, error) {
	actor, err := actorFromContext(ctx, s.userRepo, actx)
	if err != nil {
		return nil, err
	}
	allowed, err := s.policy.CanClosePeriod(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: close fiscal year", ErrPermissionDenied)
	}

	year, err := s.fiscalRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if year.IsClosed {
		return nil, fmt.Errorf("%w: fiscal year %d is already closed", ErrInvalidTransition, year.Year)
	}

	openPeriods, err := s.fiscalRepo.CountOpenPeriods(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if openPeriods > 0 {
		return nil, fmt.Errorf("%w: %d of fiscal year %d", ErrOpenPeriodsRemain, openPeriods, year.Year)
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	year.IsClosed = true
	year.IsActive = false
	year.ClosedBy = &actorID
	year.ClosedAt = &now
	year.LastUpdatedAt = now
	year.LastUpdatedBy = actorID

	event := s.audit.BuildEvent(actx, domain.ActionCloseFiscalYear, domain.KindFiscalYear, year.FiscalYearID, map[string]domain.FieldChange{
		"isClosed": {Old: false, New: true},
	}, reason)
	if err := s.fiscalRepo.UpdateFiscalYearClosure(ctx, *year, false, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to close fiscal year", slog.String("fiscal_year_id", fiscalYearID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "fiscal year closed", slog.String("fiscal_year_id", fiscalYearID), slog.Int("year", year.Year))
	return year, nil
}

// CreatePeriod validates the range sits inside the parent year without
// touching a sibling and persists it. Identical re-submissions by (year,
// number) return the existing period.
func (s *fiscalService) CreatePeriod(ctx context.Context, actx domain.ActionContext, fiscalYearID string, req dto.CreatePeriodRequest) (*domain.AccountingPeriod, error) {
	year, err := s.fiscalRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if year.IsClosed {
		return nil, fmt.Errorf("%w: fiscal year %d", ErrFiscalYearClosed, year.Year)
	}

	start := normalizeDate(req.StartDate)
	end := normalizeDate(req.EndDate)
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidDateRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	if !year.ContainsDate(start) || !year.ContainsDate(end) {
		return nil, fmt.Errorf("%w: period range falls outside fiscal year %d", apperrors.ErrValidation, year.Year)
	}

	existing, err := s.fiscalRepo.FindPeriodByNumber(ctx, fiscalYearID, req.PeriodNumber)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.StartDate.Equal(start) && existing.EndDate.Equal(end) {
			return existing, nil
		}
		return nil, fmt.Errorf("%w: period %d exists with a different range", apperrors.ErrDuplicate, req.PeriodNumber)
	}

	siblings, err := s.fiscalRepo.ListPeriods(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	for i := range siblings {
		if siblings[i].Overlaps(start, end) {
			return nil, fmt.Errorf("%w: period %d runs %s to %s", ErrOverlappingDateRange, siblings[i].PeriodNumber, siblings[i].StartDate.Format(time.DateOnly), siblings[i].EndDate.Format(time.DateOnly))
		}
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	period := domain.AccountingPeriod{
		PeriodID:     uuid.NewString(),
		FiscalYearID: fiscalYearID,
		PeriodNumber: req.PeriodNumber,
		Name:         req.Name,
		StartDate:    start,
		EndDate:      end,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	event := s.audit.BuildEvent(actx, domain.ActionCreate, domain.KindAccountingPeriod, period.PeriodID, map[string]domain.FieldChange{
		"periodNumber": {New: period.PeriodNumber},
		"name":         {New: period.Name},
		"startDate":    {New: start.Format(time.DateOnly)},
		"endDate":      {New: end.Format(time.DateOnly)},
	}, nil)
	if err := s.fiscalRepo.SavePeriod(ctx, period, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to save period", slog.String("fiscal_year_id", fiscalYearID), slog.Int("period_number", req.PeriodNumber))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "accounting period created", slog.String("period_id", period.PeriodID), slog.Int("period_number", period.PeriodNumber))
	return &period, nil
}

// GenerateMonthlyPeriods creates the calendar-month periods covering the
// fiscal year's range. Months already covered by an existing period are
// skipped, so the call can be replayed to fill gaps.
func (s *fiscalService) GenerateMonthlyPeriods(ctx context.Context, actx domain.ActionContext, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	year, err := s.fiscalRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if year.IsClosed {
		return nil, fmt.Errorf("%w: fiscal year %d", ErrFiscalYearClosed, year.Year)
	}

	existing, err := s.fiscalRepo.ListPeriods(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	usedNumbers := make(map[int]bool, len(existing))
	for i := range existing {
		usedNumbers[existing[i].PeriodNumber] = true
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	created := []domain.AccountingPeriod{}
	events := []domain.AuditEvent{}

	number := 0
	for monthStart := time.Date(year.StartDate.Year(), year.StartDate.Month(), 1, 0, 0, 0, 0, time.UTC); !monthStart.After(year.EndDate); monthStart = monthStart.AddDate(0, 1, 0) {
		number++

		start := monthStart
		if start.Before(year.StartDate) {
			start = year.StartDate
		}
		end := monthStart.AddDate(0, 1, -1) // last day of the month
		if end.After(year.EndDate) {
			end = year.EndDate
		}

		if usedNumbers[number] {
			continue
		}
		overlapsExisting := false
		for i := range existing {
			if existing[i].Overlaps(start, end) {
				overlapsExisting = true
				break
			}
		}
		if overlapsExisting {
			continue
		}

		period := domain.AccountingPeriod{
			PeriodID:     uuid.NewString(),
			FiscalYearID: fiscalYearID,
			PeriodNumber: number,
			Name:         monthStart.Format("January 2006"),
			StartDate:    start,
			EndDate:      end,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
		created = append(created, period)
		events = append(events, s.audit.BuildEvent(actx, domain.ActionCreate, domain.KindAccountingPeriod, period.PeriodID, map[string]domain.FieldChange{
			"periodNumber": {New: period.PeriodNumber},
			"name":         {New: period.Name},
			"startDate":    {New: start.Format(time.DateOnly)},
			"endDate":      {New: end.Format(time.DateOnly)},
		}, nil))
	}

	if len(created) == 0 {
		return []domain.AccountingPeriod{}, nil
	}
	if err := s.fiscalRepo.SavePeriods(ctx, created, events); err != nil {
		s.LogError(ctx, err, "failed to generate monthly periods", slog.String("fiscal_year_id", fiscalYearID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "monthly periods generated", slog.String("fiscal_year_id", fiscalYearID), slog.Int("count", len(created)))
	return created, nil
}

// ClosePeriod closes a period. Journals can no longer be created in or
// posted into it afterwards.
func (s *fiscalService) ClosePeriod(ctx context.Context, actx domain.ActionContext, periodID string, reason *string) (*domain.AccountingPeriod, error) {
	actor, err := actorFromContext(ctx, s.userRepo, actx)
	if err != nil {
		return nil, err
	}
	allowed, err := s.policy.CanClosePeriod(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: close period", ErrPermissionDenied)
	}

	period, err := s.fiscalRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsClosed {
		return nil, fmt.Errorf("%w: period %s is already closed", ErrInvalidTransition, period.Name)
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	period.IsClosed = true
	period.ClosedBy = &actorID
	period.ClosedAt = &now
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actorID

	event := s.audit.BuildEvent(actx, domain.ActionClosePeriod, domain.KindAccountingPeriod, period.PeriodID, map[string]domain.FieldChange{
		"isClosed": {Old: false, New: true},
	}, reason)
	if err := s.fiscalRepo.UpdatePeriodClosure(ctx, *period, false, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to close period", slog.String("period_id", periodID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "accounting period closed", slog.String("period_id", periodID), slog.String("name", period.Name))
	return period, nil
}

// ReopenPeriod clears a period's closure while its parent year is still
// open, letting corrections land in the right month.
func (s *fiscalService) ReopenPeriod(ctx context.Context, actx domain.ActionContext, periodID string, reason *string) (*domain.AccountingPeriod, error) {
	actor, err := actorFromContext(ctx, s.userRepo, actx)
	if err != nil {
		return nil, err
	}
	allowed, err := s.policy.CanClosePeriod(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: reopen period", ErrPermissionDenied)
	}

	period, err := s.fiscalRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if !period.IsClosed {
		return nil, fmt.Errorf("%w: period %s is not closed", ErrInvalidTransition, period.Name)
	}

	year, err := s.fiscalRepo.FindFiscalYearByID(ctx, period.FiscalYearID)
	if err != nil {
		return nil, err
	}
	if year.IsClosed {
		return nil, fmt.Errorf("%w: fiscal year %d", ErrFiscalYearClosed, year.Year)
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	period.IsClosed = false
	period.ClosedBy = nil
	period.ClosedAt = nil
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actorID

	event := s.audit.BuildEvent(actx, domain.ActionReopenPeriod, domain.KindAccountingPeriod, period.PeriodID, map[string]domain.FieldChange{
		"isClosed": {Old: true, New: false},
	}, reason)
	if err := s.fiscalRepo.UpdatePeriodClosure(ctx, *period, true, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to reopen period", slog.String("period_id", periodID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "accounting period reopened", slog.String("period_id", periodID), slog.String("name", period.Name))
	return period, nil
}

// GetFiscalYearByID retrieves a fiscal year by its identifier.
func (s *fiscalService) GetFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	return s.fiscalRepo.FindFiscalYearByID(ctx, fiscalYearID)
}

// ListFiscalYears retrieves all fiscal years ordered by year.
func (s *fiscalService) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	return s.fiscalRepo.ListFiscalYears(ctx)
}

// GetPeriodByID retrieves a period by its identifier.
func (s *fiscalService) GetPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	return s.fiscalRepo.FindPeriodByID(ctx, periodID)
}

// ListPeriods retrieves a fiscal year's periods ordered by number.
func (s *fiscalService) ListPeriods(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	return s.fiscalRepo.ListPeriods(ctx, fiscalYearID)
}

// ResolveForDate finds the fiscal year and period containing a date.
func (s *fiscalService) ResolveForDate(ctx context.Context, date time.Time) (*domain.FiscalYear, *domain.AccountingPeriod, error) {
	d := normalizeDate(date)

	year, err := s.fiscalRepo.FindFiscalYearForDate(ctx, d)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: no fiscal year contains %s", apperrors.ErrNotFound, d.Format(time.DateOnly))
		}
		return nil, nil, err
	}

	period, err := s.fiscalRepo.FindPeriodForDate(ctx, year.FiscalYearID, d)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: no period of fiscal year %d contains %s", apperrors.ErrNotFound, year.Year, d.Format(time.DateOnly))
		}
		return nil, nil, err
	}
	return year, period, nil
}
