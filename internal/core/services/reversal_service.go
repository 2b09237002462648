package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

var (
	ErrAlreadyReversed       = errors.New("journal already reversed")
	ErrInvalidReversalAmount = errors.New("invalid reversal amount")
)

// BatchReversalError aggregates the per-journal failures of a batch run. It
// is returned alongside the result so callers see both the successes and
// every failure in one synchronous report.
type BatchReversalError struct {
	Failures []domain.BatchReversalFailure
}

func (e *BatchReversalError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.JournalID, f.Err)
	}
	return fmt.Sprintf("batch reversal failed for %d journal(s): %s", len(e.Failures), strings.Join(parts, "; "))
}

// reversalService offsets posted journals with new, flipped journals.
type reversalService struct {
	BaseService
	journalRepo  portsrepo.JournalRepositoryFacade
	sequenceRepo portsrepo.SequenceRepository
	accountSvc   portssvc.AccountReaderSvc
	fiscalSvc    portssvc.FiscalSvcFacade
	userRepo     portsrepo.UserReader
	audit        portssvc.AuditSvcFacade
	policy       portssvc.AuthorizationPolicy
	seqPrefix    string
	seqPadding   int
}

// ReversalServiceOption is a functional option for configuring the reversal service.
type ReversalServiceOption func(*reversalService)

// WithReversalSequenceFormat overrides the transaction number prefix and
// zero-pad width used for reversal and correction journals. Reversals share
// the journal sequence, so this should match the journal service's format.
func WithReversalSequenceFormat(prefix string, padding int) ReversalServiceOption {
	return func(s *reversalService) {
		if prefix != "" {
			s.seqPrefix = prefix
		}
		if padding > 0 {
			s.seqPadding = padding
		}
	}
}

// NewReversalService creates a new ReversalService.
func NewReversalService(journalRepo portsrepo.JournalRepositoryFacade, sequenceRepo portsrepo.SequenceRepository, accountSvc portssvc.AccountReaderSvc, fiscalSvc portssvc.FiscalSvcFacade, userRepo portsrepo.UserReader, audit portssvc.AuditSvcFacade, policy portssvc.AuthorizationPolicy, options ...ReversalServiceOption) portssvc.ReversalSvc {
	svc := &reversalService{
		BaseService:  BaseService{Outbox: audit},
		journalRepo:  journalRepo,
		sequenceRepo: sequenceRepo,
		accountSvc:   accountSvc,
		fiscalSvc:    fiscalSvc,
		userRepo:     userRepo,
		audit:        audit,
		policy:       policy,
		seqPrefix:    domain.DefaultSequencePrefix,
		seqPadding:   defaultNumberPadding,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reversalService implements the portssvc.ReversalSvc interface
var _ portssvc.ReversalSvc = (*reversalService)(nil)

// authorizeReverse consults the policy. Actions without an actor run as the
// system and are trusted.
func (s *reversalService) authorizeReverse(ctx context.Context, actx domain.ActionContext, journal *domain.Journal) error {
	actor, err := actorFromContext(ctx, s.userRepo, actx)
	if err != nil {
		return err
	}
	if actor == nil {
		return nil
	}
	allowed, err := s.policy.CanReverse(ctx, actor, journal)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: reverse journal", ErrPermissionDenied)
	}
	return nil
}

// loadReversible fetches a journal and its entries and rejects everything a
// reversal cannot target: non-POSTED journals, already-reversed journals,
// and journals that are themselves reversals.
func (s *reversalService) loadReversible(ctx context.Context, actx domain.ActionContext, journalID string) (*domain.Journal, []domain.JournalEntry, error) {
	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, nil, err
	}
	if original.Status == domain.Reversed {
		return nil, nil, fmt.Errorf("%w: journal %s", ErrAlreadyReversed, journalID)
	}
	if original.IsReversal() {
		return nil, nil, fmt.Errorf("%w: journal %s is itself a reversal", ErrAlreadyReversed, journalID)
	}
	if original.Status != domain.Posted {
		return nil, nil, fmt.Errorf("%w: cannot reverse a %s journal", ErrInvalidTransition, original.Status)
	}
	if err := s.authorizeReverse(ctx, actx, original); err != nil {
		return nil, nil, err
	}

	entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		return nil, nil, err
	}
	return original, entries, nil
}

// resolveReversalCalendar picks the reversal's date (the original's unless
// the caller overrides it) and checks the containing period and year are
// still open. Reversing into a closed month never works; callers re-date the
// reversal into the current open period instead.
func (s *reversalService) resolveReversalCalendar(ctx context.Context, original *domain.Journal, override *time.Time) (*domain.FiscalYear, *domain.AccountingPeriod, time.Time, error) {
	date := original.JournalDate
	if override != nil {
		date = normalizeDate(*override)
	}

	year, period, err := s.fiscalSvc.ResolveForDate(ctx, date)
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	if year.IsClosed {
		return nil, nil, time.Time{}, fmt.Errorf("%w: fiscal year %d", ErrFiscalYearClosed, year.Year)
	}
	if period.IsClosed {
		return nil, nil, time.Time{}, fmt.Errorf("%w: %s", ErrPeriodClosed, period.Name)
	}
	return year, period, date, nil
}

// stampPosted marks a generated journal as approved and posted by the actor
// in one step. Reversals and corrections never pass through the approval
// queue; the acting user is both approver and poster.
func stampPosted(j *domain.Journal, actorID string, now time.Time) {
	j.Status = domain.Posted
	j.ApprovedBy = &actorID
	j.ApprovedAt = &now
	j.PostedBy = &actorID
	j.PostedAt = &now
}

// ReverseJournal fully offsets a posted journal: every entry is flipped at
// its full amount into a new posted journal, and the original is marked
// REVERSED with links in both directions.
func (s *reversalService) ReverseJournal(ctx context.Context, actx domain.ActionContext, journalID string, req dto.ReverseJournalRequest) (*domain.Journal, error) {
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}

	original, originalEntries, err := s.loadReversible(ctx, actx, journalID)
	if err != nil {
		return nil, err
	}

	year, period, date, err := s.resolveReversalCalendar(ctx, original, req.Date)
	if err != nil {
		return nil, err
	}

	transactionNumber, err := s.sequenceRepo.NextTransactionNumber(ctx, year.FiscalYearID, s.seqPrefix, s.seqPadding)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate transaction number: %w", err)
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	reversalID := uuid.NewString()
	sourceKind := domain.KindJournal

	reversal := domain.Journal{
		JournalID:         reversalID,
		TransactionNumber: transactionNumber,
		JournalDate:       date,
		Description:       "REVERSAL: " + original.Description,
		FiscalYearID:      year.FiscalYearID,
		PeriodID:          period.PeriodID,
		SourceKind:        &sourceKind,
		SourceID:          &original.JournalID,
		ReversedJournalID: &original.JournalID,
		ReversalReason:    &req.Reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	stampPosted(&reversal, actorID, now)

	flipped := make([]domain.JournalEntry, len(originalEntries))
	for i, orig := range originalEntries {
		flipped[i] = domain.JournalEntry{
			EntryID:   uuid.NewString(),
			JournalID: reversalID,
			AccountID: orig.AccountID,
			EntryType: orig.EntryType.Opposite(),
			Amount:    orig.Amount,
			Memo:      orig.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	original.Status = domain.Reversed
	original.ReversingJournalID = &reversalID
	original.ReversalReason = &req.Reason
	original.LastUpdatedAt = now
	original.LastUpdatedBy = actorID

	events := []domain.AuditEvent{
		s.audit.BuildEvent(actx, domain.ActionReverse, domain.KindJournal, original.JournalID, map[string]domain.FieldChange{
			"status":             {Old: string(domain.Posted), New: string(domain.Reversed)},
			"reversingJournalID": {New: reversalID},
		}, &req.Reason),
		s.audit.BuildEvent(actx, domain.ActionCreate, domain.KindJournal, reversalID, map[string]domain.FieldChange{
			"transactionNumber": {New: transactionNumber},
			"description":       {New: reversal.Description},
			"reversedJournalID": {New: original.JournalID},
		}, &req.Reason),
		s.audit.BuildEvent(actx, domain.ActionPost, domain.KindJournal, reversalID, map[string]domain.FieldChange{
			"status":   {New: string(domain.Posted)},
			"postedBy": {New: actorID},
		}, nil),
	}

	if err := s.journalRepo.SaveReversal(ctx, reversal, flipped, original, events); err != nil {
		s.LogError(ctx, err, "failed to save reversal", slog.String("journal_id", journalID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "journal reversed",
		slog.String("journal_id", journalID),
		slog.String("reversal_journal_id", reversalID),
		slog.String("transaction_number", transactionNumber))

	reversal.Entries = flipped
	return &reversal, nil
}

// ReverseJournalPartial offsets a subset of a posted journal's entries, each
// at full or reduced amount. The original stays POSTED; only the reversal
// side carries the link.
func (s *reversalService) ReverseJournalPartial(ctx context.Context, actx domain.ActionContext, journalID string, req dto.PartialReversalRequest) (*domain.Journal, error) {
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}
	if len(req.EntryIDs) == 0 && len(req.Amounts) == 0 {
		return nil, fmt.Errorf("%w: no entries selected for reversal", ErrInsufficientEntries)
	}
	if len(req.EntryIDs) > 0 && len(req.Amounts) > 0 {
		return nil, fmt.Errorf("%w: specify entry IDs or an amounts map, not both", apperrors.ErrValidation)
	}

	original, originalEntries, err := s.loadReversible(ctx, actx, journalID)
	if err != nil {
		return nil, err
	}

	selected, err := selectEntriesToReverse(original, originalEntries, req.EntryIDs, req.Amounts)
	if err != nil {
		return nil, err
	}

	year, period, date, err := s.resolveReversalCalendar(ctx, original, req.Date)
	if err != nil {
		return nil, err
	}

	transactionNumber, err := s.sequenceRepo.NextTransactionNumber(ctx, year.FiscalYearID, s.seqPrefix, s.seqPadding)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate transaction number: %w", err)
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	reversalID := uuid.NewString()
	sourceKind := domain.KindJournal

	reversal := domain.Journal{
		JournalID:         reversalID,
		TransactionNumber: transactionNumber,
		JournalDate:       date,
		Description:       "PARTIAL REVERSAL: " + original.Description,
		FiscalYearID:      year.FiscalYearID,
		PeriodID:          period.PeriodID,
		SourceKind:        &sourceKind,
		SourceID:          &original.JournalID,
		ReversedJournalID: &original.JournalID,
		ReversalReason:    &req.Reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	stampPosted(&reversal, actorID, now)

	flipped := make([]domain.JournalEntry, len(selected))
	for i, sel := range selected {
		flipped[i] = domain.JournalEntry{
			EntryID:   uuid.NewString(),
			JournalID: reversalID,
			AccountID: sel.entry.AccountID,
			EntryType: sel.entry.EntryType.Opposite(),
			Amount:    sel.amount,
			Memo:      sel.entry.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	events := []domain.AuditEvent{
		s.audit.BuildEvent(actx, domain.ActionReverse, domain.KindJournal, original.JournalID, map[string]domain.FieldChange{
			"partialReversalJournalID": {New: reversalID},
			"entriesReversed":          {New: len(flipped)},
		}, &req.Reason),
		s.audit.BuildEvent(actx, domain.ActionCreate, domain.KindJournal, reversalID, map[string]domain.FieldChange{
			"transactionNumber": {New: transactionNumber},
			"description":       {New: reversal.Description},
			"reversedJournalID": {New: original.JournalID},
		}, &req.Reason),
		s.audit.BuildEvent(actx, domain.ActionPost, domain.KindJournal, reversalID, map[string]domain.FieldChange{
			"status":   {New: string(domain.Posted)},
			"postedBy": {New: actorID},
		}, nil),
	}

	// nil original: a partial reversal never touches the source journal's row.
	if err := s.journalRepo.SaveReversal(ctx, reversal, flipped, nil, events); err != nil {
		s.LogError(ctx, err, "failed to save partial reversal", slog.String("journal_id", journalID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "journal partially reversed",
		slog.String("journal_id", journalID),
		slog.String("reversal_journal_id", reversalID),
		slog.Int("entries_reversed", len(flipped)))

	reversal.Entries = flipped
	return &reversal, nil
}

// ReverseJournalWithCorrection performs a full reversal and then posts an
// independent correction journal built from the supplied entries. The two
// are separate atomic units: a correction failure leaves the completed
// reversal standing and the returned error reports the correction.
func (s *reversalService) ReverseJournalWithCorrection(ctx context.Context, actx domain.ActionContext, journalID string, req dto.ReverseWithCorrectionRequest) (*domain.Journal, *domain.Journal, error) {
	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, nil, err
	}

	// Validate the correction before reversing, so a bad correction request
	// does not leave a reversal behind.
	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	correctionID := uuid.NewString()
	correctionEntries := make([]domain.JournalEntry, len(req.CorrectionEntries))
	for i, er := range req.CorrectionEntries {
		if !er.EntryType.IsValid() {
			return nil, nil, fmt.Errorf("%w: entry type %q", apperrors.ErrValidation, er.EntryType)
		}
		if er.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, nil, fmt.Errorf("%w: entry amount must be positive for account %s", apperrors.ErrValidation, er.AccountID)
		}
		correctionEntries[i] = domain.JournalEntry{
			EntryID:   uuid.NewString(),
			JournalID: correctionID,
			AccountID: er.AccountID,
			EntryType: er.EntryType,
			Amount:    er.Amount,
			Memo:      er.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}
	if err := validateBalancedEntries(correctionEntries); err != nil {
		return nil, nil, err
	}
	if err := s.checkCorrectionAccounts(ctx, correctionEntries); err != nil {
		return nil, nil, err
	}

	reversal, err := s.ReverseJournal(ctx, actx, journalID, dto.ReverseJournalRequest{Reason: req.Reason, Date: req.Date})
	if err != nil {
		return nil, nil, err
	}

	year, period, date, err := s.resolveReversalCalendar(ctx, original, req.Date)
	if err != nil {
		return reversal, nil, fmt.Errorf("reversal %s completed but correction failed: %w", reversal.JournalID, err)
	}

	transactionNumber, err := s.sequenceRepo.NextTransactionNumber(ctx, year.FiscalYearID, s.seqPrefix, s.seqPadding)
	if err != nil {
		return reversal, nil, fmt.Errorf("reversal %s completed but correction failed: %w", reversal.JournalID, err)
	}

	description := "CORRECTION: " + original.Description
	if req.CorrectionDescription != nil && *req.CorrectionDescription != "" {
		description = *req.CorrectionDescription
	}
	sourceKind := domain.KindJournal

	correction := domain.Journal{
		JournalID:         correctionID,
		TransactionNumber: transactionNumber,
		JournalDate:       date,
		Description:       description,
		FiscalYearID:      year.FiscalYearID,
		PeriodID:          period.PeriodID,
		SourceKind:        &sourceKind,
		SourceID:          &original.JournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	stampPosted(&correction, actorID, now)

	events := []domain.AuditEvent{
		s.audit.BuildEvent(actx, domain.ActionCreate, domain.KindJournal, correctionID, map[string]domain.FieldChange{
			"transactionNumber": {New: transactionNumber},
			"description":       {New: description},
			"correctsJournalID": {New: original.JournalID},
		}, &req.Reason),
		s.audit.BuildEvent(actx, domain.ActionPost, domain.KindJournal, correctionID, map[string]domain.FieldChange{
			"status":   {New: string(domain.Posted)},
			"postedBy": {New: actorID},
		}, nil),
	}

	if err := s.journalRepo.SaveJournal(ctx, correction, correctionEntries, events); err != nil {
		s.LogError(ctx, err, "correction failed after completed reversal",
			slog.String("journal_id", journalID),
			slog.String("reversal_journal_id", reversal.JournalID))
		return reversal, nil, fmt.Errorf("reversal %s completed but correction failed: %w", reversal.JournalID, err)
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "journal reversed with correction",
		slog.String("journal_id", journalID),
		slog.String("reversal_journal_id", reversal.JournalID),
		slog.String("correction_journal_id", correctionID))

	correction.Entries = correctionEntries
	return reversal, &correction, nil
}

// BatchReverseJournals attempts a full reversal of every listed journal
// independently. One journal's failure never blocks or rolls back the
// others; the result always reflects the full attempt.
func (s *reversalService) BatchReverseJournals(ctx context.Context, actx domain.ActionContext, req dto.BatchReverseRequest) (*domain.BatchReversalResult, error) {
	result := &domain.BatchReversalResult{
		Succeeded: []domain.Journal{},
		Failed:    []domain.BatchReversalFailure{},
	}

	for _, journalID := range req.JournalIDs {
		reversal, err := s.ReverseJournal(ctx, actx, journalID, dto.ReverseJournalRequest{Reason: req.Reason})
		if err != nil {
			result.Failed = append(result.Failed, domain.BatchReversalFailure{JournalID: journalID, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, *reversal)
	}

	s.LogInfo(ctx, "batch reversal completed",
		slog.Int("requested", len(req.JournalIDs)),
		slog.Int("succeeded", len(result.Succeeded)),
		slog.Int("failed", len(result.Failed)))

	if len(result.Failed) > 0 {
		return result, &BatchReversalError{Failures: result.Failed}
	}
	return result, nil
}

// checkCorrectionAccounts verifies the accounts a correction touches exist
// and are active.
func (s *reversalService) checkCorrectionAccounts(ctx context.Context, entries []domain.JournalEntry) error {
	ids := make([]string, 0, len(entries))
	for i := range entries {
		ids = append(ids, entries[i].AccountID)
	}
	ids = uniqueStrings(ids)

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		acc, found := accounts[id]
		if !found {
			return fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s (%s)", ErrInactiveAccount, acc.AccountNumber, acc.Name)
		}
	}
	return nil
}

// selectedEntry pairs an original entry with the amount to reverse it at.
type selectedEntry struct {
	entry  domain.JournalEntry
	amount decimal.Decimal
}

// selectEntriesToReverse resolves a partial reversal's selection against the
// original entries, in the original's entry order. IDs mode reverses each
// selected entry at its full amount; amounts mode reverses at the given
// amount, which must be positive and at most the original amount. Repeated
// partial reversals are permitted; guarding cumulative over-reversal across
// calls is the caller's responsibility.
func selectEntriesToReverse(journal *domain.Journal, entries []domain.JournalEntry, entryIDs []string, amounts map[string]decimal.Decimal) ([]selectedEntry, error) {
	byID := make(map[string]domain.JournalEntry, len(entries))
	for _, e := range entries {
		byID[e.EntryID] = e
	}

	wanted := make(map[string]decimal.Decimal, len(entryIDs)+len(amounts))
	for _, id := range entryIDs {
		entry, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: entry %s does not belong to journal %s", apperrors.ErrValidation, id, journal.JournalID)
		}
		wanted[id] = entry.Amount
	}
	for id, amount := range amounts {
		entry, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: entry %s does not belong to journal %s", apperrors.ErrValidation, id, journal.JournalID)
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: amount for entry %s must be positive", ErrInvalidReversalAmount, id)
		}
		if amount.GreaterThan(entry.Amount) {
			return nil, fmt.Errorf("%w: %s exceeds the original %s for entry %s", ErrInvalidReversalAmount, amount.String(), entry.Amount.String(), id)
		}
		wanted[id] = amount
	}

	selected := make([]selectedEntry, 0, len(wanted))
	for _, e := range entries {
		if amount, ok := wanted[e.EntryID]; ok {
			selected = append(selected, selectedEntry{entry: e, amount: amount})
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: no entries selected for reversal", ErrInsufficientEntries)
	}
	return selected, nil
}
