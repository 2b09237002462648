package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
	"github.com/zayyadi/paroll-sub000/internal/utils/accounting"
)

var (
	ErrUnbalancedEntries   = errors.New("journal entries do not balance")
	ErrInsufficientEntries = errors.New("insufficient entries")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInactiveAccount     = errors.New("account is inactive")
	ErrPermissionDenied    = errors.New("permission denied")
)

// defaultNumberPadding is the zero-pad width of new transaction number
// counters, e.g. "TXN000042".
const defaultNumberPadding = 6

// journalService drives the journal lifecycle: creation, entry building,
// and the DRAFT -> PENDING_APPROVAL -> APPROVED -> POSTED transitions.
type journalService struct {
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

// JournalServiceOption is a functional option for configuring the journal service.
type JournalServiceOption func(*journalService)

// WithSequenceFormat overrides the default transaction number prefix and
// zero-pad width for newly created counters.
func WithSequenceFormat(prefix string, padding int) JournalServiceOption {
	return func(s *journalService) {
		if prefix != "" {
			s.seqPrefix = prefix
		}
		if padding > 0 {
			s.seqPadding = padding
		}
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, sequenceRepo portsrepo.SequenceRepository, accountSvc portssvc.AccountReaderSvc, fiscalSvc portssvc.FiscalSvcFacade, userRepo portsrepo.UserReader, audit portssvc.AuditSvcFacade, policy portssvc.AuthorizationPolicy, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
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

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateBalancedEntries checks the double-entry rule: at least two entries
// whose debit and credit sides sum to the same amount. It runs on every path
// that moves a journal toward POSTED; a DRAFT may be transiently unbalanced.
func validateBalancedEntries(entries []domain.JournalEntry) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: a balanced journal needs at least two entries", ErrInsufficientEntries)
	}
	debits, credits := accounting.SumEntries(entries)
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits total %s, credits total %s", ErrUnbalancedEntries, debits.String(), credits.String())
	}
	return nil
}

// buildEntries converts entry requests into domain entries for a journal,
// validating each amount and side.
func (s *journalService) buildEntries(journalID string, reqs []dto.CreateEntryRequest, now time.Time, actorID string) ([]domain.JournalEntry, error) {
	entries := make([]domain.JournalEntry, len(reqs))
	for i, er := range reqs {
		if !er.EntryType.IsValid() {
			return nil, fmt.Errorf("%w: entry type %q", apperrors.ErrValidation, er.EntryType)
		}
		if er.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: entry amount must be positive for account %s", apperrors.ErrValidation, er.AccountID)
		}
		entries[i] = domain.JournalEntry{
			EntryID:   uuid.NewString(),
			JournalID: journalID,
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
	return entries, nil
}

// checkAccountsUsable verifies every account the entries touch exists and is
// active. Inactive accounts keep their history but reject new entries.
func (s *journalService) checkAccountsUsable(ctx context.Context, entries []domain.JournalEntry) error {
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

// resolveCalendar determines the fiscal year and period a journal dated on
// date belongs to. When the caller names a period or year explicitly, the
// date must actually fall inside it.
func (s *journalService) resolveCalendar(ctx context.Context, date time.Time, fiscalYearID, periodID *string) (*domain.FiscalYear, *domain.AccountingPeriod, error) {
	switch {
	case periodID != nil:
		period, err := s.fiscalSvc.GetPeriodByID(ctx, *periodID)
		if err != nil {
			return nil, nil, err
		}
		if fiscalYearID != nil && *fiscalYearID != period.FiscalYearID {
			return nil, nil, fmt.Errorf("%w: period %s does not belong to fiscal year %s", apperrors.ErrValidation, period.PeriodID, *fiscalYearID)
		}
		if !period.ContainsDate(date) {
			return nil, nil, fmt.Errorf("%w: journal date %s falls outside period %s", apperrors.ErrValidation, date.Format(time.DateOnly), period.Name)
		}
		year, err := s.fiscalSvc.GetFiscalYearByID(ctx, period.FiscalYearID)
		if err != nil {
			return nil, nil, err
		}
		return year, period, nil

	case fiscalYearID != nil:
		year, period, err := s.fiscalSvc.ResolveForDate(ctx, date)
		if err != nil {
			return nil, nil, err
		}
		if year.FiscalYearID != *fiscalYearID {
			return nil, nil, fmt.Errorf("%w: journal date %s falls outside fiscal year %s", apperrors.ErrValidation, date.Format(time.DateOnly), *fiscalYearID)
		}
		return year, period, nil

	default:
		return s.fiscalSvc.ResolveForDate(ctx, date)
	}
}

// authorizeApprove applies the approval gate: the policy must allow the
// actor, and an accountant can never approve a journal they created
// themselves. Supervisors and admins may self-approve. Actions without an
// actor run as the system and are trusted.
func (s *journalService) authorizeApprove(ctx context.Context, actx domain.ActionContext, journal *domain.Journal) error {
	actor, err := actorFromContext(ctx, s.userRepo, actx)
	if err != nil {
		return err
	}
	if actor == nil {
		return nil
	}
	allowed, err := s.policy.CanApprove(ctx, actor, journal)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: approve journal", ErrPermissionDenied)
	}
	if journal.CreatedBy == actor.UserID && actor.Role == domain.RoleAccountant {
		return fmt.Errorf("%w: an accountant cannot approve their own journal", ErrPermissionDenied)
	}
	return nil
}

// CreateJournal validates the request, allocates a transaction number, and
// persists the journal with its entries in DRAFT. With AutoPost set it then
// runs the submit+approve+post chain, so the balance gate applies up front.
func (s *journalService) CreateJournal(ctx context.Context, actx domain.ActionContext, req dto.CreateJournalRequest) (*domain.Journal, error) {
	if len(req.Entries) == 0 {
		return nil, fmt.Errorf("%w: journal needs at least one entry", ErrInsufficientEntries)
	}

	date := normalizeDate(req.Date)
	year, period, err := s.resolveCalendar(ctx, date, req.FiscalYearID, req.PeriodID)
	if err != nil {
		return nil, err
	}
	if year.IsClosed {
		return nil, fmt.Errorf("%w: fiscal year %d", ErrFiscalYearClosed, year.Year)
	}
	if period.IsClosed {
		return nil, fmt.Errorf("%w: %s", ErrPeriodClosed, period.Name)
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	journalID := uuid.NewString()

	entries, err := s.buildEntries(journalID, req.Entries, now, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccountsUsable(ctx, entries); err != nil {
		return nil, err
	}
	if req.AutoPost {
		if err := validateBalancedEntries(entries); err != nil {
			return nil, err
		}
	}

	transactionNumber, err := s.sequenceRepo.NextTransactionNumber(ctx, year.FiscalYearID, s.seqPrefix, s.seqPadding)
	if err != nil {
		s.LogError(ctx, err, "failed to allocate transaction number", slog.String("fiscal_year_id", year.FiscalYearID))
		return nil, fmt.Errorf("failed to allocate transaction number: %w", err)
	}

	journal := domain.Journal{
		JournalID:         journalID,
		TransactionNumber: transactionNumber,
		JournalDate:       date,
		Description:       req.Description,
		FiscalYearID:      year.FiscalYearID,
		PeriodID:          period.PeriodID,
		Status:            domain.Draft,
		SourceID:          req.SourceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if req.SourceKind != nil {
		kind := domain.EntityKind(*req.SourceKind)
		journal.SourceKind = &kind
	}

	event := s.audit.BuildEvent(actx, domain.ActionCreate, domain.KindJournal, journalID, map[string]domain.FieldChange{
		"transactionNumber": {New: transactionNumber},
		"journalDate":       {New: date.Format(time.DateOnly)},
		"description":       {New: req.Description},
		"status":            {New: string(domain.Draft)},
		"entryCount":        {New: len(entries)},
	}, nil)
	if err := s.journalRepo.SaveJournal(ctx, journal, entries, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to save journal", slog.String("journal_id", journalID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "journal created",
		slog.String("journal_id", journalID),
		slog.String("transaction_number", transactionNumber),
		slog.Int("entry_count", len(entries)))

	if req.AutoPost {
		posted, err := s.PostJournal(ctx, actx, journalID)
		if err != nil {
			return nil, fmt.Errorf("journal %s created but auto-post failed: %w", journalID, err)
		}
		return posted, nil
	}

	journal.Entries = entries
	return &journal, nil
}

// AddEntry appends one entry to a DRAFT journal. The repository re-checks
// the status under lock; the check here just fails fast with the right error.
func (s *journalService) AddEntry(ctx context.Context, actx domain.ActionContext, journalID string, req dto.CreateEntryRequest) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.Draft {
		return nil, fmt.Errorf("%w: cannot add entries to a %s journal", ErrInvalidTransition, journal.Status)
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	built, err := s.buildEntries(journalID, []dto.CreateEntryRequest{req}, now, actorID)
	if err != nil {
		return nil, err
	}
	entry := built[0]
	if err := s.checkAccountsUsable(ctx, built); err != nil {
		return nil, err
	}

	event := s.audit.BuildEvent(actx, domain.ActionUpdate, domain.KindJournal, journalID, map[string]domain.FieldChange{
		"entryID":   {New: entry.EntryID},
		"accountID": {New: entry.AccountID},
		"entryType": {New: string(entry.EntryType)},
		"amount":    {New: entry.Amount.String()},
	}, nil)
	if err := s.journalRepo.AddEntry(ctx, journalID, entry, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to add entry", slog.String("journal_id", journalID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "entry added", slog.String("journal_id", journalID), slog.String("entry_id", entry.EntryID))
	return s.GetJournalByID(ctx, journalID)
}

// SubmitForApproval moves DRAFT -> PENDING_APPROVAL. The balance gate runs
// here so approvers only ever see balanced journals.
func (s *journalService) SubmitForApproval(ctx context.Context, actx domain.ActionContext, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.Draft {
		return nil, fmt.Errorf("%w: cannot submit a %s journal", ErrInvalidTransition, journal.Status)
	}

	entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if err := validateBalancedEntries(entries); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	journal.Status = domain.PendingApproval
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = actorID

	event := s.audit.BuildEvent(actx, domain.ActionSubmit, domain.KindJournal, journalID, map[string]domain.FieldChange{
		"status": {Old: string(domain.Draft), New: string(domain.PendingApproval)},
	}, nil)
	if err := s.journalRepo.UpdateJournalStatus(ctx, *journal, domain.Draft, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to submit journal", slog.String("journal_id", journalID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "journal submitted for approval", slog.String("journal_id", journalID))
	return journal, nil
}

// ApproveJournal moves PENDING_APPROVAL (or DRAFT, for the short path that
// skips submission) to APPROVED and stamps the approver.
func (s *journalService) ApproveJournal(ctx context.Context, actx domain.ActionContext, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	expected := journal.Status
	if !expected.CanTransitionTo(domain.Approved) {
		return nil, fmt.Errorf("%w: cannot approve a %s journal", ErrInvalidTransition, expected)
	}
	if err := s.authorizeApprove(ctx, actx, journal); err != nil {
		return nil, err
	}

	// The DRAFT path skipped submission, so the balance gate runs here.
	if expected == domain.Draft {
		entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
		if err != nil {
			return nil, err
		}
		if err := validateBalancedEntries(entries); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	journal.Status = domain.Approved
	journal.ApprovedBy = &actorID
	journal.ApprovedAt = &now
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = actorID

	event := s.audit.BuildEvent(actx, domain.ActionApprove, domain.KindJournal, journalID, map[string]domain.FieldChange{
		"status":     {Old: string(expected), New: string(domain.Approved)},
		"approvedBy": {New: actorID},
	}, nil)
	if err := s.journalRepo.UpdateJournalStatus(ctx, *journal, expected, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to approve journal", slog.String("journal_id", journalID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "journal approved", slog.String("journal_id", journalID), slog.String("approved_by", actorID))
	return journal, nil
}

// RejectJournal moves PENDING_APPROVAL -> CANCELLED with a mandatory reason.
func (s *journalService) RejectJournal(ctx context.Context, actx domain.ActionContext, journalID string, reason string) (*domain.Journal, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.PendingApproval {
		return nil, fmt.Errorf("%w: cannot reject a %s journal", ErrInvalidTransition, journal.Status)
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	journal.Status = domain.Cancelled
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = actorID

	event := s.audit.BuildEvent(actx, domain.ActionReject, domain.KindJournal, journalID, map[string]domain.FieldChange{
		"status": {Old: string(domain.PendingApproval), New: string(domain.Cancelled)},
	}, &reason)
	if err := s.journalRepo.UpdateJournalStatus(ctx, *journal, domain.PendingApproval, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to reject journal", slog.String("journal_id", journalID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "journal rejected", slog.String("journal_id", journalID))
	return journal, nil
}

// PostJournal finalizes a journal into the ledger. An APPROVED journal posts
// directly; a DRAFT first runs submit and approve, each emitting its own
// audit event. Posting re-validates the calendar gates and the balance.
func (s *journalService) PostJournal(ctx context.Context, actx domain.ActionContext, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}

	switch journal.Status {
	case domain.Approved:
		// Post directly.
	case domain.Draft:
		if _, err := s.SubmitForApproval(ctx, actx, journalID); err != nil {
			return nil, err
		}
		if _, err := s.ApproveJournal(ctx, actx, journalID); err != nil {
			return nil, err
		}
		journal, err = s.journalRepo.FindJournalByID(ctx, journalID)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: cannot post a %s journal", ErrInvalidTransition, journal.Status)
	}

	period, err := s.fiscalSvc.GetPeriodByID(ctx, journal.PeriodID)
	if err != nil {
		return nil, err
	}
	if period.IsClosed {
		return nil, fmt.Errorf("%w: %s", ErrPeriodClosed, period.Name)
	}
	year, err := s.fiscalSvc.GetFiscalYearByID(ctx, journal.FiscalYearID)
	if err != nil {
		return nil, err
	}
	if year.IsClosed {
		return nil, fmt.Errorf("%w: fiscal year %d", ErrFiscalYearClosed, year.Year)
	}

	entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if err := validateBalancedEntries(entries); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	journal.Status = domain.Posted
	journal.PostedBy = &actorID
	journal.PostedAt = &now
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = actorID

	event := s.audit.BuildEvent(actx, domain.ActionPost, domain.KindJournal, journalID, map[string]domain.FieldChange{
		"status":   {Old: string(domain.Approved), New: string(domain.Posted)},
		"postedBy": {New: actorID},
	}, nil)
	if err := s.journalRepo.UpdateJournalStatus(ctx, *journal, domain.Approved, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to post journal", slog.String("journal_id", journalID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "journal posted",
		slog.String("journal_id", journalID),
		slog.String("transaction_number", journal.TransactionNumber),
		slog.String("posted_by", actorID))

	journal.Entries = entries
	return journal, nil
}

// GetJournalByID retrieves a journal with its entries hydrated.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find journal", slog.String("journal_id", journalID))
		}
		return nil, err
	}

	entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		s.LogError(ctx, err, "failed to fetch entries for journal", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to retrieve entries for journal %s: %w", journalID, err)
	}
	journal.Entries = entries

	s.LogDebug(ctx, "journal retrieved", slog.String("journal_id", journalID), slog.Int("entry_count", len(entries)))
	return journal, nil
}

// ListJournals retrieves a filtered page of journals, optionally hydrating
// entries in one batched lookup.
func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	filter := portsrepo.JournalFilter{
		PeriodID: params.PeriodID,
		SourceID: params.SourceID,
	}
	if params.Status != nil {
		status := domain.JournalStatus(*params.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *params.Status)
		}
		filter.Status = &status
	}
	if params.SourceKind != nil {
		kind := domain.EntityKind(*params.SourceKind)
		filter.SourceKind = &kind
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	journals, nextToken, err := s.journalRepo.ListJournals(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list journals")
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}

	var entriesByJournal map[string][]domain.JournalEntry
	if params.IncludeEntries && len(journals) > 0 {
		journalIDs := make([]string, len(journals))
		for i := range journals {
			journalIDs[i] = journals[i].JournalID
		}
		entriesByJournal, err = s.journalRepo.FindEntriesByJournalIDs(ctx, journalIDs)
		if err != nil {
			// Continue with headers only rather than failing the listing.
			s.GetLogger(ctx).Warn("failed to fetch entries for journal listing", "error", err)
		}
	}

	responses := make([]dto.JournalResponse, len(journals))
	for i := range journals {
		if entriesByJournal != nil {
			journals[i].Entries = entriesByJournal[journals[i].JournalID]
		}
		responses[i] = dto.ToJournalResponse(&journals[i])
	}

	s.LogDebug(ctx, "journals listed", slog.Int("count", len(journals)))
	return &dto.ListJournalsResponse{
		Journals:  responses,
		NextToken: nextToken,
	}, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
