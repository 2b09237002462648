package services

import (
	"context"
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

// accountService manages the chart of accounts. Accounts never store a
// balance; CalculateAccountBalance derives one from posted entries on every
// call.
type accountService struct {
	BaseService
	accountRepo   portsrepo.AccountRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
	audit         portssvc.AuditSvcFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, reportingRepo portsrepo.ReportingRepository, audit portssvc.AuditSvcFacade) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService:   BaseService{Outbox: audit},
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
		audit:         audit,
	}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account in the chart of accounts. Account
// numbers and names are globally unique; collisions surface as duplicates.
func (s *accountService) CreateAccount(ctx context.Context, actx domain.ActionContext, req dto.CreateAccountRequest) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: req.AccountNumber,
		Name:          req.Name,
		AccountType:   req.AccountType,
		Description:   req.Description,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	event := s.audit.BuildEvent(actx, domain.ActionCreate, domain.KindAccount, account.AccountID, map[string]domain.FieldChange{
		"accountNumber": {New: account.AccountNumber},
		"name":          {New: account.Name},
		"accountType":   {New: string(account.AccountType)},
	}, nil)
	if err := s.accountRepo.SaveAccount(ctx, account, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to save account", slog.String("account_number", req.AccountNumber))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "account created", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	return &account, nil
}

// UpdateAccount changes an account's name, description or active flag. The
// number and type are fixed for life: entries already reference them.
func (s *accountService) UpdateAccount(ctx context.Context, actx domain.ActionContext, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	changes := map[string]domain.FieldChange{}
	if req.Name != nil && *req.Name != account.Name {
		changes["name"] = domain.FieldChange{Old: account.Name, New: *req.Name}
		account.Name = *req.Name
	}
	if req.Description != nil && *req.Description != account.Description {
		changes["description"] = domain.FieldChange{Old: account.Description, New: *req.Description}
		account.Description = *req.Description
	}
	if req.IsActive != nil && *req.IsActive != account.IsActive {
		changes["isActive"] = domain.FieldChange{Old: account.IsActive, New: *req.IsActive}
		account.IsActive = *req.IsActive
	}
	if len(changes) == 0 {
		s.LogDebug(ctx, "no account fields changed", slog.String("account_id", accountID))
		return account, nil
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actorID

	event := s.audit.BuildEvent(actx, domain.ActionUpdate, domain.KindAccount, accountID, changes, nil)
	if err := s.accountRepo.UpdateAccount(ctx, *account, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount marks an account inactive so new entries reject it. Its
// posted history stays in the ledger untouched. Deactivating an already
// inactive account is a no-op.
func (s *accountService) DeactivateAccount(ctx context.Context, actx domain.ActionContext, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		s.LogDebug(ctx, "account already inactive", slog.String("account_id", accountID))
		return nil
	}

	now := time.Now().UTC()
	actorID := actx.ActorOrSystem()
	event := s.audit.BuildEvent(actx, domain.ActionUpdate, domain.KindAccount, accountID, map[string]domain.FieldChange{
		"isActive": {Old: true, New: false},
	}, nil)
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, actorID, now, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to deactivate account", slog.String("account_id", accountID))
		return err
	}
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "account deactivated", slog.String("account_id", accountID))
	return nil
}

// GetAccountByID retrieves a specific account by its unique identifier.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByNumber retrieves an account by its ledger code.
func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByNumber(ctx, accountNumber)
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

// ListAccounts retrieves a paginated list of accounts.
func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, limit, offset)
}

// CalculateAccountBalance derives the account's balance from posted entries,
// net on the account's normal side: positive means the account carries its
// usual balance, negative means it has flipped sides.
func (s *accountService) CalculateAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	var to *time.Time
	if asOf != nil {
		d := normalizeDate(*asOf)
		to = &d
	}

	debit, credit, err := s.reportingRepo.GetAccountTotals(ctx, accountID, nil, to)
	if err != nil {
		s.LogError(ctx, err, "failed to total account entries", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to calculate balance for account %s: %w", accountID, err)
	}
	return accounting.NetOnNormalSide(account.AccountType, debit, credit), nil
}
