package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByNumber retrieves an account by its ledger code.
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts by their IDs.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, actx domain.ActionContext, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, actx domain.ActionContext, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive. Its history stays in
	// the ledger; only new entries are rejected.
	DeactivateAccount(ctx context.Context, actx domain.ActionContext, accountID string) error
}

// AccountCalculatorSvc defines calculation operations for account data
type AccountCalculatorSvc interface {
	// CalculateAccountBalance derives the account's balance from posted
	// entries, optionally limited to journal dates at or before asOf.
	// Nothing unposted ever contributes.
	CalculateAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountCalculatorSvc
}
