package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager lets a service span several repository calls in one
// atomic unit. Composite write methods (SaveJournal, SaveReversal, ...) open
// and close their own transaction internally and do not need it.
type TransactionManager interface {
	// Begin starts a database transaction.
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits the transaction.
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls the transaction back. Rolling back an already
	// committed transaction is a no-op.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
