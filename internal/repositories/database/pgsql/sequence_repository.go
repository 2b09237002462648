package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
)

type PgxSequenceRepository struct {
	pool *pgxpool.Pool
}

// newPgxSequenceRepository creates a new repository for transaction number sequences.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{pool: pool}
}

// Ensure PgxSequenceRepository implements portsrepo.SequenceRepository
var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextTransactionNumber allocates the next number for (fiscalYearID, prefix)
// in a single atomic upsert. Concurrent callers serialize on the counter row,
// so two of them can never receive the same number. The call runs on the pool
// rather than inside the journal's transaction: a journal insert that fails
// afterwards leaves a gap in the sequence, never a duplicate.
func (r *PgxSequenceRepository) NextTransactionNumber(ctx context.Context, fiscalYearID string, prefix string, padding int) (string, error) {
	query := `
		INSERT INTO transaction_sequences (fiscal_year_id, prefix, last_number, padding)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (fiscal_year_id, prefix)
		DO UPDATE SET last_number = transaction_sequences.last_number + 1
		RETURNING last_number, padding;
	`
	seq := domain.TransactionSequence{
		FiscalYearID: fiscalYearID,
		Prefix:       prefix,
	}
	err := r.pool.QueryRow(ctx, query, fiscalYearID, prefix, padding).Scan(&seq.LastNumber, &seq.Padding)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // FK violation
			return "", fmt.Errorf("%w: fiscal year %s", apperrors.ErrNotFound, fiscalYearID)
		}
		return "", apperrors.NewAppError(500, "failed to allocate transaction number for fiscal year "+fiscalYearID, err)
	}
	return seq.NumberString(), nil
}

// GetSequence retrieves the current counter row for inspection.
func (r *PgxSequenceRepository) GetSequence(ctx context.Context, fiscalYearID string, prefix string) (*domain.TransactionSequence, error) {
	query := `
		SELECT fiscal_year_id, prefix, last_number, padding
		FROM transaction_sequences
		WHERE fiscal_year_id = $1 AND prefix = $2;
	`
	var seq domain.TransactionSequence
	err := r.pool.QueryRow(ctx, query, fiscalYearID, prefix).Scan(
		&seq.FiscalYearID,
		&seq.Prefix,
		&seq.LastNumber,
		&seq.Padding,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sequence %s/%s: %w", fiscalYearID, prefix, err)
	}
	return &seq, nil
}
