package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	"github.com/zayyadi/paroll-sub000/internal/utils/mapping"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction. Deferred rollbacks after a successful
// commit hit pgx.ErrTxClosed, which is not an error.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// insertOutboxEvents appends audit events to the outbox using the caller's
// transaction, so the events commit or roll back together with the change
// they describe. An empty slice is a no-op.
func insertOutboxEvents(ctx context.Context, tx pgx.Tx, events []domain.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}

	query := `
		INSERT INTO audit_outbox (event_id, actor_id, action, entity_kind, entity_id, changes, reason, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, event := range events {
		m := mapping.ToModelAuditEvent(event)
		batch.Queue(query,
			m.EventID,
			m.ActorID,
			m.Action,
			m.EntityKind,
			m.EntityID,
			m.Changes,
			m.Reason,
			m.IPAddress,
			m.UserAgent,
			m.CreatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert audit outbox event: %w", err)
		}
	}
	return nil
}
