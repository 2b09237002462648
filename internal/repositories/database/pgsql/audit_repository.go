package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	"github.com/zayyadi/paroll-sub000/internal/models"
	"github.com/zayyadi/paroll-sub000/internal/utils/mapping"
	"github.com/zayyadi/paroll-sub000/internal/utils/pagination"
)

const auditRecordColumns = `record_id, actor_id, action, entity_kind, entity_id, changes, reason, ip_address, user_agent, created_at`

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit outbox and trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepositoryFacade
var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

func scanAuditRecord(row pgx.Row) (models.AuditRecord, error) {
	var m models.AuditRecord
	err := row.Scan(
		&m.RecordID,
		&m.ActorID,
		&m.Action,
		&m.EntityKind,
		&m.EntityID,
		&m.Changes,
		&m.Reason,
		&m.IPAddress,
		&m.UserAgent,
		&m.CreatedAt,
	)
	return m, err
}

// SaveEvents appends events to the outbox in their own transaction. This is
// the standalone path; events accompanying a financial change ride inside the
// owning repository's transaction instead.
func (r *PgxAuditRepository) SaveEvents(ctx context.Context, events []domain.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FlushOutbox moves up to limit outbox events into the audit trail in one
// statement. SKIP LOCKED lets concurrent flushers drain disjoint batches, and
// the event ID is preserved as the record ID so redelivery cannot duplicate.
func (r *PgxAuditRepository) FlushOutbox(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		WITH moved AS (
			DELETE FROM audit_outbox
			WHERE event_id IN (
				SELECT event_id FROM audit_outbox
				ORDER BY created_at, event_id
				LIMIT $1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING event_id, actor_id, action, entity_kind, entity_id, changes, reason, ip_address, user_agent, created_at
		)
		INSERT INTO audit_trail (` + auditRecordColumns + `)
		SELECT event_id, actor_id, action, entity_kind, entity_id, changes, reason, ip_address, user_agent, created_at
		FROM moved
		ON CONFLICT (record_id) DO NOTHING;
	`
	tag, err := r.Pool.Exec(ctx, query, limit)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to flush audit outbox", err)
	}
	return int(tag.RowsAffected()), nil
}

// CountPendingEvents counts outbox events not yet delivered to the trail.
func (r *PgxAuditRepository) CountPendingEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_outbox;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending audit events: %w", err)
	}
	return count, nil
}

// ListAuditRecords retrieves a filtered page of the trail, newest first,
// using token-based pagination on (created_at, record_id).
func (r *PgxAuditRepository) ListAuditRecords(ctx context.Context, filter portsrepo.AuditFilter, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	conditions := []string{}
	args := []interface{}{}
	if filter.EntityKind != nil {
		args = append(args, string(*filter.EntityKind))
		conditions = append(conditions, "entity_kind = $"+strconv.Itoa(len(args)))
	}
	if filter.EntityID != nil {
		args = append(args, *filter.EntityID)
		conditions = append(conditions, "entity_id = $"+strconv.Itoa(len(args)))
	}
	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		conditions = append(conditions, "actor_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Action != nil {
		args = append(args, string(*filter.Action))
		conditions = append(conditions, "action = $"+strconv.Itoa(len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, "created_at <= $"+strconv.Itoa(len(args)))
	}

	if nextToken != nil && *nextToken != "" {
		parts, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(parts) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		lastCreatedAt, parseErr := time.Parse(time.RFC3339Nano, parts[0])
		if parseErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", parseErr)
		}
		args = append(args, lastCreatedAt, parts[1])
		conditions = append(conditions, "(created_at, record_id) < ($"+strconv.Itoa(len(args)-1)+", $"+strconv.Itoa(len(args))+")")
	}

	query := `SELECT ` + auditRecordColumns + ` FROM audit_trail`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, fetchLimit)
	query += " ORDER BY created_at DESC, record_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list audit records", err)
	}
	defer rows.Close()

	records := []models.AuditRecord{}
	for rows.Next() {
		m, err := scanAuditRecord(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan audit record row", err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating audit record rows", err)
	}

	var newNextToken *string
	if len(records) == fetchLimit {
		records = records[:limit]
		last := records[len(records)-1]
		token := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.RecordID)
		newNextToken = &token
	}
	return mapping.ToDomainAuditRecordSlice(records), newNextToken, nil
}

// ListDistinctEntityIDs returns the distinct entity IDs referenced by trail
// records of one kind.
func (r *PgxAuditRepository) ListDistinctEntityIDs(ctx context.Context, kind domain.EntityKind) ([]string, error) {
	query := `
		SELECT DISTINCT entity_id
		FROM audit_trail
		WHERE entity_kind = $1;
	`
	rows, err := r.Pool.Query(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list entity IDs of kind %s: %w", kind, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entity ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entity ID rows: %w", err)
	}
	return ids, nil
}

// DeleteRecordsByEntities removes trail records referencing the given
// (kind, id) pairs. This is the only destructive operation on the trail.
func (r *PgxAuditRepository) DeleteRecordsByEntities(ctx context.Context, kind domain.EntityKind, entityIDs []string) (int64, error) {
	if len(entityIDs) == 0 {
		return 0, nil
	}

	query := `
		DELETE FROM audit_trail
		WHERE entity_kind = $1 AND entity_id = ANY($2);
	`
	tag, err := r.Pool.Exec(ctx, query, string(kind), entityIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit records of kind %s: %w", kind, err)
	}
	return tag.RowsAffected(), nil
}
