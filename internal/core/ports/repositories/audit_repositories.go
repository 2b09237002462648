package repositories

import (
	"context"
	"time"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// AuditFilter narrows audit trail queries. Nil fields are ignored.
type AuditFilter struct {
	EntityKind *domain.EntityKind
	EntityID   *string
	ActorID    *string
	Action     *domain.AuditAction
	From       *time.Time
	To         *time.Time
}

// AuditWriter defines standalone audit write operations. Events that
// accompany a financial change do not come through here; they ride inside
// the owning repository's transaction. This path serves callers that log an
// event with no surrounding financial write.
type AuditWriter interface {
	// SaveEvents appends events to the outbox in their own transaction.
	SaveEvents(ctx context.Context, events []domain.AuditEvent) error
}

// AuditOutboxManager moves events from the outbox into the queryable trail.
type AuditOutboxManager interface {
	// FlushOutbox moves up to limit outbox events into the audit trail,
	// deleting each delivered outbox row in the same transaction. It
	// returns the number delivered. Undelivered events stay in the outbox
	// for the next flush.
	FlushOutbox(ctx context.Context, limit int) (int, error)

	// CountPendingEvents counts outbox events not yet delivered.
	CountPendingEvents(ctx context.Context) (int64, error)
}

// AuditReader defines read operations over the delivered audit trail.
type AuditReader interface {
	// ListAuditRecords retrieves a paginated, filtered list of audit records,
	// newest first, using token-based pagination.
	ListAuditRecords(ctx context.Context, filter AuditFilter, limit int, nextToken *string) ([]domain.AuditRecord, *string, error)

	// ListDistinctEntityIDs returns the distinct entity IDs referenced by
	// audit records of one kind. Used by orphan cleanup.
	ListDistinctEntityIDs(ctx context.Context, kind domain.EntityKind) ([]string, error)
}

// AuditMaintenance defines the one permitted destructive operation on the
// trail: removing records whose referenced entity no longer exists.
type AuditMaintenance interface {
	// DeleteRecordsByEntities deletes audit records referencing the given
	// (kind, id) pairs and returns how many rows went away.
	DeleteRecordsByEntities(ctx context.Context, kind domain.EntityKind, entityIDs []string) (int64, error)
}

// AuditRepositoryFacade combines all audit-related repository interfaces
// This is a facade for clients that need access to all operations
type AuditRepositoryFacade interface {
	AuditWriter
	AuditOutboxManager
	AuditReader
	AuditMaintenance
}

// EntityResolver answers whether an entity of one kind still exists.
// The audit service keeps a registry of resolvers per EntityKind; kinds
// without a resolver are skipped by orphan cleanup.
type EntityResolver interface {
	Exists(ctx context.Context, entityID string) (bool, error)
}
