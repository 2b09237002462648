package services

import (
	"context"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

// AuditLoggerSvc records actions against ledger entities. Logging never
// fails the caller: the method has no error return on purpose. Failures are
// logged and swallowed; the event stays observable through the outbox.
type AuditLoggerSvc interface {
	// Log appends one audit event for an action that has no surrounding
	// financial transaction. Actions that accompany a financial write do
	// not use this; their events ride inside the owning repository call.
	Log(ctx context.Context, actx domain.ActionContext, action domain.AuditAction, entityKind domain.EntityKind, entityID string, changes map[string]domain.FieldChange, reason *string)

	// BuildEvent assembles an audit event from the action context for
	// callers that pass events into repository writes.
	BuildEvent(actx domain.ActionContext, action domain.AuditAction, entityKind domain.EntityKind, entityID string, changes map[string]domain.FieldChange, reason *string) domain.AuditEvent
}

// AuditReaderSvc defines read operations over the delivered audit trail.
type AuditReaderSvc interface {
	// ListAuditRecords retrieves a paginated, filtered list of audit
	// records, newest first.
	ListAuditRecords(ctx context.Context, params dto.ListAuditRecordsParams) (*dto.ListAuditRecordsResponse, error)

	// PendingEventCount reports how many outbox events await delivery.
	PendingEventCount(ctx context.Context) (int64, error)
}

// AuditMaintenanceSvc defines delivery and cleanup operations.
type AuditMaintenanceSvc interface {
	// FlushOutbox delivers a bounded batch of outbox events into the
	// queryable trail and returns how many were delivered. It is called
	// best-effort after financial commits and exposed for operators; its
	// error is for the operator path only and is never surfaced to a
	// financial caller.
	FlushOutbox(ctx context.Context) (int, error)

	// PurgeOrphanedRecords deletes audit records whose referenced entity no
	// longer exists, resolved per kind through the resolver registry. Kinds
	// without a registered resolver are skipped.
	PurgeOrphanedRecords(ctx context.Context, actx domain.ActionContext, kinds []domain.EntityKind) (int64, error)

	// RegisterResolver adds or replaces the existence resolver for a kind.
	RegisterResolver(kind domain.EntityKind, resolver portsrepo.EntityResolver)
}

// AuditSvcFacade combines all audit-related service interfaces
// This is a facade for clients that need access to all operations
type AuditSvcFacade interface {
	AuditLoggerSvc
	AuditReaderSvc
	AuditMaintenanceSvc
}
