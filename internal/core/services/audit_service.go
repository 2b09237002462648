package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

// defaultFlushBatchSize bounds how many outbox events one flush call moves.
const defaultFlushBatchSize = 200

// auditService implements the AuditSvcFacade interface.
type auditService struct {
	BaseService
	auditRepo      portsrepo.AuditRepositoryFacade
	flushBatchSize int

	mu        sync.RWMutex
	resolvers map[domain.EntityKind]portsrepo.EntityResolver
}

// AuditServiceOption is a functional option for configuring the audit service.
type AuditServiceOption func(*auditService)

// WithFlushBatchSize overrides how many outbox events one flush call moves.
func WithFlushBatchSize(size int) AuditServiceOption {
	return func(s *auditService) {
		if size > 0 {
			s.flushBatchSize = size
		}
	}
}

// NewAuditService creates a new audit service. The resolver map seeds orphan
// cleanup; kinds can be added later through RegisterResolver.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade, resolvers map[domain.EntityKind]portsrepo.EntityResolver, options ...AuditServiceOption) portssvc.AuditSvcFacade {
	if resolvers == nil {
		resolvers = map[domain.EntityKind]portsrepo.EntityResolver{}
	}
	svc := &auditService{
		auditRepo:      auditRepo,
		flushBatchSize: defaultFlushBatchSize,
		resolvers:      resolvers,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure auditService implements the portssvc.AuditSvcFacade interface
var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// BuildEvent assembles an audit event from the action context. Callers that
// write financial changes pass the result into the owning repository call so
// the event commits with the change.
func (s *auditService) BuildEvent(actx domain.ActionContext, action domain.AuditAction, entityKind domain.EntityKind, entityID string, changes map[string]domain.FieldChange, reason *string) domain.AuditEvent {
	return domain.AuditEvent{
		EventID:    uuid.NewString(),
		ActorID:    actx.ActorID,
		Action:     action,
		EntityKind: entityKind,
		EntityID:   entityID,
		Changes:    changes,
		Reason:     reason,
		IPAddress:  actx.IPAddress,
		UserAgent:  actx.UserAgent,
		CreatedAt:  time.Now().UTC(),
	}
}

// Log records one standalone audit event. It never returns an error: the
// action being audited already happened, so a delivery failure is logged and
// swallowed rather than propagated to the caller.
func (s *auditService) Log(ctx context.Context, actx domain.ActionContext, action domain.AuditAction, entityKind domain.EntityKind, entityID string, changes map[string]domain.FieldChange, reason *string) {
	event := s.BuildEvent(actx, action, entityKind, entityID, changes, reason)
	if err := s.auditRepo.SaveEvents(ctx, []domain.AuditEvent{event}); err != nil {
		s.LogError(ctx, err, "failed to record audit event",
			slog.String("action", string(action)),
			slog.String("entity_kind", string(entityKind)),
			slog.String("entity_id", entityID),
		)
	}
}

// ListAuditRecords retrieves a filtered page of the delivered trail.
func (s *auditService) ListAuditRecords(ctx context.Context, params dto.ListAuditRecordsParams) (*dto.ListAuditRecordsResponse, error) {
	filter := portsrepo.AuditFilter{
		EntityID: params.EntityID,
		ActorID:  params.ActorID,
		From:     params.From,
		To:       params.To,
	}
	if params.EntityKind != nil {
		kind := domain.EntityKind(*params.EntityKind)
		filter.EntityKind = &kind
	}
	if params.Action != nil {
		action := domain.AuditAction(*params.Action)
		filter.Action = &action
	}

	records, nextToken, err := s.auditRepo.ListAuditRecords(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list audit records")
		return nil, err
	}
	return &dto.ListAuditRecordsResponse{
		Records:   dto.ToAuditRecordResponses(records),
		NextToken: nextToken,
	}, nil
}

// PendingEventCount reports how many outbox events await delivery.
func (s *auditService) PendingEventCount(ctx context.Context) (int64, error) {
	return s.auditRepo.CountPendingEvents(ctx)
}

// FlushOutbox delivers one batch of outbox events into the trail.
func (s *auditService) FlushOutbox(ctx context.Context) (int, error) {
	delivered, err := s.auditRepo.FlushOutbox(ctx, s.flushBatchSize)
	if err != nil {
		return 0, err
	}
	if delivered > 0 {
		s.LogDebug(ctx, "delivered audit events", slog.Int("count", delivered))
	}
	return delivered, nil
}

// RegisterResolver adds or replaces the existence resolver for a kind.
func (s *auditService) RegisterResolver(kind domain.EntityKind, resolver portsrepo.EntityResolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolvers[kind] = resolver
}

func (s *auditService) resolverFor(kind domain.EntityKind) (portsrepo.EntityResolver, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resolver, ok := s.resolvers[kind]
	return resolver, ok
}

// registeredKinds snapshots the kinds that currently have a resolver.
func (s *auditService) registeredKinds() []domain.EntityKind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kinds := make([]domain.EntityKind, 0, len(s.resolvers))
	for kind := range s.resolvers {
		kinds = append(kinds, kind)
	}
	return kinds
}

// PurgeOrphanedRecords deletes trail records whose referenced entity no
// longer exists. Kinds without a registered resolver are skipped, so records
// about external systems (payroll runs, cash advances) are never touched.
func (s *auditService) PurgeOrphanedRecords(ctx context.Context, actx domain.ActionContext, kinds []domain.EntityKind) (int64, error) {
	if len(kinds) == 0 {
		kinds = s.registeredKinds()
	}

	var total int64
	for _, kind := range kinds {
		resolver, ok := s.resolverFor(kind)
		if !ok {
			s.LogDebug(ctx, "no resolver for entity kind, skipping purge", slog.String("entity_kind", string(kind)))
			continue
		}

		ids, err := s.auditRepo.ListDistinctEntityIDs(ctx, kind)
		if err != nil {
			return total, err
		}

		orphans := []string{}
		for _, id := range ids {
			exists, err := resolver.Exists(ctx, id)
			if err != nil {
				return total, err
			}
			if !exists {
				orphans = append(orphans, id)
			}
		}
		if len(orphans) == 0 {
			continue
		}

		deleted, err := s.auditRepo.DeleteRecordsByEntities(ctx, kind, orphans)
		if err != nil {
			return total, err
		}
		total += deleted
		s.LogInfo(ctx, "purged orphaned audit records",
			slog.String("entity_kind", string(kind)),
			slog.Int("entities", len(orphans)),
			slog.Int64("records", deleted),
			slog.String("requested_by", actx.ActorOrSystem()),
		)
	}
	return total, nil
}
