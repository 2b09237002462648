package mapping

import (
	"encoding/json"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	"github.com/zayyadi/paroll-sub000/internal/models"
)

// ToModelAuditEvent converts a domain AuditEvent to a model AuditEvent.
// Marshalling of the change set is best-effort; a payload that fails to
// marshal is stored as NULL rather than failing the caller.
func ToModelAuditEvent(d domain.AuditEvent) models.AuditEvent {
	var changes []byte
	if len(d.Changes) > 0 {
		changes, _ = json.Marshal(d.Changes)
	}
	return models.AuditEvent{
		EventID:    d.EventID,
		ActorID:    d.ActorID,
		Action:     string(d.Action),
		EntityKind: string(d.EntityKind),
		EntityID:   d.EntityID,
		Changes:    changes,
		Reason:     d.Reason,
		IPAddress:  d.IPAddress,
		UserAgent:  d.UserAgent,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainAuditRecord converts a model AuditRecord to a domain AuditRecord.
func ToDomainAuditRecord(m models.AuditRecord) domain.AuditRecord {
	rec := domain.AuditRecord{
		RecordID:   m.RecordID,
		ActorID:    m.ActorID,
		Action:     domain.AuditAction(m.Action),
		EntityKind: domain.EntityKind(m.EntityKind),
		EntityID:   m.EntityID,
		Reason:     m.Reason,
		IPAddress:  m.IPAddress,
		UserAgent:  m.UserAgent,
		CreatedAt:  m.CreatedAt,
	}
	if len(m.Changes) > 0 {
		_ = json.Unmarshal(m.Changes, &rec.Changes)
	}
	return rec
}

// ToDomainAuditRecordSlice converts a slice of model AuditRecords to domain AuditRecords
func ToDomainAuditRecordSlice(ms []models.AuditRecord) []domain.AuditRecord {
	ds := make([]domain.AuditRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditRecord(m)
	}
	return ds
}
