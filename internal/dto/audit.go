package dto

import (
	"time"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// ListAuditRecordsParams defines query parameters for audit trail queries.
type ListAuditRecordsParams struct {
	EntityKind *string    `form:"entityKind"`
	EntityID   *string    `form:"entityID"`
	ActorID    *string    `form:"actorID"`
	Action     *string    `form:"action"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Limit      int        `form:"limit,default=50"`
	NextToken  *string    `form:"nextToken"`
}

// AuditRecordResponse defines the data returned for one audit trail record.
type AuditRecordResponse struct {
	RecordID   string                        `json:"recordID"`
	ActorID    *string                       `json:"actorID,omitempty"` // Absent for system actions
	Action     string                        `json:"action"`
	EntityKind string                        `json:"entityKind"`
	EntityID   string                        `json:"entityID"`
	Changes    map[string]domain.FieldChange `json:"changes,omitempty"`
	Reason     *string                       `json:"reason,omitempty"`
	IPAddress  string                        `json:"ipAddress,omitempty"`
	UserAgent  string                        `json:"userAgent,omitempty"`
	CreatedAt  time.Time                     `json:"createdAt"`
}

// ListAuditRecordsResponse wraps a page of audit records.
type ListAuditRecordsResponse struct {
	Records   []AuditRecordResponse `json:"records"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// PurgeOrphansRequest names the entity kinds to sweep for orphaned records.
// Empty means every kind with a registered resolver.
type PurgeOrphansRequest struct {
	Kinds []string `json:"kinds"`
}

// FlushResponse reports how many outbox events a flush delivered.
type FlushResponse struct {
	Delivered int   `json:"delivered"`
	Pending   int64 `json:"pending"`
}

// PurgeResponse reports how many orphaned audit records were removed.
type PurgeResponse struct {
	Deleted int64 `json:"deleted"`
}

// ToAuditRecordResponse converts a domain.AuditRecord to its DTO.
func ToAuditRecordResponse(r *domain.AuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		RecordID:   r.RecordID,
		ActorID:    r.ActorID,
		Action:     string(r.Action),
		EntityKind: string(r.EntityKind),
		EntityID:   r.EntityID,
		Changes:    r.Changes,
		Reason:     r.Reason,
		IPAddress:  r.IPAddress,
		UserAgent:  r.UserAgent,
		CreatedAt:  r.CreatedAt,
	}
}

// ToAuditRecordResponses converts a slice of domain.AuditRecord to DTOs.
func ToAuditRecordResponses(records []domain.AuditRecord) []AuditRecordResponse {
	responses := make([]AuditRecordResponse, len(records))
	for i := range records {
		responses[i] = ToAuditRecordResponse(&records[i])
	}
	return responses
}
