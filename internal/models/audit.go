package models

import "time"

// AuditEvent represents one undelivered row of the audit outbox. Changes is
// the raw JSONB payload; mapping handles the (un)marshalling.
type AuditEvent struct {
	EventID    string    `db:"event_id"`
	ActorID    *string   `db:"actor_id"` // Nullable; NULL means system action
	Action     string    `db:"action"`
	EntityKind string    `db:"entity_kind"`
	EntityID   string    `db:"entity_id"`
	Changes    []byte    `db:"changes"` // JSONB field -> {old, new}
	Reason     *string   `db:"reason"`  // Nullable
	IPAddress  string    `db:"ip_address"`
	UserAgent  string    `db:"user_agent"`
	CreatedAt  time.Time `db:"created_at"`
}

// AuditRecord represents one delivered row of the audit trail.
type AuditRecord struct {
	RecordID   string    `db:"record_id"`
	ActorID    *string   `db:"actor_id"`
	Action     string    `db:"action"`
	EntityKind string    `db:"entity_kind"`
	EntityID   string    `db:"entity_id"`
	Changes    []byte    `db:"changes"` // JSONB
	Reason     *string   `db:"reason"`
	IPAddress  string    `db:"ip_address"`
	UserAgent  string    `db:"user_agent"`
	CreatedAt  time.Time `db:"created_at"`
}
