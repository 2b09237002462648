package models

import "time"

// User represents a user row. PasswordHash never leaves the repository layer
// except for credential checks.
type User struct {
	UserID       string     `db:"user_id"`
	Email        string     `db:"email"` // Unique login identifier
	Name         string     `db:"name"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"` // ACCOUNTANT, SUPERVISOR, ADMIN
	IsActive     bool       `db:"is_active"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"` // Soft delete marker
}
