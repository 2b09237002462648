package domain

import "time"

// UserRole defines what a user may do to journals and periods. The default
// authorization policy is built on these; deployments may plug in their own.
type UserRole string

const (
	RoleAccountant UserRole = "ACCOUNTANT" // Creates and submits journals
	RoleSupervisor UserRole = "SUPERVISOR" // Approves and reverses
	RoleAdmin      UserRole = "ADMIN"      // Closes and reopens periods
)

// IsValid reports whether r is a known role.
func (r UserRole) IsValid() bool {
	return r == RoleAccountant || r == RoleSupervisor || r == RoleAdmin
}

// User represents a user of the application in the domain.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (e.g., UUID)
	Email        string   `json:"email"`  // Unique login identifier
	Name         string   `json:"name"`
	PasswordHash string   `json:"-"` // bcrypt hash, never serialized
	Role         UserRole `json:"role"`
	IsActive     bool     `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
