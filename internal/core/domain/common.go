package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference, or SystemActor
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference, or SystemActor
}

// SystemActor is recorded as the acting user for mutations that no
// authenticated user triggered (migrations, scheduled maintenance).
const SystemActor = "system"
