package repositories

import (
	"context"
	"time"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// UserReader exposes user lookups.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their login email. Callers
	// normalize the email before lookup.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves a page of users ordered by creation time.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter exposes user persistence.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserLifecycleManager exposes the soft-delete operation.
type UserLifecycleManager interface {
	// MarkUserDeleted stamps a user as deleted without removing the row,
	// so audit records keep their actor attribution.
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}

// UserRepositoryFacade combines the user repository interfaces for
// clients that need the full surface.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}
