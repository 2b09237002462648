package services

import (
	"context"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

// UserReaderSvc exposes user lookups.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by login email. The email is
	// normalized before lookup.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves a page of users.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// UserWriterSvc exposes user creation and updates.
type UserWriterSvc interface {
	// CreateUser registers a new user with a hashed password. Registration
	// is self-service, so there is no acting user.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// UpdateUser applies the non-nil fields of the request to an existing
	// user.
	UpdateUser(ctx context.Context, actx domain.ActionContext, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// DeleteUser soft-deletes a user.
	DeleteUser(ctx context.Context, actx domain.ActionContext, userID string) error
}

// UserAuthSvc exposes credential verification.
type UserAuthSvc interface {
	// AuthenticateUser verifies an email and password pair and returns the
	// matching active user. All failure modes map to the same error so the
	// response cannot be used to probe for registered emails.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines the user service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
