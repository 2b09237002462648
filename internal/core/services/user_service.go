package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
	"github.com/zayyadi/paroll-sub000/internal/utils"
)

// userService manages the user directory behind authentication, audit
// attribution and the authorization policy.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	audit    portssvc.AuditSvcFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, audit portssvc.AuditSvcFacade) portssvc.UserSvcFacade {
	return &userService{
		BaseService: BaseService{Outbox: audit},
		userRepo:    userRepo,
		audit:       audit,
	}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser registers a new user with a bcrypt password hash. Emails are
// unique; a collision surfaces as a duplicate. Registration is self-service,
// so the new user is recorded as their own creator.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	user.CreatedBy = user.UserID
	user.LastUpdatedBy = user.UserID

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "failed to save user", slog.String("email", user.Email))
		return nil, err
	}

	actx := domain.ActionContext{ActorID: &user.UserID}
	s.audit.Log(ctx, actx, domain.ActionCreate, domain.KindUser, user.UserID, map[string]domain.FieldChange{
		"email": {New: user.Email},
		"name":  {New: user.Name},
		"role":  {New: string(user.Role)},
	}, nil)
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "user created", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// GetUserByEmail retrieves a user by login email.
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// ListUsers retrieves a paginated list of users.
func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.userRepo.FindUsers(ctx, limit, offset)
}

// UpdateUser changes a user's name, role or active flag.
func (s *userService) UpdateUser(ctx context.Context, actx domain.ActionContext, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]domain.FieldChange{}
	if req.Name != nil && *req.Name != user.Name {
		changes["name"] = domain.FieldChange{Old: user.Name, New: *req.Name}
		user.Name = *req.Name
	}
	if req.Role != nil && *req.Role != user.Role {
		if !req.Role.IsValid() {
			return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, *req.Role)
		}
		changes["role"] = domain.FieldChange{Old: string(user.Role), New: string(*req.Role)}
		user.Role = *req.Role
	}
	if req.IsActive != nil && *req.IsActive != user.IsActive {
		changes["isActive"] = domain.FieldChange{Old: user.IsActive, New: *req.IsActive}
		user.IsActive = *req.IsActive
	}
	if len(changes) == 0 {
		s.LogDebug(ctx, "no user fields changed", slog.String("user_id", userID))
		return user, nil
	}

	now := time.Now().UTC()
	user.LastUpdatedAt = now
	user.LastUpdatedBy = actx.ActorOrSystem()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "failed to update user", slog.String("user_id", userID))
		return nil, err
	}

	s.audit.Log(ctx, actx, domain.ActionUpdate, domain.KindUser, userID, changes, nil)
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "user updated", slog.String("user_id", userID))
	return user, nil
}

// DeleteUser soft-deletes a user. The row stays so audit records keep their
// attribution; the user just cannot authenticate anymore.
func (s *userService) DeleteUser(ctx context.Context, actx domain.ActionContext, userID string) error {
	now := time.Now().UTC()
	if err := s.userRepo.MarkUserDeleted(ctx, userID, now, actx.ActorOrSystem()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to delete user", slog.String("user_id", userID))
		}
		return err
	}

	s.audit.Log(ctx, actx, domain.ActionUpdate, domain.KindUser, userID, map[string]domain.FieldChange{
		"deleted": {Old: false, New: true},
	}, nil)
	s.FlushAuditOutbox(ctx)

	s.LogInfo(ctx, "user deleted", slog.String("user_id", userID))
	return nil
}

// AuthenticateUser verifies credentials. Lookup misses and bad passwords both
// return ErrUnauthorized so callers cannot probe which emails exist.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		s.LogWarn(ctx, "login rejected for inactive user", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
