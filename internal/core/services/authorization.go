package services

import (
	"context"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
)

// rolePolicy is the default AuthorizationPolicy. Any active user may approve
// journals they did not create (the creator rule itself is enforced by the
// engine, not here), reversing takes SUPERVISOR or ADMIN, and closing or
// reopening the fiscal calendar takes ADMIN.
type rolePolicy struct{}

// NewRolePolicy returns the role-based authorization policy used when a
// deployment does not plug in its own.
func NewRolePolicy() portssvc.AuthorizationPolicy {
	return &rolePolicy{}
}

// Ensure rolePolicy implements portssvc.AuthorizationPolicy
var _ portssvc.AuthorizationPolicy = (*rolePolicy)(nil)

// actorFromContext loads the acting user for policy checks. Actions without
// an actor run as the system and return a nil user.
func actorFromContext(ctx context.Context, users portsrepo.UserReader, actx domain.ActionContext) (*domain.User, error) {
	if actx.ActorID == nil || *actx.ActorID == "" {
		return nil, nil
	}
	return users.FindUserByID(ctx, *actx.ActorID)
}

func (p *rolePolicy) CanApprove(ctx context.Context, actor *domain.User, journal *domain.Journal) (bool, error) {
	if actor == nil || !actor.IsActive {
		return false, nil
	}
	return actor.Role.IsValid(), nil
}

func (p *rolePolicy) CanReverse(ctx context.Context, actor *domain.User, journal *domain.Journal) (bool, error) {
	if actor == nil || !actor.IsActive {
		return false, nil
	}
	return actor.Role == domain.RoleSupervisor || actor.Role == domain.RoleAdmin, nil
}

func (p *rolePolicy) CanClosePeriod(ctx context.Context, actor *domain.User) (bool, error) {
	if actor == nil || !actor.IsActive {
		return false, nil
	}
	return actor.Role == domain.RoleAdmin, nil
}
