package services

import (
	"context"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// AuthorizationPolicy decides who may perform gated ledger transitions. The
// engine consults it before approving, reversing, and closing; the policy
// itself stays outside the engine so deployments can swap in their own. The
// mechanical creator-cannot-approve-own-journal rule is enforced by the
// engine regardless of what the policy answers.
type AuthorizationPolicy interface {
	// CanApprove reports whether actor may approve the journal.
	CanApprove(ctx context.Context, actor *domain.User, journal *domain.Journal) (bool, error)

	// CanReverse reports whether actor may reverse the journal.
	CanReverse(ctx context.Context, actor *domain.User, journal *domain.Journal) (bool, error)

	// CanClosePeriod reports whether actor may close or reopen periods and
	// fiscal years.
	CanClosePeriod(ctx context.Context, actor *domain.User) (bool, error)
}
