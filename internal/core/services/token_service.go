package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/utils"
)

// tokenService issues signed access tokens for authenticated users.
type tokenService struct {
	secret string
	expiry time.Duration
	issuer string
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string, expiry time.Duration, issuer string) portssvc.TokenSvcFacade {
	return &tokenService{
		secret: secret,
		expiry: expiry,
		issuer: issuer,
	}
}

// Ensure tokenService implements the portssvc.TokenSvcFacade interface
var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken issues an HS256 JWT whose subject is the user ID, with
// the user's role as an informational claim.
func (s *tokenService) GenerateAccessToken(_ context.Context, user *domain.User) (string, time.Time, error) {
	token, expiresAt, err := utils.GenerateJWT(user.UserID, string(user.Role), s.secret, s.expiry, s.issuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, expiresAt, nil
}
