package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/core/services"
	"github.com/zayyadi/paroll-sub000/internal/utils"
)

type TokenServiceTestSuite struct {
	suite.Suite
	service portssvc.TokenSvcFacade
	user    *domain.User
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.service = services.NewTokenService("test-signing-secret", time.Hour, "ledger-engine")
	suite.user = &domain.User{
		UserID:   uuid.NewString(),
		Email:    "clerk@example.com",
		Name:     "Clerk",
		Role:     domain.RoleSupervisor,
		IsActive: true,
	}
}

func (suite *TokenServiceTestSuite) TestGenerateAccessToken_RoundTrip() {
	before := time.Now()

	token, expiresAt, err := suite.service.GenerateAccessToken(context.Background(), suite.user)

	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.WithinDuration(before.Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, "test-signing-secret")
	suite.Require().NoError(err)
	suite.Equal(suite.user.UserID, claims.Subject)
	suite.Equal(string(domain.RoleSupervisor), claims.Role)
	suite.Equal("ledger-engine", claims.Issuer)
}

func (suite *TokenServiceTestSuite) TestGenerateAccessToken_WrongSecretRejected() {
	token, _, err := suite.service.GenerateAccessToken(context.Background(), suite.user)
	suite.Require().NoError(err)

	_, err = utils.ParseAndValidateJWT(token, "a-different-secret")

	suite.Require().Error(err)
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
