package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, actx domain.ActionContext, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, actx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, actx domain.ActionContext, userID string) error {
	args := m.Called(ctx, actx, userID)
	return args.Error(0)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

// --- Test Suite ---
type AuthHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockUserService  *MockUserService
	mockTokenService *MockTokenService
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	suite.mockUserService = new(MockUserService)
	suite.mockTokenService = new(MockTokenService)
	suite.router = testRouter("test-secret-key-that-is-long-enough", &portssvc.ServiceContainer{
		User:         suite.mockUserService,
		TokenService: suite.mockTokenService,
	})
}

// postJSON serves an unauthenticated JSON POST, as the auth routes are public.
func (suite *AuthHandlerTestSuite) postJSON(url string, body interface{}) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	suite.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	user := &domain.User{
		UserID:   uuid.NewString(),
		Email:    "clerk@example.com",
		Name:     "Clerk",
		Role:     domain.RoleAccountant,
		IsActive: true,
	}
	expiresAt := time.Now().Add(time.Hour).UTC()

	suite.mockUserService.On("AuthenticateUser", mock.Anything, "clerk@example.com", "s3cret-passphrase").
		Return(user, nil).Once()
	suite.mockTokenService.On("GenerateAccessToken", mock.Anything, user).
		Return("signed.jwt.token", expiresAt, nil).Once()

	w := suite.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "clerk@example.com",
		Password: "s3cret-passphrase",
	})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("signed.jwt.token", resp.Token)
	suite.Equal(user.Email, resp.User.Email)
	suite.mockUserService.AssertExpectations(suite.T())
	suite.mockTokenService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestLogin_BadCredentials() {
	suite.mockUserService.On("AuthenticateUser", mock.Anything, "clerk@example.com", "wrong").
		Return(nil, apperrors.ErrUnauthorized).Once()

	w := suite.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "clerk@example.com",
		Password: "wrong",
	})

	suite.Equal(http.StatusUnauthorized, w.Code)

	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	// The body never reveals whether the email or the password was wrong.
	suite.Equal("Invalid email or password", resp["error"])
	suite.mockTokenService.AssertNotCalled(suite.T(), "GenerateAccessToken", mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestLogin_MalformedEmail() {
	w := suite.postJSON("/api/v1/auth/login", map[string]string{
		"email":    "not-an-email",
		"password": "whatever",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "AuthenticateUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthHandlerTestSuite) TestRegister_Success() {
	created := &domain.User{
		UserID:   uuid.NewString(),
		Email:    "new.hire@example.com",
		Name:     "New Hire",
		Role:     domain.RoleAccountant,
		IsActive: true,
	}

	suite.mockUserService.On("CreateUser", mock.Anything,
		mock.MatchedBy(func(req dto.CreateUserRequest) bool {
			return req.Email == "new.hire@example.com" && req.Role == domain.RoleAccountant
		}),
	).Return(created, nil).Once()

	w := suite.postJSON("/api/v1/auth/register", dto.CreateUserRequest{
		Email:    "new.hire@example.com",
		Name:     "New Hire",
		Password: "correct-horse-battery",
		Role:     domain.RoleAccountant,
	})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.UserID, resp.UserID)
	suite.NotContains(w.Body.String(), "passwordHash")
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestRegister_DuplicateEmail() {
	suite.mockUserService.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("email already registered: %w", apperrors.ErrDuplicate)).Once()

	w := suite.postJSON("/api/v1/auth/register", dto.CreateUserRequest{
		Email:    "taken@example.com",
		Name:     "Second Claimant",
		Password: "correct-horse-battery",
		Role:     domain.RoleAccountant,
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AuthHandlerTestSuite) TestRegister_ShortPassword() {
	w := suite.postJSON("/api/v1/auth/register", dto.CreateUserRequest{
		Email:    "new.hire@example.com",
		Name:     "New Hire",
		Password: "short",
		Role:     domain.RoleAccountant,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestAuthHandler(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
