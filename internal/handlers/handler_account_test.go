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
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
	"github.com/zayyadi/paroll-sub000/internal/handlers"
	"github.com/zayyadi/paroll-sub000/internal/platform/config"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, actx domain.ActionContext, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, actx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, actx domain.ActionContext, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, actx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, actx domain.ActionContext, accountID string) error {
	args := m.Called(ctx, actx, accountID)
	return args.Error(0)
}

func (m *MockAccountService) CalculateAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// testRouter builds a gin engine with all application routes registered
// against the given services and the real auth middleware.
func testRouter(jwtSecret string, container *portssvc.ServiceContainer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := &config.AppConfig{
		JWTSecret:    jwtSecret,
		RateLimit:    "100-M",
		IsProduction: true, // no swagger routes in tests
	}
	handlers.RegisterRoutes(router, cfg, container)
	return router
}

// signTestToken creates a valid JWT for the given user ID.
func signTestToken(t *testing.T, secret, userID string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	jwtSecret          string
	userID             string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()
	suite.mockAccountService = new(MockAccountService)
	suite.router = testRouter(suite.jwtSecret, &portssvc.ServiceContainer{
		Account: suite.mockAccountService,
	})
}

// doRequest serves an authenticated request and returns the recorder.
func (suite *AccountHandlerTestSuite) doRequest(method, url string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(suite.T(), suite.jwtSecret, suite.userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	accountID := uuid.NewString()
	expected := &domain.Account{
		AccountID:     accountID,
		AccountNumber: "1000",
		Name:          "Cash",
		AccountType:   domain.Asset,
		IsActive:      true,
		AuditFields:   domain.AuditFields{CreatedBy: suite.userID},
	}

	suite.mockAccountService.On("CreateAccount",
		mock.Anything,
		mock.MatchedBy(func(actx domain.ActionContext) bool {
			return actx.ActorID != nil && *actx.ActorID == suite.userID
		}),
		mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
			return req.AccountNumber == "1000" && req.AccountType == domain.Asset
		}),
	).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		AccountNumber: "1000",
		Name:          "Cash",
		AccountType:   domain.Asset,
	})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(accountID, resp.AccountID)
	suite.Equal("DEBIT", resp.NormalSide)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_RequiresAuth() {
	body, _ := json.Marshal(dto.CreateAccountRequest{AccountNumber: "1000", Name: "Cash", AccountType: domain.Asset})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateNumber() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("account number 1000 already exists: %w", apperrors.ErrDuplicate)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		AccountNumber: "1000",
		Name:          "Cash",
		AccountType:   domain.Asset,
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_UnknownTypeRejectedByBinding() {
	w := suite.doRequest(http.MethodPost, "/api/v1/accounts", map[string]string{
		"accountNumber": "1000",
		"name":          "Cash",
		"accountType":   "BANK",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_Success() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccountByID", mock.Anything, accountID).
		Return(&domain.Account{AccountID: accountID, AccountNumber: "4000", AccountType: domain.Revenue, IsActive: true}, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("CREDIT", resp.NormalSide)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccountByID", mock.Anything, accountID).
		Return(nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_DefaultPaging() {
	accounts := []domain.Account{
		{AccountID: uuid.NewString(), AccountNumber: "1000", AccountType: domain.Asset},
		{AccountID: uuid.NewString(), AccountNumber: "2000", AccountType: domain.Liability},
	}
	suite.mockAccountService.On("ListAccounts", mock.Anything, 20, 0).Return(accounts, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/accounts", nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 2)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_WithAsOf() {
	accountID := uuid.NewString()
	cutoff := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	suite.mockAccountService.On("CalculateAccountBalance", mock.Anything, accountID,
		mock.MatchedBy(func(asOf *time.Time) bool {
			return asOf != nil && asOf.Equal(cutoff)
		}),
	).Return(decimal.RequireFromString("150.75"), nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/accounts/"+accountID+"/balance?as_of=2025-06-30", nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(accountID, resp.AccountID)
	suite.True(resp.Balance.Equal(decimal.RequireFromString("150.75")))
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_InvalidAsOf() {
	accountID := uuid.NewString()

	w := suite.doRequest(http.MethodGet, "/api/v1/accounts/"+accountID+"/balance?as_of=June", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CalculateAccountBalance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestDeactivateAccount_NoContent() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("DeactivateAccount", mock.Anything,
		mock.MatchedBy(func(actx domain.ActionContext) bool {
			return actx.ActorID != nil && *actx.ActorID == suite.userID
		}),
		accountID,
	).Return(nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
