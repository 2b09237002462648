package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/core/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}

func (m *MockJournalService) CreateJournal(ctx context.Context, actx domain.ActionContext, req dto.CreateJournalRequest) (*domain.Journal, error) {
	args := m.Called(ctx, actx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) AddEntry(ctx context.Context, actx domain.ActionContext, journalID string, req dto.CreateEntryRequest) (*domain.Journal, error) {
	args := m.Called(ctx, actx, journalID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) SubmitForApproval(ctx context.Context, actx domain.ActionContext, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, actx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) ApproveJournal(ctx context.Context, actx domain.ActionContext, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, actx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) RejectJournal(ctx context.Context, actx domain.ActionContext, journalID string, reason string) (*domain.Journal, error) {
	args := m.Called(ctx, actx, journalID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) PostJournal(ctx context.Context, actx domain.ActionContext, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, actx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Test Suite ---
type JournalHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockJournalService *MockJournalService
	jwtSecret          string
	userID             string

	journalDate time.Time
}

func (suite *JournalHandlerTestSuite) SetupTest() {
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()
	suite.mockJournalService = new(MockJournalService)
	suite.router = testRouter(suite.jwtSecret, &portssvc.ServiceContainer{
		Journal: suite.mockJournalService,
	})
	suite.journalDate = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
}

func (suite *JournalHandlerTestSuite) doRequest(method, url string, body interface{}) *httptest.ResponseRecorder {
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

// journalIn builds a journal in the given status for mock returns.
func (suite *JournalHandlerTestSuite) journalIn(status domain.JournalStatus) *domain.Journal {
	return &domain.Journal{
		JournalID:         uuid.NewString(),
		TransactionNumber: "TXN000042",
		JournalDate:       suite.journalDate,
		Description:       "March rent",
		FiscalYearID:      uuid.NewString(),
		PeriodID:          uuid.NewString(),
		Status:            status,
		AuditFields:       domain.AuditFields{CreatedBy: suite.userID},
	}
}

func (suite *JournalHandlerTestSuite) TestCreateJournal_Success() {
	created := suite.journalIn(domain.Draft)

	suite.mockJournalService.On("CreateJournal",
		mock.Anything,
		mock.MatchedBy(func(actx domain.ActionContext) bool {
			return actx.ActorID != nil && *actx.ActorID == suite.userID
		}),
		mock.MatchedBy(func(req dto.CreateJournalRequest) bool {
			return len(req.Entries) == 2 && req.Description == "March rent" && !req.AutoPost
		}),
	).Return(created, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/journals", dto.CreateJournalRequest{
		Date:        suite.journalDate,
		Description: "March rent",
		Entries: []dto.CreateEntryRequest{
			{AccountID: uuid.NewString(), EntryType: domain.Debit, Amount: decimal.NewFromInt(100)},
			{AccountID: uuid.NewString(), EntryType: domain.Credit, Amount: decimal.NewFromInt(100)},
		},
	})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("TXN000042", resp.TransactionNumber)
	suite.Equal(string(domain.Draft), resp.Status)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateJournal_RequiresAuth() {
	body, _ := json.Marshal(dto.CreateJournalRequest{Date: suite.journalDate, Description: "x"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/journals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "CreateJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalHandlerTestSuite) TestCreateJournal_NoEntriesRejectedByBinding() {
	w := suite.doRequest(http.MethodPost, "/api/v1/journals", dto.CreateJournalRequest{
		Date:        suite.journalDate,
		Description: "empty journal",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "CreateJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalHandlerTestSuite) TestCreateJournal_UnbalancedEntries() {
	suite.mockJournalService.On("CreateJournal", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, services.ErrUnbalancedEntries).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/journals", dto.CreateJournalRequest{
		Date:        suite.journalDate,
		Description: "lopsided",
		Entries: []dto.CreateEntryRequest{
			{AccountID: uuid.NewString(), EntryType: domain.Debit, Amount: decimal.NewFromInt(100)},
			{AccountID: uuid.NewString(), EntryType: domain.Credit, Amount: decimal.NewFromInt(60)},
		},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *JournalHandlerTestSuite) TestGetJournal_WithEntries() {
	journal := suite.journalIn(domain.Posted)
	journal.Entries = []domain.JournalEntry{
		{EntryID: uuid.NewString(), JournalID: journal.JournalID, EntryType: domain.Debit, Amount: decimal.NewFromInt(100)},
		{EntryID: uuid.NewString(), JournalID: journal.JournalID, EntryType: domain.Credit, Amount: decimal.NewFromInt(100)},
	}

	suite.mockJournalService.On("GetJournalByID", mock.Anything, journal.JournalID).Return(journal, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/journals/"+journal.JournalID, nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 2)
}

func (suite *JournalHandlerTestSuite) TestListJournals_ForwardsFilters() {
	page := &dto.ListJournalsResponse{
		Journals:  []dto.JournalResponse{{JournalID: uuid.NewString(), Status: string(domain.Posted)}},
		NextToken: nil,
	}

	suite.mockJournalService.On("ListJournals", mock.Anything,
		mock.MatchedBy(func(params dto.ListJournalsParams) bool {
			return params.Status != nil && *params.Status == "POSTED" &&
				params.Limit == 5 && params.IncludeEntries
		}),
	).Return(page, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/journals?status=POSTED&limit=5&includeEntries=true", nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListJournalsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Journals, 1)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestSubmitJournal_WrongStatusConflicts() {
	journalID := uuid.NewString()
	suite.mockJournalService.On("SubmitForApproval", mock.Anything, mock.Anything, journalID).
		Return(nil, services.ErrInvalidTransition).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/journals/"+journalID+"/submit", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *JournalHandlerTestSuite) TestApproveJournal_PermissionDenied() {
	journalID := uuid.NewString()
	suite.mockJournalService.On("ApproveJournal", mock.Anything, mock.Anything, journalID).
		Return(nil, services.ErrPermissionDenied).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/journals/"+journalID+"/approve", nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *JournalHandlerTestSuite) TestRejectJournal_MissingReason() {
	journalID := uuid.NewString()

	w := suite.doRequest(http.MethodPost, "/api/v1/journals/"+journalID+"/reject", map[string]string{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "RejectJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalHandlerTestSuite) TestRejectJournal_Success() {
	cancelled := suite.journalIn(domain.Cancelled)

	suite.mockJournalService.On("RejectJournal", mock.Anything, mock.Anything, cancelled.JournalID, "wrong period").
		Return(cancelled, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/journals/"+cancelled.JournalID+"/reject",
		dto.RejectJournalRequest{Reason: "wrong period"})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.Cancelled), resp.Status)
}

func (suite *JournalHandlerTestSuite) TestPostJournal_Success() {
	posted := suite.journalIn(domain.Posted)
	now := time.Now().UTC()
	posted.PostedBy = &suite.userID
	posted.PostedAt = &now

	suite.mockJournalService.On("PostJournal", mock.Anything,
		mock.MatchedBy(func(actx domain.ActionContext) bool {
			return actx.ActorID != nil && *actx.ActorID == suite.userID
		}),
		posted.JournalID,
	).Return(posted, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/journals/"+posted.JournalID+"/post", nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.Posted), resp.Status)
	suite.NotNil(resp.PostedAt)
	suite.mockJournalService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
