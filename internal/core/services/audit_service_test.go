package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/core/services"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

type AuditServiceTestSuite struct {
	suite.Suite
	mockAuditRepo *MockAuditRepository
	service       portssvc.AuditSvcFacade

	actorID string
	actx    domain.ActionContext
}

func (suite *AuditServiceTestSuite) SetupTest() {
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewAuditService(suite.mockAuditRepo, nil)

	suite.actorID = uuid.NewString()
	suite.actx = domain.NewActionContext(suite.actorID, "10.1.2.3", "ledger-cli/1.0")
}

func (suite *AuditServiceTestSuite) TestBuildEvent_CarriesActionContext() {
	reason := "correcting a typo"
	changes := map[string]domain.FieldChange{
		"name": {Old: "Csh", New: "Cash"},
	}

	event := suite.service.BuildEvent(suite.actx, domain.ActionUpdate, domain.KindAccount, "acc-1", changes, &reason)

	suite.NotEmpty(event.EventID)
	suite.Require().NotNil(event.ActorID)
	suite.Equal(suite.actorID, *event.ActorID)
	suite.Equal(domain.ActionUpdate, event.Action)
	suite.Equal(domain.KindAccount, event.EntityKind)
	suite.Equal("acc-1", event.EntityID)
	suite.Equal(changes, event.Changes)
	suite.Equal(&reason, event.Reason)
	suite.Equal("10.1.2.3", event.IPAddress)
	suite.Equal("ledger-cli/1.0", event.UserAgent)
	suite.False(event.CreatedAt.IsZero())
}

func (suite *AuditServiceTestSuite) TestBuildEvent_SystemActorHasNoActorID() {
	event := suite.service.BuildEvent(domain.ActionContext{}, domain.ActionCreate, domain.KindJournal, "jrn-1", nil, nil)

	suite.Nil(event.ActorID)
}

func (suite *AuditServiceTestSuite) TestLog_SavesOneEvent() {
	ctx := context.Background()
	var saved []domain.AuditEvent
	suite.mockAuditRepo.On("SaveEvents", ctx, mock.AnythingOfType("[]domain.AuditEvent")).
		Run(func(args mock.Arguments) { saved = args.Get(1).([]domain.AuditEvent) }).
		Return(nil).Once()

	suite.service.Log(ctx, suite.actx, domain.ActionApprove, domain.KindJournal, "jrn-2", nil, nil)

	suite.Require().Len(saved, 1)
	suite.Equal(domain.ActionApprove, saved[0].Action)
	suite.Equal("jrn-2", saved[0].EntityID)
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestLog_SwallowsRepoError() {
	ctx := context.Background()
	suite.mockAuditRepo.On("SaveEvents", ctx, mock.Anything).Return(assert.AnError).Once()

	// Log has no error return; a failed save must not panic or propagate.
	suite.service.Log(ctx, suite.actx, domain.ActionCreate, domain.KindUser, "usr-1", nil, nil)

	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestFlushOutbox_DefaultBatchSize() {
	ctx := context.Background()
	suite.mockAuditRepo.On("FlushOutbox", ctx, 200).Return(5, nil).Once()

	delivered, err := suite.service.FlushOutbox(ctx)

	suite.Require().NoError(err)
	suite.Equal(5, delivered)
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestFlushOutbox_CustomBatchSize() {
	ctx := context.Background()
	repo := new(MockAuditRepository)
	svc := services.NewAuditService(repo, nil, services.WithFlushBatchSize(25))
	repo.On("FlushOutbox", ctx, 25).Return(25, nil).Once()

	delivered, err := svc.FlushOutbox(ctx)

	suite.Require().NoError(err)
	suite.Equal(25, delivered)
	repo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestPendingEventCount() {
	ctx := context.Background()
	suite.mockAuditRepo.On("CountPendingEvents", ctx).Return(int64(7), nil).Once()

	pending, err := suite.service.PendingEventCount(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(7), pending)
}

func (suite *AuditServiceTestSuite) TestListAuditRecords_MapsFilter() {
	ctx := context.Background()
	kind := "journal"
	action := "POST"
	entityID := "jrn-9"
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.AuditRecord{
		{RecordID: uuid.NewString(), Action: domain.ActionPost, EntityKind: domain.KindJournal, EntityID: entityID, CreatedAt: time.Now().UTC()},
	}
	next := "bmV4dA=="

	suite.mockAuditRepo.On("ListAuditRecords", ctx, mock.MatchedBy(func(f portsrepo.AuditFilter) bool {
		return f.EntityKind != nil && *f.EntityKind == domain.KindJournal &&
			f.Action != nil && *f.Action == domain.ActionPost &&
			f.EntityID != nil && *f.EntityID == entityID &&
			f.From != nil && f.From.Equal(from)
	}), 10, (*string)(nil)).Return(records, &next, nil).Once()

	resp, err := suite.service.ListAuditRecords(ctx, dto.ListAuditRecordsParams{
		EntityKind: &kind,
		EntityID:   &entityID,
		Action:     &action,
		From:       &from,
		Limit:      10,
	})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Records, 1)
	suite.Equal("POST", resp.Records[0].Action)
	suite.Equal(entityID, resp.Records[0].EntityID)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
}

func (suite *AuditServiceTestSuite) TestPurgeOrphanedRecords_SkipsUnregisteredKind() {
	ctx := context.Background()

	deleted, err := suite.service.PurgeOrphanedRecords(ctx, suite.actx, []domain.EntityKind{domain.KindPayrollRun})

	suite.Require().NoError(err)
	suite.Zero(deleted)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "ListDistinctEntityIDs", mock.Anything, mock.Anything)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "DeleteRecordsByEntities", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuditServiceTestSuite) TestPurgeOrphanedRecords_DeletesOnlyMissingEntities() {
	ctx := context.Background()
	resolver := new(MockEntityResolver)
	suite.service.RegisterResolver(domain.KindJournal, resolver)

	suite.mockAuditRepo.On("ListDistinctEntityIDs", ctx, domain.KindJournal).Return([]string{"a", "b", "c"}, nil).Once()
	resolver.On("Exists", ctx, "a").Return(true, nil).Once()
	resolver.On("Exists", ctx, "b").Return(false, nil).Once()
	resolver.On("Exists", ctx, "c").Return(false, nil).Once()
	suite.mockAuditRepo.On("DeleteRecordsByEntities", ctx, domain.KindJournal, []string{"b", "c"}).Return(int64(4), nil).Once()

	deleted, err := suite.service.PurgeOrphanedRecords(ctx, suite.actx, []domain.EntityKind{domain.KindJournal})

	suite.Require().NoError(err)
	suite.Equal(int64(4), deleted)
	suite.mockAuditRepo.AssertExpectations(suite.T())
	resolver.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestPurgeOrphanedRecords_AllEntitiesExist() {
	ctx := context.Background()
	resolver := new(MockEntityResolver)
	suite.service.RegisterResolver(domain.KindAccount, resolver)

	suite.mockAuditRepo.On("ListDistinctEntityIDs", ctx, domain.KindAccount).Return([]string{"x", "y"}, nil).Once()
	resolver.On("Exists", ctx, "x").Return(true, nil).Once()
	resolver.On("Exists", ctx, "y").Return(true, nil).Once()

	deleted, err := suite.service.PurgeOrphanedRecords(ctx, suite.actx, []domain.EntityKind{domain.KindAccount})

	suite.Require().NoError(err)
	suite.Zero(deleted)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "DeleteRecordsByEntities", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuditServiceTestSuite) TestPurgeOrphanedRecords_EmptyKindsUsesRegistry() {
	ctx := context.Background()
	resolver := new(MockEntityResolver)
	svc := services.NewAuditService(suite.mockAuditRepo, map[domain.EntityKind]portsrepo.EntityResolver{
		domain.KindFiscalYear: resolver,
	})

	suite.mockAuditRepo.On("ListDistinctEntityIDs", ctx, domain.KindFiscalYear).Return([]string{}, nil).Once()

	deleted, err := svc.PurgeOrphanedRecords(ctx, suite.actx, nil)

	suite.Require().NoError(err)
	suite.Zero(deleted)
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func TestAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}
