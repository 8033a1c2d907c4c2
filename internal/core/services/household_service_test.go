package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/core/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// --- Mock HouseholdRepository ---
type MockHouseholdRepository struct {
	mock.Mock
}

var _ portsrepo.HouseholdRepositoryFacade = (*MockHouseholdRepository)(nil)

func (m *MockHouseholdRepository) FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Household), args.Error(1)
}

func (m *MockHouseholdRepository) ListHouseholdsByUser(ctx context.Context, userID string) ([]domain.Household, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Household), args.Error(1)
}

func (m *MockHouseholdRepository) SaveHousehold(ctx context.Context, household domain.Household) error {
	args := m.Called(ctx, household)
	return args.Error(0)
}

func (m *MockHouseholdRepository) UpdateHousehold(ctx context.Context, household domain.Household) error {
	args := m.Called(ctx, household)
	return args.Error(0)
}

func (m *MockHouseholdRepository) DeleteHousehold(ctx context.Context, householdID string) error {
	args := m.Called(ctx, householdID)
	return args.Error(0)
}

func (m *MockHouseholdRepository) FindMember(ctx context.Context, householdID string, userID string) (*domain.Member, error) {
	args := m.Called(ctx, householdID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockHouseholdRepository) ListMembers(ctx context.Context, householdID string) ([]domain.Member, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockHouseholdRepository) SaveMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockHouseholdRepository) UpdateMemberRole(ctx context.Context, householdID string, userID string, role domain.HouseholdRole, updatedBy string, now time.Time) error {
	args := m.Called(ctx, householdID, userID, role, updatedBy, now)
	return args.Error(0)
}

func (m *MockHouseholdRepository) DeleteMember(ctx context.Context, householdID string, userID string) error {
	args := m.Called(ctx, householdID, userID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type HouseholdServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockHouseholdRepository
	service     portssvc.HouseholdSvcFacade
	householdID string
	adminUserID string
}

func (suite *HouseholdServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockHouseholdRepository)
	suite.service = services.NewHouseholdService(suite.mockRepo)

	suite.householdID = uuid.NewString()
	suite.adminUserID = uuid.NewString()
}

func (suite *HouseholdServiceTestSuite) memberWithRole(userID string, role domain.HouseholdRole) *domain.Member {
	return &domain.Member{
		HouseholdID: suite.householdID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now(),
	}
}

func (suite *HouseholdServiceTestSuite) expectAdminLookup() {
	suite.mockRepo.On("FindMember", mock.Anything, suite.householdID, suite.adminUserID).
		Return(suite.memberWithRole(suite.adminUserID, domain.RoleAdmin), nil).Once()
}

// --- Test Cases ---

func (suite *HouseholdServiceTestSuite) TestCreateHousehold_CreatorBecomesOwner() {
	ctx := context.Background()
	creatorID := uuid.NewString()
	req := dto.CreateHouseholdRequest{Name: "The Parkers"}

	suite.mockRepo.On("SaveHousehold", ctx, mock.MatchedBy(func(h domain.Household) bool {
		return h.Name == "The Parkers" && h.OwnerID == creatorID
	})).Return(nil).Once()
	suite.mockRepo.On("SaveMember", ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.UserID == creatorID && m.Role == domain.RoleOwner
	})).Return(nil).Once()

	household, err := suite.service.CreateHousehold(ctx, req, creatorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(household)
	suite.NotEmpty(household.HouseholdID)
	suite.Equal(creatorID, household.OwnerID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *HouseholdServiceTestSuite) TestAuthorizeUserAction_NonMemberLooksLikeMissing() {
	ctx := context.Background()
	outsiderID := uuid.NewString()

	suite.mockRepo.On("FindMember", mock.Anything, suite.householdID, outsiderID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AuthorizeUserAction(ctx, outsiderID, suite.householdID, domain.RoleViewer)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *HouseholdServiceTestSuite) TestAuthorizeUserAction_RoleRanking() {
	ctx := context.Background()
	viewerID := uuid.NewString()
	ownerID := uuid.NewString()

	suite.mockRepo.On("FindMember", mock.Anything, suite.householdID, viewerID).
		Return(suite.memberWithRole(viewerID, domain.RoleViewer), nil)
	suite.mockRepo.On("FindMember", mock.Anything, suite.householdID, ownerID).
		Return(suite.memberWithRole(ownerID, domain.RoleOwner), nil)

	suite.NoError(suite.service.AuthorizeUserAction(ctx, viewerID, suite.householdID, domain.RoleViewer))
	suite.ErrorIs(suite.service.AuthorizeUserAction(ctx, viewerID, suite.householdID, domain.RoleMember), apperrors.ErrForbidden)
	suite.ErrorIs(suite.service.AuthorizeUserAction(ctx, viewerID, suite.householdID, domain.RoleAdmin), apperrors.ErrForbidden)
	suite.NoError(suite.service.AuthorizeUserAction(ctx, ownerID, suite.householdID, domain.RoleAdmin))
	suite.NoError(suite.service.AuthorizeUserAction(ctx, ownerID, suite.householdID, domain.RoleOwner))
}

func (suite *HouseholdServiceTestSuite) TestAddMember_OwnerRoleUngrantable() {
	ctx := context.Background()
	req := dto.AddMemberRequest{UserID: uuid.NewString(), Role: domain.RoleOwner}

	suite.expectAdminLookup()

	_, err := suite.service.AddMember(ctx, suite.householdID, req, suite.adminUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMember", mock.Anything, mock.Anything)
}

func (suite *HouseholdServiceTestSuite) TestAddMember_DuplicateMembership() {
	ctx := context.Background()
	req := dto.AddMemberRequest{UserID: uuid.NewString(), Role: domain.RoleMember}

	suite.expectAdminLookup()
	suite.mockRepo.On("SaveMember", ctx, mock.AnythingOfType("domain.Member")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.AddMember(ctx, suite.householdID, req, suite.adminUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *HouseholdServiceTestSuite) TestAddMember_Success() {
	ctx := context.Background()
	targetID := uuid.NewString()
	req := dto.AddMemberRequest{UserID: targetID, Role: domain.RoleViewer}

	suite.expectAdminLookup()
	suite.mockRepo.On("SaveMember", ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.HouseholdID == suite.householdID && m.UserID == targetID && m.Role == domain.RoleViewer
	})).Return(nil).Once()

	member, err := suite.service.AddMember(ctx, suite.householdID, req, suite.adminUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleViewer, member.Role)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *HouseholdServiceTestSuite) TestUpdateMemberRole_OwnerImmutable() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	req := dto.UpdateMemberRoleRequest{Role: domain.RoleMember}

	suite.expectAdminLookup()
	suite.mockRepo.On("FindMember", mock.Anything, suite.householdID, ownerID).
		Return(suite.memberWithRole(ownerID, domain.RoleOwner), nil).Once()

	_, err := suite.service.UpdateMemberRole(ctx, suite.householdID, ownerID, req, suite.adminUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateMemberRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HouseholdServiceTestSuite) TestUpdateMemberRole_Success() {
	ctx := context.Background()
	targetID := uuid.NewString()
	req := dto.UpdateMemberRoleRequest{Role: domain.RoleAdmin}

	suite.expectAdminLookup()
	suite.mockRepo.On("FindMember", mock.Anything, suite.householdID, targetID).
		Return(suite.memberWithRole(targetID, domain.RoleMember), nil).Once()
	suite.mockRepo.On("UpdateMemberRole", ctx, suite.householdID, targetID, domain.RoleAdmin, suite.adminUserID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	member, err := suite.service.UpdateMemberRole(ctx, suite.householdID, targetID, req, suite.adminUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, member.Role)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *HouseholdServiceTestSuite) TestRemoveMember_OwnerIrremovable() {
	ctx := context.Background()
	ownerID := uuid.NewString()

	suite.expectAdminLookup()
	suite.mockRepo.On("FindMember", mock.Anything, suite.householdID, ownerID).
		Return(suite.memberWithRole(ownerID, domain.RoleOwner), nil).Once()

	err := suite.service.RemoveMember(ctx, suite.householdID, ownerID, suite.adminUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteMember", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HouseholdServiceTestSuite) TestRemoveMember_SelfRemovalSkipsAdminCheck() {
	ctx := context.Background()
	memberID := uuid.NewString()

	// Only the target-member lookup happens; no admin authorization for self-removal.
	suite.mockRepo.On("FindMember", mock.Anything, suite.householdID, memberID).
		Return(suite.memberWithRole(memberID, domain.RoleMember), nil).Once()
	suite.mockRepo.On("DeleteMember", ctx, suite.householdID, memberID).Return(nil).Once()

	err := suite.service.RemoveMember(ctx, suite.householdID, memberID, memberID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *HouseholdServiceTestSuite) TestRemoveMember_ByAdmin() {
	ctx := context.Background()
	targetID := uuid.NewString()

	suite.expectAdminLookup()
	suite.mockRepo.On("FindMember", mock.Anything, suite.householdID, targetID).
		Return(suite.memberWithRole(targetID, domain.RoleViewer), nil).Once()
	suite.mockRepo.On("DeleteMember", ctx, suite.householdID, targetID).Return(nil).Once()

	err := suite.service.RemoveMember(ctx, suite.householdID, targetID, suite.adminUserID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *HouseholdServiceTestSuite) TestDeleteHousehold_OwnerOnly() {
	ctx := context.Background()

	suite.expectAdminLookup()

	err := suite.service.DeleteHousehold(ctx, suite.householdID, suite.adminUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteHousehold", mock.Anything, mock.Anything)
}

func (suite *HouseholdServiceTestSuite) TestUpdateHousehold_RequiresAdmin() {
	ctx := context.Background()
	memberID := uuid.NewString()
	newName := "The Parker-Lees"
	req := dto.UpdateHouseholdRequest{Name: &newName}

	suite.mockRepo.On("FindMember", mock.Anything, suite.householdID, memberID).
		Return(suite.memberWithRole(memberID, domain.RoleMember), nil).Once()

	_, err := suite.service.UpdateHousehold(ctx, suite.householdID, req, memberID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateHousehold", mock.Anything, mock.Anything)
}

func TestHouseholdServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HouseholdServiceTestSuite))
}
