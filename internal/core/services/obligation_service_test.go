package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/core/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// --- Mock ObligationRepository ---
type MockObligationRepository struct {
	mock.Mock
}

var _ portsrepo.ObligationRepositoryFacade = (*MockObligationRepository)(nil)

func (m *MockObligationRepository) FindObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) ListObligations(ctx context.Context, householdID string, status *domain.ProgressStatus) ([]domain.Obligation, error) {
	args := m.Called(ctx, householdID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.ObligationPayment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ObligationPayment), args.Error(1)
}

func (m *MockObligationRepository) ListPayments(ctx context.Context, obligationID string) ([]domain.ObligationPayment, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ObligationPayment), args.Error(1)
}

func (m *MockObligationRepository) SaveObligation(ctx context.Context, obligation domain.Obligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) UpdateObligation(ctx context.Context, obligation domain.Obligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) DeleteObligation(ctx context.Context, obligationID string) error {
	args := m.Called(ctx, obligationID)
	return args.Error(0)
}

func (m *MockObligationRepository) SavePayment(ctx context.Context, payment domain.ObligationPayment, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, payment, txn, balanceChanges)
	return args.Error(0)
}

func (m *MockObligationRepository) DeletePayment(ctx context.Context, payment domain.ObligationPayment, txn domain.Transaction, balanceChanges map[string]decimal.Decimal, deletedBy string, now time.Time) error {
	args := m.Called(ctx, payment, txn, balanceChanges, deletedBy, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ObligationServiceTestSuite struct {
	suite.Suite
	mockObligationRepo *MockObligationRepository
	mockAccountRepo    *MockAccountRepository
	mockTxnRepo        *MockTransactionRepository
	mockAuthorizer     *MockHouseholdAuthorizer
	service            portssvc.ObligationSvcFacade
	householdID        string
	userID             string
	payingAccount      domain.Account
	activeObligation   domain.Obligation
}

func (suite *ObligationServiceTestSuite) SetupTest() {
	suite.mockObligationRepo = new(MockObligationRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAuthorizer = new(MockHouseholdAuthorizer)
	suite.service = services.NewObligationService(
		suite.mockObligationRepo,
		suite.mockAccountRepo,
		suite.mockTxnRepo,
		services.WithObligationAuthorizer(suite.mockAuthorizer),
	)

	suite.householdID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.payingAccount = domain.Account{
		AccountID:    uuid.NewString(),
		HouseholdID:  suite.householdID,
		Name:         "Joint Checking",
		AccountType:  domain.AccountChecking,
		CurrencyCode: "USD",
		Balance:      decimal.NewFromInt(1000),
	}
	suite.activeObligation = domain.Obligation{
		ObligationID:      uuid.NewString(),
		HouseholdID:       suite.householdID,
		Name:              "Car Loan",
		TotalAmount:       decimal.NewFromInt(5000),
		OutstandingAmount: decimal.NewFromInt(300),
		Creditor:          "First National Bank",
		Priority:          domain.PriorityHigh,
		Status:            domain.StatusActive,
	}
}

func (suite *ObligationServiceTestSuite) expectAuth(role domain.HouseholdRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.householdID, role).Return(nil).Once()
}

// --- Test Cases ---

func (suite *ObligationServiceTestSuite) TestCreateObligation_OutstandingStartsAtTotal() {
	ctx := context.Background()
	req := dto.CreateObligationRequest{
		Name:        "Student Loan",
		TotalAmount: decimal.NewFromInt(12000),
		Creditor:    "State Lender",
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockObligationRepo.On("SaveObligation", ctx, mock.MatchedBy(func(o domain.Obligation) bool {
		return o.OutstandingAmount.Equal(o.TotalAmount) && o.Status == domain.StatusActive
	})).Return(nil).Once()

	obligation, err := suite.service.CreateObligation(ctx, suite.householdID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(obligation)
	suite.True(obligation.OutstandingAmount.Equal(decimal.NewFromInt(12000)))
	suite.Equal(domain.PriorityMedium, obligation.Priority)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *ObligationServiceTestSuite) TestCreatePayment_ReducesOutstanding() {
	ctx := context.Background()
	req := dto.CreatePaymentRequest{
		AccountID:  suite.payingAccount.AccountID,
		Amount:     decimal.NewFromInt(100),
		OccurredAt: time.Now(),
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockObligationRepo.On("FindObligationByID", ctx, suite.activeObligation.ObligationID).Return(&suite.activeObligation, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.payingAccount.AccountID).Return(&suite.payingAccount, nil).Once()
	suite.mockObligationRepo.On("SavePayment", ctx,
		mock.AnythingOfType("domain.ObligationPayment"),
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.Kind == domain.KindExpense &&
				txn.Amount.Equal(decimal.NewFromInt(100)) &&
				txn.Counterparty == suite.activeObligation.Creditor
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return len(changes) == 1 && changes[suite.payingAccount.AccountID].Equal(decimal.NewFromInt(-100))
		}),
	).Return(nil).Once()

	payment, err := suite.service.CreatePayment(ctx, suite.householdID, suite.activeObligation.ObligationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.Equal(suite.activeObligation.ObligationID, payment.ObligationID)
	suite.NotEmpty(payment.TransactionID)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *ObligationServiceTestSuite) TestCreatePayment_OverpayRejected() {
	ctx := context.Background()
	req := dto.CreatePaymentRequest{
		AccountID:  suite.payingAccount.AccountID,
		Amount:     decimal.NewFromInt(301),
		OccurredAt: time.Now(),
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockObligationRepo.On("FindObligationByID", ctx, suite.activeObligation.ObligationID).Return(&suite.activeObligation, nil).Once()

	_, err := suite.service.CreatePayment(ctx, suite.householdID, suite.activeObligation.ObligationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ObligationServiceTestSuite) TestCreatePayment_RejectedWhenObligationNotActive() {
	ctx := context.Background()
	obligation := suite.activeObligation
	obligation.Status = domain.StatusCancelled
	req := dto.CreatePaymentRequest{
		AccountID:  suite.payingAccount.AccountID,
		Amount:     decimal.NewFromInt(10),
		OccurredAt: time.Now(),
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()

	_, err := suite.service.CreatePayment(ctx, suite.householdID, obligation.ObligationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ObligationServiceTestSuite) TestDeletePayment_ReversesBalanceChange() {
	ctx := context.Background()
	now := time.Now()
	obligation := suite.activeObligation
	obligation.OutstandingAmount = decimal.Zero
	obligation.Status = domain.StatusCompleted
	obligation.CompletedAt = &now

	accountID := suite.payingAccount.AccountID
	payment := domain.ObligationPayment{
		PaymentID:     uuid.NewString(),
		ObligationID:  obligation.ObligationID,
		TransactionID: uuid.NewString(),
		Amount:        decimal.NewFromInt(100),
	}
	backingTxn := domain.Transaction{
		TransactionID: payment.TransactionID,
		HouseholdID:   suite.householdID,
		Kind:          domain.KindExpense,
		Amount:        decimal.NewFromInt(100),
		AccountID:     &accountID,
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()
	suite.mockObligationRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(&payment, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, payment.TransactionID).Return(&backingTxn, nil).Once()
	suite.mockObligationRepo.On("DeletePayment", ctx, payment, backingTxn,
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			return len(changes) == 1 && changes[accountID].Equal(decimal.NewFromInt(100))
		}),
		suite.userID,
		mock.AnythingOfType("time.Time"),
	).Return(nil).Once()

	err := suite.service.DeletePayment(ctx, suite.householdID, obligation.ObligationID, payment.PaymentID, suite.userID)

	suite.Require().NoError(err)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *ObligationServiceTestSuite) TestDeletePayment_WrongObligation() {
	ctx := context.Background()
	payment := domain.ObligationPayment{
		PaymentID:     uuid.NewString(),
		ObligationID:  uuid.NewString(),
		TransactionID: uuid.NewString(),
		Amount:        decimal.NewFromInt(50),
	}

	suite.expectAuth(domain.RoleMember)
	suite.mockObligationRepo.On("FindObligationByID", ctx, suite.activeObligation.ObligationID).Return(&suite.activeObligation, nil).Once()
	suite.mockObligationRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(&payment, nil).Once()

	err := suite.service.DeletePayment(ctx, suite.householdID, suite.activeObligation.ObligationID, payment.PaymentID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ObligationServiceTestSuite) TestRenewObligation_CreatesNextCycle() {
	ctx := context.Background()
	completedAt := time.Now().AddDate(0, 0, -3)
	dueDate := time.Now().AddDate(0, 0, -1)
	pattern := domain.RecurMonthly
	obligation := suite.activeObligation
	obligation.OutstandingAmount = decimal.Zero
	obligation.Status = domain.StatusCompleted
	obligation.CompletedAt = &completedAt
	obligation.DueDate = &dueDate
	obligation.IsRecurring = true
	obligation.RecurrencePattern = &pattern

	suite.expectAuth(domain.RoleMember)
	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()
	suite.mockObligationRepo.On("SaveObligation", ctx, mock.MatchedBy(func(next domain.Obligation) bool {
		return next.ObligationID != obligation.ObligationID &&
			next.OutstandingAmount.Equal(obligation.TotalAmount) &&
			next.Status == domain.StatusActive &&
			next.CompletedAt == nil &&
			next.IsRecurring &&
			next.DueDate != nil &&
			next.DueDate.Equal(completedAt.AddDate(0, 1, 0))
	})).Return(nil).Once()

	next, err := suite.service.RenewObligation(ctx, suite.householdID, obligation.ObligationID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(next)
	suite.NotEqual(obligation.ObligationID, next.ObligationID)
	suite.True(next.OutstandingAmount.Equal(obligation.TotalAmount))
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *ObligationServiceTestSuite) TestRenewObligation_NotRecurringRejected() {
	ctx := context.Background()
	now := time.Now()
	obligation := suite.activeObligation
	obligation.OutstandingAmount = decimal.Zero
	obligation.Status = domain.StatusCompleted
	obligation.CompletedAt = &now

	suite.expectAuth(domain.RoleMember)
	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()

	_, err := suite.service.RenewObligation(ctx, suite.householdID, obligation.ObligationID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "SaveObligation", mock.Anything, mock.Anything)
}

func (suite *ObligationServiceTestSuite) TestRenewObligation_ActiveObligationRejected() {
	ctx := context.Background()
	pattern := domain.RecurYearly
	obligation := suite.activeObligation
	obligation.IsRecurring = true
	obligation.RecurrencePattern = &pattern

	suite.expectAuth(domain.RoleMember)
	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()

	_, err := suite.service.RenewObligation(ctx, suite.householdID, obligation.ObligationID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "SaveObligation", mock.Anything, mock.Anything)
}

func (suite *ObligationServiceTestSuite) TestCancelObligation_OnlyActiveObligations() {
	ctx := context.Background()
	obligation := suite.activeObligation
	obligation.Status = domain.StatusCompleted

	suite.expectAuth(domain.RoleMember)
	suite.mockObligationRepo.On("FindObligationByID", ctx, obligation.ObligationID).Return(&obligation, nil).Once()

	_, err := suite.service.CancelObligation(ctx, suite.householdID, obligation.ObligationID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "UpdateObligation", mock.Anything, mock.Anything)
}

func (suite *ObligationServiceTestSuite) TestUpdateObligation_AmountsUntouched() {
	ctx := context.Background()
	newName := "Refinanced Car Loan"
	req := dto.UpdateObligationRequest{Name: &newName}

	suite.expectAuth(domain.RoleMember)
	suite.mockObligationRepo.On("FindObligationByID", ctx, suite.activeObligation.ObligationID).Return(&suite.activeObligation, nil).Once()
	suite.mockObligationRepo.On("UpdateObligation", ctx, mock.MatchedBy(func(updated domain.Obligation) bool {
		return updated.Name == newName &&
			updated.TotalAmount.Equal(suite.activeObligation.TotalAmount) &&
			updated.OutstandingAmount.Equal(suite.activeObligation.OutstandingAmount)
	})).Return(nil).Once()

	updated, err := suite.service.UpdateObligation(ctx, suite.householdID, suite.activeObligation.ObligationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func TestObligationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ObligationServiceTestSuite))
}
