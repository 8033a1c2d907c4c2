package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/core/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
	"github.com/hearthkeep/household_ledger_app/internal/utils/pagination"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

// Ensure MockTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, householdID string, filter portsrepo.TransactionFilter, limit int, after *domain.TransactionCursor) ([]domain.Transaction, *domain.TransactionCursor, error) {
	args := m.Called(ctx, householdID, filter, limit, after)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var cursor *domain.TransactionCursor
	if args.Get(1) != nil {
		cursor = args.Get(1).(*domain.TransactionCursor)
	}
	return args.Get(0).([]domain.Transaction), cursor, args.Error(2)
}

func (m *MockTransactionRepository) FindTransactionLink(ctx context.Context, transactionID string) (*domain.TransactionLink, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionLink), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, txn, balanceChanges)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, txn, balanceChanges)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, txn, balanceChanges, userID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, householdID string, includeArchived bool) ([]domain.Account, error) {
	args := m.Called(ctx, householdID, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

var _ portsrepo.CategoryReader = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, householdID string) ([]domain.Category, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

// --- Mock HouseholdAuthorizer ---
type MockHouseholdAuthorizer struct {
	mock.Mock
}

var _ portssvc.HouseholdAuthorizerSvc = (*MockHouseholdAuthorizer)(nil)

func (m *MockHouseholdAuthorizer) AuthorizeUserAction(ctx context.Context, userID string, householdID string, requiredRole domain.HouseholdRole) error {
	args := m.Called(ctx, userID, householdID, requiredRole)
	return args.Error(0)
}

// --- Test Suite Setup ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo      *MockTransactionRepository
	mockAccountRepo  *MockAccountRepository
	mockCategoryRepo *MockCategoryRepository
	mockAuthorizer   *MockHouseholdAuthorizer
	service          portssvc.TransactionSvcFacade
	householdID      string
	userID           string
	checkingAccount  domain.Account
	savingsAccount   domain.Account
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockAuthorizer = new(MockHouseholdAuthorizer)
	suite.service = services.NewTransactionService(
		suite.mockTxnRepo,
		suite.mockAccountRepo,
		suite.mockCategoryRepo,
		services.WithTransactionAuthorizer(suite.mockAuthorizer),
	)

	suite.householdID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.checkingAccount = domain.Account{
		AccountID:    uuid.NewString(),
		HouseholdID:  suite.householdID,
		Name:         "Joint Checking",
		AccountType:  domain.AccountChecking,
		CurrencyCode: "USD",
		Balance:      decimal.NewFromInt(100),
	}
	suite.savingsAccount = domain.Account{
		AccountID:    uuid.NewString(),
		HouseholdID:  suite.householdID,
		Name:         "Emergency Fund",
		AccountType:  domain.AccountSavings,
		CurrencyCode: "USD",
		Balance:      decimal.NewFromInt(500),
	}
}

func (suite *TransactionServiceTestSuite) expectMemberAuth() {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.householdID, domain.RoleMember).Return(nil).Once()
}

func (suite *TransactionServiceTestSuite) expectViewerAuth() {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.householdID, domain.RoleViewer).Return(nil).Once()
}

// --- Test Cases ---

func (suite *TransactionServiceTestSuite) TestCreateTransaction_IncomeSuccess() {
	ctx := context.Background()
	accountID := suite.checkingAccount.AccountID
	req := dto.CreateTransactionRequest{
		Kind:       domain.KindIncome,
		Amount:     decimal.NewFromInt(100),
		AccountID:  &accountID,
		OccurredAt: time.Now(),
	}

	suite.expectMemberAuth()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{accountID}).
		Return(map[string]domain.Account{accountID: suite.checkingAccount}, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 1 && changes[accountID].Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.householdID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(suite.householdID, txn.HouseholdID)
	suite.Equal(domain.KindIncome, txn.Kind)
	suite.Equal(suite.userID, txn.CreatedBy)

	suite.mockAuthorizer.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ExpenseDebitsAccount() {
	ctx := context.Background()
	accountID := suite.checkingAccount.AccountID
	req := dto.CreateTransactionRequest{
		Kind:       domain.KindExpense,
		Amount:     decimal.NewFromInt(20),
		AccountID:  &accountID,
		OccurredAt: time.Now(),
	}

	suite.expectMemberAuth()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{accountID}).
		Return(map[string]domain.Account{accountID: suite.checkingAccount}, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 1 && changes[accountID].Equal(decimal.NewFromInt(-20))
	})).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.householdID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(decimal.NewFromInt(20).String(), txn.Amount.String())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_TransferMovesBothBalances() {
	ctx := context.Background()
	fromID := suite.checkingAccount.AccountID
	toID := suite.savingsAccount.AccountID
	req := dto.CreateTransactionRequest{
		Kind:          domain.KindTransfer,
		Amount:        decimal.NewFromInt(40),
		FromAccountID: &fromID,
		ToAccountID:   &toID,
		OccurredAt:    time.Now(),
	}

	suite.expectMemberAuth()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{fromID, toID}).
		Return(map[string]domain.Account{fromID: suite.checkingAccount, toID: suite.savingsAccount}, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 2 &&
			changes[fromID].Equal(decimal.NewFromInt(-40)) &&
			changes[toID].Equal(decimal.NewFromInt(40))
	})).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.householdID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.KindTransfer, txn.Kind)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ArchivedAccountRejected() {
	ctx := context.Background()
	archived := suite.checkingAccount
	archived.IsArchived = true
	accountID := archived.AccountID
	req := dto.CreateTransactionRequest{
		Kind:       domain.KindExpense,
		Amount:     decimal.NewFromInt(10),
		AccountID:  &accountID,
		OccurredAt: time.Now(),
	}

	suite.expectMemberAuth()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{accountID}).
		Return(map[string]domain.Account{accountID: archived}, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, suite.householdID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ForeignAccountLooksLikeMissing() {
	ctx := context.Background()
	foreign := suite.checkingAccount
	foreign.HouseholdID = uuid.NewString()
	accountID := foreign.AccountID
	req := dto.CreateTransactionRequest{
		Kind:       domain.KindIncome,
		Amount:     decimal.NewFromInt(10),
		AccountID:  &accountID,
		OccurredAt: time.Now(),
	}

	suite.expectMemberAuth()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{accountID}).
		Return(map[string]domain.Account{accountID: foreign}, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, suite.householdID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_TransferCurrencyMismatch() {
	ctx := context.Background()
	eurAccount := suite.savingsAccount
	eurAccount.CurrencyCode = "EUR"
	fromID := suite.checkingAccount.AccountID
	toID := eurAccount.AccountID
	req := dto.CreateTransactionRequest{
		Kind:          domain.KindTransfer,
		Amount:        decimal.NewFromInt(40),
		FromAccountID: &fromID,
		ToAccountID:   &toID,
		OccurredAt:    time.Now(),
	}

	suite.expectMemberAuth()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{fromID, toID}).
		Return(map[string]domain.Account{fromID: suite.checkingAccount, toID: eurAccount}, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, suite.householdID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_CategoryKindMismatch() {
	ctx := context.Background()
	accountID := suite.checkingAccount.AccountID
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		HouseholdID: suite.householdID,
		Name:        "Salary",
		Kind:        domain.CategoryIncome,
	}
	req := dto.CreateTransactionRequest{
		Kind:       domain.KindExpense,
		Amount:     decimal.NewFromInt(15),
		AccountID:  &accountID,
		CategoryID: &category.CategoryID,
		OccurredAt: time.Now(),
	}

	suite.expectMemberAuth()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{accountID}).
		Return(map[string]domain.Account{accountID: suite.checkingAccount}, nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, category.CategoryID).Return(&category, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, suite.householdID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_AuthorizationFail() {
	ctx := context.Background()
	accountID := suite.checkingAccount.AccountID
	req := dto.CreateTransactionRequest{
		Kind:       domain.KindIncome,
		Amount:     decimal.NewFromInt(10),
		AccountID:  &accountID,
		OccurredAt: time.Now(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.householdID, domain.RoleMember).
		Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.CreateTransaction(ctx, suite.householdID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_WrongHousehold() {
	ctx := context.Background()
	accountID := suite.checkingAccount.AccountID
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		HouseholdID:   uuid.NewString(),
		Kind:          domain.KindIncome,
		Amount:        decimal.NewFromInt(10),
		AccountID:     &accountID,
	}

	suite.expectViewerAuth()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(&txn, nil).Once()

	_, err := suite.service.GetTransactionByID(ctx, suite.householdID, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_LinkedAmountChangeRejected() {
	ctx := context.Background()
	accountID := suite.checkingAccount.AccountID
	existing := domain.Transaction{
		TransactionID: uuid.NewString(),
		HouseholdID:   suite.householdID,
		Kind:          domain.KindExpense,
		Amount:        decimal.NewFromInt(50),
		AccountID:     &accountID,
		OccurredAt:    time.Now(),
	}
	goalID := uuid.NewString()
	newAmount := decimal.NewFromInt(75)
	req := dto.UpdateTransactionRequest{Amount: &newAmount}

	suite.expectMemberAuth()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(&existing, nil).Once()
	suite.mockTxnRepo.On("FindTransactionLink", ctx, existing.TransactionID).
		Return(&domain.TransactionLink{GoalID: &goalID}, nil).Once()

	_, err := suite.service.UpdateTransaction(ctx, suite.householdID, existing.TransactionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_AmountChangeCompensates() {
	ctx := context.Background()
	accountID := suite.checkingAccount.AccountID
	existing := domain.Transaction{
		TransactionID: uuid.NewString(),
		HouseholdID:   suite.householdID,
		Kind:          domain.KindExpense,
		Amount:        decimal.NewFromInt(50),
		AccountID:     &accountID,
		OccurredAt:    time.Now(),
	}
	newAmount := decimal.NewFromInt(30)
	req := dto.UpdateTransactionRequest{Amount: &newAmount}

	suite.expectMemberAuth()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(&existing, nil).Once()
	suite.mockTxnRepo.On("FindTransactionLink", ctx, existing.TransactionID).Return(nil, apperrors.ErrNotFound).Once()
	// Old expense of 50 reversed (+50) plus new expense of 30 applied (-30).
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 1 && changes[accountID].Equal(decimal.NewFromInt(20))
	})).Return(nil).Once()

	updated, err := suite.service.UpdateTransaction(ctx, suite.householdID, existing.TransactionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.Amount.Equal(newAmount))
	suite.Equal(suite.userID, updated.LastUpdatedBy)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_DescriptionOnlyLeavesBalances() {
	ctx := context.Background()
	accountID := suite.checkingAccount.AccountID
	existing := domain.Transaction{
		TransactionID: uuid.NewString(),
		HouseholdID:   suite.householdID,
		Kind:          domain.KindExpense,
		Amount:        decimal.NewFromInt(50),
		AccountID:     &accountID,
		OccurredAt:    time.Now(),
		Description:   "groceries",
	}
	newDescription := "groceries and cleaning supplies"
	req := dto.UpdateTransactionRequest{Description: &newDescription}

	suite.expectMemberAuth()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(&existing, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 0
	})).Return(nil).Once()

	updated, err := suite.service.UpdateTransaction(ctx, suite.householdID, existing.TransactionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newDescription, updated.Description)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionLink", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_ReversesBalances() {
	ctx := context.Background()
	accountID := suite.checkingAccount.AccountID
	existing := domain.Transaction{
		TransactionID: uuid.NewString(),
		HouseholdID:   suite.householdID,
		Kind:          domain.KindIncome,
		Amount:        decimal.NewFromInt(100),
		AccountID:     &accountID,
		OccurredAt:    time.Now(),
	}

	suite.expectMemberAuth()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, existing.TransactionID).Return(&existing, nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", ctx, existing, mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 1 && changes[accountID].Equal(decimal.NewFromInt(-100))
	}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, suite.householdID, existing.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListTransactions_InvalidCursorToken() {
	ctx := context.Background()
	req := dto.ListTransactionsRequest{NextToken: "%%%not-base64%%%"}

	suite.expectViewerAuth()

	_, err := suite.service.ListTransactions(ctx, suite.householdID, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_PagesWithCursor() {
	ctx := context.Background()
	accountID := suite.checkingAccount.AccountID
	occurred := time.Now().Add(-time.Hour).UTC()
	created := time.Now().UTC()
	rows := []domain.Transaction{
		{
			TransactionID: uuid.NewString(),
			HouseholdID:   suite.householdID,
			Kind:          domain.KindExpense,
			Amount:        decimal.NewFromInt(5),
			AccountID:     &accountID,
			OccurredAt:    occurred,
		},
	}
	cursor := &domain.TransactionCursor{OccurredAt: occurred, CreatedAt: created, TransactionID: rows[0].TransactionID}

	suite.expectViewerAuth()
	suite.mockTxnRepo.On("ListTransactions", ctx, suite.householdID, mock.AnythingOfType("repositories.TransactionFilter"), 50, (*domain.TransactionCursor)(nil)).
		Return(rows, cursor, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, suite.householdID, suite.userID, dto.ListTransactionsRequest{})

	suite.Require().NoError(err)
	suite.Len(resp.Transactions, 1)
	suite.Equal(pagination.EncodeToken(occurred, created, rows[0].TransactionID), resp.NextToken)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
