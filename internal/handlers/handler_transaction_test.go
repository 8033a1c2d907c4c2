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

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
	"github.com/hearthkeep/household_ledger_app/internal/handlers"
	"github.com/hearthkeep/household_ledger_app/internal/platform/config"
	"github.com/hearthkeep/household_ledger_app/internal/utils"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

func (m *MockTransactionService) CreateTransaction(ctx context.Context, householdID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, householdID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, householdID string, transactionID string, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, householdID, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, householdID string, userID string, req dto.ListTransactionsRequest) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, householdID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, householdID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, householdID, transactionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, householdID string, transactionID string, userID string) error {
	args := m.Called(ctx, householdID, transactionID, userID)
	return args.Error(0)
}

// --- Mock IdempotencyService ---
//
// Behaves like the real gate for the cases the handler cares about: an empty
// key is rejected before the op runs, otherwise the op executes and its
// result is passed through.
type MockIdempotencyService struct {
	mock.Mock
}

var _ portssvc.IdempotencySvcFacade = (*MockIdempotencyService)(nil)

func (m *MockIdempotencyService) Execute(ctx context.Context, key string, userID string, householdID string, reqBody any, op portssvc.IdempotentOp) (int, json.RawMessage, error) {
	if key == "" {
		return 0, nil, fmt.Errorf("%w: Idempotency-Key header is required", apperrors.ErrValidation)
	}
	status, payload, err := op(ctx)
	if err != nil {
		return 0, nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	return status, body, nil
}

func (m *MockIdempotencyService) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router                 *gin.Engine
	mockTransactionService *MockTransactionService
	mockIdempotencyService *MockIdempotencyService
	jwtSecret              string
	householdID            string
	userID                 string
}

func (suite *TransactionHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "hla-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(utils.RegisterCustomValidators())

	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.householdID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.mockTransactionService = new(MockTransactionService)
	suite.mockIdempotencyService = new(MockIdempotencyService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // skip swagger route registration
	}
	services := &portssvc.ServiceContainer{
		Transaction: suite.mockTransactionService,
		Idempotency: suite.mockIdempotencyService,
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *TransactionHandlerTestSuite) newAuthedRequest(method, url string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	accountID := uuid.NewString()
	reqBody := dto.CreateTransactionRequest{
		Kind:       domain.KindIncome,
		Amount:     decimal.NewFromInt(100),
		AccountID:  &accountID,
		OccurredAt: time.Now().UTC(),
	}
	created := &domain.Transaction{
		TransactionID: uuid.NewString(),
		HouseholdID:   suite.householdID,
		Kind:          domain.KindIncome,
		Amount:        decimal.NewFromInt(100),
		AccountID:     &accountID,
		OccurredAt:    reqBody.OccurredAt,
	}

	suite.mockTransactionService.On("CreateTransaction", mock.Anything, suite.householdID, mock.AnythingOfType("dto.CreateTransactionRequest"), suite.userID).
		Return(created, nil).Once()

	url := fmt.Sprintf("/api/v1/households/%s/transactions", suite.householdID)
	req := suite.newAuthedRequest(http.MethodPost, url, reqBody)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.TransactionID, resp.TransactionID)
	suite.Equal(domain.KindIncome, resp.Kind)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_MissingIdempotencyKey() {
	accountID := uuid.NewString()
	reqBody := dto.CreateTransactionRequest{
		Kind:       domain.KindExpense,
		Amount:     decimal.NewFromInt(20),
		AccountID:  &accountID,
		OccurredAt: time.Now().UTC(),
	}

	url := fmt.Sprintf("/api/v1/households/%s/transactions", suite.householdID)
	req := suite.newAuthedRequest(http.MethodPost, url, reqBody)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_MissingToken() {
	url := fmt.Sprintf("/api/v1/households/%s/transactions", suite.householdID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBufferString("{}"))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_NonPositiveAmountRejected() {
	accountID := uuid.NewString()
	reqBody := dto.CreateTransactionRequest{
		Kind:       domain.KindExpense,
		Amount:     decimal.NewFromInt(-5),
		AccountID:  &accountID,
		OccurredAt: time.Now().UTC(),
	}

	url := fmt.Sprintf("/api/v1/households/%s/transactions", suite.householdID)
	req := suite.newAuthedRequest(http.MethodPost, url, reqBody)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	transactionID := uuid.NewString()

	suite.mockTransactionService.On("GetTransactionByID", mock.Anything, suite.householdID, transactionID, suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/households/%s/transactions/%s", suite.householdID, transactionID)
	req := suite.newAuthedRequest(http.MethodGet, url, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_Success() {
	accountID := uuid.NewString()
	page := &dto.ListTransactionsResponse{
		Transactions: []dto.TransactionResponse{
			{TransactionID: uuid.NewString(), HouseholdID: suite.householdID, Kind: domain.KindExpense, Amount: decimal.NewFromInt(5), AccountID: &accountID},
		},
		NextToken: "next-page-token",
	}

	suite.mockTransactionService.On("ListTransactions", mock.Anything, suite.householdID, suite.userID, mock.AnythingOfType("dto.ListTransactionsRequest")).
		Return(page, nil).Once()

	url := fmt.Sprintf("/api/v1/households/%s/transactions?limit=10", suite.householdID)
	req := suite.newAuthedRequest(http.MethodGet, url, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
	suite.Equal("next-page-token", resp.NextToken)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestDeleteTransaction_Forbidden() {
	transactionID := uuid.NewString()

	suite.mockTransactionService.On("DeleteTransaction", mock.Anything, suite.householdID, transactionID, suite.userID).
		Return(apperrors.ErrForbidden).Once()

	url := fmt.Sprintf("/api/v1/households/%s/transactions/%s", suite.householdID, transactionID)
	req := suite.newAuthedRequest(http.MethodDelete, url, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
