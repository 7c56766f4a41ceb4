package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	dctx "github.com/godwinide/teslastockinvestment/internal/context"
	"github.com/godwinide/teslastockinvestment/internal/errHandler"
	"github.com/godwinide/teslastockinvestment/internal/mocks"
	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/godwinide/teslastockinvestment/internal/workflow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestErrHandler() *errHandler.ErrorHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return errHandler.New("", "http://localhost", nil, logger)
}

func authenticatedRequest(t *testing.T, method, target string, body []byte, user *models.User) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, target, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	return dctx.ContextSetAuthenticatedUser(req, user)
}

func TestHandleWithdrawal_Success(t *testing.T) {
	mockEngine := new(mocks.MockEngine)
	mockAccountRepo := new(mocks.MockAccountRepo)

	testUser := &models.User{
		ID:        "user-1",
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
	}
	testAccount := &models.Account{
		ID:       "account-1",
		UserID:   "user-1",
		Balance:  decimal.NewFromInt(1000),
		Currency: "$",
	}

	mockAccountRepo.On("GetByUserID", "user-1").Return(testAccount, true, nil)
	mockEngine.On("RequestWithdrawal", mock.Anything, testAccount, mock.Anything).
		Return(&models.WithdrawTransaction{
			ID:               "wd-1",
			UserID:           "user-1",
			ReferenceNumber:  "ref-123",
			AmountRequested:  decimal.NewFromInt(200),
			AmountAndCharges: decimal.NewFromInt(205),
			Method:           "Bitcoin",
			Status:           models.TransactionStatusPending,
		}, nil)

	handler := NewWithdrawalHandler(&WithdrawalHandler{
		Engine:      mockEngine,
		AccountRepo: mockAccountRepo,
		ErrHandler:  newTestErrHandler(),
	})

	requestBody, _ := json.Marshal(map[string]string{
		"amount": "200",
		"pin":    "4321",
		"method": "Bitcoin",
	})

	req := authenticatedRequest(t, "POST", "/dashboard/withdrawals", requestBody, testUser)
	rr := httptest.NewRecorder()

	handler.HandleWithdrawal(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var response map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)

	require.Equal(t, true, response["success"])
	require.Equal(t, "Withdrawal request submitted successfully", response["message"])

	data, ok := response["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ref-123", data["reference_number"])
	require.Equal(t, models.TransactionStatusPending, data["status"])

	mockEngine.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
}

func TestHandleWithdrawal_RejectionBecomesUnprocessable(t *testing.T) {
	mockEngine := new(mocks.MockEngine)
	mockAccountRepo := new(mocks.MockAccountRepo)

	testUser := &models.User{ID: "user-1", Email: "test@example.com"}
	testAccount := &models.Account{ID: "account-1", UserID: "user-1", Currency: "$"}

	mockAccountRepo.On("GetByUserID", "user-1").Return(testAccount, true, nil)
	mockEngine.On("RequestWithdrawal", mock.Anything, testAccount, mock.Anything).
		Return(nil, &workflow.Error{
			Kind:     workflow.KindPendingFeeRequired,
			Message:  "You are required to pay $5.00 cost of transfer fee to process withdrawal",
			Fee:      decimal.NewFromInt(5),
			Currency: "$",
		})

	handler := NewWithdrawalHandler(&WithdrawalHandler{
		Engine:      mockEngine,
		AccountRepo: mockAccountRepo,
		ErrHandler:  newTestErrHandler(),
	})

	requestBody, _ := json.Marshal(map[string]string{
		"amount": "200",
		"pin":    "4321",
		"method": "Bitcoin",
	})

	req := authenticatedRequest(t, "POST", "/dashboard/withdrawals", requestBody, testUser)
	rr := httptest.NewRecorder()

	handler.HandleWithdrawal(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var response map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)

	require.Equal(t, false, response["success"])
	require.Contains(t, response["message"], "$5.00")
}

func TestHandleWithdrawal_MissingFields(t *testing.T) {
	handler := NewWithdrawalHandler(&WithdrawalHandler{
		Engine:      new(mocks.MockEngine),
		AccountRepo: new(mocks.MockAccountRepo),
		ErrHandler:  newTestErrHandler(),
	})

	requestBody, _ := json.Marshal(map[string]string{
		"amount": "200",
	})

	req := authenticatedRequest(t, "POST", "/dashboard/withdrawals", requestBody, &models.User{ID: "user-1"})
	rr := httptest.NewRecorder()

	handler.HandleWithdrawal(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
