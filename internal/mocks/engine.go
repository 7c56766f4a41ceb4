package mocks

import (
	"context"

	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/godwinide/teslastockinvestment/internal/workflow"
	"github.com/stretchr/testify/mock"
)

// MockEngine stands in for the transaction workflow engine in handler tests.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) PurchasePlan(ctx context.Context, account *models.Account, input *workflow.PurchasePlanInput) (*workflow.PurchaseResult, error) {
	args := m.Called(ctx, account, input)
	result, _ := args.Get(0).(*workflow.PurchaseResult)
	return result, args.Error(1)
}

func (m *MockEngine) RequestDeposit(ctx context.Context, account *models.Account, input *workflow.DepositInput) (*workflow.DepositIntent, error) {
	args := m.Called(ctx, account, input)
	intent, _ := args.Get(0).(*workflow.DepositIntent)
	return intent, args.Error(1)
}

func (m *MockEngine) SubmitDepositProof(ctx context.Context, account *models.Account, input *workflow.DepositProofInput) (*models.DepositTransaction, error) {
	args := m.Called(ctx, account, input)
	deposit, _ := args.Get(0).(*models.DepositTransaction)
	return deposit, args.Error(1)
}

func (m *MockEngine) RequestWithdrawal(ctx context.Context, account *models.Account, input *workflow.WithdrawalInput) (*models.WithdrawTransaction, error) {
	args := m.Called(ctx, account, input)
	withdrawal, _ := args.Get(0).(*models.WithdrawTransaction)
	return withdrawal, args.Error(1)
}
