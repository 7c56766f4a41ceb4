package handler

import (
	"net/http"
	"time"

	"github.com/godwinide/teslastockinvestment/internal/errHandler"
	"github.com/godwinide/teslastockinvestment/internal/repository"
	"github.com/godwinide/teslastockinvestment/internal/response"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

type AccountHistoryHandler struct {
	AccountRepo    repository.AccountRepository
	DepositRepo    repository.DepositRepository
	WithdrawalRepo repository.WithdrawalRepository
	OtherRepo      repository.OtherTransactionRepository
	ErrHandler     *errHandler.ErrorHandler
}

func NewAccountHistoryHandler(handler *AccountHistoryHandler) *AccountHistoryHandler {
	return &AccountHistoryHandler{
		AccountRepo:    handler.AccountRepo,
		DepositRepo:    handler.DepositRepo,
		WithdrawalRepo: handler.WithdrawalRepo,
		OtherRepo:      handler.OtherRepo,
		ErrHandler:     handler.ErrHandler,
	}
}

// AccountHistoryData is the common shape deposits, withdrawals and other
// transactions are flattened into for the account history page.
type AccountHistoryData struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method,omitempty"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (h *AccountHistoryHandler) HandleAccountHistory(w http.ResponseWriter, r *http.Request) {
	_, user, ok := loadAccount(w, r, h.AccountRepo, h.ErrHandler)
	if !ok {
		return
	}

	deposits, err := h.DepositRepo.FindByUser(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	withdrawals, err := h.WithdrawalRepo.FindByUser(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	others, err := h.OtherRepo.FindByUser(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	rows := make([]AccountHistoryData, 0, len(deposits)+len(withdrawals)+len(others))

	for _, deposit := range deposits {
		rows = append(rows, AccountHistoryData{
			ID:        deposit.ID,
			Kind:      "deposit",
			Amount:    deposit.Amount,
			Method:    deposit.Method,
			Status:    deposit.Status,
			CreatedAt: deposit.CreatedAt,
		})
	}

	for _, withdrawal := range withdrawals {
		rows = append(rows, AccountHistoryData{
			ID:        withdrawal.ID,
			Kind:      "withdrawal",
			Amount:    withdrawal.AmountRequested,
			Method:    withdrawal.Method,
			Status:    withdrawal.Status,
			CreatedAt: withdrawal.CreatedAt,
		})
	}

	for _, other := range others {
		rows = append(rows, AccountHistoryData{
			ID:          other.ID,
			Kind:        other.Type,
			Amount:      other.Amount,
			Description: other.Description,
			Status:      other.Status,
			CreatedAt:   other.CreatedAt,
		})
	}

	// newest first across all three sources
	slices.SortFunc(rows, func(a, b AccountHistoryData) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	message := "Account history retrieved successfully"
	err = response.JSONOkResponse(w, rows, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
