package handler

import (
	"net/http"
	"time"

	"github.com/godwinide/teslastockinvestment/internal/errHandler"
	"github.com/godwinide/teslastockinvestment/internal/repository"
	"github.com/godwinide/teslastockinvestment/internal/response"
	"github.com/shopspring/decimal"
)

type AccountSummaryData struct {
	ID                         string          `json:"id"`
	Balance                    decimal.Decimal `json:"balance"`
	Currency                   string          `json:"currency"`
	TotalWithdrawals           decimal.Decimal `json:"total_withdrawals"`
	TotalInvestmentPlans       int             `json:"total_investment_plans"`
	TotalActiveInvestmentPlans int             `json:"total_active_investment_plans"`
	CostOfTransfer             decimal.Decimal `json:"cost_of_transfer"`
	VerificationStatus         string          `json:"verification_status"`
	KycSubmitted               bool            `json:"kyc_submitted"`
	CreatedAt                  time.Time       `json:"created_at"`
}

type DashboardHandler struct {
	AccountRepo repository.AccountRepository
	ErrHandler  *errHandler.ErrorHandler
}

func NewDashboardHandler(handler *DashboardHandler) *DashboardHandler {
	return &DashboardHandler{
		AccountRepo: handler.AccountRepo,
		ErrHandler:  handler.ErrHandler,
	}
}

func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	account, user, ok := loadAccount(w, r, h.AccountRepo, h.ErrHandler)
	if !ok {
		return
	}

	data := &AccountSummaryData{
		ID:                         account.ID,
		Balance:                    account.Balance,
		Currency:                   account.Currency,
		TotalWithdrawals:           account.TotalWithdrawals,
		TotalInvestmentPlans:       account.TotalInvestmentPlans,
		TotalActiveInvestmentPlans: account.TotalActiveInvestmentPlans,
		CostOfTransfer:             account.CostOfTransfer,
		VerificationStatus:         user.Status,
		KycSubmitted:               user.KycSubmitted,
		CreatedAt:                  account.CreatedAt,
	}

	message := "Account summary fetched successfully"
	err := response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
