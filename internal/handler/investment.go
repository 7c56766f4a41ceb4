package handler

import (
	"net/http"
	"time"

	"github.com/godwinide/teslastockinvestment/internal/errHandler"
	"github.com/godwinide/teslastockinvestment/internal/funcs"
	"github.com/godwinide/teslastockinvestment/internal/money"
	"github.com/godwinide/teslastockinvestment/internal/repository"
	"github.com/godwinide/teslastockinvestment/internal/request"
	"github.com/godwinide/teslastockinvestment/internal/response"
	"github.com/godwinide/teslastockinvestment/internal/stream"
	"github.com/godwinide/teslastockinvestment/internal/validator"
	"github.com/godwinide/teslastockinvestment/internal/workflow"
	"github.com/shopspring/decimal"
)

type InvestmentHandler struct {
	Engine      WorkflowEngine
	AccountRepo repository.AccountRepository
	TradeRepo   repository.TradeHistoryRepository
	Kafka       *stream.KafkaStream
	ErrHandler  *errHandler.ErrorHandler
}

func NewInvestmentHandler(handler *InvestmentHandler) *InvestmentHandler {
	return &InvestmentHandler{
		Engine:      handler.Engine,
		AccountRepo: handler.AccountRepo,
		TradeRepo:   handler.TradeRepo,
		Kafka:       handler.Kafka,
		ErrHandler:  handler.ErrHandler,
	}
}

func (h *InvestmentHandler) HandleBuyPlan(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Amount    string              `json:"amount"`
		Plan      string              `json:"plan"`
		Duration  int                 `json:"duration"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Amount), "Amount is required")
	input.Validator.Check(validator.NotBlank(input.Plan), "Plan is required")
	input.Validator.Check(input.Duration > 0, "Duration is required")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	amount, err := money.ParseAmount(input.Amount)
	if err != nil {
		input.Validator.AddError(err.Error())
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	account, user, ok := loadAccount(w, r, h.AccountRepo, h.ErrHandler)
	if !ok {
		return
	}

	result, err := h.Engine.PurchasePlan(r.Context(), account, &workflow.PurchasePlanInput{
		Amount:       amount,
		PlanID:       input.Plan,
		DurationDays: input.Duration,
	})
	if err != nil {
		respondWorkflowError(w, r, h.ErrHandler, err)
		return
	}

	produceEvent(h.Kafka, stream.PlanPurchasedTopic, &stream.AccountEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.FirstName + " " + user.LastName,
		Amount:    funcs.FormatMoney(result.Account.Currency, amount),
		Method:    input.Plan,
		Reference: result.Investment.ID,
	})

	message := "Plan purchased successfully"
	data := map[string]any{
		"investment_id": result.Investment.ID,
		"plan":          result.Investment.PlanID,
		"amount":        result.Investment.Amount,
		"duration_days": result.Investment.DurationDays,
		"balance":       result.Account.Balance,
	}

	err = response.JSONCreatedResponse(w, data, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

type TradeHistoryData struct {
	ID        string          `json:"id"`
	Plan      string          `json:"plan"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

func (h *InvestmentHandler) HandleTradingHistory(w http.ResponseWriter, r *http.Request) {
	_, user, ok := loadAccount(w, r, h.AccountRepo, h.ErrHandler)
	if !ok {
		return
	}

	history, err := h.TradeRepo.FindByUser(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]TradeHistoryData, len(history))
	for i, trade := range history {
		data[i] = TradeHistoryData{
			ID:        trade.ID,
			Plan:      trade.PlanID,
			Amount:    trade.Amount,
			Type:      trade.Type,
			Status:    trade.Status,
			CreatedAt: trade.CreatedAt,
		}
	}

	message := "Trading history retrieved successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
