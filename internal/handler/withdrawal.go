package handler

import (
	"net/http"

	"github.com/godwinide/teslastockinvestment/internal/errHandler"
	"github.com/godwinide/teslastockinvestment/internal/funcs"
	"github.com/godwinide/teslastockinvestment/internal/money"
	"github.com/godwinide/teslastockinvestment/internal/repository"
	"github.com/godwinide/teslastockinvestment/internal/request"
	"github.com/godwinide/teslastockinvestment/internal/response"
	"github.com/godwinide/teslastockinvestment/internal/stream"
	"github.com/godwinide/teslastockinvestment/internal/validator"
	"github.com/godwinide/teslastockinvestment/internal/workflow"
)

type WithdrawalHandler struct {
	Engine      WorkflowEngine
	AccountRepo repository.AccountRepository
	Kafka       *stream.KafkaStream
	ErrHandler  *errHandler.ErrorHandler
}

func NewWithdrawalHandler(handler *WithdrawalHandler) *WithdrawalHandler {
	return &WithdrawalHandler{
		Engine:      handler.Engine,
		AccountRepo: handler.AccountRepo,
		Kafka:       handler.Kafka,
		ErrHandler:  handler.ErrHandler,
	}
}

func (h *WithdrawalHandler) HandleWithdrawal(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Amount    string              `json:"amount"`
		Pin       string              `json:"pin"`
		Method    string              `json:"method"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Amount), "Amount is required")
	input.Validator.Check(validator.NotBlank(input.Pin), "Withdrawal PIN is required")
	input.Validator.Check(validator.NotBlank(input.Method), "Withdrawal method is required")

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

	withdrawal, err := h.Engine.RequestWithdrawal(r.Context(), account, &workflow.WithdrawalInput{
		Amount: amount,
		Pin:    input.Pin,
		Method: input.Method,
	})
	if err != nil {
		respondWorkflowError(w, r, h.ErrHandler, err)
		return
	}

	produceEvent(h.Kafka, stream.WithdrawalRequestedTopic, &stream.AccountEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.FirstName + " " + user.LastName,
		Amount:    funcs.FormatMoney(account.Currency, withdrawal.AmountRequested),
		Method:    withdrawal.Method,
		Reference: withdrawal.ReferenceNumber,
	})

	message := "Withdrawal request submitted successfully"
	data := map[string]any{
		"reference_number":   withdrawal.ReferenceNumber,
		"amount_requested":   withdrawal.AmountRequested,
		"amount_and_charges": withdrawal.AmountAndCharges,
		"method":             withdrawal.Method,
		"status":             withdrawal.Status,
	}

	err = response.JSONCreatedResponse(w, data, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
