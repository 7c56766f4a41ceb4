package handler

import (
	"net/http"

	"github.com/godwinide/teslastockinvestment/internal/errHandler"
	"github.com/godwinide/teslastockinvestment/internal/file"
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

const maxProofUploadBytes = 10 << 20

type DepositHandler struct {
	Engine      WorkflowEngine
	AccountRepo repository.AccountRepository
	Uploader    file.Uploader
	Kafka       *stream.KafkaStream
	ErrHandler  *errHandler.ErrorHandler
}

func NewDepositHandler(handler *DepositHandler) *DepositHandler {
	return &DepositHandler{
		Engine:      handler.Engine,
		AccountRepo: handler.AccountRepo,
		Uploader:    handler.Uploader,
		Kafka:       handler.Kafka,
		ErrHandler:  handler.ErrHandler,
	}
}

type DepositIntentData struct {
	Amount  decimal.Decimal `json:"amount"`
	Address string          `json:"address"`
	Network string          `json:"network"`
}

// HandleDepositRequest resolves where the user should send their crypto.
// Nothing is recorded yet; the deposit only exists once proof is submitted.
func (h *DepositHandler) HandleDepositRequest(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Amount    string              `json:"amount"`
		Method    string              `json:"method"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Amount), "Amount is required")
	input.Validator.Check(validator.NotBlank(input.Method), "Payment method is required")

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

	account, _, ok := loadAccount(w, r, h.AccountRepo, h.ErrHandler)
	if !ok {
		return
	}

	intent, err := h.Engine.RequestDeposit(r.Context(), account, &workflow.DepositInput{
		Amount: amount,
		Method: input.Method,
	})
	if err != nil {
		respondWorkflowError(w, r, h.ErrHandler, err)
		return
	}

	data := &DepositIntentData{
		Amount:  intent.Amount,
		Address: intent.Address,
		Network: intent.Network,
	}

	message := "Send the exact amount to the address below and submit your payment proof"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleDepositProof receives the payment receipt as multipart form data:
// amount and network fields plus an optional proof image, which is pushed to
// the file storage collaborator before the pending deposit is recorded.
func (h *DepositHandler) HandleDepositProof(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxProofUploadBytes)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	var v validator.Validator

	amountField := r.FormValue("amount")
	network := r.FormValue("network")

	v.Check(validator.NotBlank(amountField), "Amount is required")
	v.Check(validator.NotBlank(network), "Network is required")

	if v.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, v.Errors)
		return
	}

	amount, err := money.ParseAmount(amountField)
	if err != nil {
		v.AddError(err.Error())
		h.ErrHandler.FailedValidation(w, r, v.Errors)
		return
	}

	account, user, ok := loadAccount(w, r, h.AccountRepo, h.ErrHandler)
	if !ok {
		return
	}

	var proofURL string
	if proof, _, err := r.FormFile("proof"); err == nil {
		defer proof.Close()

		proofURL, err = h.Uploader.UploadFile(r.Context(), proof, "deposit-proofs")
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
	}

	deposit, err := h.Engine.SubmitDepositProof(r.Context(), account, &workflow.DepositProofInput{
		Amount:  amount,
		Network: network,
		Proof:   proofURL,
	})
	if err != nil {
		respondWorkflowError(w, r, h.ErrHandler, err)
		return
	}

	produceEvent(h.Kafka, stream.DepositSubmittedTopic, &stream.AccountEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.FirstName + " " + user.LastName,
		Amount:    funcs.FormatMoney(account.Currency, deposit.Amount),
		Method:    deposit.Method,
		Reference: deposit.ReferenceNumber,
	})

	message := "Deposit submitted successfully, please wait for approval"
	data := map[string]any{
		"reference_number": deposit.ReferenceNumber,
		"amount":           deposit.Amount,
		"method":           deposit.Method,
		"status":           deposit.Status,
	}

	err = response.JSONCreatedResponse(w, data, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
