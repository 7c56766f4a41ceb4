package handler

import (
	dctx "context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/godwinide/teslastockinvestment/internal/context"
	"github.com/godwinide/teslastockinvestment/internal/errHandler"
	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/godwinide/teslastockinvestment/internal/repository"
	"github.com/godwinide/teslastockinvestment/internal/response"
	"github.com/godwinide/teslastockinvestment/internal/stream"
	"github.com/godwinide/teslastockinvestment/internal/workflow"
)

const PlatformName = "Tesla Stock Investment"

// WorkflowEngine is the slice of the transaction workflow engine the HTTP
// layer depends on, narrowed to an interface so handler tests can stub it.
type WorkflowEngine interface {
	PurchasePlan(ctx dctx.Context, account *models.Account, input *workflow.PurchasePlanInput) (*workflow.PurchaseResult, error)
	RequestDeposit(ctx dctx.Context, account *models.Account, input *workflow.DepositInput) (*workflow.DepositIntent, error)
	SubmitDepositProof(ctx dctx.Context, account *models.Account, input *workflow.DepositProofInput) (*models.DepositTransaction, error)
	RequestWithdrawal(ctx dctx.Context, account *models.Account, input *workflow.WithdrawalInput) (*models.WithdrawTransaction, error)
}

// respondWorkflowError maps a workflow failure onto the JSON envelope.
// Rejections come back as 422 with the engine's user-facing message. A
// partial failure keeps its own message so the user knows to contact
// support, and is reported like any other server error.
func respondWorkflowError(w http.ResponseWriter, r *http.Request, errH *errHandler.ErrorHandler, err error) {
	werr, ok := workflow.AsError(err)
	if !ok {
		errH.ServerError(w, r, err)
		return
	}

	switch {
	case werr.Rejection():
		response.JSONErrorResponse(w, nil, werr.Message, http.StatusUnprocessableEntity, nil)
	case werr.Kind == workflow.KindPartialFailure:
		errH.ReportServerError(r, err)
		message := "Your account was updated but the transaction record could not be saved. Please contact support"
		response.JSONErrorResponse(w, nil, message, http.StatusInternalServerError, nil)
	default:
		errH.ServerError(w, r, err)
	}
}

// loadAccount fetches the ledger account of the authenticated user. The
// authenticate middleware guarantees the user is set on the context before
// any of the dashboard handlers run.
func loadAccount(w http.ResponseWriter, r *http.Request, accounts repository.AccountRepository, errH *errHandler.ErrorHandler) (*models.Account, *models.User, bool) {
	user := context.ContextGetAuthenticatedUser(r)

	account, found, err := accounts.GetByUserID(user.ID)
	if err != nil {
		errH.ServerError(w, r, err)
		return nil, nil, false
	}

	if !found {
		errH.NotFound(w, r)
		return nil, nil, false
	}

	return account, user, true
}

func produceEvent(kafka *stream.KafkaStream, topic string, event *stream.AccountEvent) {
	if kafka == nil {
		return
	}

	js, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error encoding %s event: %v", topic, err)
		return
	}

	go kafka.ProduceMessage(topic, string(js))
}
