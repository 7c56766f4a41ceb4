package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/godwinide/teslastockinvestment/internal/funcs"
	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/godwinide/teslastockinvestment/internal/money"
	"github.com/godwinide/teslastockinvestment/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxUpdateAttempts bounds the optimistic retry loop on account updates.
// Losing the version race this many times in a row means the account is
// under a write storm and the request should fail rather than spin.
const maxUpdateAttempts = 3

// AddressResolver maps a payment method to the site's receiving address.
type AddressResolver interface {
	Resolve(method string) (string, bool, error)
}

// Engine runs the balance and transaction ledger workflow: it validates a
// requested action against the current account state, applies the mutation
// through an optimistic version check, and appends the audit records the
// action calls for. All mutations of an account happen here and nowhere else.
type Engine struct {
	Accounts    repository.AccountRepository
	Deposits    repository.DepositRepository
	Withdrawals repository.WithdrawalRepository
	Investments repository.InvestmentRepository
	Trades      repository.TradeHistoryRepository
	Addresses   AddressResolver
	Logger      *slog.Logger
}

func New(engine *Engine) *Engine {
	return &Engine{
		Accounts:    engine.Accounts,
		Deposits:    engine.Deposits,
		Withdrawals: engine.Withdrawals,
		Investments: engine.Investments,
		Trades:      engine.Trades,
		Addresses:   engine.Addresses,
		Logger:      engine.Logger,
	}
}

type PurchasePlanInput struct {
	Amount       decimal.Decimal
	PlanID       string
	DurationDays int
}

type PurchaseResult struct {
	Account    *models.Account
	Investment *models.Investment
	Trade      *models.TradeHistory
}

// PurchasePlan debits the plan amount from the balance, bumps the plan
// counters, and records one investment plus one trade history entry.
func (e *Engine) PurchasePlan(ctx context.Context, account *models.Account, input *PurchasePlanInput) (*PurchaseResult, error) {
	if input.PlanID == "" || input.DurationDays <= 0 || !input.Amount.IsPositive() {
		return nil, newError(KindMissingFields, "Please fill in all fields")
	}

	acct := account
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, storageError(err)
		}

		if acct.Balance.LessThan(input.Amount) {
			return nil, newError(KindInsufficientBalance, "Insufficient balance")
		}

		updated := *acct
		updated.Balance = acct.Balance.Sub(input.Amount)
		updated.TotalInvestmentPlans++
		updated.TotalActiveInvestmentPlans++

		err := e.Accounts.Update(&updated)
		if err == nil {
			acct = &updated
			break
		}

		acct, err = e.retryAccount(acct.UserID, attempt, err)
		if err != nil {
			return nil, err
		}
	}

	investment, err := e.Investments.Insert(&models.Investment{
		UserID:       acct.UserID,
		PlanID:       input.PlanID,
		Amount:       input.Amount,
		DurationDays: input.DurationDays,
		Status:       models.InvestmentStatusActive,
	})
	if err != nil {
		return nil, e.partialFailure(acct.UserID, "investment", err)
	}

	trade, err := e.Trades.Insert(&models.TradeHistory{
		UserID: acct.UserID,
		PlanID: input.PlanID,
		Amount: input.Amount,
		Type:   models.TradeTypePlanPurchase,
		Status: models.InvestmentStatusActive,
	})
	if err != nil {
		return nil, e.partialFailure(acct.UserID, "trade history", err)
	}

	return &PurchaseResult{
		Account:    acct,
		Investment: investment,
		Trade:      trade,
	}, nil
}

type DepositInput struct {
	Amount decimal.Decimal
	Method string
}

// DepositIntent is what the payment page displays: where to send the funds.
// No record is created until the user submits proof of payment.
type DepositIntent struct {
	Amount  decimal.Decimal
	Address string
	Network string
}

// RequestDeposit resolves the receiving address for the chosen method. It
// mutates nothing.
func (e *Engine) RequestDeposit(ctx context.Context, account *models.Account, input *DepositInput) (*DepositIntent, error) {
	if input.Method == "" || !input.Amount.IsPositive() {
		return nil, newError(KindMissingFields, "Please fill in all fields")
	}

	if input.Amount.LessThan(money.MinDeposit) {
		return nil, newError(KindAmountTooLow, "Amount must be at least "+funcs.FormatMoney(account.Currency, money.MinDeposit))
	}

	address, found, err := e.Addresses.Resolve(input.Method)
	if err != nil {
		return nil, storageError(err)
	}
	if !found || address == "" {
		return nil, newError(KindInvalidMethod, "Invalid payment method")
	}

	return &DepositIntent{
		Amount:  input.Amount,
		Address: address,
		Network: input.Method,
	}, nil
}

type DepositProofInput struct {
	Amount  decimal.Decimal
	Network string
	Proof   string
}

// SubmitDepositProof records a pending deposit for the admin team to review.
// The account itself is untouched until approval, so a storage failure here
// leaves nothing to roll back.
//
// The minimum-deposit rule is deliberately not re-checked at this step:
// rejecting here would strand a user who already sent the funds. Below
// minimum proofs are logged for the review team instead.
func (e *Engine) SubmitDepositProof(ctx context.Context, account *models.Account, input *DepositProofInput) (*models.DepositTransaction, error) {
	if input.Network == "" || !input.Amount.IsPositive() {
		return nil, newError(KindMissingFields, "Please fill in all fields")
	}

	if input.Amount.LessThan(money.MinDeposit) {
		e.Logger.Warn("deposit proof accepted below the deposit minimum",
			"user_id", account.UserID, "amount", input.Amount.String())
	}

	deposit, err := e.Deposits.Insert(&models.DepositTransaction{
		UserID:          account.UserID,
		ReferenceNumber: uuid.NewString(),
		Amount:          input.Amount,
		Method:          input.Network,
		Proof:           input.Proof,
		Status:          models.TransactionStatusPending,
	})
	if err != nil {
		return nil, storageError(err)
	}

	return deposit, nil
}

type WithdrawalInput struct {
	Amount decimal.Decimal
	Pin    string
	Method string
}

// RequestWithdrawal moves the amount out of the balance and records a pending
// withdrawal. Checks run in a fixed order and the first failure wins:
// missing fields, insufficient balance, wrong PIN, unpaid cost-of-transfer.
func (e *Engine) RequestWithdrawal(ctx context.Context, account *models.Account, input *WithdrawalInput) (*models.WithdrawTransaction, error) {
	if input.Pin == "" || input.Method == "" || !input.Amount.IsPositive() {
		return nil, newError(KindMissingFields, "Please fill all fields")
	}

	acct := account
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, storageError(err)
		}

		if acct.Balance.LessThan(input.Amount) {
			return nil, newError(KindInsufficientBalance, "Insufficient funds")
		}

		if input.Pin != acct.WithdrawalPin {
			return nil, newError(KindInvalidPin, "Incorrect withdrawal PIN, please contact support for PIN")
		}

		if acct.CostOfTransfer.IsPositive() {
			return nil, &Error{
				Kind: KindPendingFeeRequired,
				Message: fmt.Sprintf("You are required to pay %s cost of transfer fee to process withdrawal",
					funcs.FormatMoney(acct.Currency, acct.CostOfTransfer)),
				Fee:      acct.CostOfTransfer,
				Currency: acct.Currency,
			}
		}

		updated := *acct
		updated.TotalWithdrawals = acct.TotalWithdrawals.Add(input.Amount)
		updated.Balance = acct.Balance.Sub(input.Amount)

		err := e.Accounts.Update(&updated)
		if err == nil {
			acct = &updated
			break
		}

		acct, err = e.retryAccount(acct.UserID, attempt, err)
		if err != nil {
			return nil, err
		}
	}

	withdrawal, err := e.Withdrawals.Insert(&models.WithdrawTransaction{
		UserID:           acct.UserID,
		ReferenceNumber:  uuid.NewString(),
		AmountRequested:  input.Amount,
		AmountAndCharges: input.Amount.Add(acct.CostOfTransfer),
		Method:           input.Method,
		Status:           models.TransactionStatusPending,
	})
	if err != nil {
		return nil, e.partialFailure(acct.UserID, "withdrawal", err)
	}

	return withdrawal, nil
}

// retryAccount handles a failed account update: version conflicts re-read the
// row for another attempt, anything else stops the operation.
func (e *Engine) retryAccount(userID string, attempt int, cause error) (*models.Account, error) {
	if !errors.Is(cause, repository.ErrVersionConflict) {
		return nil, storageError(cause)
	}

	if attempt >= maxUpdateAttempts {
		return nil, storageError(cause)
	}

	fresh, found, err := e.Accounts.GetByUserID(userID)
	if err != nil {
		return nil, storageError(err)
	}
	if !found {
		return nil, storageError(fmt.Errorf("account for user %s disappeared during retry", userID))
	}

	return fresh, nil
}

// partialFailure is the one state this engine cannot clean up on its own:
// the account row was already updated but the audit record was not written.
// It must surface as its own kind so the caller can reconcile, never as a
// generic storage error.
func (e *Engine) partialFailure(userID, record string, cause error) *Error {
	e.Logger.Error("account mutated but record creation failed",
		"user_id", userID, "record", record, "error", cause)

	return &Error{
		Kind:    KindPartialFailure,
		Message: fmt.Sprintf("account was updated but the %s record could not be saved", record),
		Err:     cause,
	}
}
