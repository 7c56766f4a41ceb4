package workflow

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Kind classifies why an operation was rejected or failed. Validation kinds
// are user-facing and recoverable; StorageError means the operation did not
// complete; PartialFailure means the account was mutated but the matching
// record was not persisted and someone needs to reconcile.
type Kind string

const (
	KindMissingFields       Kind = "missing_fields"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindInvalidMethod       Kind = "invalid_method"
	KindAmountTooLow        Kind = "amount_too_low"
	KindInvalidPin          Kind = "invalid_pin"
	KindPendingFeeRequired  Kind = "pending_fee_required"
	KindStorageError        Kind = "storage_error"
	KindPartialFailure      Kind = "partial_failure"
)

type Error struct {
	Kind    Kind
	Message string

	// Fee and Currency are set on PendingFeeRequired so the caller can build
	// the user-facing message without another account read.
	Fee      decimal.Decimal
	Currency string

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Rejection reports whether the operation was rejected by a validation rule,
// as opposed to failing in storage.
func (e *Error) Rejection() bool {
	return e.Kind != KindStorageError && e.Kind != KindPartialFailure
}

// AsError unwraps a workflow error from any error chain.
func AsError(err error) (*Error, bool) {
	var werr *Error
	if errors.As(err, &werr) {
		return werr, true
	}
	return nil, false
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func storageError(err error) *Error {
	return &Error{
		Kind:    KindStorageError,
		Message: "the operation could not be completed",
		Err:     err,
	}
}
