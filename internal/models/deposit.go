package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type DepositTransaction struct {
	ID              string          `db:"id"`
	UserID          string          `db:"user_id"`
	ReferenceNumber string          `db:"reference_number"`
	Amount          decimal.Decimal `db:"amount"`
	Method          string          `db:"method"`
	Proof           string          `db:"proof"`
	Status          string          `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       sql.NullTime    `db:"updated_at"`
}

// define possible transaction status
// approval/rejection is owned by the admin review flow, not this service
const (
	TransactionStatusPending  = "pending"
	TransactionStatusApproved = "approved"
	TransactionStatusRejected = "rejected"
)

// supported crypto payment methods, each mapped to a receiving address
// configured on the site record
const (
	PaymentMethodBitcoin  = "Bitcoin"
	PaymentMethodEthereum = "Ethereum"
	PaymentMethodTether   = "Tether"
)
