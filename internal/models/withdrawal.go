package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawTransaction struct {
	ID              string          `db:"id"`
	UserID          string          `db:"user_id"`
	ReferenceNumber string          `db:"reference_number"`
	AmountRequested decimal.Decimal `db:"amount_requested"`
	// AmountAndCharges is the requested amount plus the cost-of-transfer fee
	// frozen at the time of the request.
	AmountAndCharges decimal.Decimal `db:"amount_and_charges"`
	Method           string          `db:"method"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        sql.NullTime    `db:"updated_at"`
}
