package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OtherTransaction holds account movements that are neither deposits nor
// withdrawals, such as bonuses and fee charges applied by the admin team.
// This service only lists them on the account history page.
type OtherTransaction struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Amount      decimal.Decimal `db:"amount"`
	Type        string          `db:"type"`
	Description string          `db:"description"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
}
