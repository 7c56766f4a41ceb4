package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeHistory rows are append-only. They are never updated after creation
// and exist purely as an audit trail behind the trading history page.
type TradeHistory struct {
	ID        string          `db:"id"`
	UserID    string          `db:"user_id"`
	PlanID    string          `db:"plan_id"`
	Amount    decimal.Decimal `db:"amount"`
	Type      string          `db:"type"`
	Status    string          `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
}

const (
	TradeTypePlanPurchase = "plan purchase"
)
