package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Investment struct {
	ID           string          `db:"id"`
	UserID       string          `db:"user_id"`
	PlanID       string          `db:"plan_id"`
	Amount       decimal.Decimal `db:"amount"`
	DurationDays int             `db:"duration_days"`
	Status       string          `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    sql.NullTime    `db:"updated_at"`
}

const (
	InvestmentStatusActive    = "active"
	InvestmentStatusMatured   = "matured"
	InvestmentStatusCancelled = "cancelled"
)
