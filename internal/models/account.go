package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Account is the user's ledger: current balance plus the running counters the
// dashboard displays. It is only ever mutated through the workflow engine.
// Version backs the optimistic concurrency check on every update, so two
// requests racing on the same account can never both get past the balance
// check and save.
type Account struct {
	ID                         string          `db:"id"`
	UserID                     string          `db:"user_id"`
	Balance                    decimal.Decimal `db:"balance"`
	Currency                   string          `db:"currency"`
	TotalWithdrawals           decimal.Decimal `db:"total_withdrawals"`
	TotalInvestmentPlans       int             `db:"total_investment_plans"`
	TotalActiveInvestmentPlans int             `db:"total_active_investment_plans"`
	CostOfTransfer             decimal.Decimal `db:"cost_of_transfer"`
	WithdrawalPin              string          `db:"withdrawal_pin"`
	Version                    int             `db:"version"`
	CreatedAt                  time.Time       `db:"created_at"`
	UpdatedAt                  sql.NullTime    `db:"updated_at"`
}
