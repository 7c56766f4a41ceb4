package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/jmoiron/sqlx"
)

// ErrVersionConflict is returned when an account update loses the optimistic
// concurrency race: the row changed between the read and the write. Callers
// are expected to re-read the account and re-run their checks.
var ErrVersionConflict = errors.New("account was modified by a concurrent operation")

type AccountRepository interface {
	Insert(account *models.Account, tx *sqlx.Tx) (string, error)
	GetByUserID(userID string) (*models.Account, bool, error)
	Update(account *models.Account) error
}

type AccountRepositoryImpl struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

func (repo *AccountRepositoryImpl) Insert(account *models.Account, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string

	query := `
		INSERT INTO accounts (user_id, currency, withdrawal_pin)
		VALUES ($1, $2, $3)
		RETURNING id`
	if tx != nil {
		err := tx.QueryRowContext(ctx, query,
			account.UserID,
			account.Currency,
			account.WithdrawalPin,
		).Scan(&id)
		if err != nil {
			return "", err
		}
	} else {
		err := repo.db.GetContext(ctx, &id, query,
			account.UserID,
			account.Currency,
			account.WithdrawalPin,
		)

		if err != nil {
			return "", err
		}
	}

	return id, nil
}

func (repo *AccountRepositoryImpl) GetByUserID(userID string) (*models.Account, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var account models.Account

	query := `SELECT * FROM accounts WHERE user_id = $1`

	err := repo.db.GetContext(ctx, &account, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &account, true, err
}

// Update writes the balance, counters and fee back to the row, guarded by the
// version the account was read at. Zero rows affected means another request
// got there first and the caller must retry with fresh state.
func (repo *AccountRepositoryImpl) Update(account *models.Account) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		UPDATE accounts
		SET balance = $1,
			total_withdrawals = $2,
			total_investment_plans = $3,
			total_active_investment_plans = $4,
			cost_of_transfer = $5,
			version = version + 1,
			updated_at = now()
		WHERE id = $6 AND version = $7`

	result, err := repo.db.ExecContext(ctx, query,
		account.Balance,
		account.TotalWithdrawals,
		account.TotalInvestmentPlans,
		account.TotalActiveInvestmentPlans,
		account.CostOfTransfer,
		account.ID,
		account.Version,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrVersionConflict
	}

	account.Version++
	return nil
}
