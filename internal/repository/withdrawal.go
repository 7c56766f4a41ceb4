package repository

import (
	"context"

	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/jmoiron/sqlx"
)

type WithdrawalRepository interface {
	Insert(withdrawal *models.WithdrawTransaction) (*models.WithdrawTransaction, error)
	FindByUser(userID string) ([]models.WithdrawTransaction, error)
}

type WithdrawalRepositoryImpl struct {
	db *sqlx.DB
}

func NewWithdrawalRepository(db *sqlx.DB) WithdrawalRepository {
	return &WithdrawalRepositoryImpl{db: db}
}

func (repo *WithdrawalRepositoryImpl) Insert(withdrawal *models.WithdrawTransaction) (*models.WithdrawTransaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var created models.WithdrawTransaction

	query := `
		INSERT INTO withdraw_transactions (user_id, reference_number, amount_requested, amount_and_charges, method, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, reference_number, amount_requested, amount_and_charges, method, status, created_at`

	err := repo.db.GetContext(ctx, &created, query,
		withdrawal.UserID,
		withdrawal.ReferenceNumber,
		withdrawal.AmountRequested,
		withdrawal.AmountAndCharges,
		withdrawal.Method,
		withdrawal.Status,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (repo *WithdrawalRepositoryImpl) FindByUser(userID string) ([]models.WithdrawTransaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var withdrawals []models.WithdrawTransaction

	query := `
		SELECT * FROM withdraw_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &withdrawals, query, userID)
	if err != nil {
		return nil, err
	}

	return withdrawals, nil
}
