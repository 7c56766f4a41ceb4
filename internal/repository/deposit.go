package repository

import (
	"context"

	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/jmoiron/sqlx"
)

type DepositRepository interface {
	Insert(deposit *models.DepositTransaction) (*models.DepositTransaction, error)
	FindByUser(userID string) ([]models.DepositTransaction, error)
}

type DepositRepositoryImpl struct {
	db *sqlx.DB
}

func NewDepositRepository(db *sqlx.DB) DepositRepository {
	return &DepositRepositoryImpl{db: db}
}

func (repo *DepositRepositoryImpl) Insert(deposit *models.DepositTransaction) (*models.DepositTransaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var created models.DepositTransaction

	query := `
		INSERT INTO deposit_transactions (user_id, reference_number, amount, method, proof, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, reference_number, amount, method, proof, status, created_at`

	err := repo.db.GetContext(ctx, &created, query,
		deposit.UserID,
		deposit.ReferenceNumber,
		deposit.Amount,
		deposit.Method,
		deposit.Proof,
		deposit.Status,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (repo *DepositRepositoryImpl) FindByUser(userID string) ([]models.DepositTransaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var deposits []models.DepositTransaction

	query := `
		SELECT * FROM deposit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &deposits, query, userID)
	if err != nil {
		return nil, err
	}

	return deposits, nil
}
