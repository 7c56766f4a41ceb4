package repository

import (
	"context"

	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/jmoiron/sqlx"
)

type OtherTransactionRepository interface {
	Insert(transaction *models.OtherTransaction) (*models.OtherTransaction, error)
	FindByUser(userID string) ([]models.OtherTransaction, error)
}

type OtherTransactionRepositoryImpl struct {
	db *sqlx.DB
}

func NewOtherTransactionRepository(db *sqlx.DB) OtherTransactionRepository {
	return &OtherTransactionRepositoryImpl{db: db}
}

func (repo *OtherTransactionRepositoryImpl) Insert(transaction *models.OtherTransaction) (*models.OtherTransaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var created models.OtherTransaction

	query := `
		INSERT INTO other_transactions (user_id, amount, type, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, amount, type, description, status, created_at`

	err := repo.db.GetContext(ctx, &created, query,
		transaction.UserID,
		transaction.Amount,
		transaction.Type,
		transaction.Description,
		transaction.Status,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (repo *OtherTransactionRepositoryImpl) FindByUser(userID string) ([]models.OtherTransaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var transactions []models.OtherTransaction

	query := `
		SELECT * FROM other_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &transactions, query, userID)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
