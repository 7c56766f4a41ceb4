package repository

import (
	"context"

	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/jmoiron/sqlx"
)

// Trade history is append-only. There is deliberately no update method here.
type TradeHistoryRepository interface {
	Insert(trade *models.TradeHistory) (*models.TradeHistory, error)
	FindByUser(userID string) ([]models.TradeHistory, error)
}

type TradeHistoryRepositoryImpl struct {
	db *sqlx.DB
}

func NewTradeHistoryRepository(db *sqlx.DB) TradeHistoryRepository {
	return &TradeHistoryRepositoryImpl{db: db}
}

func (repo *TradeHistoryRepositoryImpl) Insert(trade *models.TradeHistory) (*models.TradeHistory, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var created models.TradeHistory

	query := `
		INSERT INTO trade_history (user_id, plan_id, amount, type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, plan_id, amount, type, status, created_at`

	err := repo.db.GetContext(ctx, &created, query,
		trade.UserID,
		trade.PlanID,
		trade.Amount,
		trade.Type,
		trade.Status,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (repo *TradeHistoryRepositoryImpl) FindByUser(userID string) ([]models.TradeHistory, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var history []models.TradeHistory

	query := `
		SELECT * FROM trade_history
		WHERE user_id = $1
		ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &history, query, userID)
	if err != nil {
		return nil, err
	}

	return history, nil
}
