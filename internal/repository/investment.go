package repository

import (
	"context"

	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/jmoiron/sqlx"
)

type InvestmentRepository interface {
	Insert(investment *models.Investment) (*models.Investment, error)
	FindByUser(userID string) ([]models.Investment, error)
}

type InvestmentRepositoryImpl struct {
	db *sqlx.DB
}

func NewInvestmentRepository(db *sqlx.DB) InvestmentRepository {
	return &InvestmentRepositoryImpl{db: db}
}

func (repo *InvestmentRepositoryImpl) Insert(investment *models.Investment) (*models.Investment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var created models.Investment

	query := `
		INSERT INTO investments (user_id, plan_id, amount, duration_days, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, plan_id, amount, duration_days, status, created_at`

	err := repo.db.GetContext(ctx, &created, query,
		investment.UserID,
		investment.PlanID,
		investment.Amount,
		investment.DurationDays,
		investment.Status,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (repo *InvestmentRepositoryImpl) FindByUser(userID string) ([]models.Investment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var investments []models.Investment

	query := `
		SELECT * FROM investments
		WHERE user_id = $1
		ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &investments, query, userID)
	if err != nil {
		return nil, err
	}

	return investments, nil
}
