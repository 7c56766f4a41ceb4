package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/jmoiron/sqlx"
)

type SiteRepository interface {
	Get() (*models.Site, bool, error)
}

type SiteRepositoryImpl struct {
	db *sqlx.DB
}

func NewSiteRepository(db *sqlx.DB) SiteRepository {
	return &SiteRepositoryImpl{db: db}
}

// Get returns the platform's single configuration row.
func (repo *SiteRepositoryImpl) Get() (*models.Site, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var site models.Site

	query := `SELECT * FROM sites ORDER BY created_at LIMIT 1`

	err := repo.db.GetContext(ctx, &site, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &site, true, err
}
