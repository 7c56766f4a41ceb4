package mocks

import (
	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Insert(account *models.Account, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockAccountRepo) GetByUserID(userID string) (*models.Account, bool, error) {
	args := m.Called(userID)
	return args.Get(0).(*models.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepo) Update(account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}
