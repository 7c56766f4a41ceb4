package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/godwinide/teslastockinvestment/assets"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"
)

const defaultTimeout = 3 * time.Second

// Database interface defines available repositories
type Database interface {
	User() UserRepository
	Account() AccountRepository
	Deposit() DepositRepository
	Withdrawal() WithdrawalRepository
	Investment() InvestmentRepository
	TradeHistory() TradeHistoryRepository
	OtherTransaction() OtherTransactionRepository
	Site() SiteRepository

	Close() error
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// DatabaseImpl implements the Database interface
type DatabaseImpl struct {
	db             *sqlx.DB
	userRepo       UserRepository
	accountRepo    AccountRepository
	depositRepo    DepositRepository
	withdrawalRepo WithdrawalRepository
	investmentRepo InvestmentRepository
	tradeRepo      TradeHistoryRepository
	otherRepo      OtherTransactionRepository
	siteRepo       SiteRepository

	mu sync.Mutex
}

// New initializes a database connection and runs migrations if enabled
func New(dsn string, automigrate bool) (Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", "postgres://"+dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	// Run migrations if enabled
	if automigrate {
		iofsDriver, err := iofs.New(assets.EmbeddedFiles, "migrations")
		if err != nil {
			return nil, err
		}

		migrator, err := migrate.NewWithSourceInstance("iofs", iofsDriver, "postgres://"+dsn)
		if err != nil {
			return nil, err
		}

		if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, err
		}
	}

	// Return DatabaseImpl instance without pre-initializing repositories
	return &DatabaseImpl{db: db}, nil
}

func (d *DatabaseImpl) Close() error {
	return d.db.Close()
}

func (d *DatabaseImpl) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	tx, err := d.db.BeginTxx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (d *DatabaseImpl) User() UserRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.userRepo == nil {
		d.userRepo = NewUserRepository(d.db)
	}
	return d.userRepo
}

func (d *DatabaseImpl) Account() AccountRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.accountRepo == nil {
		d.accountRepo = NewAccountRepository(d.db)
	}
	return d.accountRepo
}

func (d *DatabaseImpl) Deposit() DepositRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.depositRepo == nil {
		d.depositRepo = NewDepositRepository(d.db)
	}
	return d.depositRepo
}

func (d *DatabaseImpl) Withdrawal() WithdrawalRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.withdrawalRepo == nil {
		d.withdrawalRepo = NewWithdrawalRepository(d.db)
	}
	return d.withdrawalRepo
}

func (d *DatabaseImpl) Investment() InvestmentRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.investmentRepo == nil {
		d.investmentRepo = NewInvestmentRepository(d.db)
	}
	return d.investmentRepo
}

func (d *DatabaseImpl) TradeHistory() TradeHistoryRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.tradeRepo == nil {
		d.tradeRepo = NewTradeHistoryRepository(d.db)
	}
	return d.tradeRepo
}

func (d *DatabaseImpl) OtherTransaction() OtherTransactionRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.otherRepo == nil {
		d.otherRepo = NewOtherTransactionRepository(d.db)
	}
	return d.otherRepo
}

func (d *DatabaseImpl) Site() SiteRepository {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.siteRepo == nil {
		d.siteRepo = NewSiteRepository(d.db)
	}
	return d.siteRepo
}
