package workflow

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/godwinide/teslastockinvestment/internal/models"
	"github.com/godwinide/teslastockinvestment/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// memAccountStore mimics the Postgres account repository, including the
// optimistic version check, so engine behavior under concurrent updates can
// be exercised without a database.
type memAccountStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account

	failUpdate error
}

func newMemAccountStore(accounts ...*models.Account) *memAccountStore {
	store := &memAccountStore{accounts: make(map[string]models.Account)}
	for _, acct := range accounts {
		store.accounts[acct.UserID] = *acct
	}
	return store
}

func (s *memAccountStore) Insert(account *models.Account, tx *sqlx.Tx) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.UserID] = *account
	return account.ID, nil
}

func (s *memAccountStore) GetByUserID(userID string) (*models.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		return nil, false, nil
	}
	return &acct, true, nil
}

func (s *memAccountStore) Update(account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failUpdate != nil {
		return s.failUpdate
	}

	current, ok := s.accounts[account.UserID]
	if !ok || current.Version != account.Version {
		return repository.ErrVersionConflict
	}

	account.Version++
	s.accounts[account.UserID] = *account
	return nil
}

type memDepositStore struct {
	mu       sync.Mutex
	deposits []models.DepositTransaction
	failWith error
}

func (s *memDepositStore) Insert(deposit *models.DepositTransaction) (*models.DepositTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	s.deposits = append(s.deposits, *deposit)
	return deposit, nil
}

func (s *memDepositStore) FindByUser(userID string) ([]models.DepositTransaction, error) {
	return s.deposits, nil
}

type memWithdrawalStore struct {
	mu          sync.Mutex
	withdrawals []models.WithdrawTransaction
	failWith    error
}

func (s *memWithdrawalStore) Insert(withdrawal *models.WithdrawTransaction) (*models.WithdrawTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	s.withdrawals = append(s.withdrawals, *withdrawal)
	return withdrawal, nil
}

func (s *memWithdrawalStore) FindByUser(userID string) ([]models.WithdrawTransaction, error) {
	return s.withdrawals, nil
}

type memInvestmentStore struct {
	mu          sync.Mutex
	investments []models.Investment
	failWith    error
}

func (s *memInvestmentStore) Insert(investment *models.Investment) (*models.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	s.investments = append(s.investments, *investment)
	return investment, nil
}

func (s *memInvestmentStore) FindByUser(userID string) ([]models.Investment, error) {
	return s.investments, nil
}

type memTradeStore struct {
	mu       sync.Mutex
	trades   []models.TradeHistory
	failWith error
}

func (s *memTradeStore) Insert(trade *models.TradeHistory) (*models.TradeHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	s.trades = append(s.trades, *trade)
	return trade, nil
}

func (s *memTradeStore) FindByUser(userID string) ([]models.TradeHistory, error) {
	return s.trades, nil
}

type staticAddresses map[string]string

func (a staticAddresses) Resolve(method string) (string, bool, error) {
	address, ok := a[method]
	return address, ok, nil
}

type engineFixture struct {
	engine      *Engine
	accounts    *memAccountStore
	deposits    *memDepositStore
	withdrawals *memWithdrawalStore
	investments *memInvestmentStore
	trades      *memTradeStore
}

func newFixture(account *models.Account) *engineFixture {
	fixture := &engineFixture{
		accounts:    newMemAccountStore(account),
		deposits:    &memDepositStore{},
		withdrawals: &memWithdrawalStore{},
		investments: &memInvestmentStore{},
		trades:      &memTradeStore{},
	}

	fixture.engine = New(&Engine{
		Accounts:    fixture.accounts,
		Deposits:    fixture.deposits,
		Withdrawals: fixture.withdrawals,
		Investments: fixture.investments,
		Trades:      fixture.trades,
		Addresses: staticAddresses{
			models.PaymentMethodBitcoin:  "bc1q0example",
			models.PaymentMethodEthereum: "0xexample",
		},
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	})

	return fixture
}

func testAccount(balance string) *models.Account {
	return &models.Account{
		ID:               "acct-1",
		UserID:           "user-1",
		Balance:          decimal.RequireFromString(balance),
		Currency:         "$",
		TotalWithdrawals: decimal.Zero,
		CostOfTransfer:   decimal.Zero,
		WithdrawalPin:    "4321",
		Version:          1,
	}
}

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()

	werr, ok := AsError(err)
	require.True(t, ok, "expected a workflow error, got %v", err)
	require.Equal(t, kind, werr.Kind)
	return werr
}

func TestPurchasePlanDebitsBalanceAndCreatesRecords(t *testing.T) {
	fixture := newFixture(testAccount("1000"))

	result, err := fixture.engine.PurchasePlan(context.Background(), mustAccount(t, fixture), &PurchasePlanInput{
		Amount:       decimal.RequireFromString("250"),
		PlanID:       "starter",
		DurationDays: 30,
	})
	require.NoError(t, err)

	require.True(t, result.Account.Balance.Equal(decimal.RequireFromString("750")))
	require.Equal(t, 1, result.Account.TotalInvestmentPlans)
	require.Equal(t, 1, result.Account.TotalActiveInvestmentPlans)

	require.Len(t, fixture.investments.investments, 1)
	require.Len(t, fixture.trades.trades, 1)

	investment := fixture.investments.investments[0]
	require.Equal(t, models.InvestmentStatusActive, investment.Status)
	require.Equal(t, "starter", investment.PlanID)

	trade := fixture.trades.trades[0]
	require.Equal(t, models.TradeTypePlanPurchase, trade.Type)
	require.Equal(t, models.InvestmentStatusActive, trade.Status)

	// the store must observe the same balance the result reports
	stored, found, err := fixture.accounts.GetByUserID("user-1")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, stored.Balance.Equal(decimal.RequireFromString("750")))
}

func TestPurchasePlanInsufficientBalanceLeavesAccountUnchanged(t *testing.T) {
	fixture := newFixture(testAccount("100"))

	_, err := fixture.engine.PurchasePlan(context.Background(), mustAccount(t, fixture), &PurchasePlanInput{
		Amount:       decimal.RequireFromString("100.01"),
		PlanID:       "starter",
		DurationDays: 30,
	})
	requireKind(t, err, KindInsufficientBalance)

	stored, _, _ := fixture.accounts.GetByUserID("user-1")
	require.True(t, stored.Balance.Equal(decimal.RequireFromString("100")))
	require.Equal(t, 0, stored.TotalInvestmentPlans)
	require.Empty(t, fixture.investments.investments)
	require.Empty(t, fixture.trades.trades)
}

func TestPurchasePlanMissingFields(t *testing.T) {
	fixture := newFixture(testAccount("1000"))

	tests := []struct {
		name  string
		input *PurchasePlanInput
	}{
		{name: "no plan", input: &PurchasePlanInput{Amount: decimal.NewFromInt(50), DurationDays: 30}},
		{name: "no duration", input: &PurchasePlanInput{Amount: decimal.NewFromInt(50), PlanID: "starter"}},
		{name: "no amount", input: &PurchasePlanInput{PlanID: "starter", DurationDays: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.engine.PurchasePlan(context.Background(), mustAccount(t, fixture), tt.input)
			requireKind(t, err, KindMissingFields)
		})
	}
}

func TestPurchasePlanRecordFailureIsPartialFailure(t *testing.T) {
	fixture := newFixture(testAccount("1000"))
	fixture.investments.failWith = errors.New("insert failed")

	_, err := fixture.engine.PurchasePlan(context.Background(), mustAccount(t, fixture), &PurchasePlanInput{
		Amount:       decimal.NewFromInt(100),
		PlanID:       "starter",
		DurationDays: 30,
	})

	werr := requireKind(t, err, KindPartialFailure)
	require.False(t, werr.Rejection())

	// the balance change already went through; the error must say so
	stored, _, _ := fixture.accounts.GetByUserID("user-1")
	require.True(t, stored.Balance.Equal(decimal.RequireFromString("900")))
}

func TestRequestDeposit(t *testing.T) {
	fixture := newFixture(testAccount("0"))

	t.Run("below minimum", func(t *testing.T) {
		_, err := fixture.engine.RequestDeposit(context.Background(), mustAccount(t, fixture), &DepositInput{
			Amount: decimal.NewFromInt(9),
			Method: models.PaymentMethodBitcoin,
		})
		requireKind(t, err, KindAmountTooLow)
	})

	t.Run("minimum accepted with configured address", func(t *testing.T) {
		intent, err := fixture.engine.RequestDeposit(context.Background(), mustAccount(t, fixture), &DepositInput{
			Amount: decimal.NewFromInt(10),
			Method: models.PaymentMethodBitcoin,
		})
		require.NoError(t, err)
		require.Equal(t, "bc1q0example", intent.Address)
		require.Equal(t, models.PaymentMethodBitcoin, intent.Network)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := fixture.engine.RequestDeposit(context.Background(), mustAccount(t, fixture), &DepositInput{
			Amount: decimal.NewFromInt(50),
			Method: "Dogecoin",
		})
		requireKind(t, err, KindInvalidMethod)
	})

	t.Run("configured method without address", func(t *testing.T) {
		_, err := fixture.engine.RequestDeposit(context.Background(), mustAccount(t, fixture), &DepositInput{
			Amount: decimal.NewFromInt(50),
			Method: models.PaymentMethodTether,
		})
		requireKind(t, err, KindInvalidMethod)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := fixture.engine.RequestDeposit(context.Background(), mustAccount(t, fixture), &DepositInput{
			Amount: decimal.NewFromInt(50),
		})
		requireKind(t, err, KindMissingFields)
	})
}

func TestSubmitDepositProofCreatesPendingRecord(t *testing.T) {
	fixture := newFixture(testAccount("0"))

	deposit, err := fixture.engine.SubmitDepositProof(context.Background(), mustAccount(t, fixture), &DepositProofInput{
		Amount:  decimal.NewFromInt(500),
		Network: models.PaymentMethodEthereum,
		Proof:   "https://files.example.com/receipt.png",
	})
	require.NoError(t, err)

	require.Equal(t, models.TransactionStatusPending, deposit.Status)
	require.NotEmpty(t, deposit.ReferenceNumber)
	require.Len(t, fixture.deposits.deposits, 1)

	// no account mutation on deposit proof
	stored, _, _ := fixture.accounts.GetByUserID("user-1")
	require.Equal(t, 1, stored.Version)
}

func TestSubmitDepositProofStorageFailure(t *testing.T) {
	fixture := newFixture(testAccount("0"))
	fixture.deposits.failWith = errors.New("insert failed")

	_, err := fixture.engine.SubmitDepositProof(context.Background(), mustAccount(t, fixture), &DepositProofInput{
		Amount:  decimal.NewFromInt(500),
		Network: models.PaymentMethodEthereum,
	})
	requireKind(t, err, KindStorageError)
}

func TestRequestWithdrawalHappyPath(t *testing.T) {
	fixture := newFixture(testAccount("1000"))

	withdrawal, err := fixture.engine.RequestWithdrawal(context.Background(), mustAccount(t, fixture), &WithdrawalInput{
		Amount: decimal.NewFromInt(400),
		Pin:    "4321",
		Method: models.PaymentMethodBitcoin,
	})
	require.NoError(t, err)

	require.Equal(t, models.TransactionStatusPending, withdrawal.Status)
	require.True(t, withdrawal.AmountRequested.Equal(decimal.NewFromInt(400)))
	require.True(t, withdrawal.AmountAndCharges.Equal(decimal.NewFromInt(400)))

	stored, _, _ := fixture.accounts.GetByUserID("user-1")
	require.True(t, stored.Balance.Equal(decimal.NewFromInt(600)))
	require.True(t, stored.TotalWithdrawals.Equal(decimal.NewFromInt(400)))
}

func TestRequestWithdrawalCheckOrdering(t *testing.T) {
	// costOfTransfer outranks nothing: the fee rejection only fires after
	// balance and PIN pass, and an unpaid fee blocks an otherwise valid
	// request.
	account := testAccount("100")
	account.CostOfTransfer = decimal.NewFromInt(5)
	fixture := newFixture(account)

	t.Run("fee blocks valid request", func(t *testing.T) {
		_, err := fixture.engine.RequestWithdrawal(context.Background(), mustAccount(t, fixture), &WithdrawalInput{
			Amount: decimal.NewFromInt(50),
			Pin:    "4321",
			Method: models.PaymentMethodBitcoin,
		})

		werr := requireKind(t, err, KindPendingFeeRequired)
		require.True(t, werr.Fee.Equal(decimal.NewFromInt(5)))
		require.Equal(t, "$", werr.Currency)
		require.Contains(t, werr.Message, "$5.00")
	})

	t.Run("insufficient balance wins over wrong pin", func(t *testing.T) {
		_, err := fixture.engine.RequestWithdrawal(context.Background(), mustAccount(t, fixture), &WithdrawalInput{
			Amount: decimal.NewFromInt(500),
			Pin:    "wrong",
			Method: models.PaymentMethodBitcoin,
		})
		requireKind(t, err, KindInsufficientBalance)
	})

	t.Run("wrong pin wins over pending fee", func(t *testing.T) {
		_, err := fixture.engine.RequestWithdrawal(context.Background(), mustAccount(t, fixture), &WithdrawalInput{
			Amount: decimal.NewFromInt(50),
			Pin:    "wrong",
			Method: models.PaymentMethodBitcoin,
		})
		requireKind(t, err, KindInvalidPin)
	})

	t.Run("missing fields wins over everything", func(t *testing.T) {
		_, err := fixture.engine.RequestWithdrawal(context.Background(), mustAccount(t, fixture), &WithdrawalInput{
			Amount: decimal.NewFromInt(50),
			Pin:    "wrong",
		})
		requireKind(t, err, KindMissingFields)
	})
}

func TestRequestWithdrawalInvalidPinWithSufficientBalance(t *testing.T) {
	fixture := newFixture(testAccount("1000"))

	_, err := fixture.engine.RequestWithdrawal(context.Background(), mustAccount(t, fixture), &WithdrawalInput{
		Amount: decimal.NewFromInt(10),
		Pin:    "1111",
		Method: models.PaymentMethodBitcoin,
	})
	requireKind(t, err, KindInvalidPin)

	stored, _, _ := fixture.accounts.GetByUserID("user-1")
	require.True(t, stored.Balance.Equal(decimal.NewFromInt(1000)))
	require.Empty(t, fixture.withdrawals.withdrawals)
}

func TestRequestWithdrawalRecordFailureIsPartialFailure(t *testing.T) {
	fixture := newFixture(testAccount("1000"))
	fixture.withdrawals.failWith = errors.New("insert failed")

	_, err := fixture.engine.RequestWithdrawal(context.Background(), mustAccount(t, fixture), &WithdrawalInput{
		Amount: decimal.NewFromInt(100),
		Pin:    "4321",
		Method: models.PaymentMethodBitcoin,
	})
	requireKind(t, err, KindPartialFailure)
}

// Two withdrawals racing for the full balance: exactly one may win. The loser
// must lose the version check, re-read the drained account, and fail the
// balance check, never double-spend.
func TestConcurrentWithdrawalsNeverDoubleSpend(t *testing.T) {
	fixture := newFixture(testAccount("1000"))

	input := &WithdrawalInput{
		Amount: decimal.NewFromInt(1000),
		Pin:    "4321",
		Method: models.PaymentMethodBitcoin,
	}

	// both requests observe the same stale account snapshot
	first := mustAccount(t, fixture)
	second := mustAccount(t, fixture)

	var wg sync.WaitGroup
	results := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = fixture.engine.RequestWithdrawal(context.Background(), first, input)
	}()
	go func() {
		defer wg.Done()
		_, results[1] = fixture.engine.RequestWithdrawal(context.Background(), second, input)
	}()
	wg.Wait()

	var successes, insufficient int
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		werr := requireKind(t, err, KindInsufficientBalance)
		require.True(t, werr.Rejection())
		insufficient++
	}

	require.Equal(t, 1, successes)
	require.Equal(t, 1, insufficient)

	stored, _, _ := fixture.accounts.GetByUserID("user-1")
	require.True(t, stored.Balance.IsZero())
	require.Len(t, fixture.withdrawals.withdrawals, 1)
}

func mustAccount(t *testing.T, fixture *engineFixture) *models.Account {
	t.Helper()

	account, found, err := fixture.accounts.GetByUserID("user-1")
	require.NoError(t, err)
	require.True(t, found)
	return account
}
