package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/repository"
	"github.com/risknai/adrewards/internal/store"
)

// testEnv wires the full engine stack over an in-memory store.
type testEnv struct {
	store       *store.Memory
	accounts    *repository.AccountRepo
	watches     *repository.WatchRepo
	txs         *repository.TransactionRepo
	referrals   *repository.ReferralRepo
	system      *repository.SystemRepo
	providers   *repository.ProviderRepo
	registry    *Registry
	ledger      *RewardLedger
	commissions *CommissionPropagator
	engine      *Engine
}

func newTestEnv(t *testing.T, defaults []domain.ProviderConfig) *testEnv {
	t.Helper()
	st := store.NewMemory()
	env := &testEnv{
		store:     st,
		accounts:  repository.NewAccountRepo(st),
		watches:   repository.NewWatchRepo(st),
		txs:       repository.NewTransactionRepo(st),
		referrals: repository.NewReferralRepo(st),
		system:    repository.NewSystemRepo(st),
		providers: repository.NewProviderRepo(st, defaults),
		registry:  NewRegistry(),
	}
	t.Cleanup(env.providers.Close)

	env.ledger = NewRewardLedger(st, env.accounts, env.watches, env.txs)
	env.commissions = NewCommissionPropagator(st, env.accounts, env.referrals, env.txs)
	for _, cfg := range defaults {
		env.registry.Register(cfg.ID, NewCallbackProvider())
	}
	env.engine = NewEngine(env.providers, env.watches, env.ledger, env.commissions, env.registry)
	return env
}

func (e *testEnv) saveAccount(t *testing.T, acct *domain.Account) {
	t.Helper()
	require.NoError(t, e.accounts.Save(context.Background(), acct))
}

func (e *testEnv) account(t *testing.T, id string) *domain.Account {
	t.Helper()
	acct, err := e.accounts.Get(context.Background(), id)
	require.NoError(t, err)
	return acct
}

func (e *testEnv) transactions(t *testing.T, accountID string) []domain.Transaction {
	t.Helper()
	txs, err := e.txs.ListByAccount(context.Background(), accountID)
	require.NoError(t, err)
	return txs
}

func (e *testEnv) saveWatchRecord(t *testing.T, rec *domain.WatchRecord) {
	t.Helper()
	path, value, err := e.watches.Entry(rec)
	require.NoError(t, err)
	require.NoError(t, e.store.Set(context.Background(), path, value))
}

// testProvider is a baseline enabled config tests tweak per case.
func testProvider(id domain.ProviderID) domain.ProviderConfig {
	return domain.ProviderConfig{
		ID:                  id,
		Title:               "Test " + string(id),
		Reward:              decimal.NewFromFloat(0.5),
		DailyLimit:          5,
		HourlyLimit:         2,
		CooldownSeconds:     60,
		MinimumWatchSeconds: 5,
		Enabled:             true,
	}
}

func testAccount(id string) *domain.Account {
	return &domain.Account{
		ID:             id,
		Balance:        decimal.Zero,
		TotalEarned:    decimal.Zero,
		TotalWithdrawn: decimal.Zero,
		JoinedAt:       time.Now(),
	}
}

// stubProvider resolves with a fixed outcome; when block is set, Attempt
// waits until the channel closes.
type stubProvider struct {
	outcome Outcome
	err     error
	block   chan struct{}
}

func (p *stubProvider) Attempt(ctx context.Context, _ *SessionState, _ time.Duration) (Outcome, error) {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return OutcomeFailed, ctx.Err()
		}
	}
	return p.outcome, p.err
}
