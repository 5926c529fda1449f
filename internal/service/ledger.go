package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/repository"
	"github.com/risknai/adrewards/internal/store"
)

// RewardLedger applies a single reward credit to one account and appends the
// immutable earn transaction. The account mutation, the transaction append
// and the watch-record bump are flushed in one multi-path update; the store
// batch is atomic, but the read-then-write against it is not arbitrated
// across engine instances.
type RewardLedger struct {
	store        store.Store
	accounts     *repository.AccountRepo
	watches      *repository.WatchRepo
	transactions *repository.TransactionRepo
}

func NewRewardLedger(st store.Store, accounts *repository.AccountRepo, watches *repository.WatchRepo, transactions *repository.TransactionRepo) *RewardLedger {
	return &RewardLedger{
		store:        st,
		accounts:     accounts,
		watches:      watches,
		transactions: transactions,
	}
}

// Credit pays reward to the account for one completed watch. A failed credit
// is reported as an error, never as a zero-valued success; a returned zero
// with a nil error can only mean a zero-configured reward.
func (l *RewardLedger) Credit(ctx context.Context, accountID string, provider domain.ProviderID, reward decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	acct, err := l.accounts.Get(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	// Day boundary in the reference timezone resets the counter to 1, not 0:
	// this credit is the first watch of the new day.
	if acct.LastAdWatch != nil && domain.SameDay(*acct.LastAdWatch, now) {
		acct.AdsWatchedToday++
	} else {
		acct.AdsWatchedToday = 1
	}
	acct.Balance = acct.Balance.Add(reward)
	acct.TotalEarned = acct.TotalEarned.Add(reward)
	acct.LastAdWatch = &now

	rec, err := l.watches.Get(ctx, accountID, provider)
	if err != nil {
		return decimal.Zero, err
	}
	watched := rec.WatchedOn(now)
	if rec == nil {
		rec = &domain.WatchRecord{AccountID: accountID, Provider: provider}
	}
	rec.WatchedToday = watched + 1
	rec.LastWatched = now
	if rec.LastReset.IsZero() {
		rec.LastReset = now
	}

	tx := l.transactions.New(accountID, domain.TxTypeEarn, reward,
		fmt.Sprintf("Ad reward (%s)", provider), now)

	entries := make(map[string][]byte, 3)
	for _, enc := range []func() (string, []byte, error){
		func() (string, []byte, error) { return l.accounts.Entry(acct) },
		func() (string, []byte, error) { return l.watches.Entry(rec) },
		func() (string, []byte, error) { return l.transactions.Entry(tx) },
	} {
		path, value, err := enc()
		if err != nil {
			return decimal.Zero, err
		}
		entries[path] = value
	}

	if err := l.store.Update(ctx, entries); err != nil {
		return decimal.Zero, &domain.PersistenceError{Op: "apply credit", Err: err}
	}

	slog.Info("reward credited",
		"account", accountID,
		"provider", provider,
		"amount", reward.String(),
		"watched_today", rec.WatchedToday,
	)
	return reward, nil
}
