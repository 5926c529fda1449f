package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/risknai/adrewards/internal/config"
	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/repository"
	"github.com/risknai/adrewards/internal/store"
)

// CommissionPropagator pays the referring account a fixed percentage of every
// reward the referred account earns. It is a dependent side effect of the
// primary credit: a missing referrer or a failed lookup skips the commission
// silently and never reverses or blocks the reward itself.
type CommissionPropagator struct {
	store        store.Store
	accounts     *repository.AccountRepo
	referrals    *repository.ReferralRepo
	transactions *repository.TransactionRepo
	rate         decimal.Decimal
}

func NewCommissionPropagator(st store.Store, accounts *repository.AccountRepo, referrals *repository.ReferralRepo, transactions *repository.TransactionRepo) *CommissionPropagator {
	return &CommissionPropagator{
		store:        st,
		accounts:     accounts,
		referrals:    referrals,
		transactions: transactions,
		rate:         decimal.NewFromFloat(config.CommissionPercent / 100),
	}
}

// Propagate credits the referrer of referredID with their commission on
// earned. Returns true when a commission was paid.
func (p *CommissionPropagator) Propagate(ctx context.Context, referredID string, earned decimal.Decimal, now time.Time) (bool, error) {
	referred, err := p.accounts.Get(ctx, referredID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	if referred.ReferredBy == "" {
		return false, nil
	}

	referrer, err := p.accounts.Get(ctx, referred.ReferredBy)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			slog.Warn("referrer missing, skipping commission",
				"account", referredID, "referrer", referred.ReferredBy)
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", domain.ErrReferrerLookupFailed, err)
	}

	commission := earned.Mul(p.rate)
	referrer.Balance = referrer.Balance.Add(commission)
	referrer.TotalEarned = referrer.TotalEarned.Add(commission)

	rec, err := p.referrals.Get(ctx, referrer.ID)
	if err != nil {
		return false, err
	}
	entry, ok := rec.ReferredUsers[referredID]
	if !ok {
		entry.JoinedAt = referred.JoinedAt
	}
	entry.TotalEarned = entry.TotalEarned.Add(earned)
	entry.CommissionEarned = entry.CommissionEarned.Add(commission)
	rec.ReferredUsers[referredID] = entry
	rec.Recalculate()

	tx := p.transactions.New(referrer.ID, domain.TxTypeReferralCommission, commission,
		fmt.Sprintf("Referral commission from %s", referredID), now)

	entries := make(map[string][]byte, 3)
	for _, enc := range []func() (string, []byte, error){
		func() (string, []byte, error) { return p.accounts.Entry(referrer) },
		func() (string, []byte, error) { return p.referrals.Entry(rec) },
		func() (string, []byte, error) { return p.transactions.Entry(tx) },
	} {
		path, value, err := enc()
		if err != nil {
			return false, err
		}
		entries[path] = value
	}

	if err := p.store.Update(ctx, entries); err != nil {
		return false, &domain.PersistenceError{Op: "apply commission", Err: err}
	}

	slog.Info("referral commission paid",
		"referrer", referrer.ID,
		"referred", referredID,
		"commission", commission.String(),
	)
	return true, nil
}
