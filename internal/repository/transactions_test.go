package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/store"
)

func TestTransactionRepo_ListByAccount_NewestFirst(t *testing.T) {
	st := store.NewMemory()
	repo := NewTransactionRepo(st)
	ctx := context.Background()

	base := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	amounts := []string{"0.5", "0.5", "0.05"}
	for i, a := range amounts {
		tx := repo.New("100", domain.TxTypeEarn, decimal.RequireFromString(a),
			"Ad reward (adexora)", base.Add(time.Duration(i)*time.Minute))
		path, value, err := repo.Entry(tx)
		require.NoError(t, err)
		require.NoError(t, st.Set(ctx, path, value))
	}

	// Another account's transaction must not leak into the listing.
	other := repo.New("200", domain.TxTypeEarn, decimal.RequireFromString("0.5"), "Ad reward (gigapub)", base)
	path, value, err := repo.Entry(other)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, path, value))

	txs, err := repo.ListByAccount(ctx, "100")
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "0.05", txs[0].Amount.String())
	assert.True(t, txs[0].CreatedAt.After(txs[1].CreatedAt))
	assert.True(t, txs[1].CreatedAt.After(txs[2].CreatedAt))
}

func TestTransactionRepo_New(t *testing.T) {
	repo := NewTransactionRepo(store.NewMemory())
	now := time.Now()

	tx := repo.New("100", domain.TxTypeReferralCommission, decimal.RequireFromString("0.05"),
		"Referral commission from 200", now)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, domain.TxStatusCompleted, tx.Status)
	assert.Equal(t, "100", tx.AccountID)
	assert.True(t, tx.CreatedAt.Equal(now))

	second := repo.New("100", domain.TxTypeEarn, decimal.Zero, "", now)
	assert.NotEqual(t, tx.ID, second.ID)
}
