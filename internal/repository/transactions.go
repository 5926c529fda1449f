package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/store"
)

type TransactionRepo struct {
	store store.Store
}

func NewTransactionRepo(st store.Store) *TransactionRepo {
	return &TransactionRepo{store: st}
}

// New builds a completed transaction with a fresh store-side identifier.
func (r *TransactionRepo) New(accountID string, txType domain.TxType, amount decimal.Decimal, description string, now time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		Status:      domain.TxStatusCompleted,
		CreatedAt:   now,
	}
}

func (r *TransactionRepo) Entry(tx *domain.Transaction) (string, []byte, error) {
	value, err := json.Marshal(tx)
	if err != nil {
		return "", nil, fmt.Errorf("encode transaction %s: %w", tx.ID, err)
	}
	return store.TransactionPath(tx.ID), value, nil
}

// ListByAccount returns the account's transactions, newest first.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	raws, err := r.store.List(ctx, store.TransactionsPrefix)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list transactions", Err: err}
	}
	var out []domain.Transaction
	for path, raw := range raws {
		var tx domain.Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			return nil, fmt.Errorf("decode transaction at %s: %w", path, err)
		}
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
