package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/store"
)

type AccountRepo struct {
	store store.Store
}

func NewAccountRepo(st store.Store) *AccountRepo {
	return &AccountRepo{store: st}
}

func (r *AccountRepo) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	raw, err := r.store.Get(ctx, store.AccountPath(accountID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read account", Err: err}
	}
	var a domain.Account
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", accountID, err)
	}
	return &a, nil
}

func (r *AccountRepo) Save(ctx context.Context, a *domain.Account) error {
	path, value, err := r.Entry(a)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, path, value); err != nil {
		return &domain.PersistenceError{Op: "write account", Err: err}
	}
	return nil
}

// Entry encodes the account for inclusion in a multi-path update batch.
func (r *AccountRepo) Entry(a *domain.Account) (string, []byte, error) {
	value, err := json.Marshal(a)
	if err != nil {
		return "", nil, fmt.Errorf("encode account %s: %w", a.ID, err)
	}
	return store.AccountPath(a.ID), value, nil
}
