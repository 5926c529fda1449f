package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/store"
)

type SystemRepo struct {
	store store.Store
}

func NewSystemRepo(st store.Store) *SystemRepo {
	return &SystemRepo{store: st}
}

// LastResetDate returns the reference-timezone date of the last authoritative
// reset, or "" when no reset has ever run.
func (r *SystemRepo) LastResetDate(ctx context.Context) (string, error) {
	raw, err := r.store.Get(ctx, store.LastResetDatePath)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", &domain.PersistenceError{Op: "read last reset date", Err: err}
	}
	var date string
	if err := json.Unmarshal(raw, &date); err != nil {
		return "", fmt.Errorf("decode last reset date: %w", err)
	}
	return date, nil
}

func (r *SystemRepo) SetLastResetDate(ctx context.Context, date string) error {
	value, err := json.Marshal(date)
	if err != nil {
		return fmt.Errorf("encode last reset date: %w", err)
	}
	if err := r.store.Set(ctx, store.LastResetDatePath, value); err != nil {
		return &domain.PersistenceError{Op: "write last reset date", Err: err}
	}
	return nil
}
