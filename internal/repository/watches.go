package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/store"
)

type WatchRepo struct {
	store store.Store
}

func NewWatchRepo(st store.Store) *WatchRepo {
	return &WatchRepo{store: st}
}

// Get returns the watch record for (account, provider), or nil when no watch
// has happened yet for the pair.
func (r *WatchRepo) Get(ctx context.Context, accountID string, provider domain.ProviderID) (*domain.WatchRecord, error) {
	raw, err := r.store.Get(ctx, store.WatchRecordPath(accountID, string(provider)))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read watch record", Err: err}
	}
	var rec domain.WatchRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode watch record %s/%s: %w", accountID, provider, err)
	}
	return &rec, nil
}

// All returns every watch record in the store, keyed by path. Used by the
// scheduler's batch reset.
func (r *WatchRepo) All(ctx context.Context) (map[string]*domain.WatchRecord, error) {
	raws, err := r.store.List(ctx, store.WatchRecordsPrefix)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list watch records", Err: err}
	}
	out := make(map[string]*domain.WatchRecord, len(raws))
	for path, raw := range raws {
		var rec domain.WatchRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode watch record at %s: %w", path, err)
		}
		out[path] = &rec
	}
	return out, nil
}

func (r *WatchRepo) Entry(rec *domain.WatchRecord) (string, []byte, error) {
	value, err := json.Marshal(rec)
	if err != nil {
		return "", nil, fmt.Errorf("encode watch record %s/%s: %w", rec.AccountID, rec.Provider, err)
	}
	return store.WatchRecordPath(rec.AccountID, string(rec.Provider)), value, nil
}
