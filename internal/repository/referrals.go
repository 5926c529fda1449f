package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/store"
)

type ReferralRepo struct {
	store store.Store
}

func NewReferralRepo(st store.Store) *ReferralRepo {
	return &ReferralRepo{store: st}
}

// Get returns the referrer's record, creating an empty one in memory when
// none is stored yet.
func (r *ReferralRepo) Get(ctx context.Context, referrerID string) (*domain.ReferralRecord, error) {
	raw, err := r.store.Get(ctx, store.ReferralPath(referrerID))
	if errors.Is(err, store.ErrNotFound) {
		return &domain.ReferralRecord{
			ReferrerID:    referrerID,
			ReferredUsers: make(map[string]domain.ReferredUser),
		}, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read referral record", Err: err}
	}
	var rec domain.ReferralRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode referral record %s: %w", referrerID, err)
	}
	if rec.ReferredUsers == nil {
		rec.ReferredUsers = make(map[string]domain.ReferredUser)
	}
	return &rec, nil
}

func (r *ReferralRepo) Entry(rec *domain.ReferralRecord) (string, []byte, error) {
	value, err := json.Marshal(rec)
	if err != nil {
		return "", nil, fmt.Errorf("encode referral record %s: %w", rec.ReferrerID, err)
	}
	return store.ReferralPath(rec.ReferrerID), value, nil
}
