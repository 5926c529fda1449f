package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/store"
)

// ProviderRepo serves provider configurations: compiled defaults with stored
// overrides merged on top. Overrides are read-mostly, so they are cached in
// memory and kept fresh through a store subscription rather than re-read on
// every admission check.
type ProviderRepo struct {
	store    store.Store
	defaults []domain.ProviderConfig

	mu        sync.RWMutex
	overrides map[domain.ProviderID]domain.ProviderOverride

	unsubscribe func()
}

func NewProviderRepo(st store.Store, defaults []domain.ProviderConfig) *ProviderRepo {
	r := &ProviderRepo{
		store:     st,
		defaults:  defaults,
		overrides: make(map[domain.ProviderID]domain.ProviderOverride),
	}
	r.unsubscribe = st.Subscribe(store.ProviderConfigPrefix, r.onChange)
	return r
}

// Refresh loads all stored overrides into the cache. Called once at startup;
// later changes arrive through the subscription.
func (r *ProviderRepo) Refresh(ctx context.Context) error {
	raws, err := r.store.List(ctx, store.ProviderConfigPrefix)
	if err != nil {
		return &domain.PersistenceError{Op: "list provider overrides", Err: err}
	}
	overrides := make(map[domain.ProviderID]domain.ProviderOverride, len(raws))
	for path, raw := range raws {
		id := domain.ProviderID(strings.TrimPrefix(path, store.ProviderConfigPrefix))
		var o domain.ProviderOverride
		if err := json.Unmarshal(raw, &o); err != nil {
			return fmt.Errorf("decode provider override %s: %w", id, err)
		}
		overrides[id] = o
	}
	r.mu.Lock()
	r.overrides = overrides
	r.mu.Unlock()
	return nil
}

// Config returns the effective configuration for one provider.
func (r *ProviderRepo) Config(id domain.ProviderID) (domain.ProviderConfig, bool) {
	for _, def := range r.defaults {
		if def.ID != id {
			continue
		}
		r.mu.RLock()
		o, ok := r.overrides[id]
		r.mu.RUnlock()
		if ok {
			return o.Apply(def), true
		}
		return def, true
	}
	return domain.ProviderConfig{}, false
}

// All returns the effective configuration of every provider in declaration order.
func (r *ProviderRepo) All() []domain.ProviderConfig {
	out := make([]domain.ProviderConfig, 0, len(r.defaults))
	for _, def := range r.defaults {
		cfg, _ := r.Config(def.ID)
		out = append(out, cfg)
	}
	return out
}

// Override returns the stored override for one provider, if any.
func (r *ProviderRepo) Override(id domain.ProviderID) (domain.ProviderOverride, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.overrides[id]
	return o, ok
}

// SetOverride persists an operator override for one provider.
func (r *ProviderRepo) SetOverride(ctx context.Context, id domain.ProviderID, o domain.ProviderOverride) error {
	value, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encode provider override %s: %w", id, err)
	}
	if err := r.store.Set(ctx, store.ProviderConfigPath(string(id)), value); err != nil {
		return &domain.PersistenceError{Op: "write provider override", Err: err}
	}
	return nil
}

func (r *ProviderRepo) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

func (r *ProviderRepo) onChange(path string, value []byte) {
	id := domain.ProviderID(strings.TrimPrefix(path, store.ProviderConfigPrefix))
	var o domain.ProviderOverride
	if err := json.Unmarshal(value, &o); err != nil {
		slog.Warn("ignoring malformed provider override", "provider", id, "error", err)
		return
	}
	r.mu.Lock()
	r.overrides[id] = o
	r.mu.Unlock()
	slog.Info("provider config updated", "provider", id)
}
