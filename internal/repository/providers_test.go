package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/store"
)

func testDefaults() []domain.ProviderConfig {
	return []domain.ProviderConfig{
		{
			ID: domain.ProviderAdexora, Title: "Ads Task 1",
			Reward: decimal.NewFromFloat(0.5), DailyLimit: 5,
			CooldownSeconds: 60, MinimumWatchSeconds: 5, Enabled: true,
		},
		{
			ID: domain.ProviderGigapub, Title: "Ads Task 2",
			Reward: decimal.NewFromFloat(0.5), DailyLimit: 5,
			CooldownSeconds: 60, MinimumWatchSeconds: 5, Enabled: true,
		},
	}
}

func TestProviderRepo_DefaultsWithoutOverrides(t *testing.T) {
	st := store.NewMemory()
	repo := NewProviderRepo(st, testDefaults())
	defer repo.Close()

	cfg, ok := repo.Config(domain.ProviderAdexora)
	require.True(t, ok)
	assert.Equal(t, "Ads Task 1", cfg.Title)
	assert.Equal(t, 5, cfg.DailyLimit)
	assert.True(t, cfg.Enabled)

	_, ok = repo.Config("nonesuch")
	assert.False(t, ok)
}

func TestProviderRepo_All_PreservesOrder(t *testing.T) {
	st := store.NewMemory()
	repo := NewProviderRepo(st, testDefaults())
	defer repo.Close()

	all := repo.All()
	require.Len(t, all, 2)
	assert.Equal(t, domain.ProviderAdexora, all[0].ID)
	assert.Equal(t, domain.ProviderGigapub, all[1].ID)
}

func TestProviderRepo_SetOverride_UpdatesCacheThroughSubscription(t *testing.T) {
	st := store.NewMemory()
	repo := NewProviderRepo(st, testDefaults())
	defer repo.Close()

	disabled := false
	daily := 10
	err := repo.SetOverride(context.Background(), domain.ProviderAdexora, domain.ProviderOverride{
		Enabled:    &disabled,
		DailyLimit: &daily,
	})
	require.NoError(t, err)

	// The memory store dispatches change notifications synchronously, so the
	// cache is already fresh without an explicit Refresh.
	cfg, ok := repo.Config(domain.ProviderAdexora)
	require.True(t, ok)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 10, cfg.DailyLimit)

	// Untouched fields keep their defaults, and other providers are unaffected.
	assert.Equal(t, "0.5", cfg.Reward.String())
	other, _ := repo.Config(domain.ProviderGigapub)
	assert.True(t, other.Enabled)
}

func TestProviderRepo_Refresh_LoadsStoredOverrides(t *testing.T) {
	st := store.NewMemory()

	// Override written before this repo existed, as another process would.
	require.NoError(t, st.Set(context.Background(),
		store.ProviderConfigPath(string(domain.ProviderGigapub)),
		[]byte(`{"dailyLimit":0}`)))

	repo := NewProviderRepo(st, testDefaults())
	defer repo.Close()
	require.NoError(t, repo.Refresh(context.Background()))

	cfg, ok := repo.Config(domain.ProviderGigapub)
	require.True(t, ok)
	assert.Equal(t, 0, cfg.DailyLimit)
}

func TestProviderOverride_Apply(t *testing.T) {
	base := testDefaults()[0]

	reward := decimal.NewFromFloat(0.75)
	enabled := false
	merged := domain.ProviderOverride{Reward: &reward, Enabled: &enabled}.Apply(base)

	assert.Equal(t, "0.75", merged.Reward.String())
	assert.False(t, merged.Enabled)
	assert.Equal(t, base.DailyLimit, merged.DailyLimit)
	assert.Equal(t, base.CooldownSeconds, merged.CooldownSeconds)
}
