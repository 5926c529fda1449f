package config

import (
	"github.com/shopspring/decimal"

	"github.com/risknai/adrewards/internal/domain"
)

// DefaultProviders returns the compiled provider table. Stored overrides at
// providerConfig/{id} are merged over these by the provider repository.
func DefaultProviders() []domain.ProviderConfig {
	reward := decimal.NewFromFloat(0.5)
	base := domain.ProviderConfig{
		Reward:              reward,
		DailyLimit:          5,
		HourlyLimit:         2,
		CooldownSeconds:     60,
		MinimumWatchSeconds: 5,
		Enabled:             true,
	}

	providers := []struct {
		id           domain.ProviderID
		title        string
		activationID string
	}{
		{domain.ProviderAdexora, "Ads Task 1", "387"},
		{domain.ProviderGigapub, "Ads Task 2", "1872"},
		{domain.ProviderOnclicka, "Ads Task 3", "6090192"},
		{domain.ProviderAuruads, "Ads Task 4", "7479"},
		{domain.ProviderLibtl, "Ads Task 5", "9878570"},
		{domain.ProviderAdextra, "Ads Task 6", "c573986974ab6f6b9e52bb47e7a296e25a2db758"},
	}

	out := make([]domain.ProviderConfig, 0, len(providers))
	for _, p := range providers {
		cfg := base
		cfg.ID = p.id
		cfg.Title = p.title
		cfg.ActivationID = p.activationID
		out = append(out, cfg)
	}
	return out
}
