package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProviderID identifies one third-party ad network.
type ProviderID string

const (
	ProviderAdexora  ProviderID = "adexora"
	ProviderGigapub  ProviderID = "gigapub"
	ProviderOnclicka ProviderID = "onclicka"
	ProviderAuruads  ProviderID = "auruads"
	ProviderLibtl    ProviderID = "libtl"
	ProviderAdextra  ProviderID = "adextra"
)

// ProviderConfig describes one ad provider: the reward paid per completed
// watch and the limits the admission gate enforces. Stored overrides at
// providerConfig/{id} are merged over compiled defaults; absence of a field
// means "use the default".
type ProviderConfig struct {
	ID     ProviderID      `json:"id"`
	Title  string          `json:"title"`
	Reward decimal.Decimal `json:"reward"`

	// DailyLimit caps completed watches per reference-timezone day.
	// 0 means unlimited.
	DailyLimit int `json:"dailyLimit"`

	// HourlyLimit is accepted from the configuration channel for parity with
	// the provider dashboard but is not enforced by the admission gate.
	HourlyLimit         int    `json:"hourlyLimit"`
	CooldownSeconds     int    `json:"cooldownSeconds"`
	MinimumWatchSeconds int    `json:"minimumWatchSeconds"`
	Enabled             bool   `json:"enabled"`
	ActivationID        string `json:"activationId"`
}

// Cooldown returns the per-provider cooldown as a duration.
func (c ProviderConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// MinimumWatch returns the anti-skip minimum watch time as a duration.
func (c ProviderConfig) MinimumWatch() time.Duration {
	return time.Duration(c.MinimumWatchSeconds) * time.Second
}

// ProviderOverride carries the fields an operator may override per provider.
// Pointer fields distinguish "not set" from zero values.
type ProviderOverride struct {
	Reward              *decimal.Decimal `json:"reward,omitempty"`
	DailyLimit          *int             `json:"dailyLimit,omitempty"`
	HourlyLimit         *int             `json:"hourlyLimit,omitempty"`
	CooldownSeconds     *int             `json:"cooldownSeconds,omitempty"`
	MinimumWatchSeconds *int             `json:"minimumWatchSeconds,omitempty"`
	Enabled             *bool            `json:"enabled,omitempty"`
	ActivationID        *string          `json:"activationId,omitempty"`
}

// Apply merges the override over cfg and returns the result.
func (o ProviderOverride) Apply(cfg ProviderConfig) ProviderConfig {
	if o.Reward != nil {
		cfg.Reward = *o.Reward
	}
	if o.DailyLimit != nil {
		cfg.DailyLimit = *o.DailyLimit
	}
	if o.HourlyLimit != nil {
		cfg.HourlyLimit = *o.HourlyLimit
	}
	if o.CooldownSeconds != nil {
		cfg.CooldownSeconds = *o.CooldownSeconds
	}
	if o.MinimumWatchSeconds != nil {
		cfg.MinimumWatchSeconds = *o.MinimumWatchSeconds
	}
	if o.Enabled != nil {
		cfg.Enabled = *o.Enabled
	}
	if o.ActivationID != nil {
		cfg.ActivationID = *o.ActivationID
	}
	return cfg
}
