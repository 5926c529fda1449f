package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the earning account of one Telegram user. Balance, TotalEarned and
// the daily watch counter are mutated only by the reward ledger and the
// commission propagator.
type Account struct {
	ID              string          `json:"id"`
	TelegramID      int64           `json:"telegramId"`
	FirstName       string          `json:"firstName"`
	Username        string          `json:"username"`
	Balance         decimal.Decimal `json:"balance"`
	TotalEarned     decimal.Decimal `json:"totalEarned"`
	TotalWithdrawn  decimal.Decimal `json:"totalWithdrawn"`
	AdsWatchedToday int             `json:"adsWatchedToday"`
	LastAdWatch     *time.Time      `json:"lastAdWatch,omitempty"`
	ReferredBy      string          `json:"referredBy,omitempty"`
	JoinedAt        time.Time       `json:"joinedAt"`
}

// AdsWatchedOn returns the daily watch counter as observed at now: the stored
// value when the last watch happened on the same reference-timezone day,
// otherwise zero. This is the lazy, client-observed reset; the scheduler's
// authoritative reset clears the stored value itself.
func (a *Account) AdsWatchedOn(now time.Time) int {
	if a.LastAdWatch == nil || !SameDay(*a.LastAdWatch, now) {
		return 0
	}
	return a.AdsWatchedToday
}
