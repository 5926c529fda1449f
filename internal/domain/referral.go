package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferredUser is one referred account as seen from the referrer's side.
type ReferredUser struct {
	JoinedAt         time.Time       `json:"joinedAt"`
	TotalEarned      decimal.Decimal `json:"totalEarned"`
	CommissionEarned decimal.Decimal `json:"commissionEarned"`
}

// ReferralRecord aggregates everything a referrer has earned through the
// accounts they brought in. ReferralEarnings and ReferredCount are derived
// and recomputed from the full map on every mutation.
type ReferralRecord struct {
	ReferrerID       string                  `json:"referrerId"`
	ReferredUsers    map[string]ReferredUser `json:"referredUsers"`
	ReferralEarnings decimal.Decimal         `json:"referralEarnings"`
	ReferredCount    int                     `json:"referredCount"`
}

// Recalculate recomputes the derived aggregates from the referred-users map.
func (r *ReferralRecord) Recalculate() {
	total := decimal.Zero
	for _, u := range r.ReferredUsers {
		total = total.Add(u.CommissionEarned)
	}
	r.ReferralEarnings = total
	r.ReferredCount = len(r.ReferredUsers)
}
