package domain

import "time"

// WatchRecord is the per-(account, provider) counter state governing the
// daily limit and cooldown. Created on the first watch for the pair, mutated
// on every completed watch and by the scheduler reset, never deleted.
type WatchRecord struct {
	AccountID    string     `json:"accountId"`
	Provider     ProviderID `json:"provider"`
	WatchedToday int        `json:"watchedToday"`
	LastWatched  time.Time  `json:"lastWatched"`
	LastReset    time.Time  `json:"lastReset"`
}

// WatchedOn returns the daily counter as observed at now. A record whose
// LastReset lies on an earlier reference-timezone day reads as zero even if
// the authoritative scheduler reset has not reached it yet.
func (r *WatchRecord) WatchedOn(now time.Time) int {
	if r == nil {
		return 0
	}
	if !r.LastReset.IsZero() && !SameDay(r.LastReset, now) {
		return 0
	}
	return r.WatchedToday
}

// CooldownRemaining returns the whole seconds left (rounded up) before the
// provider cooldown expires, or 0 when the record is cold.
func (r *WatchRecord) CooldownRemaining(cooldown time.Duration, now time.Time) int {
	if r == nil || r.LastWatched.IsZero() {
		return 0
	}
	left := cooldown - now.Sub(r.LastWatched)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}
