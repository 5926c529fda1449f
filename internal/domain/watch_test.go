package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func refTime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, ReferenceTZ)
}

func TestSameDay_ReferenceTimezone(t *testing.T) {
	// 23:30 and 00:30 UTC straddle midnight in UTC+6 differently than in UTC:
	// 23:30 UTC is 05:30 next day locally, 00:30 UTC is 06:30 the same local day.
	a := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	b := time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC)
	assert.True(t, SameDay(a, b))

	c := time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC) // 23:30 local, previous day
	assert.False(t, SameDay(a, c))
}

func TestWatchRecord_WatchedOn(t *testing.T) {
	now := refTime(2026, 3, 11, 12, 0)

	var nilRec *WatchRecord
	assert.Equal(t, 0, nilRec.WatchedOn(now))

	sameDay := &WatchRecord{WatchedToday: 3, LastReset: refTime(2026, 3, 11, 6, 5)}
	assert.Equal(t, 3, sameDay.WatchedOn(now))

	// A record the scheduler has not reached yet reads as zero past the day
	// boundary.
	stale := &WatchRecord{WatchedToday: 5, LastReset: refTime(2026, 3, 10, 6, 5)}
	assert.Equal(t, 0, stale.WatchedOn(now))

	neverReset := &WatchRecord{WatchedToday: 2}
	assert.Equal(t, 2, neverReset.WatchedOn(now))
}

func TestWatchRecord_CooldownRemaining(t *testing.T) {
	now := refTime(2026, 3, 11, 12, 0)
	cooldown := 60 * time.Second

	var nilRec *WatchRecord
	assert.Equal(t, 0, nilRec.CooldownRemaining(cooldown, now))

	cold := &WatchRecord{}
	assert.Equal(t, 0, cold.CooldownRemaining(cooldown, now))

	expired := &WatchRecord{LastWatched: now.Add(-2 * time.Minute)}
	assert.Equal(t, 0, expired.CooldownRemaining(cooldown, now))

	halfway := &WatchRecord{LastWatched: now.Add(-30 * time.Second)}
	assert.Equal(t, 30, halfway.CooldownRemaining(cooldown, now))

	// Fractional seconds round up so the UI never shows 0 while still locked.
	fractional := &WatchRecord{LastWatched: now.Add(-29500 * time.Millisecond)}
	assert.Equal(t, 31, fractional.CooldownRemaining(cooldown, now))
}

func TestAccount_AdsWatchedOn(t *testing.T) {
	now := refTime(2026, 3, 11, 12, 0)

	fresh := &Account{AdsWatchedToday: 4}
	assert.Equal(t, 0, fresh.AdsWatchedOn(now))

	today := refTime(2026, 3, 11, 9, 0)
	sameDay := &Account{AdsWatchedToday: 4, LastAdWatch: &today}
	assert.Equal(t, 4, sameDay.AdsWatchedOn(now))

	yesterday := refTime(2026, 3, 10, 9, 0)
	stale := &Account{AdsWatchedToday: 4, LastAdWatch: &yesterday}
	assert.Equal(t, 0, stale.AdsWatchedOn(now))
}
