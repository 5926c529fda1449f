package service

import (
	"time"

	"github.com/risknai/adrewards/internal/domain"
)

// Evaluate is the admission decision for one watch attempt. Pure and free of
// side effects, so it can back both the actual attempt and the UI's button
// state. Checks run in a fixed order and the first match wins:
// disabled, daily limit, adapter readiness, cooldown, single-flight.
// Returns nil when the attempt is admissible.
func Evaluate(cfg domain.ProviderConfig, rec *domain.WatchRecord, sess *SessionState, now time.Time) error {
	if !cfg.Enabled {
		return domain.ErrProviderDisabled
	}

	// DailyLimit 0 is the unlimited sentinel. The counter reads through the
	// lazy day-boundary reset so a stale record does not deny past midnight.
	if cfg.DailyLimit > 0 && rec.WatchedOn(now) >= cfg.DailyLimit {
		return domain.ErrDailyLimitReached
	}

	if !sess.Ready(cfg.ID) {
		return domain.ErrProviderNotReady
	}

	if remaining := rec.CooldownRemaining(cfg.Cooldown(), now); remaining > 0 {
		return &domain.CooldownError{Remaining: remaining}
	}

	// Only one watch may be in flight across all providers. A lock held for
	// this same provider is not a gate denial; the engine's acquire step
	// rejects the duplicate attempt.
	if inFlight, locked := sess.InFlight(); locked && inFlight != cfg.ID {
		return domain.ErrAnotherWatchInProgress
	}

	return nil
}
