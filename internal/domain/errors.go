package domain

import (
	"errors"
	"fmt"
)

var (
	// Admission-time denials. Reported synchronously, never auto-retried.
	ErrProviderDisabled       = errors.New("provider is disabled")
	ErrDailyLimitReached      = errors.New("daily limit reached")
	ErrProviderNotReady       = errors.New("provider not ready")
	ErrAnotherWatchInProgress = errors.New("another watch in progress")

	// Mid-flight failures. The single-flight lock is released and the user
	// must re-initiate the watch.
	ErrIncompleteWatch  = errors.New("watch ended before minimum time")
	ErrProviderTimedOut = errors.New("provider timed out")

	// ErrReferrerLookupFailed never blocks or reverses the primary credit.
	ErrReferrerLookupFailed = errors.New("referrer lookup failed")

	ErrAccountNotFound = errors.New("account not found")
)

// CooldownError denies admission while the per-provider cooldown is active.
// Remaining is whole seconds, rounded up.
type CooldownError struct {
	Remaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active: %ds remaining", e.Remaining)
}

// PersistenceError wraps a failed read or write against the shared store.
// Crediting makes no transactional guarantee across its multi-step sequence;
// an interrupted sequence is surfaced, not rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
