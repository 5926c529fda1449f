package service

import (
	"context"
	"sync"
	"time"

	"github.com/risknai/adrewards/internal/config"
	"github.com/risknai/adrewards/internal/domain"
)

// Outcome is the normalized completion result of one watch attempt,
// regardless of how the underlying provider signals it.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeFailed
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed-out"
	}
	return "unknown"
}

// Provider is the uniform contract over the heterogeneous third-party
// signalling styles. Attempt blocks until the attempt resolves and returns
// the normalized outcome; on anything but OutcomeCompleted the error carries
// the cause. The attempting account's session state is passed in so
// callback-style adapters can bind their completion latch to the attempt
// rather than to the shared provider. Crediting happens one layer up, never
// here.
type Provider interface {
	Attempt(ctx context.Context, sess *SessionState, minimumWatch time.Duration) (Outcome, error)
}

// AwaitedProvider wraps an entry point whose completion is awaited. Elapsed
// wall-clock time below the minimum watch time fails the attempt even when
// the call itself returned cleanly (anti-skip check).
type AwaitedProvider struct {
	Show func(ctx context.Context) error
}

func (p *AwaitedProvider) Attempt(ctx context.Context, _ *SessionState, minimumWatch time.Duration) (Outcome, error) {
	if p.Show == nil {
		// Availability can change between the gate check and invocation.
		return OutcomeFailed, domain.ErrProviderNotReady
	}
	start := time.Now()
	if err := p.Show(ctx); err != nil {
		return OutcomeFailed, err
	}
	if time.Since(start) < minimumWatch {
		return OutcomeFailed, domain.ErrIncompleteWatch
	}
	return OutcomeCompleted, nil
}

// CallbackProvider adapts the success/failure callback pair style. Exactly
// one of success or failure is expected per attempt; a watchdog armed at
// invocation forces a timed-out outcome when neither fires. The one-shot
// completion latch lives in the attempting account's session state, not in
// this shared adapter: two accounts watching the same provider concurrently
// resolve independently, and a late or foreign signal can never double-credit
// or starve another account's attempt.
type CallbackProvider struct {
	// watchdog override for tests; zero means derive from the minimum watch.
	watchdog time.Duration
}

func NewCallbackProvider() *CallbackProvider {
	return &CallbackProvider{}
}

func (p *CallbackProvider) Attempt(ctx context.Context, sess *SessionState, minimumWatch time.Duration) (Outcome, error) {
	ch := sess.armLatch()
	defer sess.clearLatch(ch)

	timeout := p.watchdog
	if timeout == 0 {
		timeout = WatchdogTimeout(minimumWatch)
	}
	watchdog := time.NewTimer(timeout)
	defer watchdog.Stop()

	select {
	case out := <-ch:
		if out == OutcomeCompleted {
			return OutcomeCompleted, nil
		}
		return OutcomeFailed, domain.ErrIncompleteWatch
	case <-watchdog.C:
		return OutcomeTimedOut, domain.ErrProviderTimedOut
	case <-ctx.Done():
		return OutcomeFailed, ctx.Err()
	}
}

// WatchdogTimeout scales the callback watchdog with the minimum watch time so
// long ads do not trip false timeouts, with a fixed floor.
func WatchdogTimeout(minimumWatch time.Duration) time.Duration {
	d := minimumWatch + config.WatchdogSlack
	if d < config.WatchdogFloor {
		d = config.WatchdogFloor
	}
	return d
}

// Registry maps provider identities to their completion adapters.
type Registry struct {
	mu        sync.RWMutex
	providers map[domain.ProviderID]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[domain.ProviderID]Provider)}
}

func (r *Registry) Register(id domain.ProviderID, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[id] = p
}

// Lookup returns nil when no adapter is registered for id.
func (r *Registry) Lookup(id domain.ProviderID) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[id]
}

// IDs returns the registered provider identities.
func (r *Registry) IDs() []domain.ProviderID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ProviderID, 0, len(r.providers))
	for id := range r.providers {
		out = append(out, id)
	}
	return out
}
