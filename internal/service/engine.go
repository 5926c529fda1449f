package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/repository"
)

// WatchResult reports a successfully credited watch.
type WatchResult struct {
	Provider       domain.ProviderID
	Reward         decimal.Decimal
	Watched        int
	DailyLimit     int
	CommissionPaid bool
}

// Progress is the per-provider view exposed to the UI layer: daily progress,
// cooldown remaining and the admission decision it would get right now.
type Progress struct {
	Config            domain.ProviderConfig
	Watched           int
	CooldownRemaining int
	Deny              error
}

// Engine orchestrates one watch attempt end to end: admission, single-flight
// lock, provider invocation through the completion adapter, the reward
// credit, and commission propagation. Within one session those steps are
// strictly sequential; across engine instances no ordering is guaranteed.
type Engine struct {
	providers   *repository.ProviderRepo
	watches     *repository.WatchRepo
	ledger      *RewardLedger
	commissions *CommissionPropagator
	registry    *Registry
	sessions    *Sessions
	now         func() time.Time
}

func NewEngine(providers *repository.ProviderRepo, watches *repository.WatchRepo, ledger *RewardLedger, commissions *CommissionPropagator, registry *Registry) *Engine {
	return &Engine{
		providers:   providers,
		watches:     watches,
		ledger:      ledger,
		commissions: commissions,
		registry:    registry,
		sessions:    NewSessions(registry.IDs()),
		now:         time.Now,
	}
}

// Session returns the account's session state.
func (e *Engine) Session(accountID string) *SessionState {
	return e.sessions.For(accountID)
}

// Signal resolves the account's in-flight callback-style attempt for
// provider. A signal that does not match the account's current in-flight
// provider is dropped, so one user's callback can never resolve another
// account's watch. Reports whether a latch was resolved.
func (e *Engine) Signal(accountID string, providerID domain.ProviderID, out Outcome) bool {
	sess := e.sessions.For(accountID)
	if inFlight, locked := sess.InFlight(); !locked || inFlight != providerID {
		return false
	}
	return sess.signal(out)
}

// Watch runs one complete watch attempt for the account. Admission denials
// and mid-flight failures come back as the taxonomy errors; the caller
// renders them and must not retry automatically. The call blocks until the
// provider resolves (or its watchdog fires), so run it from the handler's
// own goroutine.
func (e *Engine) Watch(ctx context.Context, accountID string, providerID domain.ProviderID) (*WatchResult, error) {
	now := e.now()

	cfg, ok := e.providers.Config(providerID)
	if !ok {
		return nil, domain.ErrProviderNotReady
	}
	rec, err := e.watches.Get(ctx, accountID, providerID)
	if err != nil {
		return nil, err
	}
	sess := e.sessions.For(accountID)

	if err := Evaluate(cfg, rec, sess, now); err != nil {
		return nil, err
	}

	if !sess.TryAcquire(providerID) {
		return nil, domain.ErrAnotherWatchInProgress
	}
	// Released on every exit path. For callback-style providers Attempt does
	// not return until the callback or its watchdog fires, so the release is
	// deferred past invocation exactly as the signalling requires.
	defer sess.Release()

	prov := e.registry.Lookup(providerID)
	if prov == nil {
		// Registration can change between the gate check and invocation.
		return nil, domain.ErrProviderNotReady
	}

	outcome, attemptErr := prov.Attempt(ctx, sess, cfg.MinimumWatch())
	if outcome != OutcomeCompleted {
		if attemptErr == nil {
			attemptErr = domain.ErrIncompleteWatch
		}
		slog.Info("watch attempt failed",
			"account", accountID,
			"provider", providerID,
			"outcome", outcome.String(),
			"error", attemptErr,
		)
		return nil, attemptErr
	}

	amount, err := e.ledger.Credit(ctx, accountID, providerID, cfg.Reward, e.now())
	if err != nil {
		return nil, err
	}

	// Dependent side effect: a failed commission never reverses the reward.
	commissionPaid, err := e.commissions.Propagate(ctx, accountID, amount, e.now())
	if err != nil {
		slog.Warn("commission propagation failed",
			"account", accountID, "error", err)
	}

	watched := rec.WatchedOn(now) + 1
	return &WatchResult{
		Provider:       providerID,
		Reward:         amount,
		Watched:        watched,
		DailyLimit:     cfg.DailyLimit,
		CommissionPaid: commissionPaid,
	}, nil
}

// ProgressFor builds the UI view for every provider: current daily progress,
// cooldown countdown and the denial the gate would return right now.
func (e *Engine) ProgressFor(ctx context.Context, accountID string) ([]Progress, error) {
	now := e.now()
	sess := e.sessions.For(accountID)

	configs := e.providers.All()
	out := make([]Progress, 0, len(configs))
	for _, cfg := range configs {
		rec, err := e.watches.Get(ctx, accountID, cfg.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Progress{
			Config:            cfg,
			Watched:           rec.WatchedOn(now),
			CooldownRemaining: rec.CooldownRemaining(cfg.Cooldown(), now),
			Deny:              Evaluate(cfg, rec, sess, now),
		})
	}
	return out, nil
}
