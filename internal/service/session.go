package service

import (
	"sync"

	"github.com/risknai/adrewards/internal/domain"
)

// SessionState is the explicit per-account session state: the single-flight
// lock with the in-flight provider's identity, per-provider adapter
// readiness, and the completion latch of the account's in-flight
// callback-style attempt. It is local to this process; it prevents one
// session from issuing two simultaneous watch attempts, nothing more.
type SessionState struct {
	mu       sync.Mutex
	locked   bool
	inFlight domain.ProviderID
	ready    map[domain.ProviderID]bool
	latch    chan Outcome
}

func NewSessionState(ready ...domain.ProviderID) *SessionState {
	s := &SessionState{ready: make(map[domain.ProviderID]bool, len(ready))}
	for _, id := range ready {
		s.ready[id] = true
	}
	return s
}

// TryAcquire takes the single-flight lock for provider. Returns false when
// any watch is already in flight, including one for the same provider.
func (s *SessionState) TryAcquire(provider domain.ProviderID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return false
	}
	s.locked = true
	s.inFlight = provider
	return true
}

// Release frees the lock. Safe to call when not held.
func (s *SessionState) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = false
	s.inFlight = ""
}

// InFlight reports the provider currently holding the lock, if any. The UI
// uses the identity to distinguish "this ad is loading" from "a different ad
// is loading".
func (s *SessionState) InFlight() (domain.ProviderID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight, s.locked
}

// Ready reports whether the provider's completion adapter is usable.
func (s *SessionState) Ready(provider domain.ProviderID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready[provider]
}

// SetReady flips adapter readiness for one provider.
func (s *SessionState) SetReady(provider domain.ProviderID, ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready[provider] = ready
}

// armLatch installs a fresh one-shot completion latch for the attempt being
// invoked and returns it.
func (s *SessionState) armLatch() chan Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Outcome, 1)
	s.latch = ch
	return ch
}

// signal resolves the armed latch. The first of {success, failure, watchdog}
// wins; once the latch is resolved or cleared, later signals report false
// and are no-ops.
func (s *SessionState) signal(out Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latch == nil {
		return false
	}
	s.latch <- out
	s.latch = nil
	return true
}

// clearLatch removes the latch only while it still belongs to the attempt
// that armed ch, so a finished attempt cannot tear down a newer one.
func (s *SessionState) clearLatch(ch chan Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latch == ch {
		s.latch = nil
	}
}

// Sessions hands out one SessionState per account.
type Sessions struct {
	mu       sync.Mutex
	ready    []domain.ProviderID
	sessions map[string]*SessionState
}

func NewSessions(ready []domain.ProviderID) *Sessions {
	return &Sessions{
		ready:    ready,
		sessions: make(map[string]*SessionState),
	}
}

func (s *Sessions) For(accountID string) *SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[accountID]
	if !ok {
		sess = NewSessionState(s.ready...)
		s.sessions[accountID] = sess
	}
	return sess
}
