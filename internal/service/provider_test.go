package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risknai/adrewards/internal/domain"
)

func TestWatchdogTimeout(t *testing.T) {
	assert.Equal(t, 15*time.Second, WatchdogTimeout(0))
	assert.Equal(t, 15*time.Second, WatchdogTimeout(5*time.Second))
	assert.Equal(t, 15*time.Second, WatchdogTimeout(10*time.Second))
	assert.Equal(t, 35*time.Second, WatchdogTimeout(30*time.Second))
}

func TestAwaitedProvider_Completed(t *testing.T) {
	p := &AwaitedProvider{Show: func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		return nil
	}}

	out, err := p.Attempt(context.Background(), NewSessionState(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, out)
}

func TestAwaitedProvider_TooFastFailsAntiSkip(t *testing.T) {
	p := &AwaitedProvider{Show: func(ctx context.Context) error { return nil }}

	out, err := p.Attempt(context.Background(), NewSessionState(), 100*time.Millisecond)
	assert.Equal(t, OutcomeFailed, out)
	assert.ErrorIs(t, err, domain.ErrIncompleteWatch)
}

func TestAwaitedProvider_ShowError(t *testing.T) {
	boom := errors.New("sdk unavailable")
	p := &AwaitedProvider{Show: func(ctx context.Context) error { return boom }}

	out, err := p.Attempt(context.Background(), NewSessionState(), 0)
	assert.Equal(t, OutcomeFailed, out)
	assert.ErrorIs(t, err, boom)
}

func TestAwaitedProvider_NilShow(t *testing.T) {
	p := &AwaitedProvider{}

	out, err := p.Attempt(context.Background(), NewSessionState(), 0)
	assert.Equal(t, OutcomeFailed, out)
	assert.ErrorIs(t, err, domain.ErrProviderNotReady)
}

// awaitLatch blocks until sess has an armed completion latch.
func awaitLatch(t *testing.T, sess *SessionState) {
	t.Helper()
	require.Eventually(t, func() bool {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		return sess.latch != nil
	}, time.Second, time.Millisecond)
}

func TestCallbackProvider_Complete(t *testing.T) {
	p := NewCallbackProvider()
	sess := NewSessionState()

	done := make(chan struct{})
	var out Outcome
	var err error
	go func() {
		out, err = p.Attempt(context.Background(), sess, 0)
		close(done)
	}()

	awaitLatch(t, sess)
	assert.True(t, sess.signal(OutcomeCompleted))
	<-done
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, out)
}

func TestCallbackProvider_Fail(t *testing.T) {
	p := NewCallbackProvider()
	sess := NewSessionState()

	done := make(chan struct{})
	var out Outcome
	var err error
	go func() {
		out, err = p.Attempt(context.Background(), sess, 0)
		close(done)
	}()

	awaitLatch(t, sess)
	assert.True(t, sess.signal(OutcomeFailed))
	<-done
	assert.Equal(t, OutcomeFailed, out)
	assert.ErrorIs(t, err, domain.ErrIncompleteWatch)
}

func TestCallbackProvider_WatchdogTimeout(t *testing.T) {
	p := NewCallbackProvider()
	p.watchdog = 30 * time.Millisecond

	out, err := p.Attempt(context.Background(), NewSessionState(), 0)
	assert.Equal(t, OutcomeTimedOut, out)
	assert.ErrorIs(t, err, domain.ErrProviderTimedOut)
}

func TestCallbackProvider_LateSignalIsNoOp(t *testing.T) {
	p := NewCallbackProvider()
	p.watchdog = 30 * time.Millisecond
	sess := NewSessionState()

	out, err := p.Attempt(context.Background(), sess, 0)
	require.Equal(t, OutcomeTimedOut, out)
	require.ErrorIs(t, err, domain.ErrProviderTimedOut)

	// A success arriving after the watchdog resolved must not leak into a
	// later attempt.
	assert.False(t, sess.signal(OutcomeCompleted))

	out, err = p.Attempt(context.Background(), sess, 0)
	assert.Equal(t, OutcomeTimedOut, out)
	assert.ErrorIs(t, err, domain.ErrProviderTimedOut)
}

func TestCallbackProvider_FirstSignalWins(t *testing.T) {
	p := NewCallbackProvider()
	sess := NewSessionState()

	done := make(chan struct{})
	var out Outcome
	go func() {
		out, _ = p.Attempt(context.Background(), sess, 0)
		close(done)
	}()

	awaitLatch(t, sess)
	assert.True(t, sess.signal(OutcomeCompleted))
	assert.False(t, sess.signal(OutcomeFailed)) // already resolved, ignored
	<-done
	assert.Equal(t, OutcomeCompleted, out)
}

func TestCallbackProvider_SignalWithoutAttempt(t *testing.T) {
	sess := NewSessionState()

	// No attempt in flight; the latch is unarmed and signals are dropped.
	assert.False(t, sess.signal(OutcomeCompleted))
	assert.False(t, sess.signal(OutcomeFailed))
}

// Two accounts watching through the same shared adapter must resolve
// independently: one account's success may not complete (or starve) the
// other's attempt.
func TestCallbackProvider_ConcurrentAccountsResolveIndependently(t *testing.T) {
	p := NewCallbackProvider()
	p.watchdog = 80 * time.Millisecond
	sessA := NewSessionState()
	sessB := NewSessionState()

	doneA := make(chan struct{})
	var outA Outcome
	var errA error
	go func() {
		outA, errA = p.Attempt(context.Background(), sessA, 0)
		close(doneA)
	}()
	awaitLatch(t, sessA)

	doneB := make(chan struct{})
	var outB Outcome
	var errB error
	go func() {
		outB, errB = p.Attempt(context.Background(), sessB, 0)
		close(doneB)
	}()
	awaitLatch(t, sessB)

	// B's success resolves only B.
	require.True(t, sessB.signal(OutcomeCompleted))
	<-doneB
	require.NoError(t, errB)
	assert.Equal(t, OutcomeCompleted, outB)

	// A is still pending and runs into its own watchdog.
	<-doneA
	assert.Equal(t, OutcomeTimedOut, outA)
	assert.ErrorIs(t, errA, domain.ErrProviderTimedOut)

	// A's late signal finds no armed latch.
	assert.False(t, sessA.signal(OutcomeCompleted))
}

func TestCallbackProvider_ContextCancelled(t *testing.T) {
	p := NewCallbackProvider()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := p.Attempt(ctx, NewSessionState(), 0)
	assert.Equal(t, OutcomeFailed, out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistry_LookupUnregistered(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Lookup(domain.ProviderAdexora))
}

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry()
	p := NewCallbackProvider()
	r.Register(domain.ProviderAdexora, p)

	assert.Same(t, p, r.Lookup(domain.ProviderAdexora).(*CallbackProvider))
	assert.ElementsMatch(t, []domain.ProviderID{domain.ProviderAdexora}, r.IDs())
}
