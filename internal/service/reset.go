package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/risknai/adrewards/internal/config"
	"github.com/risknai/adrewards/internal/domain"
	"github.com/risknai/adrewards/internal/repository"
	"github.com/risknai/adrewards/internal/store"
)

type ResetState int

const (
	ResetIdle ResetState = iota
	ResetResetting
)

// ResetScheduler performs the authoritative daily counter reset: once the
// reference-timezone clock passes the cutoff hour and the stored marker is
// not today's date, every watch record in the store is cleared. The marker is
// written before the batch, which makes the operation re-entrant: a racing
// second trigger reads the already-updated marker and no-ops. A partially
// completed batch is acceptable; the per-record lazy day comparison
// self-heals whatever the batch missed.
type ResetScheduler struct {
	store   store.Store
	system  *repository.SystemRepo
	watches *repository.WatchRepo
	now     func() time.Time

	mu    sync.Mutex
	state ResetState

	onReset func(date string)

	sched gocron.Scheduler
}

func NewResetScheduler(st store.Store, system *repository.SystemRepo, watches *repository.WatchRepo) *ResetScheduler {
	return &ResetScheduler{
		store:   st,
		system:  system,
		watches: watches,
		now:     time.Now,
	}
}

// OnReset registers a callback invoked after each completed reset, with the
// day string the reset established. Set before Start.
func (s *ResetScheduler) OnReset(fn func(date string)) {
	s.onReset = fn
}

// State reports whether a batch reset is currently running in this process.
func (s *ResetScheduler) State() ResetState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RunIfDue checks staleness and performs the batch reset when due. Returns
// true when this invocation performed the reset.
func (s *ResetScheduler) RunIfDue(ctx context.Context) (bool, error) {
	now := s.now().In(domain.ReferenceTZ)
	if now.Hour() < config.ResetCutoffHour {
		return false, nil
	}
	today := domain.DayString(now)
	last, err := s.system.LastResetDate(ctx)
	if err != nil {
		return false, err
	}
	if last == today {
		return false, nil
	}

	s.mu.Lock()
	if s.state == ResetResetting {
		s.mu.Unlock()
		return false, nil
	}
	s.state = ResetResetting
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.state = ResetIdle
		s.mu.Unlock()
	}()

	// Marker first. Whoever wins this write owns today's reset; losers see
	// the marker and skip.
	if err := s.system.SetLastResetDate(ctx, today); err != nil {
		return false, err
	}

	slog.Info("performing daily reset", "date", today)
	if err := s.resetAll(ctx, now); err != nil {
		// No rollback: the partial reset self-heals per record.
		return true, fmt.Errorf("daily reset incomplete: %w", err)
	}
	slog.Info("daily reset completed", "date", today)
	if s.onReset != nil {
		s.onReset(today)
	}
	return true, nil
}

func (s *ResetScheduler) resetAll(ctx context.Context, now time.Time) error {
	recs, err := s.watches.All(ctx)
	if err != nil {
		return err
	}

	entries := make(map[string][]byte, config.ResetUpdateBatchSize)
	for _, rec := range recs {
		rec.WatchedToday = 0
		rec.LastReset = now
		path, value, err := s.watches.Entry(rec)
		if err != nil {
			return err
		}
		entries[path] = value

		if len(entries) >= config.ResetUpdateBatchSize {
			if err := s.store.Update(ctx, entries); err != nil {
				return &domain.PersistenceError{Op: "reset batch", Err: err}
			}
			entries = make(map[string][]byte, config.ResetUpdateBatchSize)
		}
	}
	if len(entries) > 0 {
		if err := s.store.Update(ctx, entries); err != nil {
			return &domain.PersistenceError{Op: "reset batch", Err: err}
		}
	}
	return nil
}

// Start schedules RunIfDue on the fixed re-evaluation interval, with an
// immediate run at session start.
func (s *ResetScheduler) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(config.ResetCheckInterval),
		gocron.NewTask(func() {
			if _, err := s.RunIfDue(ctx); err != nil {
				slog.Error("daily reset check failed", "error", err)
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule reset job: %w", err)
	}
	sched.Start()
	s.sched = sched
	return nil
}

func (s *ResetScheduler) Stop() {
	if s.sched != nil {
		_ = s.sched.Shutdown()
	}
}

// NextResetIn returns the time remaining until the next daily cutoff, for
// display next to the provider list.
func NextResetIn(now time.Time) time.Duration {
	local := now.In(domain.ReferenceTZ)
	next := time.Date(local.Year(), local.Month(), local.Day(),
		config.ResetCutoffHour, 0, 0, 0, domain.ReferenceTZ)
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local)
}
