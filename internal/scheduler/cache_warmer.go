package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MrSnakeDoc/fellowship/internal/logger"
)

// ErrWarmInProgress is returned by Warm when a previous run has not finished.
var ErrWarmInProgress = errors.New("cache warm already in progress")

// Refresher re-reads content into the cache (satisfied by *content.Service).
type Refresher interface {
	RefreshBibles(ctx context.Context, bibleIDs []string) error
}

// CacheWarmer keeps the bible list and selected book lists cached, on a
// cron schedule and on manual trigger.
type CacheWarmer struct {
	refresher Refresher
	bibleIDs  []string
	schedule  string
	logger    logger.Logger

	cron     *cron.Cron
	trigger  chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once

	running atomic.Bool
	mu      sync.RWMutex
	lastRun time.Time
	lastErr error
}

// NewCacheWarmer builds a warmer. An empty schedule disables the cron job;
// manual triggers still work.
func NewCacheWarmer(r Refresher, schedule string, bibleIDs []string, log logger.Logger) *CacheWarmer {
	return &CacheWarmer{
		refresher: r,
		bibleIDs:  bibleIDs,
		schedule:  schedule,
		logger:    log.Named("cache-warmer"),
		cron:      cron.New(),
		trigger:   make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start registers the cron job and the trigger loop. It does not warm
// immediately.
func (w *CacheWarmer) Start(ctx context.Context) error {
	if w.schedule != "" {
		if _, err := cron.ParseStandard(w.schedule); err != nil {
			return fmt.Errorf("invalid cache warm schedule %q: %w", w.schedule, err)
		}
		if _, err := w.cron.AddFunc(w.schedule, func() { w.run(ctx, "schedule") }); err != nil {
			return fmt.Errorf("failed to schedule cache warm: %w", err)
		}
		w.cron.Start()
		w.logger.Info("cache warmer scheduled",
			logger.String("schedule", w.schedule),
			logger.Int("bibles", len(w.bibleIDs)))
	}

	go func() {
		for {
			select {
			case <-w.trigger:
				w.run(ctx, "manual")
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the schedule and waits for a running job to return.
func (w *CacheWarmer) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.cron.Stop().Done()
	})
}

// Trigger asks for an immediate warm. It reports false when one is
// already queued.
func (w *CacheWarmer) Trigger() bool {
	select {
	case w.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Warm refreshes the cache synchronously.
func (w *CacheWarmer) Warm(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrWarmInProgress
	}
	defer w.running.Store(false)

	start := time.Now()
	err := w.refresher.RefreshBibles(ctx, w.bibleIDs)

	w.mu.Lock()
	w.lastRun, w.lastErr = start, err
	w.mu.Unlock()

	if err != nil {
		return err
	}
	w.logger.Info("cache warmed",
		logger.Int("bibles", len(w.bibleIDs)),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// LastRun returns the start time and outcome of the latest warm.
func (w *CacheWarmer) LastRun() (time.Time, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastRun, w.lastErr
}

func (w *CacheWarmer) run(ctx context.Context, reason string) {
	if err := w.Warm(ctx); err != nil {
		w.logger.Warn("cache warm failed",
			logger.String("reason", reason),
			logger.Error(err))
	}
}
