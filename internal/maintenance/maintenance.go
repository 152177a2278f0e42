// Package maintenance runs periodic housekeeping against the SQLite store.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golf-match-service/internal/logging"
)

const (
	defaultInterval = 5 * time.Minute
	// unhealthyAfter is the number of consecutive failed runs after which
	// Status reports the loop as unhealthy.
	unhealthyAfter = 3
)

// Checkpointer is the store surface the loop drives.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// Runner checkpoints the store on an interval.
type Runner struct {
	store    Checkpointer
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the maintenance loop.
type Status struct {
	Runs                int
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// Healthy is false once checkpoints have failed repeatedly.
func (s Status) Healthy() bool {
	return s.ConsecutiveFailures < unhealthyAfter
}

// New constructs a Runner. A non-positive interval selects the default.
func New(store Checkpointer, logger *slog.Logger, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Runner{
		store:    store,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start runs the loop until ctx is cancelled or Stop is called. Calling Start
// more than once has no effect.
func (r *Runner) Start(ctx context.Context) {
	r.startMu.Lock()
	if r.started {
		r.startMu.Unlock()
		return
	}
	r.started = true
	r.ticker = time.NewTicker(r.interval)
	r.startMu.Unlock()

	go func() {
		defer close(r.stopped)
		logging.Info(r.logger, "maintenance started", slog.Int64(logging.FieldDurationMS, r.interval.Milliseconds()))

		for {
			select {
			case <-ctx.Done():
				r.ticker.Stop()
				logging.Info(r.logger, "maintenance stopped")
				return
			case <-r.done:
				r.ticker.Stop()
				logging.Info(r.logger, "maintenance stopped")
				return
			case <-r.ticker.C:
				r.RunOnce(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight run to finish or ctx to expire.
func (r *Runner) Stop(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.done) })

	r.startMu.Lock()
	started := r.started
	r.startMu.Unlock()
	if !started {
		return nil
	}

	select {
	case <-r.stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop maintenance: %w", ctx.Err())
	}
}

// RunOnce performs a single checkpoint and updates Status.
func (r *Runner) RunOnce(ctx context.Context) {
	start := r.now()
	err := r.store.Checkpoint(ctx)

	r.statusMu.Lock()
	r.status.Runs++
	r.status.LastAttempt = start
	if err != nil {
		r.status.ConsecutiveFailures++
		r.status.LastError = err.Error()
	} else {
		r.status.ConsecutiveFailures = 0
		r.status.LastError = ""
		r.status.LastSuccess = start
	}
	r.statusMu.Unlock()

	if err != nil {
		logging.Error(r.logger, "checkpoint failed", err)
		return
	}
	logging.Info(r.logger, "checkpoint complete",
		logging.FieldDurationMS, r.now().Sub(start).Milliseconds(),
	)
}

// Status returns a snapshot of the loop's recent health.
func (r *Runner) Status() Status {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}
