// Package runner schedules forecast runs on an interval and tracks their health.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/app/forecast"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
)

const (
	defaultInterval = 6 * time.Hour
	maxFailures     = 3
)

// Forecaster is the run the scheduler drives.
type Forecaster interface {
	Run(ctx context.Context, trigger string) (forecast.RunReport, error)
}

// Runner runs the forecast once at start and then on every tick.
type Runner struct {
	forecaster Forecaster
	logger     *slog.Logger
	interval   time.Duration
	now        func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	wg       sync.WaitGroup

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the run loop.
type Status struct {
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError,omitempty"`
	LastAttempt         time.Time `json:"lastAttempt"`
	LastSuccess         time.Time `json:"lastSuccess"`
	LastContended       time.Time `json:"lastContended"`
	LastRunID           string    `json:"lastRunId,omitempty"`
	LastWeekStart       string    `json:"lastWeekStart,omitempty"`
	LastProjections     int       `json:"lastProjections"`
}

// IsReady reports whether a run has completed here, or another replica held the run lock,
// and runs are not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() && s.LastContended.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < maxFailures
}

// New constructs a Runner. A non-positive interval falls back to six hours.
func New(f Forecaster, logger *slog.Logger, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Runner{
		forecaster: f,
		logger:     logger,
		interval:   interval,
		now:        time.Now,
		done:       make(chan struct{}),
	}
}

// Start begins scheduling until the context is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	r.startMu.Lock()
	if r.started {
		r.startMu.Unlock()
		return
	}
	r.started = true
	r.startMu.Unlock()

	r.ticker = time.NewTicker(r.interval)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		logging.Info(r.logger, "forecast runner started", slog.Int64(logging.FieldDurationMS, r.interval.Milliseconds()))
		// Warm projections on boot.
		r.runOnce(ctx, forecast.TriggerSchedule)

		for {
			select {
			case <-ctx.Done():
				r.stopTicker()
				logging.Info(r.logger, "forecast runner stopped")
				return
			case <-r.done:
				r.stopTicker()
				logging.Info(r.logger, "forecast runner stopped")
				return
			case <-r.ticker.C:
				r.runOnce(ctx, forecast.TriggerSchedule)
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight run until ctx expires.
func (r *Runner) Stop(ctx context.Context) error {
	r.stopOnce.Do(func() {
		close(r.done)
		r.stopTicker()
	})

	waited := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow performs one manual run and records it in Status.
func (r *Runner) RunNow(ctx context.Context) (forecast.RunReport, error) {
	return r.runOnce(ctx, forecast.TriggerManual)
}

func (r *Runner) runOnce(ctx context.Context, trigger string) (forecast.RunReport, error) {
	start := r.now()
	r.recordAttempt(start)

	report, err := r.forecaster.Run(ctx, trigger)
	switch {
	case errors.Is(err, forecast.ErrRunInProgress):
		r.recordContended(start)
	case err != nil:
		logging.Error(r.logger, "forecast run failed", err,
			slog.String(logging.FieldTrigger, trigger),
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
		)
		r.recordFailure(err)
	default:
		r.recordSuccess(start, report)
	}
	return report, err
}

func (r *Runner) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
}

func (r *Runner) recordAttempt(at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.LastAttempt = at
}

func (r *Runner) recordContended(at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.LastContended = at
}

func (r *Runner) recordSuccess(at time.Time, report forecast.RunReport) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.ConsecutiveFailures = 0
	r.status.LastError = ""
	r.status.LastSuccess = at
	r.status.LastRunID = report.RunID
	r.status.LastWeekStart = report.WeekStart
	r.status.LastProjections = report.Projections
}

func (r *Runner) recordFailure(err error) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.ConsecutiveFailures++
	r.status.LastError = err.Error()
}

// Status returns a snapshot of the runner's recent health.
func (r *Runner) Status() Status {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}
