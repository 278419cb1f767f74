package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
	"github.com/preston-bernstein/nba-projections-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	// Upstream Retry-After hints longer than this are clamped.
	maxRateLimitWait = 30 * time.Second
)

type backoffFunc func(attempt int) time.Duration

// RetryOptions configures the retry decorators. Zero values fall back to defaults.
type RetryOptions struct {
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
	MaxAttempts int
	Backoff     time.Duration
	Rand        *rand.Rand
}

type retrier struct {
	name        string
	logger      *slog.Logger
	metrics     *metrics.Recorder
	maxAttempts int
	backoffFn   backoffFunc

	mu  sync.Mutex
	rng *rand.Rand
}

func newRetrier(name string, opts RetryOptions) *retrier {
	if name == "" {
		name = "source"
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &retrier{
		name:        name,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
		rng: rng,
	}
}

// computeDelay jitters the linear backoff into [base/2, base].
func (r *retrier) computeDelay(attempt int) time.Duration {
	base := r.backoffFn(attempt)
	if base <= 0 {
		return 0
	}
	half := base / 2
	r.mu.Lock()
	jitter := time.Duration(r.rng.Int63n(int64(half) + 1))
	r.mu.Unlock()
	return half + jitter
}

// delayFor waits at least as long as a rate-limited source asked for.
func (r *retrier) delayFor(attempt int, err error) time.Duration {
	delay := r.computeDelay(attempt)
	if rl, ok := AsRateLimitError(err); ok && rl.RetryAfter > delay {
		delay = min(rl.RetryAfter, maxRateLimitWait)
	}
	return delay
}

func retry[T any](ctx context.Context, r *retrier, fetch func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	logger := logging.FromContext(ctx, r.logger)

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		out, err := fetch(ctx)
		r.metrics.RecordSourceAttempt(r.name, time.Since(start), err)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || attempt == r.maxAttempts {
			break
		}

		logging.Warn(logger, "source fetch retry",
			logging.FieldSource, r.name,
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"err", err,
		)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(r.delayFor(attempt, err)):
		}
	}

	logging.Warn(logger, "source fetch failed", logging.FieldSource, r.name, "attempts", r.maxAttempts, "err", lastErr)
	if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) || errors.Is(lastErr, ErrSourceUnavailable) {
		return zero, lastErr
	}
	return zero, fmt.Errorf("%s: %w: %w", r.name, ErrSourceUnavailable, lastErr)
}

type retryingGameLogs struct {
	inner GameLogSource
	r     *retrier
}

// NewRetryingGameLogs wraps a GameLogSource with retries.
func NewRetryingGameLogs(inner GameLogSource, opts RetryOptions) GameLogSource {
	return &retryingGameLogs{inner: inner, r: newRetrier(NameGameLogs, opts)}
}

func (s *retryingGameLogs) RecentGameLogs(ctx context.Context, since, until time.Time) ([]gamelogs.GameLog, error) {
	return retry(ctx, s.r, func(ctx context.Context) ([]gamelogs.GameLog, error) {
		return s.inner.RecentGameLogs(ctx, since, until)
	})
}

type retryingMatchups struct {
	inner MatchupSource
	r     *retrier
}

// NewRetryingMatchups wraps a MatchupSource with retries.
func NewRetryingMatchups(inner MatchupSource, opts RetryOptions) MatchupSource {
	return &retryingMatchups{inner: inner, r: newRetrier(NameMatchups, opts)}
}

func (s *retryingMatchups) MatchupsBetween(ctx context.Context, start, end time.Time) ([]matchups.Matchup, error) {
	return retry(ctx, s.r, func(ctx context.Context) ([]matchups.Matchup, error) {
		return s.inner.MatchupsBetween(ctx, start, end)
	})
}

type retryingPlayers struct {
	inner PlayerSource
	r     *retrier
}

// NewRetryingPlayers wraps a PlayerSource with retries.
func NewRetryingPlayers(inner PlayerSource, opts RetryOptions) PlayerSource {
	return &retryingPlayers{inner: inner, r: newRetrier(NamePlayers, opts)}
}

func (s *retryingPlayers) Players(ctx context.Context) ([]players.Player, error) {
	return retry(ctx, s.r, s.inner.Players)
}

type retryingTeams struct {
	inner TeamSource
	r     *retrier
}

// NewRetryingTeams wraps a TeamSource with retries.
func NewRetryingTeams(inner TeamSource, opts RetryOptions) TeamSource {
	return &retryingTeams{inner: inner, r: newRetrier(NameTeams, opts)}
}

func (s *retryingTeams) Teams(ctx context.Context) ([]teams.Team, error) {
	return retry(ctx, s.r, s.inner.Teams)
}
