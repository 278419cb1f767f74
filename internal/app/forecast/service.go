// Package forecast runs the weekly projection pipeline against live collaborators.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	domainprojections "github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/lock"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
	"github.com/preston-bernstein/nba-projections-service/internal/metrics"
	"github.com/preston-bernstein/nba-projections-service/internal/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/sources"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

// Triggers recorded on runs.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

const (
	lockKey              = "forecast-run"
	defaultLockTTL       = 10 * time.Minute
	defaultHistoryWindow = 365 * timeutil.Day
	maxLoggedRejections  = 5
)

// ErrRunInProgress is returned when another run holds the run lock.
var ErrRunInProgress = errors.New("forecast run already in progress")

// Options wires a Service. Players, GameLogs, Matchups and at least one sink are required.
type Options struct {
	Players  sources.PlayerSource
	GameLogs sources.GameLogSource
	Matchups sources.MatchupSource
	Sinks    []sources.ProjectionSink

	// Coefficients defaults to projections.DefaultCoefficients when nil.
	Coefficients *projections.Coefficients
	Locker       lock.Locker
	LockTTL      time.Duration
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
}

// RunReport summarizes one completed run.
type RunReport struct {
	RunID       string                `json:"runId"`
	Trigger     string                `json:"trigger"`
	StartedAt   time.Time             `json:"startedAt"`
	WeekStart   string                `json:"weekStart"`
	Players     int                   `json:"players"`
	GameLogs    int                   `json:"gameLogs"`
	Matchups    int                   `json:"matchups"`
	InvalidLogs int                   `json:"invalidLogs"`
	DroppedLogs int                   `json:"droppedLogs"`
	Projections int                   `json:"projections"`
	Injured     int                   `json:"injured"`
	Widened     bool                  `json:"widenedDefenseWindow"`
	Skipped     []projections.Skipped `json:"skipped"`
	DurationMS  int64                 `json:"durationMs"`
}

// Service fetches inputs, runs the engine and hands the result to every sink.
type Service struct {
	players    sources.PlayerSource
	logs       sources.GameLogSource
	matchups   sources.MatchupSource
	sinks      []sources.ProjectionSink
	forecaster *projections.Forecaster
	locker     lock.Locker
	lockTTL    time.Duration
	history    time.Duration
	logger     *slog.Logger
	metrics    *metrics.Recorder
	now        func() time.Time
	newID      func() string
}

// NewService constructs a Service. A nil Locker means runs are never serialized.
func NewService(opts Options) (*Service, error) {
	if opts.Players == nil || opts.GameLogs == nil || opts.Matchups == nil {
		return nil, errors.New("forecast: players, game logs and matchups sources are required")
	}
	if len(opts.Sinks) == 0 {
		return nil, errors.New("forecast: at least one projection sink is required")
	}
	coeffs := projections.DefaultCoefficients()
	if opts.Coefficients != nil {
		coeffs = *opts.Coefficients
	}
	ttl := opts.LockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Service{
		players:    opts.Players,
		logs:       opts.GameLogs,
		matchups:   opts.Matchups,
		sinks:      opts.Sinks,
		forecaster: projections.NewForecaster(coeffs),
		locker:     opts.Locker,
		lockTTL:    ttl,
		history:    defaultHistoryWindow,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		now:        time.Now,
		newID:      uuid.NewString,
	}, nil
}

// Run executes one forecast. It returns ErrRunInProgress without doing any work when the run
// lock is held elsewhere.
func (s *Service) Run(ctx context.Context, trigger string) (RunReport, error) {
	if trigger == "" {
		trigger = TriggerManual
	}
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, lockKey, s.lockTTL)
		if errors.Is(err, lock.ErrLocked) {
			s.metrics.RecordLockContention(trigger)
			logging.Info(s.logger, "forecast run skipped, lock held elsewhere", logging.FieldTrigger, trigger)
			return RunReport{}, ErrRunInProgress
		}
		if err != nil {
			return RunReport{}, fmt.Errorf("acquire run lock: %w", err)
		}
		defer func() {
			if relErr := release(context.WithoutCancel(ctx)); relErr != nil {
				logging.Warn(s.logger, "release run lock failed", "error", relErr)
			}
		}()
	}

	started := time.Now()
	report, err := s.run(ctx, trigger)
	elapsed := time.Since(started)
	report.DurationMS = elapsed.Milliseconds()
	s.metrics.RecordForecastRun(trigger, elapsed, report.Projections, len(report.Skipped), err)
	return report, err
}

func (s *Service) run(ctx context.Context, trigger string) (RunReport, error) {
	started := time.Now()
	now := s.now().UTC()
	week := projections.CurrentWeek(now)
	report := RunReport{
		RunID:     s.newID(),
		Trigger:   trigger,
		StartedAt: now,
		WeekStart: timeutil.FormatDate(week.Start),
	}
	logger := logging.With(s.logger,
		slog.String(logging.FieldRunID, report.RunID),
		slog.String(logging.FieldWeekStart, report.WeekStart),
	)
	ctx = logging.WithLogger(ctx, logger)

	roster, logs, schedule, err := s.fetch(ctx, now, week)
	if err != nil {
		logging.Error(logger, "forecast inputs unavailable", err)
		return report, err
	}
	report.Players = len(roster)
	report.GameLogs = len(logs)
	report.Matchups = len(schedule)

	valid, rejected := gamelogs.Partition(logs)
	report.InvalidLogs = len(rejected)
	for i, rejErr := range rejected {
		if i == maxLoggedRejections {
			break
		}
		logging.Debug(logger, "game log rejected", "error", rejErr)
	}

	result, err := s.forecaster.ForecastAt(now, valid, schedule, roster)
	if err != nil {
		logging.Error(logger, "forecast failed", err)
		return report, fmt.Errorf("forecast: %w", err)
	}
	report.DroppedLogs = result.DroppedLogs
	report.Injured = result.Injured
	report.Widened = result.Widened
	report.Projections = len(result.Projections)
	report.Skipped = result.Skipped
	if report.Skipped == nil {
		report.Skipped = []projections.Skipped{}
	}

	snap := domainprojections.NewWeekSnapshot(report.WeekStart, now, result.Projections)
	snap.RunID = report.RunID
	var sinkErrs []error
	for _, sink := range s.sinks {
		if err := sink.SaveProjections(ctx, snap); err != nil {
			sinkErrs = append(sinkErrs, err)
		}
	}
	if err := errors.Join(sinkErrs...); err != nil {
		logging.Error(logger, "saving projections failed", err)
		return report, fmt.Errorf("save projections: %w", err)
	}

	logging.Info(logger, "forecast run complete",
		slog.String(logging.FieldTrigger, trigger),
		slog.Int(logging.FieldCount, report.Projections),
		slog.Int(logging.FieldSkipped, len(report.Skipped)),
		slog.Int(logging.FieldDropped, report.DroppedLogs+report.InvalidLogs),
		slog.Int64(logging.FieldDurationMS, time.Since(started).Milliseconds()),
	)
	return report, nil
}

func (s *Service) fetch(ctx context.Context, now time.Time, week projections.Week) ([]players.Player, []gamelogs.GameLog, []matchups.Matchup, error) {
	var (
		roster   []players.Player
		logs     []gamelogs.GameLog
		schedule []matchups.Matchup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.players.Players(gctx)
		if err != nil {
			return fmt.Errorf("fetch players: %w", err)
		}
		roster = out
		return nil
	})
	g.Go(func() error {
		out, err := s.logs.RecentGameLogs(gctx, now.Add(-s.history), now)
		if err != nil {
			return fmt.Errorf("fetch game logs: %w", err)
		}
		logs = out
		return nil
	})
	g.Go(func() error {
		out, err := s.matchups.MatchupsBetween(gctx, week.Start, week.End)
		if err != nil {
			return fmt.Errorf("fetch matchups: %w", err)
		}
		schedule = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	// A source answering with nothing is an empty input, not a contract violation.
	if roster == nil {
		roster = []players.Player{}
	}
	if logs == nil {
		logs = []gamelogs.GameLog{}
	}
	if schedule == nil {
		schedule = []matchups.Matchup{}
	}
	return roster, logs, schedule, nil
}
