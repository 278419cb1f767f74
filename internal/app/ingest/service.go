// Package ingest copies teams, rosters, schedules and box scores from an upstream source into the
// store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
	"github.com/preston-bernstein/nba-projections-service/internal/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/sources"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

const defaultLogWindow = 3 * timeutil.Day

// ErrInvalidSeason is returned for a season that has not started.
var ErrInvalidSeason = errors.New("ingest: season has not started")

// WarnNoStarterLogs is reported when synced logs carry no starter rows. Depth-chart starters then
// have no role-matched history and no league pool to fall back on.
const WarnNoStarterLogs = "ingested game logs contain no starter rows; starters will be skipped"

// Store receives upstream rows keyed by their natural keys. Players is read so roster fields the
// upstream does not supply survive a sync.
type Store interface {
	Players(ctx context.Context) ([]players.Player, error)
	UpsertTeams(ctx context.Context, items []teams.Team) error
	UpsertPlayers(ctx context.Context, items []players.Player) error
	UpsertMatchups(ctx context.Context, items []matchups.Matchup) error
	UpsertGameLogs(ctx context.Context, items []gamelogs.GameLog) error
}

// Options wires a Service. Every source and the store are required.
type Options struct {
	Teams    sources.TeamSource
	Players  sources.PlayerSource
	Matchups sources.MatchupSource
	GameLogs sources.GameLogSource
	Store    Store
	// LogWindow is how far back a recent sync reaches; defaults to three days.
	LogWindow time.Duration
	Logger    *slog.Logger
}

// Request selects what to sync. A zero Season syncs the recent window only.
type Request struct {
	Season int
}

// Report summarizes one sync.
type Report struct {
	RunID       string    `json:"runId"`
	Season      int       `json:"season,omitempty"`
	Since       time.Time `json:"since"`
	Until       time.Time `json:"until"`
	Teams       int       `json:"teams"`
	Players     int       `json:"players"`
	Matchups    int       `json:"matchups"`
	GameLogs    int       `json:"gameLogs"`
	StarterLogs int       `json:"starterLogs"`
	InvalidLogs int       `json:"invalidLogs"`
	Warnings    []string  `json:"warnings,omitempty"`
	DurationMS  int64     `json:"durationMs"`
}

// Service pulls upstream data into the store.
type Service struct {
	teams     sources.TeamSource
	players   sources.PlayerSource
	matchups  sources.MatchupSource
	logs      sources.GameLogSource
	store     Store
	logWindow time.Duration
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService constructs a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Teams == nil || opts.Players == nil || opts.Matchups == nil || opts.GameLogs == nil || opts.Store == nil {
		return nil, errors.New("ingest: teams, players, matchups, game logs and store are required")
	}
	window := opts.LogWindow
	if window <= 0 {
		window = defaultLogWindow
	}
	return &Service{
		teams:     opts.Teams,
		players:   opts.Players,
		matchups:  opts.Matchups,
		logs:      opts.GameLogs,
		store:     opts.Store,
		logWindow: window,
		logger:    opts.Logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

// Sync upserts every team, the active roster, the current week's matchups and the requested game logs. Upstream
// calls run one after another so a rate-limited source is not hit in parallel.
func (s *Service) Sync(ctx context.Context, req Request) (Report, error) {
	started := time.Now()
	now := s.now().UTC()
	since, until, err := s.logRange(now, req.Season)
	if err != nil {
		return Report{}, err
	}
	report := Report{RunID: s.newID(), Season: req.Season, Since: since, Until: until}
	logger := logging.With(s.logger, slog.String(logging.FieldRunID, report.RunID))
	ctx = logging.WithLogger(ctx, logger)

	leagueTeams, err := s.teams.Teams(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch teams: %w", err)
	}
	if err := s.store.UpsertTeams(ctx, leagueTeams); err != nil {
		return report, fmt.Errorf("upsert teams: %w", err)
	}
	report.Teams = len(leagueTeams)

	roster, err := s.players.Players(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch players: %w", err)
	}
	existing, err := s.store.Players(ctx)
	if err != nil {
		return report, fmt.Errorf("load stored players: %w", err)
	}
	roster = mergeRoster(existing, roster)
	if err := s.store.UpsertPlayers(ctx, roster); err != nil {
		return report, fmt.Errorf("upsert players: %w", err)
	}
	report.Players = len(roster)

	week := projections.CurrentWeek(now)
	schedule, err := s.matchups.MatchupsBetween(ctx, week.Start, week.End)
	if err != nil {
		return report, fmt.Errorf("fetch matchups: %w", err)
	}
	if err := s.store.UpsertMatchups(ctx, schedule); err != nil {
		return report, fmt.Errorf("upsert matchups: %w", err)
	}
	report.Matchups = len(schedule)

	logs, err := s.logs.RecentGameLogs(ctx, since, until)
	if err != nil {
		return report, fmt.Errorf("fetch game logs: %w", err)
	}
	valid, rejected := gamelogs.Partition(logs)
	for _, rejErr := range rejected {
		logging.Debug(logger, "game log rejected", "error", rejErr)
	}
	if err := s.store.UpsertGameLogs(ctx, valid); err != nil {
		return report, fmt.Errorf("upsert game logs: %w", err)
	}
	report.GameLogs = len(valid)
	report.InvalidLogs = len(rejected)
	for _, g := range valid {
		if g.IsStarter {
			report.StarterLogs++
		}
	}
	if report.GameLogs > 0 && report.StarterLogs == 0 {
		report.Warnings = append(report.Warnings, WarnNoStarterLogs)
		logging.Warn(logger, WarnNoStarterLogs, slog.Int(logging.FieldCount, report.GameLogs))
	}
	report.DurationMS = time.Since(started).Milliseconds()

	logging.Info(logger, "ingest complete",
		slog.Int("teams", report.Teams),
		slog.Int("players", report.Players),
		slog.Int("matchups", report.Matchups),
		slog.Int(logging.FieldCount, report.GameLogs),
		slog.Int(logging.FieldDropped, report.InvalidLogs),
		slog.Int64(logging.FieldDurationMS, report.DurationMS),
	)
	return report, nil
}

// mergeRoster fills the roster fields upstream leaves empty from the stored profile. Current-week
// projections are left nil so the store keeps its own.
func mergeRoster(existing, incoming []players.Player) []players.Player {
	byID := make(map[string]players.Player, len(existing))
	for _, p := range existing {
		byID[p.ID] = p
	}
	out := make([]players.Player, 0, len(incoming))
	for _, p := range incoming {
		p.CurrentWeekProjections = nil
		prev, ok := byID[p.ID]
		if !ok {
			out = append(out, p)
			continue
		}
		if p.DepthChartOrder == nil {
			p.DepthChartOrder = prev.DepthChartOrder
		}
		if p.InjuryStatus == nil {
			p.InjuryStatus = prev.InjuryStatus
		}
		if p.RotowireID == "" {
			p.RotowireID = prev.RotowireID
		}
		if p.Age == 0 {
			p.Age = prev.Age
		}
		if p.RecentNews == nil {
			p.RecentNews = prev.RecentNews
		}
		if p.FantasyOutlook == nil {
			p.FantasyOutlook = prev.FantasyOutlook
		}
		if p.AddCount == nil {
			p.AddCount = prev.AddCount
		}
		if p.DropCount == nil {
			p.DropCount = prev.DropCount
		}
		out = append(out, p)
	}
	return out
}

// logRange returns [since, until) for the request. A season runs from October 1 of the prior
// year, matching the rollover used for season totals.
func (s *Service) logRange(now time.Time, season int) (time.Time, time.Time, error) {
	if season == 0 {
		return now.Add(-s.logWindow), now, nil
	}
	since := time.Date(season-1, time.October, 1, 0, 0, 0, 0, time.UTC)
	if !since.Before(now) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %d", ErrInvalidSeason, season)
	}
	until := time.Date(season, time.October, 1, 0, 0, 0, 0, time.UTC)
	if until.After(now) {
		until = now
	}
	return since, until, nil
}
