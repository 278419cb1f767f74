package players

import (
	"context"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	domainprojections "github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

// Store defines the player reads the service needs.
type Store interface {
	Players(ctx context.Context) ([]players.Player, error)
	Player(ctx context.Context, id string) (players.Player, error)
	PlayerGameLogs(ctx context.Context, playerID string, season int) ([]gamelogs.GameLog, error)
}

// Service coordinates player lookups using a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the clock used to pick the current week and season.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a Service with the provided Store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListFilter narrows Players. Empty fields match everything; team and position compare
// case-insensitively.
type ListFilter struct {
	TeamID       string
	Position     string
	RosteredOnly bool
}

// Matches reports whether p satisfies the filter.
func (f ListFilter) Matches(p players.Player) bool {
	if f.RosteredOnly && !p.IsRostered() {
		return false
	}
	if f.TeamID != "" && (p.Team == nil || !strings.EqualFold(p.Team.ID, f.TeamID)) {
		return false
	}
	if f.Position != "" && !strings.EqualFold(p.Position, f.Position) {
		return false
	}
	return true
}

// Players lists stored profiles in store order.
func (s *Service) Players(ctx context.Context, filter ListFilter) ([]players.Player, error) {
	all, err := s.store.Players(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]players.Player, 0, len(all))
	for _, p := range all {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// PlayerByID returns a single player or the store's not-found error.
func (s *Service) PlayerByID(ctx context.Context, id string) (players.Player, error) {
	return s.store.Player(ctx, id)
}

// CurrentWeekProjections returns the player's projections for the week containing now,
// ordered by game date. Entries left over from earlier weeks are not returned.
func (s *Service) CurrentWeekProjections(ctx context.Context, id string) ([]domainprojections.Projection, error) {
	p, err := s.store.Player(ctx, id)
	if err != nil {
		return nil, err
	}
	view := domainprojections.CurrentWeekView(p.CurrentWeekProjections, nil, timeutil.WeekStart(s.now().UTC()))
	domainprojections.Sort(view)
	return view, nil
}

// GameLogs returns the player's box scores for a season, ordered by date. A season of 0 selects
// the season in progress; the resolved season is returned alongside.
func (s *Service) GameLogs(ctx context.Context, id string, season int) ([]gamelogs.GameLog, int, error) {
	if _, err := s.store.Player(ctx, id); err != nil {
		return nil, 0, err
	}
	if season == 0 {
		season = timeutil.SeasonFor(s.now().UTC())
	}
	logs, err := s.store.PlayerGameLogs(ctx, id, season)
	if err != nil {
		return nil, 0, err
	}
	if logs == nil {
		logs = []gamelogs.GameLog{}
	}
	return logs, season, nil
}

// SeasonTotals sums the player's regular-season games. A season of 0 selects the season in
// progress.
func (s *Service) SeasonTotals(ctx context.Context, id string, season int) (projections.SeasonTotals, error) {
	if _, err := s.store.Player(ctx, id); err != nil {
		return projections.SeasonTotals{}, err
	}
	if season == 0 {
		season = timeutil.SeasonFor(s.now().UTC())
	}
	logs, err := s.store.PlayerGameLogs(ctx, id, season)
	if err != nil {
		return projections.SeasonTotals{}, err
	}
	totals, ok := projections.ComputeSeasonTotals(logs, season)[id]
	if !ok {
		return projections.SeasonTotals{PlayerID: id, Season: season}, nil
	}
	return totals, nil
}
