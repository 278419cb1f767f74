// Package sources defines the collaborators a forecast run reads from and writes to.
package sources

import (
	"context"
	"errors"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
)

// ErrSourceUnavailable signals a collaborator that could not be reached.
var ErrSourceUnavailable = errors.New("source unavailable")

// GameLogSource returns box scores dated in [since, until).
type GameLogSource interface {
	RecentGameLogs(ctx context.Context, since, until time.Time) ([]gamelogs.GameLog, error)
}

// MatchupSource returns scheduled games starting in [start, end).
type MatchupSource interface {
	MatchupsBetween(ctx context.Context, start, end time.Time) ([]matchups.Matchup, error)
}

// PlayerSource returns every known player, rostered or not.
type PlayerSource interface {
	Players(ctx context.Context) ([]players.Player, error)
}

// TeamSource returns league teams.
type TeamSource interface {
	Teams(ctx context.Context) ([]teams.Team, error)
}

// ProjectionSink persists one run's projections for a week.
type ProjectionSink interface {
	SaveProjections(ctx context.Context, week projections.WeekSnapshot) error
}

// Names used for logging and metrics.
const (
	NameGameLogs = "gamelogs"
	NameMatchups = "matchups"
	NamePlayers  = "players"
	NameTeams    = "teams"
)
