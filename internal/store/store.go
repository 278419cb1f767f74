// Package store holds league data and forecast output behind one repository contract.
package store

import (
	"context"
	"errors"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-projections-service/internal/sources"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ProjectionFilter narrows ListProjections. Empty fields match everything.
type ProjectionFilter struct {
	PlayerID string
	GameID   string
}

// Matches reports whether p satisfies the filter.
func (f ProjectionFilter) Matches(p projections.Projection) bool {
	if f.PlayerID != "" && p.PlayerID != f.PlayerID {
		return false
	}
	if f.GameID != "" && p.GameID != f.GameID {
		return false
	}
	return true
}

// Store is implemented by every backend.
type Store interface {
	sources.GameLogSource
	sources.MatchupSource
	sources.PlayerSource
	sources.TeamSource
	sources.ProjectionSink

	UpsertTeams(ctx context.Context, items []teams.Team) error
	UpsertPlayers(ctx context.Context, items []players.Player) error
	UpsertGameLogs(ctx context.Context, items []gamelogs.GameLog) error
	UpsertMatchups(ctx context.Context, items []matchups.Matchup) error

	Player(ctx context.Context, id string) (players.Player, error)
	PlayerGameLogs(ctx context.Context, playerID string, season int) ([]gamelogs.GameLog, error)
	ListProjections(ctx context.Context, filter ProjectionFilter) ([]projections.Projection, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
