package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

// MemoryStore keeps every collection in memory behind a single RWMutex.
type MemoryStore struct {
	mu          sync.RWMutex
	teams       map[string]teams.Team
	players     map[string]players.Player
	gameLogs    map[gamelogs.Key]gamelogs.GameLog
	matchups    map[string]matchups.Matchup
	projections map[projections.Key]projections.Projection
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		teams:       make(map[string]teams.Team),
		players:     make(map[string]players.Player),
		gameLogs:    make(map[gamelogs.Key]gamelogs.GameLog),
		matchups:    make(map[string]matchups.Matchup),
		projections: make(map[projections.Key]projections.Projection),
	}
}

// UpsertTeams inserts or replaces teams by ID.
func (s *MemoryStore) UpsertTeams(_ context.Context, items []teams.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range items {
		s.teams[t.ID] = t
	}
	return nil
}

// UpsertPlayers inserts or replaces players by ID. An existing current-week view is kept.
func (s *MemoryStore) UpsertPlayers(_ context.Context, items []players.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range items {
		if existing, ok := s.players[p.ID]; ok && p.CurrentWeekProjections == nil {
			p.CurrentWeekProjections = existing.CurrentWeekProjections
		}
		s.players[p.ID] = p
	}
	return nil
}

// UpsertGameLogs inserts or replaces logs by {player, game}.
func (s *MemoryStore) UpsertGameLogs(_ context.Context, items []gamelogs.GameLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range items {
		s.gameLogs[g.Key()] = g
	}
	return nil
}

// UpsertMatchups inserts or replaces matchups by game ID.
func (s *MemoryStore) UpsertMatchups(_ context.Context, items []matchups.Matchup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range items {
		s.matchups[m.GameID] = m
	}
	return nil
}

// Teams returns teams ordered by ID.
func (s *MemoryStore) Teams(_ context.Context) ([]teams.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]teams.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Players returns every player ordered by ID.
func (s *MemoryStore) Players(_ context.Context) ([]players.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]players.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, clonePlayer(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Player retrieves a player by ID.
func (s *MemoryStore) Player(_ context.Context, id string) (players.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return players.Player{}, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return clonePlayer(p), nil
}

// RecentGameLogs returns logs dated in [since, until) ordered by date, player and game.
func (s *MemoryStore) RecentGameLogs(_ context.Context, since, until time.Time) ([]gamelogs.GameLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]gamelogs.GameLog, 0)
	for _, g := range s.gameLogs {
		if !g.Date.Before(since) && g.Date.Before(until) {
			out = append(out, g)
		}
	}
	sortGameLogs(out)
	return out, nil
}

// PlayerGameLogs returns one player's logs of a season ordered by date.
func (s *MemoryStore) PlayerGameLogs(_ context.Context, playerID string, season int) ([]gamelogs.GameLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]gamelogs.GameLog, 0)
	for _, g := range s.gameLogs {
		if g.PlayerID == playerID && g.Season == season {
			out = append(out, g)
		}
	}
	sortGameLogs(out)
	return out, nil
}

// MatchupsBetween returns matchups starting in [start, end) ordered by start time.
func (s *MemoryStore) MatchupsBetween(_ context.Context, start, end time.Time) ([]matchups.Matchup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]matchups.Matchup, 0)
	for _, m := range s.matchups {
		if !m.Start.Before(start) && m.Start.Before(end) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].GameID < out[j].GameID
	})
	return out, nil
}

// SaveProjections upserts each projection by {game, player} and refreshes the current-week
// view of every player in the batch.
func (s *MemoryStore) SaveProjections(_ context.Context, week projections.WeekSnapshot) error {
	weekStart, err := timeutil.ParseDate(week.WeekStart)
	if err != nil {
		return fmt.Errorf("save projections: week start: %w", err)
	}

	byPlayer := make(map[string][]projections.Projection)
	var order []string
	for _, p := range week.Projections {
		if _, seen := byPlayer[p.PlayerID]; !seen {
			order = append(order, p.PlayerID)
		}
		byPlayer[p.PlayerID] = append(byPlayer[p.PlayerID], p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range week.Projections {
		s.projections[p.Key()] = p
	}
	for _, id := range order {
		player, ok := s.players[id]
		if !ok {
			continue
		}
		player.CurrentWeekProjections = projections.CurrentWeekView(player.CurrentWeekProjections, byPlayer[id], weekStart)
		s.players[id] = player
	}
	return nil
}

// ListProjections returns stored projections matching filter.
func (s *MemoryStore) ListProjections(_ context.Context, filter ProjectionFilter) ([]projections.Projection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]projections.Projection, 0)
	for _, p := range s.projections {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	projections.Sort(out)
	return out, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close(context.Context) error { return nil }

func clonePlayer(p players.Player) players.Player {
	if p.CurrentWeekProjections != nil {
		p.CurrentWeekProjections = append([]projections.Projection(nil), p.CurrentWeekProjections...)
	}
	return p
}

func sortGameLogs(out []gamelogs.GameLog) {
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		return a.GameID < b.GameID
	})
}
