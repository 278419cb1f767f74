package projections

import (
	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
)

// SeasonTotals are a player's accumulated regular-season numbers.
type SeasonTotals struct {
	PlayerID            string  `json:"playerId"`
	Season              int     `json:"season"`
	GamesPlayed         int     `json:"gamesPlayed"`
	Minutes             float64 `json:"minutes"`
	FieldGoalsAttempted int     `json:"fieldGoalsAttempted"`
	FieldGoalsMade      int     `json:"fieldGoalsMade"`
	ThreesMade          int     `json:"threesMade"`
	FreeThrowsAttempted int     `json:"freeThrowsAttempted"`
	FreeThrowsMade      int     `json:"freeThrowsMade"`
	Points              int     `json:"points"`
	Assists             int     `json:"assists"`
	Rebounds            int     `json:"rebounds"`
	Turnovers           int     `json:"turnovers"`
	Steals              int     `json:"steals"`
	Blocks              int     `json:"blocks"`
}

// ComputeSeasonTotals sums active regular-season games of one season per player.
func ComputeSeasonTotals(logs []gamelogs.GameLog, season int) map[string]SeasonTotals {
	out := make(map[string]SeasonTotals)
	for _, g := range logs {
		if !g.IsActive || !g.IsRegularSeason || g.Season != season {
			continue
		}
		t := out[g.PlayerID]
		t.PlayerID = g.PlayerID
		t.Season = season
		t.GamesPlayed++
		t.Minutes += g.Minutes
		t.FieldGoalsAttempted += g.FieldGoalsAttempted
		t.FieldGoalsMade += g.FieldGoalsMade
		t.ThreesMade += g.ThreesMade
		t.FreeThrowsAttempted += g.FreeThrowsAttempted
		t.FreeThrowsMade += g.FreeThrowsMade
		t.Points += g.Points
		t.Assists += g.Assists
		t.Rebounds += g.ReboundsTotal
		t.Turnovers += g.Turnovers
		t.Steals += g.Steals
		t.Blocks += g.Blocks
		out[g.PlayerID] = t
	}
	return out
}
