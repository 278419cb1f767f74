package projections

import (
	"sort"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
)

// Projection is a single-game forecast for one player. {GameID, PlayerID} is the natural key.
// Values are not clamped; rounding happens at presentation time.
type Projection struct {
	GameID              string     `json:"gameId" bson:"gameId"`
	Date                time.Time  `json:"dateUTC" bson:"dateUTC"`
	PlayerID            string     `json:"playerId" bson:"playerId"`
	PlayerTeam          teams.Team `json:"playerTeam" bson:"playerTeam"`
	OpposingTeam        teams.Team `json:"opposingTeam" bson:"opposingTeam"`
	FieldGoalsAttempted float64    `json:"fieldGoalsAttempted" bson:"fieldGoalsAttempted"`
	FieldGoalsMade      float64    `json:"fieldGoalsMade" bson:"fieldGoalsMade"`
	ThreesMade          float64    `json:"threesMade" bson:"threesMade"`
	FreeThrowsAttempted float64    `json:"freeThrowsAttempted" bson:"freeThrowsAttempted"`
	FreeThrowsMade      float64    `json:"freeThrowsMade" bson:"freeThrowsMade"`
	Points              float64    `json:"points" bson:"points"`
	Assists             float64    `json:"assists" bson:"assists"`
	Rebounds            float64    `json:"rebounds" bson:"rebounds"`
	Turnovers           float64    `json:"turnovers" bson:"turnovers"`
	Steals              float64    `json:"steals" bson:"steals"`
	Blocks              float64    `json:"blocks" bson:"blocks"`
}

// Key identifies a projection by its natural key.
type Key struct {
	GameID   string
	PlayerID string
}

// Key returns the {game, player} natural key.
func (p Projection) Key() Key {
	return Key{GameID: p.GameID, PlayerID: p.PlayerID}
}

// WeekSnapshot is one run's projections for a forecast week.
type WeekSnapshot struct {
	RunID       string       `json:"runId,omitempty"`
	WeekStart   string       `json:"weekStart"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Projections []Projection `json:"projections"`
}

// NewWeekSnapshot builds a WeekSnapshot.
func NewWeekSnapshot(weekStart string, generatedAt time.Time, items []Projection) WeekSnapshot {
	return WeekSnapshot{
		WeekStart:   weekStart,
		GeneratedAt: generatedAt,
		Projections: items,
	}
}

// MergeByGame upserts incoming projections into current keyed by game ID.
// Existing entries for a game are replaced in place; new games are appended.
func MergeByGame(current, incoming []Projection) []Projection {
	merged := make([]Projection, len(current), len(current)+len(incoming))
	copy(merged, current)
	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.GameID] = i
	}
	for _, p := range incoming {
		if i, ok := index[p.GameID]; ok {
			merged[i] = p
			continue
		}
		index[p.GameID] = len(merged)
		merged = append(merged, p)
	}
	return merged
}

// CurrentWeekView drops entries of current dated outside the week starting at weekStart and
// merges incoming into the rest by game ID.
func CurrentWeekView(current, incoming []Projection, weekStart time.Time) []Projection {
	weekEnd := weekStart.AddDate(0, 0, 7)
	kept := make([]Projection, 0, len(current))
	for _, p := range current {
		if !p.Date.Before(weekStart) && p.Date.Before(weekEnd) {
			kept = append(kept, p)
		}
	}
	return MergeByGame(kept, incoming)
}

// Sort orders projections by date, then game ID, then player ID.
func Sort(items []Projection) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		return a.PlayerID < b.PlayerID
	})
}
