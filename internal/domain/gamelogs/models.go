package gamelogs

import (
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
)

// GameLog is one player's box-score line for one game. {PlayerID, GameID} is the natural key.
type GameLog struct {
	GameID            string     `json:"gameId" bson:"gameId" validate:"required"`
	Season            int        `json:"season" bson:"season" validate:"gte=0"`
	Date              time.Time  `json:"dateUTC" bson:"dateUTC" validate:"required"`
	PlayerID          string     `json:"playerId" bson:"playerId" validate:"required"`
	PlayerTeam        teams.Team `json:"playerTeam" bson:"playerTeam"`
	OpposingTeam      teams.Team `json:"opposingTeam" bson:"opposingTeam"`
	IsHomeGame        bool       `json:"isHomeGame" bson:"isHomeGame"`
	IsActive          bool       `json:"isActive" bson:"isActive"`
	IsRegularSeason   bool       `json:"isRegularSeasonGame" bson:"isRegularSeasonGame"`
	IsStarter         bool       `json:"isStarter" bson:"isStarter"`
	Position          string     `json:"position" bson:"position"`
	Minutes           float64    `json:"minutes" bson:"minutes" validate:"gte=0"`
	PlayerTeamScore   int        `json:"playerTeamScore" bson:"playerTeamScore" validate:"gte=0"`
	OpposingTeamScore int        `json:"opposingTeamScore" bson:"opposingTeamScore" validate:"gte=0"`

	Points              int `json:"points" bson:"points" validate:"gte=0"`
	FieldGoalsMade      int `json:"fieldGoalsMade" bson:"fieldGoalsMade" validate:"gte=0,ltefield=FieldGoalsAttempted"`
	FieldGoalsAttempted int `json:"fieldGoalsAttempted" bson:"fieldGoalsAttempted" validate:"gte=0"`
	ThreesMade          int `json:"threesMade" bson:"threesMade" validate:"gte=0,ltefield=ThreesAttempted"`
	ThreesAttempted     int `json:"threesAttempted" bson:"threesAttempted" validate:"gte=0"`
	FreeThrowsMade      int `json:"freeThrowsMade" bson:"freeThrowsMade" validate:"gte=0,ltefield=FreeThrowsAttempted"`
	FreeThrowsAttempted int `json:"freeThrowsAttempted" bson:"freeThrowsAttempted" validate:"gte=0"`
	ReboundsOffensive   int `json:"reboundsOffensive" bson:"reboundsOffensive" validate:"gte=0"`
	ReboundsDefensive   int `json:"reboundsDefensive" bson:"reboundsDefensive" validate:"gte=0"`
	ReboundsTotal       int `json:"reboundsTotal" bson:"reboundsTotal" validate:"gte=0"`
	Assists             int `json:"assists" bson:"assists" validate:"gte=0"`
	Steals              int `json:"steals" bson:"steals" validate:"gte=0"`
	Blocks              int `json:"blocks" bson:"blocks" validate:"gte=0"`
	Turnovers           int `json:"turnovers" bson:"turnovers" validate:"gte=0"`
	Fouls               int `json:"fouls" bson:"fouls" validate:"gte=0"`
	PlusMinus           int `json:"plusMinus" bson:"plusMinus"`
}

// Key identifies a game log by its natural key.
type Key struct {
	PlayerID string
	GameID   string
}

// Key returns the {player, game} natural key.
func (g GameLog) Key() Key {
	return Key{PlayerID: g.PlayerID, GameID: g.GameID}
}
