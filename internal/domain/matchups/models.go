package matchups

import (
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
)

// Matchup is one scheduled game between two teams. GameID is unique.
type Matchup struct {
	GameID   string     `json:"gameId" bson:"gameId"`
	Start    time.Time  `json:"dateTimeUTC" bson:"dateTimeUTC"`
	HomeTeam teams.Team `json:"homeTeam" bson:"homeTeam"`
	AwayTeam teams.Team `json:"awayTeam" bson:"awayTeam"`
}

// Involves reports whether the team plays in this matchup.
func (m Matchup) Involves(teamID string) bool {
	return teamID != "" && (m.HomeTeam.ID == teamID || m.AwayTeam.ID == teamID)
}

// Sides returns the team and its opponent for the given team ID.
// ok is false when the team does not play in this matchup.
func (m Matchup) Sides(teamID string) (team, opponent teams.Team, ok bool) {
	switch {
	case teamID == "":
		return teams.Team{}, teams.Team{}, false
	case m.HomeTeam.ID == teamID:
		return m.HomeTeam, m.AwayTeam, true
	case m.AwayTeam.ID == teamID:
		return m.AwayTeam, m.HomeTeam, true
	default:
		return teams.Team{}, teams.Team{}, false
	}
}
