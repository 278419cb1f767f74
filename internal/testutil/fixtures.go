package testutil

import (
	"fmt"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
)

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StrPtr returns a pointer to v.
func StrPtr(v string) *string { return &v }

// SampleTeam returns a minimal team fixture with the provided id.
func SampleTeam(id string) teams.Team {
	return teams.Team{ID: id, Abbreviation: id, City: "City " + id, Name: "Team " + id}
}

// SamplePlayer returns a rostered, healthy player fixture.
func SamplePlayer(id, teamID, position string, depth int) players.Player {
	team := SampleTeam(teamID)
	return players.Player{
		ID:              id,
		FirstName:       "First",
		LastName:        id,
		Position:        position,
		Team:            &team,
		DepthChartOrder: IntPtr(depth),
	}
}

// SampleGameLog returns an active game log for playerID against opponentID on date.
// Every counting stat is derived from points so callers can reason about averages.
func SampleGameLog(playerID, teamID, opponentID, position string, starter bool, date time.Time, minutes float64, points int) gamelogs.GameLog {
	return gamelogs.GameLog{
		GameID:              fmt.Sprintf("%s-%s-%s", teamID, opponentID, date.UTC().Format("20060102T1504")),
		Season:              2024,
		Date:                date,
		PlayerID:            playerID,
		PlayerTeam:          SampleTeam(teamID),
		OpposingTeam:        SampleTeam(opponentID),
		IsActive:            true,
		IsRegularSeason:     true,
		IsStarter:           starter,
		Position:            position,
		Minutes:             minutes,
		Points:              points,
		FieldGoalsAttempted: points,
		FieldGoalsMade:      points / 2,
		ThreesMade:          points / 10,
		ThreesAttempted:     points / 5,
		FreeThrowsAttempted: points / 4,
		FreeThrowsMade:      points / 5,
		ReboundsTotal:       points / 3,
		Assists:             points / 4,
		Steals:              1,
		Blocks:              1,
		Turnovers:           2,
	}
}

// SampleMatchup returns a scheduled game between home and away at start.
func SampleMatchup(gameID, homeID, awayID string, start time.Time) matchups.Matchup {
	return matchups.Matchup{
		GameID:   gameID,
		Start:    start,
		HomeTeam: SampleTeam(homeID),
		AwayTeam: SampleTeam(awayID),
	}
}

// SampleProjection returns a projection fixture for player and game.
func SampleProjection(gameID, playerID string, points float64) projections.Projection {
	return projections.Projection{
		GameID:       gameID,
		PlayerID:     playerID,
		Date:         ReferenceNow.Add(24 * time.Hour),
		PlayerTeam:   SampleTeam("home"),
		OpposingTeam: SampleTeam("away"),
		Points:       points,
	}
}
