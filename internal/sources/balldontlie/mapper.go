package balldontlie

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
)

// Team IDs are lower-cased abbreviations so upstream rows line up with roster data.
func mapTeam(t teamResponse) teams.Team {
	return teams.Team{
		ID:           strings.ToLower(t.Abbreviation),
		Abbreviation: t.Abbreviation,
		City:         t.City,
		Name:         t.Name,
	}
}

func mapGame(g gameResponse) (matchups.Matchup, error) {
	start, err := parseGameTime(g.DateTime, g.Date)
	if err != nil {
		return matchups.Matchup{}, fmt.Errorf("game %d: %w", g.ID, err)
	}
	return matchups.Matchup{
		GameID:   strconv.Itoa(g.ID),
		Start:    start,
		HomeTeam: mapTeam(g.HomeTeam),
		AwayTeam: mapTeam(g.VisitorTeam),
	}, nil
}

// mapPlayer builds a roster profile. Upstream carries no depth chart or injury data, so both
// stay nil and the store keeps whatever it already holds.
func mapPlayer(p playerResponse) players.Player {
	out := players.Player{
		ID:               strconv.Itoa(p.ID),
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Position:         primaryPosition(p.Position),
		FantasyPositions: fantasyPositions(p.Position),
		Height:           parseHeight(p.Height),
	}
	if w, err := strconv.Atoi(strings.TrimSpace(p.Weight)); err == nil {
		out.Weight = w
	}
	if n, err := strconv.Atoi(strings.TrimSpace(p.JerseyNumber)); err == nil {
		out.JerseyNumber = &n
	}
	if p.Team != nil && p.Team.Abbreviation != "" {
		team := mapTeam(*p.Team)
		out.Team = &team
	}
	return out
}

// mapStat builds a game log. Upstream has no starter flag, so every row is a bench row.
func mapStat(s statResponse, byID map[int]teams.Team) (gamelogs.GameLog, error) {
	date, err := time.Parse(dateLayout, dateOnly(s.Game.Date))
	if err != nil {
		return gamelogs.GameLog{}, fmt.Errorf("stat %d: game date: %w", s.ID, err)
	}
	minutes, err := parseMinutes(s.Min)
	if err != nil {
		return gamelogs.GameLog{}, fmt.Errorf("stat %d: %w", s.ID, err)
	}

	isHome := s.Team.ID == s.Game.HomeTeamID
	opponentID := s.Game.HomeTeamID
	teamScore, opponentScore := s.Game.VisitorTeamScore, s.Game.HomeTeamScore
	if isHome {
		opponentID = s.Game.VisitorTeamID
		teamScore, opponentScore = s.Game.HomeTeamScore, s.Game.VisitorTeamScore
	}
	opponent, ok := byID[opponentID]
	if !ok {
		return gamelogs.GameLog{}, fmt.Errorf("stat %d: unknown opponent team %d", s.ID, opponentID)
	}

	return gamelogs.GameLog{
		GameID:              strconv.Itoa(s.Game.ID),
		Season:              s.Game.Season + 1,
		Date:                date,
		PlayerID:            strconv.Itoa(s.Player.ID),
		PlayerTeam:          mapTeam(s.Team),
		OpposingTeam:        opponent,
		IsHomeGame:          isHome,
		IsActive:            minutes > 0,
		IsRegularSeason:     !s.Game.Postseason,
		Position:            primaryPosition(s.Player.Position),
		Minutes:             minutes,
		PlayerTeamScore:     teamScore,
		OpposingTeamScore:   opponentScore,
		Points:              s.Pts,
		FieldGoalsMade:      s.FGM,
		FieldGoalsAttempted: s.FGA,
		ThreesMade:          s.FG3M,
		ThreesAttempted:     s.FG3A,
		FreeThrowsMade:      s.FTM,
		FreeThrowsAttempted: s.FTA,
		ReboundsOffensive:   s.OReb,
		ReboundsDefensive:   s.DReb,
		ReboundsTotal:       s.Reb,
		Assists:             s.Ast,
		Steals:              s.Stl,
		Blocks:              s.Blk,
		Turnovers:           s.Turnover,
		Fouls:               s.PF,
	}, nil
}

func parseGameTime(datetime, date string) (time.Time, error) {
	if datetime != "" {
		if t, err := time.Parse(time.RFC3339, datetime); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Parse(dateLayout, dateOnly(date))
}

// dateOnly trims a timestamp such as "2024-01-15T00:00:00.000Z" to its date.
func dateOnly(v string) string {
	if len(v) > len(dateLayout) {
		return v[:len(dateLayout)]
	}
	return v
}

// parseMinutes accepts "32", "32:15" and empty strings for players who did not play.
func parseMinutes(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	whole, secs, hasSecs := strings.Cut(v, ":")
	m, err := strconv.Atoi(whole)
	if err != nil {
		return 0, fmt.Errorf("minutes %q: %w", v, err)
	}
	out := float64(m)
	if hasSecs {
		s, err := strconv.Atoi(secs)
		if err != nil {
			return 0, fmt.Errorf("minutes %q: %w", v, err)
		}
		out += float64(s) / 60
	}
	return out, nil
}

// primaryPosition keeps the first listed position, so "G-F" groups with guards.
func primaryPosition(v string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(v), "-")
	return strings.ToUpper(first)
}

// fantasyPositions splits "G-F" into every listed position.
func fantasyPositions(v string) []string {
	out := make([]string, 0, 2)
	for _, part := range strings.Split(v, "-") {
		if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseHeight turns feet-inches such as "6-6" into inches; anything else is 0.
func parseHeight(v string) int {
	feet, inches, ok := strings.Cut(strings.TrimSpace(v), "-")
	if !ok {
		return 0
	}
	f, err := strconv.Atoi(feet)
	if err != nil {
		return 0
	}
	i, err := strconv.Atoi(inches)
	if err != nil {
		return 0
	}
	return f*12 + i
}
