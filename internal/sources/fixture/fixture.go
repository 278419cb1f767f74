// Package fixture builds a deterministic league data set for local runs and demos.
package fixture

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

const (
	// HistoryDays is how many days of box scores the data set covers.
	HistoryDays = 60
	seed        = 2024
	// Every fixture game tips off at 23:00 UTC.
	tipoff = 23 * time.Hour
)

// Dataset is a self-consistent league snapshot.
type Dataset struct {
	Teams    []teams.Team
	Players  []players.Player
	GameLogs []gamelogs.GameLog
	Matchups []matchups.Matchup
}

// Provider generates a Dataset anchored on its clock.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{now: time.Now}
}

// NewWithClock creates a fixture provider anchored on now.
func NewWithClock(now func() time.Time) *Provider {
	if now == nil {
		now = time.Now
	}
	return &Provider{now: now}
}

var leagueTeams = []teams.Team{
	{ID: "bos", Abbreviation: "BOS", City: "Boston", Name: "Celtics"},
	{ID: "lal", Abbreviation: "LAL", City: "Los Angeles", Name: "Lakers"},
	{ID: "gsw", Abbreviation: "GSW", City: "Golden State", Name: "Warriors"},
	{ID: "mia", Abbreviation: "MIA", City: "Miami", Name: "Heat"},
	{ID: "den", Abbreviation: "DEN", City: "Denver", Name: "Nuggets"},
	{ID: "nyk", Abbreviation: "NYK", City: "New York", Name: "Knicks"},
}

type slot struct {
	position string
	depth    int
	minutes  float64
	usage    float64
}

// Each team carries the same depth chart shape.
var depthChart = []slot{
	{position: "G", depth: 1, minutes: 34, usage: 0.62},
	{position: "F", depth: 1, minutes: 33, usage: 0.55},
	{position: "C", depth: 1, minutes: 30, usage: 0.50},
	{position: "G", depth: 2, minutes: 18, usage: 0.42},
	{position: "F", depth: 2, minutes: 16, usage: 0.38},
}

// Dataset returns teams, players, HistoryDays of game logs before now and every matchup of
// the current week. Output is identical for the same clock reading.
func (p *Provider) Dataset() Dataset {
	now := p.now().UTC()
	rng := rand.New(rand.NewSource(seed))

	ds := Dataset{Teams: append([]teams.Team(nil), leagueTeams...)}
	roster := make(map[string][]players.Player, len(leagueTeams))
	for ti, team := range leagueTeams {
		team := team
		for si, s := range depthChart {
			depth := s.depth
			jersey := 1 + ti*10 + si
			pl := players.Player{
				ID:               fmt.Sprintf("%s-%d", team.ID, si+1),
				FirstName:        team.City,
				LastName:         fmt.Sprintf("%s %d", s.position, si+1),
				Position:         s.position,
				FantasyPositions: []string{s.position},
				Team:             &team,
				DepthChartOrder:  &depth,
				JerseyNumber:     &jersey,
				Age:              22 + (ti+si)%12,
			}
			roster[team.ID] = append(roster[team.ID], pl)
			ds.Players = append(ds.Players, pl)
		}
	}
	// One injured starter and one unsigned player exercise the edge paths.
	injury := "Out"
	ds.Players[0].InjuryStatus = &injury
	ds.Players = append(ds.Players, players.Player{ID: "fa-1", FirstName: "Free", LastName: "Agent", Position: "G"})

	today := timeutil.StartOfDay(now)
	for d := HistoryDays; d >= 1; d-- {
		for _, m := range slate(today.AddDate(0, 0, -d)) {
			homeScore, awayScore := 95+rng.Intn(30), 95+rng.Intn(30)
			ds.GameLogs = append(ds.GameLogs, teamLogs(rng, m, m.HomeTeam, m.AwayTeam, true, homeScore, awayScore, roster[m.HomeTeam.ID])...)
			ds.GameLogs = append(ds.GameLogs, teamLogs(rng, m, m.AwayTeam, m.HomeTeam, false, awayScore, homeScore, roster[m.AwayTeam.ID])...)
		}
	}

	week := timeutil.WeekStart(now)
	for d := 0; d < 7; d++ {
		ds.Matchups = append(ds.Matchups, slate(week.AddDate(0, 0, d))...)
	}
	return ds
}

// slate returns the games played on day. The pairing depends only on the date, so a past
// slate and its box scores share game IDs.
func slate(day time.Time) []matchups.Matchup {
	round := int(day.Unix() / int64(timeutil.Day/time.Second))
	pairs := pairings(round)
	out := make([]matchups.Matchup, 0, len(pairs))
	for _, pair := range pairs {
		home, away := leagueTeams[pair[0]], leagueTeams[pair[1]]
		out = append(out, matchups.Matchup{
			GameID:   fmt.Sprintf("fx-%s-%s-%s", timeutil.FormatDate(day), home.ID, away.ID),
			Start:    day.Add(tipoff),
			HomeTeam: home,
			AwayTeam: away,
		})
	}
	return out
}

// pairings rotates teams round-robin style so every team plays once per day.
func pairings(round int) [][2]int {
	n := len(leagueTeams)
	order := make([]int, n)
	order[0] = 0
	for i := 1; i < n; i++ {
		order[i] = 1 + (i-1+round)%(n-1)
	}
	out := make([][2]int, 0, n/2)
	for i := 0; i < n/2; i++ {
		a, b := order[i], order[n-1-i]
		if round%2 == 1 {
			a, b = b, a
		}
		out = append(out, [2]int{a, b})
	}
	return out
}

func teamLogs(rng *rand.Rand, m matchups.Matchup, team, opponent teams.Team, home bool, teamScore, oppScore int, roster []players.Player) []gamelogs.GameLog {
	out := make([]gamelogs.GameLog, 0, len(roster))
	for i, pl := range roster {
		s := depthChart[i]
		minutes := s.minutes + float64(rng.Intn(9)-4)
		starter := pl.IsStarter()
		// Bench players occasionally start.
		if !starter && rng.Intn(10) == 0 {
			starter = true
		}
		fga := int(minutes*s.usage) + rng.Intn(4)
		fgm := fga * (40 + rng.Intn(16)) / 100
		tpa := fga / 3
		tpm := min(fgm, tpa*(30+rng.Intn(15))/100)
		fta := rng.Intn(8)
		ftm := fta * (70 + rng.Intn(25)) / 100
		oreb := rng.Intn(3)
		dreb := 1 + rng.Intn(int(minutes/5)+1)
		out = append(out, gamelogs.GameLog{
			GameID:              m.GameID,
			Season:              timeutil.SeasonFor(m.Start),
			Date:                m.Start,
			PlayerID:            pl.ID,
			PlayerTeam:          team,
			OpposingTeam:        opponent,
			IsHomeGame:          home,
			IsActive:            true,
			IsRegularSeason:     true,
			IsStarter:           starter,
			Position:            pl.Position,
			Minutes:             minutes,
			FieldGoalsAttempted: fga,
			FieldGoalsMade:      fgm,
			ThreesAttempted:     tpa,
			ThreesMade:          tpm,
			FreeThrowsAttempted: fta,
			FreeThrowsMade:      ftm,
			ReboundsOffensive:   oreb,
			ReboundsDefensive:   dreb,
			ReboundsTotal:       oreb + dreb,
			Assists:             rng.Intn(int(minutes/4) + 1),
			Steals:              rng.Intn(3),
			Blocks:              rng.Intn(3),
			Turnovers:           rng.Intn(4),
			Fouls:               rng.Intn(5),
			PlusMinus:           teamScore - oppScore,
			Points:              2*(fgm-tpm) + 3*tpm + ftm,
			PlayerTeamScore:     teamScore,
			OpposingTeamScore:   oppScore,
		})
	}
	return out
}
