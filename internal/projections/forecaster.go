package projections

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	domainprojections "github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

var (
	// ErrNilInput is returned when a caller passes a nil collection.
	ErrNilInput = errors.New("forecast: nil input collection")
	// ErrDuplicateGameLog is returned when two logs share a {player, game} key.
	ErrDuplicateGameLog = errors.New("forecast: duplicate game log")
	// ErrDuplicateMatchup is returned when two matchups share a game ID.
	ErrDuplicateMatchup = errors.New("forecast: duplicate matchup")
)

// SkipReason explains why a player-game pair produced no projection.
type SkipReason string

const (
	SkipNoAverage       SkipReason = "no_average"
	SkipNoDefenseRating SkipReason = "no_defense_rating"
)

// Skipped records a player-game pair omitted because of a data gap.
type Skipped struct {
	PlayerID string     `json:"playerId"`
	GameID   string     `json:"gameId"`
	Reason   SkipReason `json:"reason"`
}

// Week is the [Start, End) forecast window.
type Week struct {
	Start time.Time
	End   time.Time
}

// CurrentWeek returns the 7-day window starting Monday 00:00 UTC on or before now.
func CurrentWeek(now time.Time) Week {
	start := timeutil.WeekStart(now)
	return Week{Start: start, End: start.AddDate(0, 0, 7)}
}

// Contains reports whether t falls in [Start, End).
func (w Week) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Result is the output of one forecast run.
type Result struct {
	Now         time.Time
	Week        Week
	Projections []domainprojections.Projection
	Skipped     []Skipped
	DroppedLogs int
	Injured     int
	Averaged    int
	DefenseKeys int
	Widened     bool
}

// Forecaster runs the weekly projection pipeline. It holds no state between runs.
type Forecaster struct {
	blender Blender
	now     func() time.Time
}

// NewForecaster constructs a Forecaster using the given coefficient table.
func NewForecaster(c Coefficients) *Forecaster {
	return &Forecaster{
		blender: NewBlender(c),
		now:     time.Now,
	}
}

// Forecast reads the clock once and forecasts every rostered player's games for the rest of the
// current week.
func (f *Forecaster) Forecast(logs []gamelogs.GameLog, schedule []matchups.Matchup, roster []players.Player) (Result, error) {
	return f.ForecastAt(f.now().UTC(), logs, schedule, roster)
}

// ForecastAt is Forecast with an explicit "now". Identical inputs yield identical output.
func (f *Forecaster) ForecastAt(now time.Time, logs []gamelogs.GameLog, schedule []matchups.Matchup, roster []players.Player) (Result, error) {
	if logs == nil || schedule == nil || roster == nil {
		return Result{}, ErrNilInput
	}
	if err := checkUniqueLogs(logs); err != nil {
		return Result{}, err
	}
	if err := checkUniqueMatchups(schedule); err != nil {
		return Result{}, err
	}

	week := CurrentWeek(now)
	res := Result{
		Now:         now,
		Week:        week,
		Projections: []domainprojections.Projection{},
	}

	usable := make([]gamelogs.GameLog, 0, len(logs))
	for _, g := range logs {
		if !usableLog(g) {
			res.DroppedLogs++
			continue
		}
		usable = append(usable, g)
	}
	if len(usable) == 0 {
		return res, nil
	}

	rostered := make([]players.Player, 0, len(roster))
	for _, p := range roster {
		if p.IsRostered() {
			rostered = append(rostered, p)
		}
	}

	averages := ComputeAverages(usable, rostered, now)
	defense := ComputeDefenseRatings(usable, now)
	res.Averaged = averages.Len()
	res.DefenseKeys = defense.Len()
	res.Widened = defense.Widened()

	upcoming := upcomingMatchups(schedule, week, now)
	for _, player := range rostered {
		for _, m := range upcoming {
			team, opponent, ok := m.Sides(player.Team.ID)
			if !ok {
				continue
			}
			proj := domainprojections.Projection{
				GameID:       m.GameID,
				Date:         m.Start,
				PlayerID:     player.ID,
				PlayerTeam:   team,
				OpposingTeam: opponent,
			}

			if player.IsInjured() {
				res.Injured++
				res.Projections = append(res.Projections, proj)
				continue
			}

			avg, ok := averages.Lookup(player.ID)
			if !ok {
				res.Skipped = append(res.Skipped, Skipped{PlayerID: player.ID, GameID: m.GameID, Reason: SkipNoAverage})
				continue
			}
			rating, err := defense.Rating(DefenseKey{
				OpposingTeamID: opponent.ID,
				Position:       player.Position,
				Starter:        player.IsStarter(),
			})
			if err != nil {
				res.Skipped = append(res.Skipped, Skipped{PlayerID: player.ID, GameID: m.GameID, Reason: SkipNoDefenseRating})
				continue
			}

			f.blender.Blend(avg, rating.Rates).applyTo(&proj)
			res.Projections = append(res.Projections, proj)
		}
	}
	return res, nil
}

func usableLog(g gamelogs.GameLog) bool {
	if !g.IsActive {
		return false
	}
	if math.IsNaN(g.Minutes) || math.IsInf(g.Minutes, 0) || g.Minutes < 0 {
		return false
	}
	return g.PlayerID != "" && g.GameID != "" && !g.Date.IsZero()
}

func upcomingMatchups(schedule []matchups.Matchup, week Week, now time.Time) []matchups.Matchup {
	out := make([]matchups.Matchup, 0, len(schedule))
	for _, m := range schedule {
		if week.Contains(m.Start) && m.Start.After(now) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].GameID < out[j].GameID
	})
	return out
}

func checkUniqueLogs(logs []gamelogs.GameLog) error {
	seen := make(map[gamelogs.Key]struct{}, len(logs))
	for _, g := range logs {
		k := g.Key()
		if _, ok := seen[k]; ok {
			return fmt.Errorf("%w: player %s game %s", ErrDuplicateGameLog, k.PlayerID, k.GameID)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func checkUniqueMatchups(schedule []matchups.Matchup) error {
	seen := make(map[string]struct{}, len(schedule))
	for _, m := range schedule {
		if _, ok := seen[m.GameID]; ok {
			return fmt.Errorf("%w: game %s", ErrDuplicateMatchup, m.GameID)
		}
		seen[m.GameID] = struct{}{}
	}
	return nil
}
