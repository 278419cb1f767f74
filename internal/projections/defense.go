package projections

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

const (
	// DefenseWindow is the trailing window used for opponent defense ratings.
	DefenseWindow = 50 * timeutil.Day
	// MinDefenseDates is the number of distinct game dates the window needs before it is trusted.
	MinDefenseDates = 20
)

// ErrNoDefenseRating is returned when no qualifying games exist for a rating key.
var ErrNoDefenseRating = errors.New("no defense rating")

// DefenseKey identifies what a team allows to one position in one role.
type DefenseKey struct {
	OpposingTeamID string
	Position       string
	Starter        bool
}

func (k DefenseKey) String() string {
	role := "bench"
	if k.Starter {
		role = "starter"
	}
	return fmt.Sprintf("%s/%s/%s", k.OpposingTeamID, k.Position, role)
}

// DefenseRating is the per-minute production a team allows for one key.
// Rates[c] * Minutes == Totals[c].
type DefenseRating struct {
	Rates   StatLine
	Totals  StatLine
	Minutes float64
	Games   int
}

// DefenseTable holds every computed rating for a run.
type DefenseTable struct {
	ratings map[DefenseKey]DefenseRating
	widened bool
}

// Rating returns the rating for key or ErrNoDefenseRating.
func (t DefenseTable) Rating(key DefenseKey) (DefenseRating, error) {
	r, ok := t.ratings[key]
	if !ok {
		return DefenseRating{}, fmt.Errorf("%w: %s", ErrNoDefenseRating, key)
	}
	return r, nil
}

// Len returns the number of rated keys.
func (t DefenseTable) Len() int {
	return len(t.ratings)
}

// Widened reports whether the sparse-window fallback was used.
func (t DefenseTable) Widened() bool {
	return t.widened
}

// Keys returns the rated keys in a stable order.
func (t DefenseTable) Keys() []DefenseKey {
	keys := make([]DefenseKey, 0, len(t.ratings))
	for k := range t.ratings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.OpposingTeamID != b.OpposingTeamID {
			return a.OpposingTeamID < b.OpposingTeamID
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return !a.Starter && b.Starter
	})
	return keys
}

// ComputeDefenseRatings groups recent games by (opposing team, position, started) and divides
// each category sum by the summed minutes, giving a per-minute allowance.
//
// Games from the last DefenseWindow are used unless they cover fewer than MinDefenseDates
// distinct dates, in which case every game before now is used.
func ComputeDefenseRatings(logs []gamelogs.GameLog, now time.Time) DefenseTable {
	cutoff := now.Add(-DefenseWindow)
	window := make([]gamelogs.GameLog, 0, len(logs))
	dates := make(map[string]struct{})
	for _, g := range logs {
		if !g.IsActive || !g.Date.After(cutoff) || g.Date.After(now) {
			continue
		}
		window = append(window, g)
		dates[timeutil.FormatDate(g.Date.UTC())] = struct{}{}
	}

	widened := false
	if len(dates) < MinDefenseDates {
		widened = true
		window = window[:0]
		for _, g := range logs {
			if g.IsActive && g.Date.Before(now) {
				window = append(window, g)
			}
		}
	}

	type group struct {
		totals  StatLine
		minutes float64
		games   int
	}
	groups := make(map[DefenseKey]*group)
	for _, g := range window {
		key := DefenseKey{OpposingTeamID: g.OpposingTeam.ID, Position: g.Position, Starter: g.IsStarter}
		grp, ok := groups[key]
		if !ok {
			grp = &group{}
			groups[key] = grp
		}
		line := StatLineFromGameLog(g)
		for i := range line {
			grp.totals[i] += line[i]
		}
		grp.minutes += g.Minutes
		grp.games++
	}

	table := DefenseTable{ratings: make(map[DefenseKey]DefenseRating, len(groups)), widened: widened}
	for key, grp := range groups {
		if grp.minutes <= 0 {
			continue
		}
		var rates StatLine
		for i := range grp.totals {
			rates[i] = grp.totals[i] / grp.minutes
		}
		table.ratings[key] = DefenseRating{
			Rates:   rates,
			Totals:  grp.totals,
			Minutes: grp.minutes,
			Games:   grp.games,
		}
	}
	return table
}
