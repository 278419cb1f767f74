package projections

import (
	"math"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

const (
	// DecayBase is the per-day weight multiplier applied to older games.
	DecayBase = 0.98
	// MinRoleGames is the number of role-matched games needed before a player's own history is used.
	MinRoleGames = 3
)

// Averages maps player IDs to their expected production in a typical upcoming game.
// Players whose average could not be computed are absent.
type Averages struct {
	byPlayer map[string]StatLine
}

// Lookup returns the averaged stat line for a player.
func (a Averages) Lookup(playerID string) (StatLine, bool) {
	s, ok := a.byPlayer[playerID]
	return s, ok
}

// Len returns the number of players with a defined average.
func (a Averages) Len() int {
	return len(a.byPlayer)
}

type roleKey struct {
	position string
	starter  bool
}

type pool struct {
	sum   StatLine
	count int
}

func (p pool) mean() StatLine {
	if p.count == 0 {
		return nanLine()
	}
	var out StatLine
	for i := range p.sum {
		out[i] = p.sum[i] / float64(p.count)
	}
	return out
}

// ComputeAverages builds recency-weighted averages for every player in roster.
//
// A player's games count toward the average only when the game's started flag matches the
// player's current role (depth chart rank 1 = starter). With fewer than MinRoleGames such
// games the league-wide mean for the player's position and role is used instead.
func ComputeAverages(logs []gamelogs.GameLog, roster []players.Player, now time.Time) Averages {
	byPlayer := make(map[string][]gamelogs.GameLog)
	leaguePools := make(map[roleKey]*pool)
	for _, g := range logs {
		if !g.IsActive {
			continue
		}
		byPlayer[g.PlayerID] = append(byPlayer[g.PlayerID], g)

		key := roleKey{position: g.Position, starter: g.IsStarter}
		p, ok := leaguePools[key]
		if !ok {
			p = &pool{}
			leaguePools[key] = p
		}
		line := StatLineFromGameLog(g)
		for i := range line {
			p.sum[i] += line[i]
		}
		p.count++
	}

	out := Averages{byPlayer: make(map[string]StatLine, len(roster))}
	for _, player := range roster {
		starter := player.IsStarter()
		roleGames := filterRole(byPlayer[player.ID], starter)

		var avg StatLine
		if len(roleGames) < MinRoleGames {
			fallback := pool{}
			if p, ok := leaguePools[roleKey{position: player.Position, starter: starter}]; ok {
				fallback = *p
			}
			avg = fallback.mean()
		} else {
			avg = decayedMean(roleGames, now)
		}

		if avg.Defined() {
			out.byPlayer[player.ID] = avg
		}
	}
	return out
}

func filterRole(logs []gamelogs.GameLog, starter bool) []gamelogs.GameLog {
	var out []gamelogs.GameLog
	for _, g := range logs {
		if g.IsStarter == starter {
			out = append(out, g)
		}
	}
	return out
}

// decayedMean weights each game by DecayBase^(whole days since the game).
func decayedMean(logs []gamelogs.GameLog, now time.Time) StatLine {
	var (
		weighted    StatLine
		totalWeight float64
	)
	for _, g := range logs {
		w := math.Pow(DecayBase, float64(timeutil.WholeDaysBetween(g.Date, now)))
		line := StatLineFromGameLog(g)
		for i := range line {
			weighted[i] += w * line[i]
		}
		totalWeight += w
	}

	var out StatLine
	for i := range weighted {
		out[i] = weighted[i] / totalWeight
	}
	return out
}
