package players

import (
	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
)

// Player is the roster profile used for forecasting plus fantasy metadata.
// A nil Team means the player is unsigned; a nil InjuryStatus means healthy.
type Player struct {
	ID               string      `json:"playerId" bson:"playerId"`
	RotowireID       string      `json:"rotowireId,omitempty" bson:"rotowireId,omitempty"`
	FirstName        string      `json:"firstName" bson:"firstName"`
	LastName         string      `json:"lastName" bson:"lastName"`
	FantasyPositions []string    `json:"fantasyPositions" bson:"fantasyPositions"`
	Position         string      `json:"position" bson:"position"`
	Team             *teams.Team `json:"team" bson:"team"`
	Height           int         `json:"height" bson:"height"`
	Weight           int         `json:"weight" bson:"weight"`
	Age              int         `json:"age" bson:"age"`
	JerseyNumber     *int        `json:"jerseyNumber,omitempty" bson:"jerseyNumber,omitempty"`
	DepthChartOrder  *int        `json:"depthChartOrder" bson:"depthChartOrder"`
	InjuryStatus     *string     `json:"injuryStatus" bson:"injuryStatus"`
	RecentNews       *string     `json:"recentNews,omitempty" bson:"recentNews,omitempty"`
	FantasyOutlook   *string     `json:"fantasyOutlook,omitempty" bson:"fantasyOutlook,omitempty"`
	DropCount        *int        `json:"dropCount,omitempty" bson:"dropCount,omitempty"`
	AddCount         *int        `json:"addCount,omitempty" bson:"addCount,omitempty"`

	CurrentWeekProjections []projections.Projection `json:"currentWeekProjections" bson:"currentWeekProjections"`
}

// IsRostered reports whether the player currently belongs to a team.
func (p Player) IsRostered() bool {
	return p.Team != nil && p.Team.ID != ""
}

// IsStarter reports the expected current role: rank 1 on the depth chart.
func (p Player) IsStarter() bool {
	return p.DepthChartOrder != nil && *p.DepthChartOrder == 1
}

// IsInjured reports whether an injury status is set.
func (p Player) IsInjured() bool {
	return p.InjuryStatus != nil
}

// FullName joins first and last names.
func (p Player) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
