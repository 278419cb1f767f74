// Package projections turns historical game logs and the upcoming schedule into per-game,
// per-player forecasts. Everything here is pure computation over materialized inputs.
package projections

import (
	"fmt"
	"math"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	domainprojections "github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
)

// Category is one forecast statistical category.
type Category int

const (
	FieldGoalsAttempted Category = iota
	FieldGoalsMade
	ThreesMade
	FreeThrowsAttempted
	FreeThrowsMade
	Points
	Assists
	Rebounds
	Turnovers
	Steals
	Blocks

	numCategories
)

var categoryNames = [numCategories]string{
	FieldGoalsAttempted: "fieldGoalsAttempted",
	FieldGoalsMade:      "fieldGoalsMade",
	ThreesMade:          "threesMade",
	FreeThrowsAttempted: "freeThrowsAttempted",
	FreeThrowsMade:      "freeThrowsMade",
	Points:              "points",
	Assists:             "assists",
	Rebounds:            "rebounds",
	Turnovers:           "turnovers",
	Steals:              "steals",
	Blocks:              "blocks",
}

// Categories lists every forecast category in canonical order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory resolves a category from its camelCase name.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// StatLine holds one value per category.
type StatLine [numCategories]float64

// Get returns the value for a category.
func (s StatLine) Get(c Category) float64 {
	return s[c]
}

// Defined reports whether every category holds a finite value.
func (s StatLine) Defined() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// StatLineFromGameLog extracts the forecast categories from a box score.
func StatLineFromGameLog(g gamelogs.GameLog) StatLine {
	var s StatLine
	s[FieldGoalsAttempted] = float64(g.FieldGoalsAttempted)
	s[FieldGoalsMade] = float64(g.FieldGoalsMade)
	s[ThreesMade] = float64(g.ThreesMade)
	s[FreeThrowsAttempted] = float64(g.FreeThrowsAttempted)
	s[FreeThrowsMade] = float64(g.FreeThrowsMade)
	s[Points] = float64(g.Points)
	s[Assists] = float64(g.Assists)
	s[Rebounds] = float64(g.ReboundsTotal)
	s[Turnovers] = float64(g.Turnovers)
	s[Steals] = float64(g.Steals)
	s[Blocks] = float64(g.Blocks)
	return s
}

// applyTo copies the stat line into a projection's category fields.
func (s StatLine) applyTo(p *domainprojections.Projection) {
	p.FieldGoalsAttempted = s[FieldGoalsAttempted]
	p.FieldGoalsMade = s[FieldGoalsMade]
	p.ThreesMade = s[ThreesMade]
	p.FreeThrowsAttempted = s[FreeThrowsAttempted]
	p.FreeThrowsMade = s[FreeThrowsMade]
	p.Points = s[Points]
	p.Assists = s[Assists]
	p.Rebounds = s[Rebounds]
	p.Turnovers = s[Turnovers]
	p.Steals = s[Steals]
	p.Blocks = s[Blocks]
}

// StatLineFromProjection reads the category fields of a projection.
func StatLineFromProjection(p domainprojections.Projection) StatLine {
	var s StatLine
	s[FieldGoalsAttempted] = p.FieldGoalsAttempted
	s[FieldGoalsMade] = p.FieldGoalsMade
	s[ThreesMade] = p.ThreesMade
	s[FreeThrowsAttempted] = p.FreeThrowsAttempted
	s[FreeThrowsMade] = p.FreeThrowsMade
	s[Points] = p.Points
	s[Assists] = p.Assists
	s[Rebounds] = p.Rebounds
	s[Turnovers] = p.Turnovers
	s[Steals] = p.Steals
	s[Blocks] = p.Blocks
	return s
}

func nanLine() StatLine {
	var s StatLine
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
