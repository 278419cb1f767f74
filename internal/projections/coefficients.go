package projections

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrOpponentTermNotAllowed is returned when a player-only category is given an opponent weight.
var ErrOpponentTermNotAllowed = errors.New("opponent weight not allowed for category")

// Coefficient is one fitted regression triple: a + b*player + c*opponent.
type Coefficient struct {
	Intercept float64 `yaml:"intercept"`
	Player    float64 `yaml:"player"`
	Opponent  float64 `yaml:"opponent"`
}

// Coefficients is the category-indexed regression table used by the Blender.
type Coefficients [numCategories]Coefficient

// For returns the triple for a category.
func (c Coefficients) For(cat Category) Coefficient {
	return c[cat]
}

// PlayerOnly reports whether a category ignores the opponent signal.
func PlayerOnly(cat Category) bool {
	return cat == Steals || cat == Blocks
}

// DefaultCoefficients returns the fixed fit shipped with the service.
func DefaultCoefficients() Coefficients {
	var c Coefficients
	c[FieldGoalsAttempted] = Coefficient{Intercept: -0.53993, Player: 0.95129, Opponent: 2.76978}
	c[FieldGoalsMade] = Coefficient{Intercept: -0.34278, Player: 0.92786, Opponent: 3.75156}
	c[ThreesMade] = Coefficient{Intercept: -0.02234, Player: 0.86055, Opponent: 3.35542}
	c[FreeThrowsAttempted] = Coefficient{Intercept: -0.07447, Player: 0.87795, Opponent: 3.07768}
	c[FreeThrowsMade] = Coefficient{Intercept: -0.04098, Player: 0.86892, Opponent: 3.06589}
	c[Points] = Coefficient{Intercept: -0.70407, Player: 0.93067, Opponent: 3.13543}
	c[Assists] = Coefficient{Intercept: 0.00069, Player: 0.93371, Opponent: 1.68783}
	c[Rebounds] = Coefficient{Intercept: 0.04989, Player: 0.92149, Opponent: 1.37665}
	c[Turnovers] = Coefficient{Intercept: -0.01622, Player: 0.85303, Opponent: 3.22135}
	c[Steals] = Coefficient{Intercept: 0.16662, Player: 0.82052}
	c[Blocks] = Coefficient{Intercept: 0.02565, Player: 0.75589}
	return c
}

type coefficientOverride struct {
	Intercept *float64 `yaml:"intercept"`
	Player    *float64 `yaml:"player"`
	Opponent  *float64 `yaml:"opponent"`
}

// LoadCoefficients reads a YAML table keyed by category name and applies it over the defaults.
// Fields left out of a category keep their default value.
//
//	points:
//	  intercept: -0.70407
//	  player: 0.93067
//	  opponent: 3.13543
func LoadCoefficients(r io.Reader) (Coefficients, error) {
	table := DefaultCoefficients()

	var raw map[string]coefficientOverride
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return table, nil
		}
		return Coefficients{}, fmt.Errorf("decode coefficients: %w", err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cat, err := ParseCategory(name)
		if err != nil {
			return Coefficients{}, fmt.Errorf("decode coefficients: %w", err)
		}
		o := raw[name]
		if o.Intercept != nil {
			table[cat].Intercept = *o.Intercept
		}
		if o.Player != nil {
			table[cat].Player = *o.Player
		}
		if o.Opponent != nil {
			if PlayerOnly(cat) && *o.Opponent != 0 {
				return Coefficients{}, fmt.Errorf("%w: %s", ErrOpponentTermNotAllowed, cat)
			}
			table[cat].Opponent = *o.Opponent
		}
	}
	return table, nil
}

// LoadCoefficientsFile reads a YAML coefficient table from disk.
func LoadCoefficientsFile(path string) (Coefficients, error) {
	f, err := os.Open(path)
	if err != nil {
		return Coefficients{}, err
	}
	defer f.Close()
	return LoadCoefficients(f)
}
