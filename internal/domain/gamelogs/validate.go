package gamelogs

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrMissingTeam is returned when a log cannot be attributed to both teams.
var ErrMissingTeam = errors.New("gamelog: player and opposing team required")

// Validate reports data-quality problems with a log coming from an upstream collaborator.
func (g GameLog) Validate() error {
	if err := validate.Struct(g); err != nil {
		return fmt.Errorf("gamelog %s/%s: %w", g.PlayerID, g.GameID, err)
	}
	if g.PlayerTeam.ID == "" || g.OpposingTeam.ID == "" {
		return fmt.Errorf("gamelog %s/%s: %w", g.PlayerID, g.GameID, ErrMissingTeam)
	}
	return nil
}

// Partition splits logs into valid rows and the validation errors of the rejected ones.
func Partition(logs []GameLog) ([]GameLog, []error) {
	valid := make([]GameLog, 0, len(logs))
	var rejected []error
	for _, g := range logs {
		if err := g.Validate(); err != nil {
			rejected = append(rejected, err)
			continue
		}
		valid = append(valid, g)
	}
	return valid, rejected
}
