package teams

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
)

// ErrTeamNotFound is returned by TeamByID for unknown teams.
var ErrTeamNotFound = errors.New("team not found")

// Store defines the contract for retrieving teams.
type Store interface {
	Teams(ctx context.Context) ([]teams.Team, error)
}

// Service coordinates team lookups using a Store.
type Service struct {
	store Store
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Teams returns the league's teams.
func (s *Service) Teams(ctx context.Context) ([]teams.Team, error) {
	return s.store.Teams(ctx)
}

// TeamByID finds a team by ID or abbreviation, ignoring case.
func (s *Service) TeamByID(ctx context.Context, id string) (teams.Team, error) {
	items, err := s.store.Teams(ctx)
	if err != nil {
		return teams.Team{}, err
	}
	for _, t := range items {
		if strings.EqualFold(t.ID, id) || strings.EqualFold(t.Abbreviation, id) {
			return t, nil
		}
	}
	return teams.Team{}, fmt.Errorf("%s: %w", id, ErrTeamNotFound)
}
