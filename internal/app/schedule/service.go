// Package schedule serves scheduled matchups by week.
package schedule

import (
	"context"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/projections"
)

// Store defines the schedule reads the service needs.
type Store interface {
	MatchupsBetween(ctx context.Context, start, end time.Time) ([]matchups.Matchup, error)
}

// Service coordinates schedule reads.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Week returns the Monday-to-Monday window containing day and its matchups. A zero day selects
// the current week.
func (s *Service) Week(ctx context.Context, day time.Time) (projections.Week, []matchups.Matchup, error) {
	if day.IsZero() {
		day = s.now()
	}
	week := projections.CurrentWeek(day.UTC())
	items, err := s.store.MatchupsBetween(ctx, week.Start, week.End)
	if err != nil {
		return week, nil, err
	}
	if items == nil {
		items = []matchups.Matchup{}
	}
	return week, items, nil
}
