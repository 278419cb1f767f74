// Package projections serves stored forecasts and weekly snapshots to readers.
package projections

import (
	"context"
	"errors"

	domainprojections "github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/store"
)

// ErrSnapshotsDisabled is returned by week lookups when no snapshot store is configured.
var ErrSnapshotsDisabled = errors.New("snapshots disabled")

// Store defines the projection reads the service needs.
type Store interface {
	ListProjections(ctx context.Context, filter store.ProjectionFilter) ([]domainprojections.Projection, error)
}

// SnapshotStore loads weekly snapshots written by past runs.
type SnapshotStore interface {
	LoadWeek(date string) (domainprojections.WeekSnapshot, error)
	Weeks() ([]string, error)
}

// Service coordinates projection reads.
type Service struct {
	store     Store
	snapshots SnapshotStore
}

// NewService constructs a Service. snapshots may be nil.
func NewService(store Store, snapshots SnapshotStore) *Service {
	return &Service{store: store, snapshots: snapshots}
}

// Projections returns stored projections matching filter.
func (s *Service) Projections(ctx context.Context, filter store.ProjectionFilter) ([]domainprojections.Projection, error) {
	return s.store.ListProjections(ctx, filter)
}

// Week returns the snapshot of the week containing date.
func (s *Service) Week(date string) (domainprojections.WeekSnapshot, error) {
	if s.snapshots == nil {
		return domainprojections.WeekSnapshot{}, ErrSnapshotsDisabled
	}
	return s.snapshots.LoadWeek(date)
}

// Weeks lists the weeks with a retained snapshot.
func (s *Service) Weeks() ([]string, error) {
	if s.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	return s.snapshots.Weeks()
}
