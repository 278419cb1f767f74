package projections

import (
	"context"
	"errors"
	"testing"

	domainprojections "github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/store"
	"github.com/preston-bernstein/nba-projections-service/internal/testutil"
)

type stubStore struct {
	items      []domainprojections.Projection
	lastFilter store.ProjectionFilter
}

func (s *stubStore) ListProjections(_ context.Context, filter store.ProjectionFilter) ([]domainprojections.Projection, error) {
	s.lastFilter = filter
	return s.items, nil
}

type stubSnapshots struct {
	week     domainprojections.WeekSnapshot
	err      error
	lastDate string
}

func (s *stubSnapshots) LoadWeek(date string) (domainprojections.WeekSnapshot, error) {
	s.lastDate = date
	return s.week, s.err
}

func (s *stubSnapshots) Weeks() ([]string, error) {
	return []string{s.week.WeekStart}, s.err
}

func TestServiceProjectionsPassesFilter(t *testing.T) {
	st := &stubStore{items: []domainprojections.Projection{testutil.SampleProjection("g1", "p1", 10)}}
	svc := NewService(st, nil)

	filter := store.ProjectionFilter{PlayerID: "p1"}
	got, err := svc.Projections(context.Background(), filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || st.lastFilter != filter {
		t.Fatalf("unexpected result %+v with filter %+v", got, st.lastFilter)
	}
}

func TestServiceWeekUsesSnapshots(t *testing.T) {
	snaps := &stubSnapshots{week: domainprojections.WeekSnapshot{WeekStart: "2024-01-15"}}
	svc := NewService(&stubStore{}, snaps)

	got, err := svc.Week("2024-01-17")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WeekStart != "2024-01-15" || snaps.lastDate != "2024-01-17" {
		t.Fatalf("unexpected week %+v for date %s", got, snaps.lastDate)
	}
	weeks, err := svc.Weeks()
	if err != nil || len(weeks) != 1 {
		t.Fatalf("unexpected weeks %v, err %v", weeks, err)
	}
}

func TestServiceWeekWithoutSnapshots(t *testing.T) {
	svc := NewService(&stubStore{}, nil)
	if _, err := svc.Week("2024-01-15"); !errors.Is(err, ErrSnapshotsDisabled) {
		t.Fatalf("expected ErrSnapshotsDisabled, got %v", err)
	}
	if _, err := svc.Weeks(); !errors.Is(err, ErrSnapshotsDisabled) {
		t.Fatalf("expected ErrSnapshotsDisabled, got %v", err)
	}
}
