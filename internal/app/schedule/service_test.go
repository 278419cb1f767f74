package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/store"
	"github.com/preston-bernstein/nba-projections-service/internal/testutil"
)

func TestWeekReturnsMatchupsOfTheWeek(t *testing.T) {
	mem := store.NewMemoryStore()
	now := testutil.ReferenceNow
	_ = mem.UpsertMatchups(context.Background(), []matchups.Matchup{
		testutil.SampleMatchup("in", "bos", "lal", now.Add(24*time.Hour)),
		testutil.SampleMatchup("next", "bos", "lal", now.AddDate(0, 0, 7)),
	})
	svc := NewService(mem)
	svc.now = testutil.NowAt(now)

	week, items, err := svc.Week(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if !week.Start.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected week start %s", week.Start)
	}
	if len(items) != 1 || items[0].GameID != "in" {
		t.Fatalf("unexpected matchups %+v", items)
	}

	_, items, err = svc.Week(context.Background(), now.AddDate(0, 0, 7))
	if err != nil || len(items) != 1 || items[0].GameID != "next" {
		t.Fatalf("expected next week's matchup, got %+v %v", items, err)
	}
}

type failingStore struct{}

func (failingStore) MatchupsBetween(context.Context, time.Time, time.Time) ([]matchups.Matchup, error) {
	return nil, errors.New("down")
}

func TestWeekPropagatesStoreError(t *testing.T) {
	if _, _, err := NewService(failingStore{}).Week(context.Background(), testutil.ReferenceNow); err == nil {
		t.Fatal("expected error")
	}
}
