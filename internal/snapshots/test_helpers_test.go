package snapshots

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
)

// referenceNow falls in the week starting Monday 2024-01-15.
var referenceNow = time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)

func newTestWriter(t *testing.T, retention int) *Writer {
	t.Helper()
	w := NewWriter(t.TempDir(), retention, nil)
	w.now = func() time.Time { return referenceNow }
	return w
}

func simpleSnapshot(weekStart string) projections.WeekSnapshot {
	start, _ := time.Parse("2006-01-02", weekStart)
	return projections.WeekSnapshot{
		RunID:       "run-" + weekStart,
		WeekStart:   weekStart,
		GeneratedAt: referenceNow,
		Projections: []projections.Projection{
			{GameID: "g2", PlayerID: "p1", Date: start.Add(50 * time.Hour), Points: 12},
			{GameID: "g1", PlayerID: "p1", Date: start.Add(26 * time.Hour), Points: 10},
		},
	}
}

func writeSnapshot(t *testing.T, w *Writer, snap projections.WeekSnapshot) {
	t.Helper()
	if w == nil {
		t.Fatalf("writer is nil for week %s", snap.WeekStart)
	}
	if err := w.SaveProjections(context.Background(), snap); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", snap.WeekStart, err)
	}
}

func requireSnapshotExists(t *testing.T, w *Writer, weekStart string) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(w.BasePath(), "projections", weekStart+".json")); err != nil {
		t.Fatalf("expected snapshot for %s to be written: %v", weekStart, err)
	}
}

func assertWeeksEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("weeks length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("weeks mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}
