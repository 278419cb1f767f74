package snapshots

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
)

func TestWriterWritesSnapshotAndManifest(t *testing.T) {
	w := newTestWriter(t, 4)
	writeSnapshot(t, w, simpleSnapshot("2024-01-15"))
	requireSnapshotExists(t, w, "2024-01-15")

	data, err := os.ReadFile(filepath.Join(w.BasePath(), "manifest.json"))
	if err != nil {
		t.Fatalf("expected manifest, got err %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	assertWeeksEqual(t, m.Projections.Weeks, []string{"2024-01-15"})
	if m.Projections.LastRunID != "run-2024-01-15" || m.Retention.ProjectionWeeks != 4 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.Version != manifestVersion || m.Projections.Counts["2024-01-15"] != 2 {
		t.Fatalf("expected version and projection count, got %+v", m)
	}
}

func TestWriterSortsProjections(t *testing.T) {
	w := newTestWriter(t, 4)
	writeSnapshot(t, w, simpleSnapshot("2024-01-15"))

	got, err := NewFSStore(w.BasePath()).LoadWeek("2024-01-15")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Projections) != 2 || got.Projections[0].GameID != "g1" {
		t.Fatalf("expected projections ordered by date, got %+v", got.Projections)
	}
}

func TestWriterReplacesSameWeek(t *testing.T) {
	w := newTestWriter(t, 4)
	writeSnapshot(t, w, simpleSnapshot("2024-01-15"))

	next := simpleSnapshot("2024-01-15")
	next.RunID = "run-2"
	next.Projections = next.Projections[:1]
	writeSnapshot(t, w, next)

	got, err := NewFSStore(w.BasePath()).LoadWeek("2024-01-15")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.RunID != "run-2" || len(got.Projections) != 1 {
		t.Fatalf("expected latest run to replace the week, got %+v", got)
	}
}

func TestWriterPrunesOldWeeks(t *testing.T) {
	w := newTestWriter(t, 1)
	for _, week := range []string{"2023-12-25", "2024-01-08", "2024-01-15"} {
		writeSnapshot(t, w, simpleSnapshot(week))
	}

	if _, err := os.Stat(filepath.Join(w.BasePath(), "projections", "2023-12-25.json")); err == nil {
		t.Fatalf("expected old snapshot to be pruned")
	}
	requireSnapshotExists(t, w, "2024-01-08")
	requireSnapshotExists(t, w, "2024-01-15")

	weeks, err := NewFSStore(w.BasePath()).Weeks()
	if err != nil {
		t.Fatalf("weeks: %v", err)
	}
	assertWeeksEqual(t, weeks, []string{"2024-01-08", "2024-01-15"})
}

func TestWriterRejectsBadInput(t *testing.T) {
	var nilWriter *Writer
	if err := nilWriter.SaveProjections(context.Background(), simpleSnapshot("2024-01-15")); err == nil {
		t.Fatalf("expected error for nil writer")
	}

	w := newTestWriter(t, 1)
	for _, week := range []string{"", "15-01-2024"} {
		if err := w.SaveProjections(context.Background(), projections.WeekSnapshot{WeekStart: week}); err == nil {
			t.Fatalf("expected error for week start %q", week)
		}
	}
}

func TestWriterWritesEmptyWeek(t *testing.T) {
	w := newTestWriter(t, 1)
	writeSnapshot(t, w, projections.WeekSnapshot{WeekStart: "2024-01-15"})

	got, err := NewFSStore(w.BasePath()).LoadWeek("2024-01-15")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Projections == nil || len(got.Projections) != 0 {
		t.Fatalf("expected empty, non-nil projections, got %#v", got.Projections)
	}
}

func TestNewWriterDefaultsRetention(t *testing.T) {
	w := NewWriter(t.TempDir(), 0, nil)
	if w.retentionWeeks != defaultRetentionWeeks {
		t.Fatalf("expected retention to default, got %d", w.retentionWeeks)
	}
}

func TestListWeeksIgnoresNonJSONAndDirs(t *testing.T) {
	w := newTestWriter(t, 1)
	dir := filepath.Join(w.BasePath(), "projections")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2024-01-15.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write extra file: %v", err)
	}

	weeks, err := w.listWeeks()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertWeeksEqual(t, weeks, []string{"2024-01-15"})
}

func TestBasePathExposesRoot(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base, 1, nil)
	if w.BasePath() != base {
		t.Fatalf("expected base path %s, got %s", base, w.BasePath())
	}
	var nilWriter *Writer
	if nilWriter.BasePath() != "" {
		t.Fatalf("expected empty base path for nil writer")
	}
}
