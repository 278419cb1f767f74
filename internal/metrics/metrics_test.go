package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksSourceAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordSourceAttempt("gamelogs", 10*time.Millisecond, nil)
	rec.RecordSourceAttempt("gamelogs", 15*time.Millisecond, errors.New("boom"))

	if got := rec.SourceCalls("gamelogs"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.SourceErrors("gamelogs"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}

	snap := rec.Snapshot("gamelogs")
	if snap.Calls != 2 || snap.Errors != 1 || snap.LastCallLatency != 15*time.Millisecond {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if rec.Snapshot("players") != (Snapshot{}) {
		t.Fatal("expected empty snapshot for unknown source")
	}
}

func TestRecorderTracksForecastRuns(t *testing.T) {
	rec := NewRecorder()
	rec.RecordForecastRun("scheduled", time.Second, 40, 2, nil)
	rec.RecordForecastRun("manual", 2*time.Second, 0, 0, errors.New("boom"))
	rec.RecordLockContention("scheduled")

	stats := rec.Forecast()
	if stats.Runs != 2 || stats.Errors != 1 || stats.Contended != 1 {
		t.Fatalf("unexpected counters %+v", stats)
	}
	if stats.LastProjections != 40 || stats.LastSkipped != 2 {
		t.Fatalf("expected failed run to keep last good counts, got %+v", stats)
	}
	if stats.LastDuration != 2*time.Second {
		t.Fatalf("expected last duration 2s, got %s", stats.LastDuration)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordSourceAttempt("gamelogs", time.Millisecond, nil)
	rec.RecordForecastRun("scheduled", time.Millisecond, 1, 0, nil)
	rec.RecordLockContention("scheduled")
	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	if rec.SourceCalls("gamelogs") != 0 || rec.Forecast().Runs != 0 {
		t.Fatal("expected zero values from nil recorder")
	}
}
