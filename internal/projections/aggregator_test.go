package projections

import (
	"math"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/testutil"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestComputeAveragesAppliesDailyDecay(t *testing.T) {
	now := testutil.ReferenceNow
	logs := []gamelogs.GameLog{
		testutil.SampleGameLog("p1", "bos", "lal", "G", true, now.Add(-2*time.Hour), 30, 10),
		testutil.SampleGameLog("p1", "bos", "mia", "G", true, testutil.DaysBefore(now, 1), 30, 20),
		testutil.SampleGameLog("p1", "bos", "gsw", "G", true, testutil.DaysBefore(now, 2), 30, 30),
	}
	roster := []players.Player{testutil.SamplePlayer("p1", "bos", "G", 1)}

	avg, ok := ComputeAverages(logs, roster, now).Lookup("p1")
	if !ok {
		t.Fatal("expected average for p1")
	}

	w1, w2 := DecayBase, DecayBase*DecayBase
	want := (10 + w1*20 + w2*30) / (1 + w1 + w2)
	if !approxEqual(avg.Get(Points), want) {
		t.Fatalf("expected decayed points %.6f, got %.6f", want, avg.Get(Points))
	}
}

func TestComputeAveragesStaysWithinObservedRange(t *testing.T) {
	now := testutil.ReferenceNow
	points := []int{4, 31, 18, 12, 27, 9, 22, 15}
	logs := make([]gamelogs.GameLog, 0, len(points))
	for i, pts := range points {
		logs = append(logs, testutil.SampleGameLog("p1", "bos", "lal", "F", false, testutil.DaysBefore(now, 3*i+1), 24, pts))
	}
	roster := []players.Player{testutil.SamplePlayer("p1", "bos", "F", 3)}

	avg, ok := ComputeAverages(logs, roster, now).Lookup("p1")
	if !ok {
		t.Fatal("expected average for p1")
	}
	for _, cat := range Categories() {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, g := range logs {
			v := StatLineFromGameLog(g).Get(cat)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		v := avg.Get(cat)
		if v < lo || v > hi {
			t.Fatalf("%s average %.4f outside [%.1f, %.1f]", cat, v, lo, hi)
		}
	}
}

func TestComputeAveragesIgnoresGamesFromOtherRole(t *testing.T) {
	now := testutil.ReferenceNow
	var logs []gamelogs.GameLog
	for i := 1; i <= 3; i++ {
		logs = append(logs, testutil.SampleGameLog("p1", "bos", "lal", "G", true, testutil.DaysBefore(now, i), 32, 20))
	}
	for i := 4; i <= 9; i++ {
		logs = append(logs, testutil.SampleGameLog("p1", "bos", "lal", "G", false, testutil.DaysBefore(now, i), 12, 4))
	}
	roster := []players.Player{testutil.SamplePlayer("p1", "bos", "G", 1)}

	avg, _ := ComputeAverages(logs, roster, now).Lookup("p1")
	if !approxEqual(avg.Get(Points), 20) {
		t.Fatalf("expected bench games to be ignored, got %.4f points", avg.Get(Points))
	}
}

func TestComputeAveragesFallsBackToLeaguePositionRolePool(t *testing.T) {
	now := testutil.ReferenceNow
	logs := []gamelogs.GameLog{
		// Two bench games of their own is not enough history.
		testutil.SampleGameLog("rookie", "bos", "lal", "C", false, testutil.DaysBefore(now, 1), 10, 2),
		testutil.SampleGameLog("rookie", "bos", "mia", "C", false, testutil.DaysBefore(now, 3), 10, 4),
		// Other bench centers.
		testutil.SampleGameLog("vet", "mia", "bos", "C", false, testutil.DaysBefore(now, 30), 15, 12),
		testutil.SampleGameLog("vet", "mia", "lal", "C", false, testutil.DaysBefore(now, 2), 15, 6),
		// Different position or role never enters the pool.
		testutil.SampleGameLog("star", "lal", "bos", "C", true, testutil.DaysBefore(now, 2), 36, 40),
		testutil.SampleGameLog("guard", "lal", "bos", "G", false, testutil.DaysBefore(now, 2), 20, 50),
	}
	roster := []players.Player{testutil.SamplePlayer("rookie", "bos", "C", 2)}

	avg, ok := ComputeAverages(logs, roster, now).Lookup("rookie")
	if !ok {
		t.Fatal("expected fallback average for rookie")
	}
	if want := (2.0 + 4 + 12 + 6) / 4; !approxEqual(avg.Get(Points), want) {
		t.Fatalf("expected unweighted pool mean %.2f, got %.4f", want, avg.Get(Points))
	}
}

func TestComputeAveragesOmitsPlayersWithoutAnyPool(t *testing.T) {
	now := testutil.ReferenceNow
	logs := []gamelogs.GameLog{
		testutil.SampleGameLog("p1", "bos", "lal", "G", true, testutil.DaysBefore(now, 1), 30, 20),
	}
	roster := []players.Player{testutil.SamplePlayer("center", "bos", "C", 1)}

	averages := ComputeAverages(logs, roster, now)
	if _, ok := averages.Lookup("center"); ok {
		t.Fatal("expected no average when the league pool is empty")
	}
	if averages.Len() != 0 {
		t.Fatalf("expected empty averages, got %d", averages.Len())
	}
}

func TestComputeAveragesSkipsInactiveGames(t *testing.T) {
	now := testutil.ReferenceNow
	var logs []gamelogs.GameLog
	for i := 1; i <= 3; i++ {
		logs = append(logs, testutil.SampleGameLog("p1", "bos", "lal", "G", true, testutil.DaysBefore(now, i), 30, 10))
	}
	dnp := testutil.SampleGameLog("p1", "bos", "lal", "G", true, now.Add(-time.Hour), 0, 90)
	dnp.IsActive = false
	logs = append(logs, dnp)

	avg, _ := ComputeAverages(logs, []players.Player{testutil.SamplePlayer("p1", "bos", "G", 1)}, now).Lookup("p1")
	if !approxEqual(avg.Get(Points), 10) {
		t.Fatalf("expected inactive game to be ignored, got %.4f", avg.Get(Points))
	}
}
