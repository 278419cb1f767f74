package projections

import (
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/testutil"
)

// dailyLogs returns one starting guard game against opponent on each of the given days before now.
func dailyLogs(now time.Time, opponent string, days []int, minutes float64, points int) []gamelogs.GameLog {
	out := make([]gamelogs.GameLog, 0, len(days))
	for _, d := range days {
		out = append(out, testutil.SampleGameLog("p1", "bos", opponent, "G", true, testutil.DaysBefore(now, d), minutes, points))
	}
	return out
}

func dayRange(from, to int) []int {
	var out []int
	for d := from; d <= to; d++ {
		out = append(out, d)
	}
	return out
}

func TestComputeDefenseRatingsReconstructsTotals(t *testing.T) {
	now := testutil.ReferenceNow
	logs := dailyLogs(now, "lal", dayRange(1, 25), 30, 20)
	logs = append(logs, testutil.SampleGameLog("p2", "mia", "lal", "G", true, testutil.DaysBefore(now, 3), 18, 9))

	table := ComputeDefenseRatings(logs, now)
	if table.Widened() {
		t.Fatal("expected 25 distinct dates to satisfy the window")
	}
	rating, err := table.Rating(DefenseKey{OpposingTeamID: "lal", Position: "G", Starter: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rating.Games != 26 {
		t.Fatalf("expected 26 games, got %d", rating.Games)
	}
	if rating.Minutes != 25*30+18 {
		t.Fatalf("unexpected minutes %.1f", rating.Minutes)
	}

	var sums StatLine
	for _, g := range logs {
		line := StatLineFromGameLog(g)
		for i := range line {
			sums[i] += line[i]
		}
	}
	for _, cat := range Categories() {
		if got := rating.Rates.Get(cat) * rating.Minutes; !approxEqual(got, sums.Get(cat)) {
			t.Fatalf("%s: rate*minutes = %.6f, want %.6f", cat, got, sums.Get(cat))
		}
		if !approxEqual(rating.Totals.Get(cat), sums.Get(cat)) {
			t.Fatalf("%s: totals %.6f, want %.6f", cat, rating.Totals.Get(cat), sums.Get(cat))
		}
	}
}

func TestComputeDefenseRatingsUsesTrailingWindow(t *testing.T) {
	now := testutil.ReferenceNow
	logs := dailyLogs(now, "lal", dayRange(1, 20), 30, 20)
	// Outside the 50 day window.
	logs = append(logs, dailyLogs(now, "lal", []int{60, 70}, 30, 60)...)

	rating, err := ComputeDefenseRatings(logs, now).Rating(DefenseKey{OpposingTeamID: "lal", Position: "G", Starter: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rating.Games != 20 {
		t.Fatalf("expected old games excluded, got %d games", rating.Games)
	}
	if !approxEqual(rating.Rates.Get(Points), 20.0/30) {
		t.Fatalf("unexpected points rate %.6f", rating.Rates.Get(Points))
	}
}

func TestComputeDefenseRatingsWidensSparseWindow(t *testing.T) {
	now := testutil.ReferenceNow
	logs := dailyLogs(now, "lal", dayRange(1, 5), 30, 20)
	logs = append(logs, dailyLogs(now, "lal", []int{90, 200}, 30, 20)...)
	future := testutil.SampleGameLog("p1", "bos", "lal", "G", true, now.Add(48*time.Hour), 30, 99)
	logs = append(logs, future)

	table := ComputeDefenseRatings(logs, now)
	if !table.Widened() {
		t.Fatal("expected sparse window to widen")
	}
	rating, err := table.Rating(DefenseKey{OpposingTeamID: "lal", Position: "G", Starter: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rating.Games != 7 {
		t.Fatalf("expected every past game and no future game, got %d", rating.Games)
	}
}

func TestComputeDefenseRatingsCountsDistinctDates(t *testing.T) {
	now := testutil.ReferenceNow
	var logs []gamelogs.GameLog
	// Many players on few dates still leaves the window sparse.
	for d := 1; d <= 5; d++ {
		for p := 0; p < 10; p++ {
			logs = append(logs, testutil.SampleGameLog(string(rune('a'+p)), "bos", "lal", "F", false, testutil.DaysBefore(now, d), 20, 10))
		}
	}
	if !ComputeDefenseRatings(logs, now).Widened() {
		t.Fatal("expected window with 5 distinct dates to widen")
	}
}

func TestDefenseTableMissingKey(t *testing.T) {
	now := testutil.ReferenceNow
	table := ComputeDefenseRatings(dailyLogs(now, "lal", dayRange(1, 25), 30, 20), now)

	cases := []DefenseKey{
		{OpposingTeamID: "mia", Position: "G", Starter: true},
		{OpposingTeamID: "lal", Position: "C", Starter: true},
		{OpposingTeamID: "lal", Position: "G", Starter: false},
	}
	for _, key := range cases {
		if _, err := table.Rating(key); !errors.Is(err, ErrNoDefenseRating) {
			t.Fatalf("%s: expected ErrNoDefenseRating, got %v", key, err)
		}
	}
}

func TestComputeDefenseRatingsSkipsZeroMinuteGroups(t *testing.T) {
	now := testutil.ReferenceNow
	logs := dailyLogs(now, "lal", dayRange(1, 25), 30, 20)
	logs = append(logs, testutil.SampleGameLog("p9", "mia", "lal", "C", false, testutil.DaysBefore(now, 2), 0, 0))

	table := ComputeDefenseRatings(logs, now)
	if _, err := table.Rating(DefenseKey{OpposingTeamID: "lal", Position: "C", Starter: false}); !errors.Is(err, ErrNoDefenseRating) {
		t.Fatalf("expected zero-minute group to be unrated, got %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("expected one rated key, got %d", table.Len())
	}
}

func TestDefenseTableKeysAreSorted(t *testing.T) {
	now := testutil.ReferenceNow
	logs := []gamelogs.GameLog{
		testutil.SampleGameLog("a", "bos", "mia", "G", true, testutil.DaysBefore(now, 1), 30, 10),
		testutil.SampleGameLog("b", "bos", "lal", "G", true, testutil.DaysBefore(now, 1), 30, 10),
		testutil.SampleGameLog("c", "bos", "lal", "G", false, testutil.DaysBefore(now, 1), 30, 10),
		testutil.SampleGameLog("d", "bos", "lal", "C", true, testutil.DaysBefore(now, 1), 30, 10),
	}
	keys := ComputeDefenseRatings(logs, now).Keys()
	want := []string{"lal/C/starter", "lal/G/bench", "lal/G/starter", "mia/G/starter"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, k := range keys {
		if k.String() != want[i] {
			t.Fatalf("key %d: expected %s, got %s", i, want[i], k)
		}
	}
}
