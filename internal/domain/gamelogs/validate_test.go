package gamelogs

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
)

func validLog() GameLog {
	return GameLog{
		GameID:              "g1",
		Season:              2024,
		Date:                time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		PlayerID:            "p1",
		PlayerTeam:          teams.Team{ID: "bos"},
		OpposingTeam:        teams.Team{ID: "lal"},
		IsActive:            true,
		Minutes:             31.5,
		Points:              22,
		FieldGoalsMade:      8,
		FieldGoalsAttempted: 17,
		ThreesMade:          2,
		ThreesAttempted:     6,
		FreeThrowsMade:      4,
		FreeThrowsAttempted: 5,
		PlusMinus:           -7,
	}
}

func TestValidateAcceptsWellFormedLog(t *testing.T) {
	if err := validLog().Validate(); err != nil {
		t.Fatalf("expected valid log, got %v", err)
	}
}

func TestValidateRejectsMalformedLogs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GameLog)
	}{
		{"negative minutes", func(g *GameLog) { g.Minutes = -1 }},
		{"nan minutes", func(g *GameLog) { g.Minutes = math.NaN() }},
		{"missing game id", func(g *GameLog) { g.GameID = "" }},
		{"missing player id", func(g *GameLog) { g.PlayerID = "" }},
		{"zero date", func(g *GameLog) { g.Date = time.Time{} }},
		{"made exceeds attempted", func(g *GameLog) { g.FieldGoalsMade = 30 }},
		{"negative rebounds", func(g *GameLog) { g.ReboundsTotal = -2 }},
	}
	for _, tc := range cases {
		g := validLog()
		tc.mutate(&g)
		err := g.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("%s: expected validator errors, got %v", tc.name, err)
		}
	}
}

func TestValidateRequiresTeams(t *testing.T) {
	g := validLog()
	g.OpposingTeam = teams.Team{}
	if err := g.Validate(); !errors.Is(err, ErrMissingTeam) {
		t.Fatalf("expected ErrMissingTeam, got %v", err)
	}
}

func TestPartitionSeparatesRejectedRows(t *testing.T) {
	bad := validLog()
	bad.GameID = "g2"
	bad.Minutes = -3

	valid, rejected := Partition([]GameLog{validLog(), bad})
	if len(valid) != 1 || valid[0].GameID != "g1" {
		t.Fatalf("unexpected valid rows: %+v", valid)
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejected row, got %d", len(rejected))
	}
}

func TestKey(t *testing.T) {
	if got := validLog().Key(); got != (Key{PlayerID: "p1", GameID: "g1"}) {
		t.Fatalf("unexpected key %+v", got)
	}
}
