package projections

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCoefficientsMatchFit(t *testing.T) {
	c := DefaultCoefficients()
	cases := []struct {
		cat  Category
		want Coefficient
	}{
		{FieldGoalsAttempted, Coefficient{-0.53993, 0.95129, 2.76978}},
		{Points, Coefficient{-0.70407, 0.93067, 3.13543}},
		{Rebounds, Coefficient{0.04989, 0.92149, 1.37665}},
		{Steals, Coefficient{0.16662, 0.82052, 0}},
		{Blocks, Coefficient{0.02565, 0.75589, 0}},
	}
	for _, tc := range cases {
		if got := c.For(tc.cat); got != tc.want {
			t.Fatalf("%s: expected %+v, got %+v", tc.cat, tc.want, got)
		}
	}
}

func TestLoadCoefficientsOverridesDefaults(t *testing.T) {
	doc := `
points:
  intercept: -0.778
  player: 0.928
  opponent: 3.307
assists:
  player: 1.0
`
	c, err := LoadCoefficients(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.For(Points); got != (Coefficient{Intercept: -0.778, Player: 0.928, Opponent: 3.307}) {
		t.Fatalf("unexpected points coefficients %+v", got)
	}
	ast := c.For(Assists)
	if ast.Player != 1.0 || ast.Intercept != 0.00069 || ast.Opponent != 1.68783 {
		t.Fatalf("expected partial override of assists, got %+v", ast)
	}
	if c.For(Rebounds) != DefaultCoefficients().For(Rebounds) {
		t.Fatal("expected untouched categories to keep defaults")
	}
}

func TestLoadCoefficientsErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		is   error
	}{
		{name: "unknown category", doc: "dunks:\n  player: 1\n"},
		{name: "steals opponent", doc: "steals:\n  opponent: 0.5\n", is: ErrOpponentTermNotAllowed},
		{name: "blocks opponent", doc: "blocks:\n  opponent: 1\n", is: ErrOpponentTermNotAllowed},
		{name: "malformed", doc: "points: [1, 2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadCoefficients(strings.NewReader(tc.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
		})
	}
}

func TestLoadCoefficientsAllowsZeroOpponentForPlayerOnly(t *testing.T) {
	c, err := LoadCoefficients(strings.NewReader("blocks:\n  opponent: 0\n  player: 0.7\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.For(Blocks).Player != 0.7 {
		t.Fatalf("expected blocks override, got %+v", c.For(Blocks))
	}
}

func TestLoadCoefficientsEmptyDocument(t *testing.T) {
	c, err := LoadCoefficients(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != DefaultCoefficients() {
		t.Fatal("expected defaults for empty document")
	}
}

func TestLoadCoefficientsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coefficients.yaml")
	if err := os.WriteFile(path, []byte("turnovers:\n  intercept: 0.5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := LoadCoefficientsFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.For(Turnovers).Intercept != 0.5 {
		t.Fatalf("expected file override, got %+v", c.For(Turnovers))
	}

	if _, err := LoadCoefficientsFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
