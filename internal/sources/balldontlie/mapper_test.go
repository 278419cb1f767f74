package balldontlie

import (
	"testing"
	"time"
)

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"32", 32, false},
		{"32:15", 32.25, false},
		{" 12:30 ", 12.5, false},
		{"abc", 0, true},
		{"12:xx", 0, true},
	}
	for _, tc := range cases {
		got, err := parseMinutes(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%q: unexpected error state %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestPrimaryPosition(t *testing.T) {
	cases := map[string]string{"G-F": "G", "c": "C", "": "", "F": "F"}
	for in, want := range cases {
		if got := primaryPosition(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestParseGameTimeFallsBackToDate(t *testing.T) {
	got, err := parseGameTime("", "2024-01-15T00:00:00.000Z")
	if err != nil || !got.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected fallback %s %v", got, err)
	}

	got, err = parseGameTime("2024-01-16T00:30:00.000Z", "2024-01-15")
	if err != nil || !got.Equal(time.Date(2024, 1, 16, 0, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected datetime %s %v", got, err)
	}

	if _, err := parseGameTime("", "not a date"); err == nil {
		t.Fatal("expected error for unreadable date")
	}
}

func TestMapGameRejectsUnreadableDate(t *testing.T) {
	if _, err := mapGame(gameResponse{ID: 9, Date: "soon"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("30"); got != 30*time.Second {
		t.Fatalf("expected 30s, got %s", got)
	}
	if got := parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"); got != 0 {
		t.Fatalf("expected http dates ignored, got %s", got)
	}
}

func TestParseHeight(t *testing.T) {
	cases := map[string]int{
		"6-6":   78,
		"7-0":   84,
		"":      0,
		"six":   0,
		"6-x":   0,
		" 5-11": 71,
	}
	for in, want := range cases {
		if got := parseHeight(in); got != want {
			t.Fatalf("parseHeight(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestFantasyPositions(t *testing.T) {
	got := fantasyPositions("g-f")
	if len(got) != 2 || got[0] != "G" || got[1] != "F" {
		t.Fatalf("unexpected positions %v", got)
	}
	if got := fantasyPositions(""); len(got) != 0 {
		t.Fatalf("expected no positions, got %v", got)
	}
}
