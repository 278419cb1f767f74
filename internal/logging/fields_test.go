package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestWithCommon(t *testing.T) {
	existing := slog.String(FieldRunID, "run-1")
	cases := []struct {
		name     string
		service  string
		version  string
		wantKeys []string
	}{
		{name: "both", service: "nba-projections-service", version: "v1", wantKeys: []string{FieldRunID, FieldService, FieldVersion}},
		{name: "service only", service: "nba-projections-service", wantKeys: []string{FieldRunID, FieldService}},
		{name: "neither", wantKeys: []string{FieldRunID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			attrs := WithCommon([]slog.Attr{existing}, tc.service, tc.version)
			if len(attrs) != len(tc.wantKeys) {
				t.Fatalf("expected %d attrs, got %+v", len(tc.wantKeys), attrs)
			}
			for i, key := range tc.wantKeys {
				if attrs[i].Key != key {
					t.Fatalf("attr %d: expected %s, got %s", i, key, attrs[i].Key)
				}
			}
		})
	}
}

func TestWithIsNilSafe(t *testing.T) {
	if With(nil, FieldRunID, "run-1") != nil {
		t.Fatal("expected nil logger to stay nil")
	}
}

func TestWithAnnotatesRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := With(slog.New(slog.NewJSONHandler(&buf, nil)), FieldWeekStart, "2024-01-15")
	Info(logger, "forecast run complete")
	if !strings.Contains(buf.String(), `"week_start":"2024-01-15"`) {
		t.Fatalf("expected week start attribute, got %s", buf.String())
	}
}
