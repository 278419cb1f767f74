package snapshots

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

const defaultRetentionWeeks = 4

// Writer persists weekly projection snapshots and the manifest, pruning old weeks.
type Writer struct {
	basePath       string
	retentionWeeks int
	logger         *slog.Logger
	now            func() time.Time

	mu sync.Mutex
}

// NewWriter constructs a writer rooted at basePath keeping retentionWeeks weeks before the
// current one.
func NewWriter(basePath string, retentionWeeks int, logger *slog.Logger) *Writer {
	if retentionWeeks <= 0 {
		retentionWeeks = defaultRetentionWeeks
	}
	return &Writer{
		basePath:       basePath,
		retentionWeeks: retentionWeeks,
		logger:         logger,
		now:            time.Now,
	}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// SaveProjections writes the week's snapshot, replacing any earlier run for the same week.
func (w *Writer) SaveProjections(ctx context.Context, week projections.WeekSnapshot) error {
	if w == nil {
		return errors.New("snapshot writer not configured")
	}
	if _, err := timeutil.ParseDate(week.WeekStart); err != nil {
		return fmt.Errorf("snapshot week start %q: %w", week.WeekStart, err)
	}
	items := append([]projections.Projection(nil), week.Projections...)
	projections.Sort(items)
	week.Projections = items
	if week.Projections == nil {
		week.Projections = []projections.Projection{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writeSnapshot(week.WeekStart, week); err != nil {
		return err
	}
	logging.Debug(logging.FromContext(ctx, w.logger), "projection snapshot written",
		logging.FieldWeekStart, week.WeekStart,
		logging.FieldCount, len(week.Projections),
	)
	return w.updateManifest(week.WeekStart, week.RunID, len(week.Projections))
}

func (w *Writer) writeSnapshot(weekStart string, payload any) error {
	target := ProjectionSnapshotPath(w.basePath, weekStart)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	return writeFileAtomic(target, data)
}

func (w *Writer) updateManifest(weekStart, runID string, count int) error {
	m, _ := readManifest(filepath.Join(w.basePath, manifestName), w.retentionWeeks)

	weeks, err := w.listWeeks()
	if err != nil {
		return err
	}
	if !slices.Contains(weeks, weekStart) {
		weeks = append(weeks, weekStart)
	}

	now := w.now().UTC()
	m.record(weekStart, runID, count, w.pruneOldSnapshots(weeks), now)
	m.Retention.ProjectionWeeks = w.retentionWeeks
	return writeManifest(w.basePath, m, now)
}

func (w *Writer) listWeeks() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(w.basePath, kindProjections))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	weeks := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		weeks = append(weeks, name[:len(name)-len(".json")])
	}
	sort.Strings(weeks)
	return weeks, nil
}

func (w *Writer) pruneOldSnapshots(weeks []string) []string {
	cutoff := timeutil.WeekStart(w.now().UTC()).AddDate(0, 0, -7*w.retentionWeeks)
	keep := make([]string, 0, len(weeks))
	for _, d := range weeks {
		parsed, err := timeutil.ParseDate(d)
		if err == nil && parsed.Before(cutoff) {
			if rmErr := os.Remove(ProjectionSnapshotPath(w.basePath, d)); rmErr != nil && !os.IsNotExist(rmErr) {
				logging.Warn(w.logger, "snapshot prune failed", logging.FieldWeekStart, d, "error", rmErr)
			}
			continue
		}
		keep = append(keep, d)
	}
	sort.Strings(keep)
	return keep
}
