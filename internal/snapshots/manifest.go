package snapshots

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"time"
)

const manifestVersion = 2

// Manifest describes the retained weekly snapshots.
type Manifest struct {
	Version     int             `json:"version"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Retention   Retention       `json:"retention"`
	Projections ProjectionsMeta `json:"projections"`
}

type Retention struct {
	ProjectionWeeks int `json:"projectionWeeks"`
}

// ProjectionsMeta lists retained weeks oldest first. Counts holds the projection count of each
// retained week.
type ProjectionsMeta struct {
	Weeks         []string       `json:"weeks"`
	Counts        map[string]int `json:"counts"`
	LastRefreshed time.Time      `json:"lastRefreshed"`
	LastRunID     string         `json:"lastRunId,omitempty"`
}

func defaultManifest(retentionWeeks int) Manifest {
	return Manifest{
		Version:   manifestVersion,
		Retention: Retention{ProjectionWeeks: retentionWeeks},
		Projections: ProjectionsMeta{
			Weeks:  []string{},
			Counts: map[string]int{},
		},
	}
}

// record notes a written week and replaces the retained list with kept. Counts of weeks no
// longer kept are dropped.
func (m *Manifest) record(weekStart, runID string, count int, kept []string, at time.Time) {
	if m.Projections.Counts == nil {
		m.Projections.Counts = map[string]int{}
	}
	m.Projections.Counts[weekStart] = count
	for week := range m.Projections.Counts {
		if !slices.Contains(kept, week) {
			delete(m.Projections.Counts, week)
		}
	}
	m.Version = manifestVersion
	m.Projections.Weeks = kept
	m.Projections.LastRefreshed = at
	m.Projections.LastRunID = runID
}

// readManifest falls back to an empty manifest when the file is missing or unreadable.
func readManifest(path string, retentionWeeks int) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultManifest(retentionWeeks), err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return defaultManifest(retentionWeeks), err
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest, at time.Time) error {
	m.GeneratedAt = at
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(basePath, manifestName), data)
}

// writeFileAtomic replaces path through a temporary sibling so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
