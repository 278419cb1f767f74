package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

// ErrSnapshotNotFound is returned when no snapshot exists for the requested week.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store defines how snapshots are loaded.
type Store interface {
	LoadWeek(date string) (projections.WeekSnapshot, error)
	Weeks() ([]string, error)
}

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadWeek reads the snapshot of the week containing date (YYYY-MM-DD).
// Files are expected at {basePath}/projections/{weekStart}.json.
func (s *FSStore) LoadWeek(date string) (projections.WeekSnapshot, error) {
	if s == nil {
		return projections.WeekSnapshot{}, errors.New("snapshot store not configured")
	}
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return projections.WeekSnapshot{}, fmt.Errorf("snapshot date %q: %w", date, err)
	}
	weekStart := timeutil.FormatDate(timeutil.WeekStart(day))

	var payload projections.WeekSnapshot
	if err := s.decodeFile(ProjectionSnapshotPath(s.basePath, weekStart), &payload); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return projections.WeekSnapshot{}, fmt.Errorf("week %s: %w", weekStart, ErrSnapshotNotFound)
		}
		return projections.WeekSnapshot{}, err
	}
	if payload.WeekStart == "" {
		payload.WeekStart = weekStart
	}
	return payload, nil
}

// Weeks lists retained week starts from the manifest, oldest first.
func (s *FSStore) Weeks() ([]string, error) {
	if s == nil {
		return nil, errors.New("snapshot store not configured")
	}
	var m Manifest
	if err := s.decodeFile(filepath.Join(s.basePath, manifestName), &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	if m.Projections.Weeks == nil {
		return []string{}, nil
	}
	return m.Projections.Weeks, nil
}

func (s *FSStore) decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
