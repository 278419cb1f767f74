package snapshots

import (
	"fmt"
	"path/filepath"
)

const (
	kindProjections = "projections"
	manifestName    = "manifest.json"
)

// ProjectionSnapshotPath builds the path to the projections snapshot of the week starting on
// weekStart (YYYY-MM-DD).
func ProjectionSnapshotPath(basePath, weekStart string) string {
	return filepath.Join(basePath, kindProjections, fmt.Sprintf("%s.json", weekStart))
}
