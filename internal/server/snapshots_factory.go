package server

import (
	"log/slog"

	"github.com/preston-bernstein/nba-projections-service/internal/config"
	"github.com/preston-bernstein/nba-projections-service/internal/snapshots"
)

type snapshotComponents struct {
	store  *snapshots.FSStore
	writer *snapshots.Writer
}

// buildSnapshots returns empty components when snapshots are disabled.
func buildSnapshots(cfg config.SnapshotConfig, logger *slog.Logger) snapshotComponents {
	if !cfg.Enabled || cfg.Folder == "" {
		return snapshotComponents{}
	}
	return snapshotComponents{
		store:  snapshots.NewFSStore(cfg.Folder),
		writer: snapshots.NewWriter(cfg.Folder, cfg.RetentionWeeks, logger),
	}
}
