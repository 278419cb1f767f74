package config

// SnapshotConfig controls the weekly projection snapshots written after each run.
type SnapshotConfig struct {
	Enabled        bool
	Folder         string `validate:"required_if=Enabled true"`
	RetentionWeeks int    `validate:"gte=1"`
}

func loadSnapshots() SnapshotConfig {
	return SnapshotConfig{
		Enabled:        boolEnvOrDefault(envSnapshotsEnabled, true),
		Folder:         envOrDefault(envSnapshotFolder, defaultSnapshotFolder),
		RetentionWeeks: intEnvOrDefault(envSnapshotRetention, defaultSnapshotRetention, 1),
	}
}
