package config

// HistoryConfig points at the ClickHouse database that keeps every run's projections. An empty
// DSN disables history.
type HistoryConfig struct {
	DSN string `validate:"omitempty,url"`
}

func loadHistory() HistoryConfig {
	return HistoryConfig{DSN: envOrDefault(envClickHouseDSN, "")}
}
