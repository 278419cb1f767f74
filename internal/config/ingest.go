package config

// IngestConfig selects the upstream that fills the store. An empty Source disables ingestion.
type IngestConfig struct {
	Source            string `validate:"omitempty,oneof=balldontlie"`
	BaseURL           string `validate:"omitempty,url"`
	APIKey            string
	RequestsPerMinute int `validate:"gte=0"`
	// LogWindow is how far back a recent sync reaches.
	LogWindow Duration `validate:"gt=0"`
}

func loadIngest() IngestConfig {
	return IngestConfig{
		Source:            envOrDefault(envIngestSource, ""),
		BaseURL:           envOrDefault(envBalldontlieBaseURL, ""),
		APIKey:            envOrDefault(envBalldontlieAPIKey, ""),
		RequestsPerMinute: intEnvOrDefault(envBalldontlieRPM, 0, 0),
		LogWindow:         durationEnvOrDefault(envIngestLogWindow, defaultIngestLogWindow),
	}
}
