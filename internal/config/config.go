package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config holds runtime configuration for the server.
type Config struct {
	Port        string `validate:"required,numeric"`
	LogLevel    string `validate:"oneof=debug info warn warning error"`
	LogFormat   string `validate:"oneof=text json"`
	Version     string
	DataBackend string `validate:"oneof=memory mongo"`
	AdminToken  string
	Forecast    ForecastConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	Ingest      IngestConfig
	Events      EventsConfig
	History     HistoryConfig
	Snapshots   SnapshotConfig
	Metrics     MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:        envOrDefault(envPort, defaultPort),
		LogLevel:    envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat:   envOrDefault(envLogFormat, defaultLogFormat),
		Version:     envOrDefault(envServiceVersion, ""),
		DataBackend: envOrDefault(envDataBackend, defaultDataBackend),
		AdminToken:  envOrDefault(envAdminToken, ""),
		Forecast:    loadForecast(),
		Mongo:       loadMongo(),
		Redis:       loadRedis(),
		Ingest:      loadIngest(),
		Events:      loadEvents(),
		History:     loadHistory(),
		Snapshots:   loadSnapshots(),
		Metrics:     loadMetrics(),
	}
}

// Validate reports the first set of invalid fields.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid config: %s is %s", verrs[0].Namespace(), describe(verrs[0]))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DataBackend == BackendMongo && (c.Mongo.URL == "" || c.Mongo.Database == "") {
		return errors.New("invalid config: mongo backend needs MONGODB_URL and MONGODB_DATABASE")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("not %s=%s (got %v)", fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("not %s (got %v)", fe.Tag(), fe.Value())
}
