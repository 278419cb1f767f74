package config

import "time"

const (
	envPort               = "PORT"
	envLogLevel           = "LOG_LEVEL"
	envLogFormat          = "LOG_FORMAT"
	envServiceVersion     = "SERVICE_VERSION"
	envForecastEnabled    = "FORECAST_ENABLED"
	envForecastInterval   = "FORECAST_INTERVAL"
	envForecastLockTTL    = "FORECAST_LOCK_TTL"
	envCoefficientsPath   = "FORECAST_COEFFICIENTS_PATH"
	envDataBackend        = "DATA_BACKEND"
	envMongoURL           = "MONGODB_URL"
	envMongoDatabase      = "MONGODB_DATABASE"
	envMongoTimeout       = "MONGODB_TIMEOUT"
	envRedisAddr          = "REDIS_ADDR"
	envRedisPassword      = "REDIS_PASSWORD"
	envRedisDB            = "REDIS_DB"
	envAdminToken         = "ADMIN_TOKEN"
	envIngestSource       = "INGEST_SOURCE"
	envIngestLogWindow    = "INGEST_LOG_WINDOW"
	envBalldontlieBaseURL = "BALLDONTLIE_BASE_URL"
	envBalldontlieAPIKey  = "BALLDONTLIE_API_KEY"
	envBalldontlieRPM     = "BALLDONTLIE_REQUESTS_PER_MINUTE"
	envClickHouseDSN      = "CLICKHOUSE_DSN"
	envKafkaBrokers       = "KAFKA_BROKERS"
	envKafkaTopic         = "KAFKA_TOPIC"
	envSnapshotsEnabled   = "SNAPSHOTS_ENABLED"
	envSnapshotFolder     = "SNAPSHOT_FOLDER"
	envSnapshotRetention  = "SNAPSHOT_RETENTION_WEEKS"
	envMetricsPort        = "METRICS_PORT"
	envMetricsOn          = "METRICS_ENABLED"
	envOtelEndpoint       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService        = "OTEL_SERVICE_NAME"
	envOtelInsecure       = "OTEL_EXPORTER_OTLP_INSECURE"

	// BackendMemory keeps every collection in process and seeds it with fixture data.
	BackendMemory = "memory"
	// BackendMongo reads and writes the MongoDB collections.
	BackendMongo = "mongo"
	// IngestBalldontlie pulls teams, schedules and box scores from balldontlie.
	IngestBalldontlie = "balldontlie"

	defaultPort             = "4000"
	defaultServiceName      = "nba-projections-service"
	defaultLogLevel         = "info"
	defaultLogFormat        = "text"
	defaultForecastInterval = 6 * Duration(time.Hour)
	defaultForecastLockTTL  = 10 * Duration(time.Minute)
	defaultDataBackend      = BackendMemory
	defaultMongoURL         = "mongodb://localhost:27017"
	defaultMongoDatabase    = "nba"
	defaultMongoTimeout     = 10 * Duration(time.Second)
	defaultMetricsPort      = "9090"
	defaultIngestLogWindow  = 3 * 24 * Duration(time.Hour)
	defaultKafkaTopic       = "forecast.projections"
	defaultSnapshotFolder   = "data/snapshots"
	// Four weeks of history is enough to compare a projection against what happened.
	defaultSnapshotRetention = 4
)
