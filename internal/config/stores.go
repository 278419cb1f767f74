package config

// ForecastConfig controls the scheduled forecast run.
type ForecastConfig struct {
	Enabled bool
	// Interval between scheduled runs.
	Interval Duration `validate:"gt=0"`
	// LockTTL bounds how long one replica may hold the run lock.
	LockTTL          Duration `validate:"gt=0"`
	CoefficientsPath string
}

// MongoConfig points at the MongoDB deployment holding the league collections.
type MongoConfig struct {
	URL      string
	Database string
	Timeout  Duration `validate:"gt=0"`
}

// RedisConfig enables the distributed run lock when Addr is set.
type RedisConfig struct {
	Addr     string `validate:"omitempty,hostname_port"`
	Password string
	DB       int `validate:"gte=0"`
}

func loadForecast() ForecastConfig {
	return ForecastConfig{
		Enabled:          boolEnvOrDefault(envForecastEnabled, true),
		Interval:         durationEnvOrDefault(envForecastInterval, defaultForecastInterval),
		LockTTL:          durationEnvOrDefault(envForecastLockTTL, defaultForecastLockTTL),
		CoefficientsPath: envOrDefault(envCoefficientsPath, ""),
	}
}

func loadMongo() MongoConfig {
	return MongoConfig{
		URL:      envOrDefault(envMongoURL, defaultMongoURL),
		Database: envOrDefault(envMongoDatabase, defaultMongoDatabase),
		Timeout:  durationEnvOrDefault(envMongoTimeout, defaultMongoTimeout),
	}
}

func loadRedis() RedisConfig {
	return RedisConfig{
		Addr:     envOrDefault(envRedisAddr, ""),
		Password: envOrDefault(envRedisPassword, ""),
		DB:       intEnvOrDefault(envRedisDB, 0, 0),
	}
}
