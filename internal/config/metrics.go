package config

// MetricsConfig controls the Prometheus endpoint and the optional OTLP push exporter.
type MetricsConfig struct {
	Enabled bool
	Port    string `validate:"omitempty,numeric"`
	// OtlpEndpoint enables OTLP/HTTP export when set (host:port or URL).
	OtlpEndpoint string
	OtlpInsecure bool
	ServiceName  string `validate:"required"`
}

func loadMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsOn, true),
		Port:         envOrDefault(envMetricsPort, defaultMetricsPort),
		OtlpEndpoint: envOrDefault(envOtelEndpoint, ""),
		OtlpInsecure: boolEnvOrDefault(envOtelInsecure, true),
		ServiceName:  envOrDefault(envOtelService, defaultServiceName),
	}
}
