package config

// EventsConfig controls publishing projections to Kafka. No brokers disables publishing.
type EventsConfig struct {
	Brokers []string `validate:"omitempty,dive,hostname_port"`
	Topic   string   `validate:"required_with=Brokers"`
}

// Enabled reports whether any broker is configured.
func (c EventsConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

func loadEvents() EventsConfig {
	return EventsConfig{
		Brokers: listEnvOrDefault(envKafkaBrokers),
		Topic:   envOrDefault(envKafkaTopic, defaultKafkaTopic),
	}
}
