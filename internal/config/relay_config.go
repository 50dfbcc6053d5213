package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// RelayConfig holds configuration for the audit relay service.
// This is a minimal config that only includes what the relay needs.
type RelayConfig struct {
	MongoURI       string        `env:"MONGO_URI,required"`
	MongoDatabase  string        `env:"MONGO_DATABASE" envDefault:"school"`
	RabbitMQURL    string        `env:"RABBITMQ_URL,required"`
	AuditQueueName string        `env:"AUDIT_QUEUE_NAME" envDefault:"audit_events"`
	PollInterval   time.Duration `env:"RELAY_POLL_INTERVAL" envDefault:"15s"`
	HealthPort     string        `env:"RELAY_HEALTH_PORT" envDefault:"8090"`

	Log LogConfig `envPrefix:"LOG_"`
}

func LoadRelayConfig() *RelayConfig {
	_ = godotenv.Load(".env")

	var cfg RelayConfig
	if err := env.Parse(&cfg); err != nil {
		panic("Failed to load relay configuration: " + err.Error())
	}
	return &cfg
}
