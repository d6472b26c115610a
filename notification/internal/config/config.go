package config

import (
	"os"
	"strings"
)

type Config struct {
	KafkaBrokerURL        string `env:"KAFKA_BROKER_URL"`
	KafkaOrderPlacedTopic string `env:"KAFKA_ORDER_PLACED_TOPIC"`
	KafkaConsumerGroup    string `env:"KAFKA_CONSUMER_GROUP"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.KafkaBrokerURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaOrderPlacedTopic = getEnvOrDefault("KAFKA_ORDER_PLACED_TOPIC", "order-placed")
	cfg.KafkaConsumerGroup = getEnvOrDefault("KAFKA_CONSUMER_GROUP", "notification-service-group")

	return cfg, nil
}

func (c *Config) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokerURL, ",")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
