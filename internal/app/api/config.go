package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.temporal.io/sdk/client"

	platformkafka "github.com/Apurer/go-gin-inventory-server/internal/platform/kafka"
)

const defaultOrderStatusTopic = "order-status-changed"

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                 string
	PostgresDSN          string
	TemporalAddress      string
	TemporalNamespace    string
	TemporalDisabled     bool
	OrderAdvanceOnUpdate bool
	KafkaBrokers         []string
	OrderStatusTopic     string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                 envDefault("PORT", "8080"),
		PostgresDSN:          strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:      envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:    envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:     isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		OrderAdvanceOnUpdate: true,
		KafkaBrokers:         platformkafka.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		OrderStatusTopic:     envDefault("KAFKA_ORDER_STATUS_TOPIC", defaultOrderStatusTopic),
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	if raw := strings.TrimSpace(os.Getenv("ORDER_ADVANCE_ON_UPDATE")); raw != "" {
		advance, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("ORDER_ADVANCE_ON_UPDATE must be a boolean, got %q", raw)
		}
		cfg.OrderAdvanceOnUpdate = advance
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
