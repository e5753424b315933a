package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	platformkafka "github.com/Apurer/store-orders-api/internal/platform/kafka"
)

// Publisher backends selectable through PUBLISHER.
const (
	PublisherLog   = "log"
	PublisherKafka = "kafka"
	PublisherSQS   = "sqs"
)

// Config carries environment-driven settings shared by the API, worker and purger processes.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	KafkaBrokers    []string
	KafkaGroupID    string
	ConsumerEnabled bool

	Publisher   string
	SQSQueueURL string
	SQSRegion   string
	SQSEndpoint string

	SessionTTL           time.Duration
	SessionPurgeInterval time.Duration
}

// LoadConfig reads a .env file when present, then environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaBrokers:      platformkafka.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaGroupID:      envDefault("KAFKA_GROUP_ID", "store-orders"),
		ConsumerEnabled:   isTruthy(os.Getenv("CONSUMER_ENABLED")),
		Publisher:         strings.ToLower(envDefault("PUBLISHER", PublisherLog)),
		SQSQueueURL:       strings.TrimSpace(os.Getenv("SQS_QUEUE_URL")),
		SQSRegion:         strings.TrimSpace(os.Getenv("SQS_REGION")),
		SQSEndpoint:       strings.TrimSpace(os.Getenv("SQS_ENDPOINT")),
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL"); err != nil {
		return Config{}, err
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_PURGE_INTERVAL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("SESSION_PURGE_INTERVAL_MINUTES must be a positive integer")
		}
		cfg.SessionPurgeInterval = time.Duration(minutes) * time.Minute
	}

	switch cfg.Publisher {
	case PublisherLog:
	case PublisherKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return Config{}, fmt.Errorf("PUBLISHER=kafka requires KAFKA_BROKERS")
		}
	case PublisherSQS:
		if cfg.SQSQueueURL == "" {
			return Config{}, fmt.Errorf("PUBLISHER=sqs requires SQS_QUEUE_URL")
		}
	default:
		return Config{}, fmt.Errorf("PUBLISHER must be one of %s, %s or %s, got %q", PublisherLog, PublisherKafka, PublisherSQS, cfg.Publisher)
	}
	if cfg.ConsumerEnabled && len(cfg.KafkaBrokers) == 0 {
		return Config{}, fmt.Errorf("CONSUMER_ENABLED requires KAFKA_BROKERS")
	}
	return cfg, nil
}

func durationEnv(key string) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 24h", key)
	}
	return d, nil
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
