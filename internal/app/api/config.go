package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

const (
	defaultMaxDailyCapacity = 100000
	defaultOrderEventsTopic = "orders.events"
	defaultCapacitySchedule = "@every 5m"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port        string
	Environment string
	PostgresDSN string

	// MaxDailyCapacity is the milliliters deliverable per calendar day.
	MaxDailyCapacity   int64
	CapacityLocation   *time.Location
	EnforceStatusOrder bool

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	KafkaBrokers     []string
	OrderEventsTopic string

	// CapacitySnapshotSchedule is a cron spec; empty disables the snapshot job.
	CapacitySnapshotSchedule string

	OTLPEndpoint string
	OTLPInsecure bool
}

// LoadConfig reads a .env file when one exists, then environment variables, applies defaults,
// and validates basic constraints. Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	cfg := Config{
		Port:               envDefault("PORT", "8080"),
		Environment:        envDefault("ENVIRONMENT", "local"),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		MaxDailyCapacity:   defaultMaxDailyCapacity,
		EnforceStatusOrder: isTruthy(os.Getenv("ENFORCE_STATUS_ORDER")),
		TemporalAddress:    envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:  envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:   isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic:   envDefault("KAFKA_ORDER_EVENTS_TOPIC", defaultOrderEventsTopic),
		OTLPEndpoint:       strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:       isTruthy(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")),
	}
	if raw := strings.TrimSpace(os.Getenv("MAX_DAILY_CAPACITY_ML")); raw != "" {
		capacity, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || capacity < 0 {
			return Config{}, fmt.Errorf("MAX_DAILY_CAPACITY_ML must be a non-negative integer")
		}
		cfg.MaxDailyCapacity = capacity
	}
	loc, err := time.LoadLocation(envDefault("CAPACITY_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("CAPACITY_TIMEZONE: %w", err)
	}
	cfg.CapacityLocation = loc

	switch schedule := envDefault("CAPACITY_SNAPSHOT_SCHEDULE", defaultCapacitySchedule); strings.ToLower(schedule) {
	case "off", "disabled", "none":
		cfg.CapacitySnapshotSchedule = ""
	default:
		cfg.CapacitySnapshotSchedule = schedule
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
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

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
