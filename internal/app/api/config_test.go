package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Run from an empty directory so a developer's .env never leaks into assertions.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "POSTGRES_DSN", "MAX_DAILY_CAPACITY_ML", "CAPACITY_TIMEZONE",
		"ENFORCE_STATUS_ORDER", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"KAFKA_BROKERS", "KAFKA_ORDER_EVENTS_TOPIC", "CAPACITY_SNAPSHOT_SCHEDULE",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, int64(100000), cfg.MaxDailyCapacity)
	require.Equal(t, "UTC", cfg.CapacityLocation.String())
	require.False(t, cfg.EnforceStatusOrder)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "orders.events", cfg.OrderEventsTopic)
	require.Equal(t, "@every 5m", cfg.CapacitySnapshotSchedule)
}

func TestLoadConfig_Overrides(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_DAILY_CAPACITY_ML", "5000")
	t.Setenv("CAPACITY_TIMEZONE", "Asia/Kolkata")
	t.Setenv("ENFORCE_STATUS_ORDER", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CAPACITY_SNAPSHOT_SCHEDULE", "off")
	t.Setenv("TEMPORAL_DISABLED", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, int64(5000), cfg.MaxDailyCapacity)
	require.Equal(t, "Asia/Kolkata", cfg.CapacityLocation.String())
	require.True(t, cfg.EnforceStatusOrder)
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.Empty(t, cfg.CapacitySnapshotSchedule)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	t.Setenv("MAX_DAILY_CAPACITY_ML", "-1")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "MAX_DAILY_CAPACITY_ML")

	t.Setenv("MAX_DAILY_CAPACITY_ML", "")
	t.Setenv("CAPACITY_TIMEZONE", "Mars/Olympus")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "CAPACITY_TIMEZONE")
}

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)
	require.NoError(t, os.Unsetenv("MAX_DAILY_CAPACITY_ML"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MAX_DAILY_CAPACITY_ML=2500\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, int64(2500), cfg.MaxDailyCapacity)
}
