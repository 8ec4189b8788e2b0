package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	orderdomain "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"KAFKA_BROKERS", "ORDER_EVENTS_TOPIC", "ORDER_STATUS_TRANSITIONS",
		"CALLBACK_TIMEOUT_SECONDS", "DEFAULT_PAGE_SIZE", "SHUTDOWN_TIMEOUT_SECONDS", "SEED_DATA",
		"CALLBACK_ALLOW_PRIVATE_TARGETS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	require.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	require.False(t, cfg.TemporalDisabled)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, DefaultOrderEventsTopic, cfg.OrderEventsTopic)
	require.Equal(t, orderdomain.Permissive, cfg.TransitionPolicy)
	require.Equal(t, DefaultCallbackTimeout, cfg.CallbackTimeout)
	require.False(t, cfg.CallbackPrivate)
	require.Equal(t, int32(DefaultPageSize), cfg.DefaultPageSize)
	require.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("ORDER_STATUS_TRANSITIONS", "strict")
	t.Setenv("CALLBACK_TIMEOUT_SECONDS", "2")
	t.Setenv("DEFAULT_PAGE_SIZE", "50")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("SEED_DATA", "yes")
	t.Setenv("CALLBACK_ALLOW_PRIVATE_TARGETS", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr())
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, orderdomain.Strict, cfg.TransitionPolicy)
	require.Equal(t, 2*time.Second, cfg.CallbackTimeout)
	require.True(t, cfg.CallbackPrivate)
	require.Equal(t, int32(50), cfg.DefaultPageSize)
	require.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.True(t, cfg.SeedData)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                     "http",
		"ORDER_STATUS_TRANSITIONS": "lenient",
		"CALLBACK_TIMEOUT_SECONDS": "0",
		"DEFAULT_PAGE_SIZE":        "-1",
		"SHUTDOWN_TIMEOUT_SECONDS": "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
