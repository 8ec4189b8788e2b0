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

	orderdomain "github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
)

// Defaults applied when the environment leaves a setting empty.
const (
	DefaultPort             = "8080"
	DefaultOrderEventsTopic = "brewery.order-events"
	DefaultCallbackTimeout  = 5 * time.Second
	DefaultPageSize         = 25
	DefaultShutdownTimeout  = 10 * time.Second
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	KafkaBrokers      []string
	OrderEventsTopic  string
	TransitionPolicy  orderdomain.TransitionPolicy
	CallbackTimeout   time.Duration
	CallbackPrivate   bool
	DefaultPageSize   int32
	ShutdownTimeout   time.Duration
	SeedData          bool
}

// LoadConfig reads an optional .env file, then environment variables, applies
// defaults, and validates basic constraints. Variables already set in the
// environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	policy, err := orderdomain.ParseTransitionPolicy(os.Getenv("ORDER_STATUS_TRANSITIONS"))
	if err != nil {
		return Config{}, fmt.Errorf("ORDER_STATUS_TRANSITIONS: %w", err)
	}
	cfg := Config{
		Port:              envDefault("PORT", DefaultPort),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic:  envDefault("ORDER_EVENTS_TOPIC", DefaultOrderEventsTopic),
		TransitionPolicy:  policy,
		CallbackTimeout:   DefaultCallbackTimeout,
		CallbackPrivate:   isTruthy(os.Getenv("CALLBACK_ALLOW_PRIVATE_TARGETS")),
		DefaultPageSize:   DefaultPageSize,
		ShutdownTimeout:   DefaultShutdownTimeout,
		SeedData:          isTruthy(os.Getenv("SEED_DATA")),
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric")
	}
	if seconds, ok, err := positiveInt("CALLBACK_TIMEOUT_SECONDS"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.CallbackTimeout = time.Duration(seconds) * time.Second
	}
	if size, ok, err := positiveInt("DEFAULT_PAGE_SIZE"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.DefaultPageSize = int32(size)
	}
	if seconds, ok, err := positiveInt("SHUTDOWN_TIMEOUT_SECONDS"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.ShutdownTimeout = time.Duration(seconds) * time.Second
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func positiveInt(key string) (int, bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || value <= 0 {
		return 0, false, fmt.Errorf("%s must be a positive integer", key)
	}
	return int(value), true, nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
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
