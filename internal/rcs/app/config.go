package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
)

type Config struct {
	Issuer              string        // Optional: issuer claim on decision tokens (default: rcs)
	ServiceProviderName string        // Optional: bank name shown on the approval page (default: AussieBroadWAN Bank)
	Algorithm           string        // Optional: decision signing algorithm (RS256, ES256, EdDSA) (default: EdDSA)
	RSABits             int           // Optional: RSA key size for RS256 (default: 4096)
	NumKeys             int           // Optional: number of signing keys (default: 1, max: 10)
	DecisionTTL         time.Duration // Optional: lifetime of decision tokens (default: 5m)

	StoreDriver  string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile string // Optional: path to SQLite database file (default: rcs.db)
	PostgresDSN  string // Required when StoreDriver is postgres
	SeedFile     string // Optional: YAML directory snapshot loaded at start

	// EnabledIntentTypes limits the served families. Nil serves all of them.
	EnabledIntentTypes    []domain.IntentType
	IdempotencyDefaultTTL time.Duration // Optional: claim lifetime when a request has no expiration (default: 24h)
	Env                   string        // Environment (dev, staging, prod) (default: dev)
	LogLevel              string        // Log level (debug, info, warn, error) (default: info)
	LogFormat             string        // Log format (json, text) (default: json)
	Port                  int           // HTTP server port (default: 8080)
	ShutdownGracePeriod   time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval  time.Duration // Expired claim purge interval, 0 disables (default: 1h)
	unknownIntentTypes    []string
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:                getEnvOrDefault("RCS_ISSUER", "rcs"),
		ServiceProviderName:   getEnvOrDefault("RCS_SERVICE_PROVIDER_NAME", "AussieBroadWAN Bank"),
		Algorithm:             getEnvOrDefault("RCS_SIGNING_ALGORITHM", "EdDSA"),
		RSABits:               getEnvIntOrDefault("RCS_RSA_BITS", 0),
		NumKeys:               getEnvIntOrDefault("RCS_NUM_KEYS", 1),
		DecisionTTL:           getEnvDurationOrDefault("RCS_DECISION_TTL", 5*time.Minute),
		StoreDriver:           strings.ToLower(getEnvOrDefault("RCS_STORE_DRIVER", "sqlite")),
		DatabaseFile:          getEnvOrDefault("RCS_DATABASE_FILE", "rcs.db"),
		PostgresDSN:           os.Getenv("RCS_POSTGRES_DSN"),
		SeedFile:              os.Getenv("RCS_SEED_FILE"),
		IdempotencyDefaultTTL: getEnvDurationOrDefault("RCS_IDEMPOTENCY_DEFAULT_TTL", 24*time.Hour),
		Env:                   getEnvOrDefault("ENV", "dev"),
		LogLevel:              getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:             getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                  getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:   getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval:  getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if raw := os.Getenv("RCS_ENABLED_INTENT_TYPES"); raw != "" {
		cfg.EnabledIntentTypes, cfg.unknownIntentTypes = parseIntentTypes(raw)
	}

	return cfg
}

// Validate reports configuration that cannot start a working service.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case "sqlite":
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("RCS_POSTGRES_DSN is required for the postgres store driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if len(c.unknownIntentTypes) > 0 {
		return fmt.Errorf("unknown intent types in RCS_ENABLED_INTENT_TYPES: %s",
			strings.Join(c.unknownIntentTypes, ", "))
	}
	return nil
}

// parseIntentTypes splits a comma separated list of intent type names.
func parseIntentTypes(raw string) (types []domain.IntentType, unknown []string) {
	types = []domain.IntentType{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, ok := domain.ParseIntentType(part)
		if !ok {
			unknown = append(unknown, part)
			continue
		}
		types = append(types, t)
	}
	return types, unknown
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
