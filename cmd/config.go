package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	CartStoreMemory = "memory"
	CartStoreRedis  = "redis"
)

type Config struct {
	HTTPPort   string
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	SQLitePath string

	LogLevel  string
	LogFormat string

	CartStore         string
	RedisURL          string
	CartTTL           time.Duration
	CartPurgeSchedule string

	RabbitMQURL      string
	RabbitMQExchange string

	CatalogSource       string
	CatalogSyncSchedule string

	IdempotencyWindow        time.Duration
	IdempotencyPurgeSchedule string

	AllowCancelWhilePreparing bool
}

// LoadConfig reads the configuration from the environment. A .env file in the working
// directory is loaded first when present; variables already set take precedence.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	cartTTL, err := durationVariable("CART_TTL", 2*time.Hour)
	if err != nil {
		return Config{}, err
	}
	window, err := durationVariable("IDEMPOTENCY_WINDOW", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	allowCancel, err := boolVariable("ALLOW_CANCEL_WHILE_PREPARING", true)
	if err != nil {
		return Config{}, err
	}

	config := Config{
		HTTPPort:                  stringVariable("HTTP_PORT", "8080"),
		DBDriver:                  stringVariable("DB_DRIVER", DBDriverPostgres),
		DBHost:                    stringVariable("DB_HOST", "localhost"),
		DBPort:                    stringVariable("DB_PORT", "5432"),
		DBUser:                    stringVariable("DB_USER", "postgres"),
		DBPassword:                stringVariable("DB_PASSWORD", ""),
		DBName:                    stringVariable("DB_NAME", "orderhub"),
		DBSslMode:                 stringVariable("DB_SSLMODE", "disable"),
		SQLitePath:                stringVariable("SQLITE_PATH", "orderhub.db"),
		LogLevel:                  stringVariable("LOG_LEVEL", "info"),
		LogFormat:                 stringVariable("LOG_FORMAT", "json"),
		CartStore:                 stringVariable("CART_STORE", CartStoreMemory),
		RedisURL:                  stringVariable("REDIS_URL", "redis://localhost:6379/0"),
		CartTTL:                   cartTTL,
		CartPurgeSchedule:         stringVariable("CART_PURGE_SCHEDULE", "0 */5 * * * *"),
		RabbitMQURL:               stringVariable("RABBITMQ_URL", ""),
		RabbitMQExchange:          stringVariable("RABBITMQ_EXCHANGE", "orders_topic"),
		CatalogSource:             stringVariable("CATALOG_SOURCE", ""),
		CatalogSyncSchedule:       stringVariable("CATALOG_SYNC_SCHEDULE", "0 * * * * *"),
		IdempotencyWindow:         window,
		IdempotencyPurgeSchedule:  stringVariable("IDEMPOTENCY_PURGE_SCHEDULE", "0 17 * * * *"),
		AllowCancelWhilePreparing: allowCancel,
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER: unsupported driver %q", c.DBDriver)
	}
	switch c.CartStore {
	case CartStoreMemory, CartStoreRedis:
	default:
		return fmt.Errorf("CART_STORE: unsupported store %q", c.CartStore)
	}
	if c.CartTTL <= 0 {
		return fmt.Errorf("CART_TTL: %s is not positive", c.CartTTL)
	}
	if c.IdempotencyWindow <= 0 {
		return fmt.Errorf("IDEMPOTENCY_WINDOW: %s is not positive", c.IdempotencyWindow)
	}
	return nil
}

// PostgresDSN builds the connection string for the gorm postgres driver.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func stringVariable(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationVariable(key string, fallback time.Duration) (time.Duration, error) {
	value := stringVariable(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolVariable(key string, fallback bool) (bool, error) {
	value := stringVariable(key, "")
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
