package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	HTTPAddr string

	// Durable backend. Empty selects the in-memory store.
	DatabaseURL   string
	DBAutoMigrate bool

	// Webhook ingress
	WebhookProvider string
	WebhookSecret   string
	WebhookMaxBytes int64

	ActivityReadLimit int
	MemoryActivityCap int

	// Redis snapshot cache (optional)
	RedisURL         string
	SnapshotCacheTTL time.Duration

	// RabbitMQ (optional)
	RabbitURL      string
	RabbitExchange string

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func (c *Config) DurableBackend() bool { return c.DatabaseURL != "" }

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8086")

	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.DBAutoMigrate = getBool("DB_AUTO_MIGRATE", true)

	cfg.WebhookProvider = strings.ToLower(getEnv("WEBHOOK_PROVIDER", "humanitix"))
	cfg.WebhookSecret = getEnv("WEBHOOK_SECRET", "")
	cfg.WebhookMaxBytes = int64(getInt("WEBHOOK_MAX_BYTES", 1<<20))

	cfg.ActivityReadLimit = getInt("ACTIVITY_READ_LIMIT", 30)
	cfg.MemoryActivityCap = getInt("MEMORY_ACTIVITY_CAP", 120)

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.SnapshotCacheTTL = getDuration("SNAPSHOT_CACHE_TTL", 5*time.Second)

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "city.events")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects settings the service cannot run with. A missing webhook
// secret is allowed: the endpoint answers 503 until one is set.
func (c *Config) validate() error {
	if c.WebhookProvider == "" {
		return fmt.Errorf("missing WEBHOOK_PROVIDER")
	}
	if c.WebhookMaxBytes <= 0 {
		return fmt.Errorf("WEBHOOK_MAX_BYTES must be positive")
	}
	if c.ActivityReadLimit <= 0 {
		return fmt.Errorf("ACTIVITY_READ_LIMIT must be positive")
	}
	if c.MemoryActivityCap <= 0 {
		return fmt.Errorf("MEMORY_ACTIVITY_CAP must be positive")
	}
	if c.SnapshotCacheTTL <= 0 {
		return fmt.Errorf("SNAPSHOT_CACHE_TTL must be positive")
	}
	if c.DatabaseURL != "" {
		u, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			return fmt.Errorf("invalid DATABASE_URL scheme %q", u.Scheme)
		}
	}
	return nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
