package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates process-level configuration so main stays lean.
type Config struct {
	Server   Server
	Redis    Redis
	Postgres Postgres
	Kafka    Kafka
	Lookup   Lookup
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	JWTSigningKey  string
	AdminKeyHash   string // bcrypt hash of the operator bootstrap key
	MockMode       bool   // serve the fake lookup backend instead of the live registry
	ShutdownWindow time.Duration
}

// Redis holds connection settings for the cache backend. An empty URL means
// the cache layer runs on the in-memory store.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Postgres holds the persistence store connection settings.
type Postgres struct {
	DSN string
}

// Kafka holds notification sink settings. Empty brokers disables the sink.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Lookup configures the external registry/sanctions client.
type Lookup struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	RatePerMinute  int
}

// FromEnv builds a Config from environment variables. Defaults favor local
// development; production deployments override via the environment.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:           envOr("TRUSTLENS_ADDR", ":8080"),
			JWTSigningKey:  envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			AdminKeyHash:   os.Getenv("ADMIN_KEY_HASH"),
			MockMode:       os.Getenv("LOOKUP_MOCK_MODE") == "true",
			ShutdownWindow: envDurationOr("SHUTDOWN_WINDOW", 10*time.Second),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: Postgres{
			DSN: os.Getenv("DATABASE_URL"),
		},
		Kafka: Kafka{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_NOTIFY_TOPIC", "trustlens.notifications"),
		},
		Lookup: Lookup{
			BaseURL:        envOr("LOOKUP_BASE_URL", "https://register.example.org/services/v1"),
			APIKey:         os.Getenv("LOOKUP_API_KEY"),
			RequestTimeout: envDurationOr("LOOKUP_REQUEST_TIMEOUT", 10*time.Second),
			RatePerMinute:  envIntOr("LOOKUP_RATE_PER_MINUTE", 60),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
