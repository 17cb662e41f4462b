package config

import (
	"os"
	"strconv"
	"time"
)

// StoreBackend selects which room store implementation the server wires up.
type StoreBackend string

const (
	StoreMemory   StoreBackend = "memory"
	StoreRedis    StoreBackend = "redis"
	StorePostgres StoreBackend = "postgres"
)

// Server captures process level configuration. Store credentials are supplied
// through the environment; the application never persists them.
type Server struct {
	Addr     string
	Store    StoreBackend
	Redis    RedisConfig
	Postgres PostgresConfig
	Seed     bool
}

// RedisConfig tunes the go-redis client backing the room store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds the pgx connection string for the postgres room store.
type PostgresConfig struct {
	URL string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ROOMKEEPER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	backend := StoreBackend(os.Getenv("ROOMKEEPER_STORE"))
	switch backend {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		backend = StoreMemory
	}

	return Server{
		Addr:  addr,
		Store: backend,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Seed: os.Getenv("ROOMKEEPER_SEED") == "1",
	}
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil {
			return v
		}
	}
	return fallback
}
