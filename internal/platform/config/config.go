package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	AdminToken    string

	// MissionaryManagesAdminGrants lets missionary-scoped admins manage
	// admin role and membership rows in their clubs, matching what the
	// global scope can do inside the missionary footprint.
	MissionaryManagesAdminGrants bool

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds Redis connection settings. An empty URL disables the
// scope chain cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ChainTTL     time.Duration
}

// KafkaConfig holds audit publishing settings. Empty brokers disable the
// Kafka audit sink.
type KafkaConfig struct {
	Brokers string
	Topic   string
}

// ScopeChainCacheTTL bounds how stale a cached ancestor chain may get.
var ScopeChainCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CLUBDIR_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	missionaryManages := true
	if raw := os.Getenv("MISSIONARY_MANAGES_ADMIN_GRANTS"); raw != "" {
		missionaryManages = raw == "true"
	}

	return Server{
		Addr:                         addr,
		JWTSigningKey:                jwtSigningKey,
		AdminToken:                   os.Getenv("CLUBDIR_ADMIN_TOKEN"),
		MissionaryManagesAdminGrants: missionaryManages,
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			ChainTTL:     envDuration("REDIS_CHAIN_TTL", ScopeChainCacheTTL),
		},
		Kafka: KafkaConfig{
			Brokers: os.Getenv("KAFKA_BROKERS"),
			Topic:   envDefault("KAFKA_AUDIT_TOPIC", "clubdir.audit"),
		},
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
