package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Server captures process configuration. Everything is environment-driven so
// main stays lean.
type Server struct {
	Addr           string
	AdminPrincipal string
	JWTSigningKey  string
	LogLevel       slog.Level
	RequestTimeout time.Duration

	// Optional backends. Empty means the in-memory implementation.
	PostgresURL     string
	RedisURL        string
	KafkaBrokers    []string
	KafkaAuditTopic string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("PROVREG_ADDR", ":8080"),
		AdminPrincipal:  envOr("PROVREG_ADMIN_PRINCIPAL", "administrator"),
		JWTSigningKey:   envOr("PROVREG_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		RequestTimeout:  30 * time.Second,
		PostgresURL:     os.Getenv("PROVREG_POSTGRES_URL"),
		RedisURL:        os.Getenv("PROVREG_REDIS_URL"),
		KafkaAuditTopic: envOr("PROVREG_KAFKA_AUDIT_TOPIC", "provreg.audit"),
	}

	if brokers := os.Getenv("PROVREG_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	switch strings.ToLower(os.Getenv("PROVREG_LOG_LEVEL")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		cfg.LogLevel = slog.LevelInfo
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
