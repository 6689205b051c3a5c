package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	Environment   string
	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  []string
	AuditTopic    string
	JWTSigningKey string
	TokenTTL      time.Duration
	// VerifierSubjects bootstraps the verifier allowlist at deployment time.
	VerifierSubjects []string
	RecordCacheTTL   time.Duration
}

var defaultTokenTTL = 15 * time.Minute

// RecordCacheTTL bounds how long an unverified record may be served from cache.
var defaultRecordCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("WORKLEDGER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	env := os.Getenv("WORKLEDGER_ENV")
	if env == "" {
		env = "dev"
	}

	tokenTTL := defaultTokenTTL
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			tokenTTL = d
		}
	}
	cacheTTL := defaultRecordCacheTTL
	if raw := os.Getenv("RECORD_CACHE_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cacheTTL = d
		}
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:             addr,
		Environment:      env,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		AuditTopic:       envOr("AUDIT_TOPIC", "workledger.audit"),
		JWTSigningKey:    jwtSigningKey,
		TokenTTL:         tokenTTL,
		VerifierSubjects: splitList(os.Getenv("VERIFIER_SUBJECTS")),
		RecordCacheTTL:   cacheTTL,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
