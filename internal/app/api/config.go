package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port               string
	PostgresDSN        string
	JWTSecret          string
	JWTTTL             time.Duration
	AuditRetentionDays int
	Environment        string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:               envDefault("PORT", "8080"),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTTTL:             12 * time.Hour,
		AuditRetentionDays: 90,
		Environment:        envDefault("ENVIRONMENT", "local"),
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	if raw := strings.TrimSpace(os.Getenv("JWT_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("JWT_TTL_HOURS must be a positive integer")
		}
		cfg.JWTTTL = time.Duration(hours) * time.Hour
	}
	if raw := strings.TrimSpace(os.Getenv("AUDIT_RETENTION_DAYS")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return Config{}, fmt.Errorf("AUDIT_RETENTION_DAYS must be a positive integer")
		}
		cfg.AuditRetentionDays = days
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
