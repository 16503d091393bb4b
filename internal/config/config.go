package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

const minJWTSecretBytes = 32

type DatabaseConfig struct {
	Host                   string
	Port                   string
	User                   string
	Password               string
	Name                   string
	SSLMode                string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxIdleMinutes     int
	ConnMaxLifetimeMinutes int
}

type Config struct {
	Port          string
	DB            DatabaseConfig
	JWTSecret     string
	UploadsPath   string
	MaxImageBytes int64
	MonitoringKey string
}

// Load reads configuration from the environment. The JWT secret is the
// only setting without a default; everything else falls back to values
// that work for local development.
func Load() (Config, error) {
	cfg := Config{
		Port: env("PORT", "3000"),
		DB: DatabaseConfig{
			Host:                   env("DB_HOST", "localhost"),
			Port:                   env("DB_PORT", "5432"),
			User:                   env("DB_USER", "postgres"),
			Password:               env("DB_PASSWORD", "password"),
			Name:                   env("DB_NAME", "bookrental"),
			SSLMode:                env("DB_SSLMODE", "disable"),
			MaxOpenConns:           intEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:           intEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxIdleMinutes:     intEnv("DB_CONN_MAX_IDLE_MINUTES", 5),
			ConnMaxLifetimeMinutes: intEnv("DB_CONN_MAX_LIFETIME_MINUTES", 30),
		},
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		UploadsPath:   env("UPLOADS_PATH", "./public/uploads"),
		MaxImageBytes: int64Env("MAX_IMAGE_SIZE_BYTES", 5*1024*1024),
		// Monitoring endpoints stay disabled without a key.
		MonitoringKey: strings.TrimSpace(os.Getenv("MONITORING_API_KEY")),
	}

	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < minJWTSecretBytes {
		return cfg, errors.New("JWT_SECRET must be at least 32 characters")
	}

	return cfg, nil
}

func env(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func int64Env(key string, defaultValue int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
