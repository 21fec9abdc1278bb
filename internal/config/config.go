package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	Port string

	LogLevel string
	Env      string

	JWTSecret  string
	SessionTTL time.Duration

	// SessionBackend picks where session tokens live: "memory" or "redis".
	SessionBackend string
	RedisURL       string
}

// LoadConfig reads the config from environment variables, falling back to
// development defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "flockr-dev-secret")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_BACKEND", SessionBackendMemory)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.AutomaticEnv()

	cfg := &Config{
		Port:           v.GetString("PORT"),
		Env:            v.GetString("ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		SessionBackend: v.GetString("SESSION_BACKEND"),
		RedisURL:       v.GetString("REDIS_URL"),
	}

	switch cfg.SessionBackend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}
	if cfg.Env == "production" && cfg.JWTSecret == "flockr-dev-secret" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}
