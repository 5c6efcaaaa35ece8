package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string

	// LoginTokenTTL is how long a token issued by login stays valid.
	LoginTokenTTL time.Duration
	// RegisterTokenTTL is how long a token issued by registration stays
	// valid. Zero means the token never expires.
	RegisterTokenTTL time.Duration

	// LoginRateLimit is the number of login attempts allowed per client
	// within LoginRateWindow.
	LoginRateLimit  int
	LoginRateWindow time.Duration

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		MySQLDSN:         getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisPass:        os.Getenv("REDIS_PASSWORD"),
		LoginTokenTTL:    getEnvDuration("AUTH_LOGIN_TOKEN_TTL", 5*time.Hour),
		RegisterTokenTTL: getEnvDuration("AUTH_REGISTER_TOKEN_TTL", 0),
		LoginRateLimit:   getEnvInt("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow:  getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
