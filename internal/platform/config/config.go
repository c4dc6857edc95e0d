// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort           = "8080"
	DefaultGeminiModel    = "gemini-3-flash-preview"
	DefaultSessionTTL     = 24 * time.Hour
	DefaultLoadingTimeout = 10 * time.Minute
	DefaultLogLevel       = "info"
)

// Config holds all configuration for the server.
type Config struct {
	Port string

	// Gemini
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration // 0 = no request timeout
	GeminiRPM     int           // requests per minute, 0 = no throttling

	// 0 = unbounded fan-out
	MaxConcurrency int

	// Redis is optional; empty host keeps session state in memory.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	SessionTTL    time.Duration

	// a batch still loading after this is treated as failed
	LoadingTimeout time.Duration

	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		Port:           getEnvOrDefault("PORT", DefaultPort),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnvOrDefault("GEMINI_MODEL", DefaultGeminiModel),
		GeminiBaseURL:  os.Getenv("GEMINI_BASE_URL"),
		GeminiTimeout:  getEnvDurationOrDefault("GEMINI_TIMEOUT", 0),
		GeminiRPM:      getEnvIntOrDefault("GEMINI_REQUESTS_PER_MINUTE", 0),
		MaxConcurrency: getEnvIntOrDefault("ANALYSIS_MAX_CONCURRENCY", 0),
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPort:      getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		SessionTTL:     getEnvDurationOrDefault("SESSION_TTL", DefaultSessionTTL),
		LoadingTimeout: getEnvDurationOrDefault("DASHBOARD_LOADING_TIMEOUT", DefaultLoadingTimeout),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", DefaultLogLevel),
		LogFile:        os.Getenv("LOG_FILE"),
	}

	if cfg.MaxConcurrency < 0 {
		return nil, fmt.Errorf("ANALYSIS_MAX_CONCURRENCY must not be negative: %d", cfg.MaxConcurrency)
	}
	if cfg.GeminiRPM < 0 {
		return nil, fmt.Errorf("GEMINI_REQUESTS_PER_MINUTE must not be negative: %d", cfg.GeminiRPM)
	}
	if cfg.GeminiTimeout < 0 {
		return nil, fmt.Errorf("GEMINI_TIMEOUT must not be negative: %s", cfg.GeminiTimeout)
	}
	if cfg.LoadingTimeout <= 0 {
		return nil, fmt.Errorf("DASHBOARD_LOADING_TIMEOUT must be positive: %s", cfg.LoadingTimeout)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive: %s", cfg.SessionTTL)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// RedisEnabled reports whether a Redis host is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// RedisAddr returns host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
		slog.Warn("invalid integer in environment, using default", "key", key, "value", val)
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		slog.Warn("invalid duration in environment, using default", "key", key, "value", val)
	}
	return defaultVal
}
