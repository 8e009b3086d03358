package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	// WebSocket push settings
	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64

	// How often a fresh dashboard snapshot is pushed
	SnapshotInterval time.Duration
}

// Load reads configuration from the environment, after an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		// Dashboards never send anything larger than a close frame
		MaxMessageSize: 512,
	}

	var err error
	if cfg.WSReadTimeout, err = getSeconds("WS_READ_TIMEOUT", 60); err != nil {
		return nil, err
	}
	if cfg.WSWriteTimeout, err = getSeconds("WS_WRITE_TIMEOUT", 10); err != nil {
		return nil, err
	}
	if cfg.SnapshotInterval, err = getSeconds("SNAPSHOT_INTERVAL", 30); err != nil {
		return nil, err
	}

	cfg.PongWait = cfg.WSReadTimeout
	cfg.PingPeriod = (cfg.PongWait * 9) / 10 // Must be less than pongWait
	cfg.WriteWait = cfg.WSWriteTimeout

	return cfg, nil
}

// getSeconds parses a positive whole number of seconds
func getSeconds(key string, defaultValue int) (time.Duration, error) {
	raw := getEnv(key, strconv.Itoa(defaultValue))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %d", key, n)
	}
	return time.Duration(n) * time.Second, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
