package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr         string
	BackendURL       string
	SnapshotDBPath   string
	JWTSecret        string
	AMQPURL          string
	SurchargeName    string
	SurchargePercent float64
	ShutdownTimeout  time.Duration
}

// FromEnv builds Config with defaults, overridden by a local .env file and
// the environment.
func FromEnv() Config {
	_ = godotenv.Load()
	return Config{
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		BackendURL:       envOrDefault("BACKEND_URL", "http://localhost:9000/api/pos"),
		SnapshotDBPath:   envOrDefault("SNAPSHOT_DB_PATH", "pos-terminal.db"),
		JWTSecret:        envOrDefault("JWT_SECRET", "changeme"),
		AMQPURL:          os.Getenv("AMQP_URL"),
		SurchargeName:    envOrDefault("SURCHARGE_NAME", "Service charge"),
		SurchargePercent: envFloat("SURCHARGE_PERCENT", 0),
		ShutdownTimeout:  envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil && f >= 0 {
			return f
		}
	}
	return def
}
