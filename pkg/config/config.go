package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBDriver    string
	DatabaseURL string

	// Duplicate cache refresh worker
	RefreshInterval   time.Duration
	RetryInterval     time.Duration
	StartupDelay      time.Duration
	HandshakeAttempts int
	HandshakeInterval time.Duration
	CacheThreshold    float64
	ScorerWorkers     int

	// Number of undoable commands kept in memory
	UndoHistoryLimit int

	// Background task bookkeeping
	TaskSweepInterval time.Duration
	TaskStaleAfter    time.Duration
	TaskRetention     time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Key material for encrypting stored source credentials
	SourceSecretKey string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DBDriver:           getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL:        getEnv("DATABASE_URL", "contacts.db"),
		RefreshInterval:    getEnvAsDuration("DUPLICATE_REFRESH_INTERVAL", 5*time.Minute),
		RetryInterval:      getEnvAsDuration("DUPLICATE_RETRY_INTERVAL", 60*time.Second),
		StartupDelay:       getEnvAsDuration("DUPLICATE_STARTUP_DELAY", 5*time.Second),
		HandshakeAttempts:  getEnvAsInt("HANDSHAKE_ATTEMPTS", 30),
		HandshakeInterval:  getEnvAsDuration("HANDSHAKE_INTERVAL", time.Second),
		CacheThreshold:     getEnvAsFloat("DUPLICATE_CACHE_THRESHOLD", 0.5),
		ScorerWorkers:      getEnvAsInt("SCORER_WORKERS", runtime.GOMAXPROCS(0)),
		UndoHistoryLimit:   getEnvAsInt("UNDO_HISTORY_LIMIT", 100),
		TaskSweepInterval:  getEnvAsDuration("TASK_SWEEP_INTERVAL", time.Minute),
		TaskStaleAfter:     getEnvAsDuration("TASK_STALE_AFTER", 30*time.Minute),
		TaskRetention:      getEnvAsDuration("TASK_RETENTION", 7*24*time.Hour),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/sources/gmail/callback"),
		SourceSecretKey:    getEnv("SOURCE_SECRET_KEY", "change-me-in-production"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			return parsed
		}
	}
	return defaultValue
}
