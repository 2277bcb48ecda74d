package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port               string
	DBURL              string
	ModelRoot          string
	ModelVersionDepth  int
	SearchIndexURL     string
	SearchIndexName    string
	SearchTimeoutSecs  int
	LogLevel           string
	ReadTimeoutSecs    int
	WriteTimeoutSecs   int
	IdleTimeoutSecs    int
	DBMaxConns         int
	DBMinConns         int
	DBMaxIdleSecs      int
	DBMaxLifeSecs      int
	DBConnTimeoutSecs  int
	DBStatementCache   int
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		DBURL:              os.Getenv("DB_URL"),
		ModelRoot:          getEnv("MODEL_ROOT", "mlruns"),
		ModelVersionDepth:  getEnvInt("MODEL_VERSION_DEPTH", 1),
		SearchIndexURL:     os.Getenv("SEARCH_INDEX_URL"),
		SearchIndexName:    getEnv("SEARCH_INDEX_NAME", "review-events"),
		SearchTimeoutSecs:  getEnvInt("SEARCH_INDEX_TIMEOUT_SECS", 1),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ReadTimeoutSecs:    getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:   getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:    getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:         getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:      getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:      getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs:  getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:   getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.SearchIndexURL == "" {
		return Config{}, fmt.Errorf("SEARCH_INDEX_URL is required")
	}
	if cfg.SearchIndexName == "" {
		return Config{}, fmt.Errorf("SEARCH_INDEX_NAME must not be empty")
	}
	if cfg.SearchTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("SEARCH_INDEX_TIMEOUT_SECS must be positive")
	}
	if cfg.ModelVersionDepth < 0 {
		return Config{}, fmt.Errorf("MODEL_VERSION_DEPTH must be non-negative")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMaxConns > 0 && cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
