package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Classification
	MinConfidence float64
	TaxonomyFile  string

	// Similarity analysis
	TitleWeight    float64
	ContentWeight  float64
	LinkThreshold  float64
	MergeThreshold float64

	// Naming
	ContextStrategy       string
	AlwaysPreserveContext bool

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		// SurrealDB
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "javis"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "confluence"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		// Classification
		MinConfidence: getEnvFloat("JAVIS_MIN_CONFIDENCE", 0.3),
		TaxonomyFile:  getEnv("JAVIS_TAXONOMY_FILE", ""),

		// Similarity
		TitleWeight:    getEnvFloat("JAVIS_TITLE_WEIGHT", 0.4),
		ContentWeight:  getEnvFloat("JAVIS_CONTENT_WEIGHT", 0.6),
		LinkThreshold:  getEnvFloat("JAVIS_LINK_THRESHOLD", 0.7),
		MergeThreshold: getEnvFloat("JAVIS_MERGE_THRESHOLD", 0.85),

		// Naming
		ContextStrategy:       getEnv("JAVIS_CONTEXT_STRATEGY", "append-parent-name"),
		AlwaysPreserveContext: getEnv("JAVIS_ALWAYS_PRESERVE_CONTEXT", "true") == "true",

		// Logging
		LogFile:  getEnv("JAVIS_LOG_FILE", "/tmp/javis.log"),
		LogLevel: parseLogLevel(getEnv("JAVIS_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
