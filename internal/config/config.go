package config

import (
	"os"
	"strconv"
)

// Config holds process-level configuration read once at startup. Runtime
// tunables that can change without a restart live in Settings instead.
type Config struct {
	Port        string
	Environment string

	MongoURI    string
	MongoDBName string

	LocalStorePath string
	SettingsPath   string

	// S3-compatible object storage
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	// Health probe budget for persistence tiers
	ProbeTimeoutSeconds int
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3001"),
		Environment: getEnv("ENVIRONMENT", "development"),

		MongoURI:    getEnv("MONGODB_URI", ""),
		MongoDBName: getEnv("MONGODB_DB", "contentos"),

		LocalStorePath: getEnv("LOCAL_STORE_PATH", "data/contentos.db"),
		SettingsPath:   getEnv("SETTINGS_PATH", "settings.yaml"),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "contentos-assets"),
		S3UseSSL:    getBoolEnv("S3_USE_SSL", true),

		ProbeTimeoutSeconds: getIntEnv("PROBE_TIMEOUT_SECONDS", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
