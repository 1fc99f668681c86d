package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration
type Config struct {
	Addr         string
	Apper        *ApperConfig
	Auth         *AuthConfig
	PageSize     int
	DebugEnabled bool

	// LocalStore switches the backend to the embedded sqlite transport,
	// for offline development and demos
	LocalStore  bool
	LocalDBPath string
}

// ApperConfig holds hosted-data API credentials
type ApperConfig struct {
	BaseURL   string
	ProjectID string
	APIKey    string
}

// AuthConfig holds admin panel credentials
type AuthConfig struct {
	BasicAuthUser string
	BasicAuthPass string
}

// LoadConfig loads configuration from environment variables.
// A .env file is loaded automatically via the godotenv autoload import.
func LoadConfig() *Config {
	cfg := &Config{
		Addr: getEnvWithDefault("STUDYFLOW_ADDR", ":8080"),
		Apper: &ApperConfig{
			BaseURL:   getEnvWithDefault("STUDYFLOW_APPER_BASE_URL", "https://api.apper.io"),
			ProjectID: getEnvWithDefault("STUDYFLOW_APPER_PROJECT_ID", ""),
			APIKey:    getEnvWithDefault("STUDYFLOW_APPER_API_KEY", ""),
		},
		Auth: &AuthConfig{
			BasicAuthUser: getEnvWithDefault("STUDYFLOW_BASIC_AUTH_USER", "admin"),
			BasicAuthPass: getEnvWithDefault("STUDYFLOW_BASIC_AUTH_PASS", "admin123"),
		},
		PageSize:     getIntEnvWithDefault("STUDYFLOW_PAGE_SIZE", 20),
		DebugEnabled: getBoolEnvWithDefault("DEBUG", false),
		LocalStore:   getBoolEnvWithDefault("STUDYFLOW_LOCAL_STORE", false),
		LocalDBPath:  getEnvWithDefault("STUDYFLOW_LOCAL_DB", "studyflow.db"),
	}

	if cfg.DebugEnabled {
		log.Printf("config: debug logging enabled")
	}
	if cfg.LocalStore {
		log.Printf("config: using local sqlite store at %s", cfg.LocalDBPath)
	}

	return cfg
}

// getEnvWithDefault gets an environment variable with a default fallback
func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnvWithDefault gets a boolean environment variable with a default fallback
func getBoolEnvWithDefault(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("config: invalid boolean value for %s=%q, using default %t", key, value, defaultValue)
	}
	return defaultValue
}

// getIntEnvWithDefault gets an integer environment variable with a default fallback
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("config: invalid value for %s=%q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}
