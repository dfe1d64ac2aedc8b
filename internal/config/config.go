package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Twilio webhook validation. Empty disables signature checks (local dev).
	TwilioAuthToken string

	// Reservio booking source.
	ReservioBaseURL    string
	ReservioAPIKey     string
	ReservioBusinessID string
	ReservioServiceID  string
	ReservioResourceID string
	ReservioTimeout    time.Duration
	SlotsTimeout       time.Duration

	GeminiAPIKey  string
	GeminiModelID string

	// BusinessTimezone is the shop-local timezone used for slot display and
	// business-hour filtering.
	BusinessTimezone string
	OpenHourLocal    int
	CloseHourLocal   int

	HistoryLimit int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		TwilioAuthToken: getEnv("TWILIO_AUTH_TOKEN", ""),

		ReservioBaseURL:    getEnv("RESERVIO_BASE_URL", "https://api.reservio.com/v2"),
		ReservioAPIKey:     getEnv("RESERVIO_API_KEY", ""),
		ReservioBusinessID: getEnv("RESERVIO_BUSINESS_ID", ""),
		ReservioServiceID:  getEnv("RESERVIO_SERVICE_ID", ""),
		ReservioResourceID: getEnv("RESERVIO_RESOURCE_ID", ""),
		ReservioTimeout:    getEnvAsDuration("RESERVIO_TIMEOUT", 10*time.Second),
		SlotsTimeout:       getEnvAsDuration("RESERVIO_SLOTS_TIMEOUT", 12*time.Second),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		BusinessTimezone: strings.TrimSpace(getEnv("BUSINESS_TIMEZONE", "Europe/Prague")),
		OpenHourLocal:    getEnvAsInt("OPEN_HOUR_LOCAL", 8),
		CloseHourLocal:   getEnvAsInt("CLOSE_HOUR_LOCAL", 16),

		HistoryLimit: getEnvAsInt("HISTORY_LIMIT", 5),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
