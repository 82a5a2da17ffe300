// Package config provides environment configuration for the proxy server.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// LLM settings
	OpenAIAPIKey    string
	AnthropicAPIKey string
	DefaultLLM      string
	TurnTimeout     time.Duration
	SummaryTimeout  time.Duration

	// Sink settings (empty URL disables the sink)
	LogsWebhookURL string
	LeadWebhookURL string
	CRMWebhookURL  string
	SinkTimeout    time.Duration

	// Dispatch settings
	LogQueueSize    int
	LogDrainTimeout time.Duration

	// CORS
	AllowedOrigins []string

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from the environment. A local .env file is
// loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),

		// LLM
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		DefaultLLM:      getEnv("DEFAULT_LLM", "openai"),
		TurnTimeout:     getDurationEnv("TURN_TIMEOUT", 20*time.Second),
		SummaryTimeout:  getDurationEnv("SUMMARY_TIMEOUT", 15*time.Second),

		// Sinks
		LogsWebhookURL: getEnv("LOGS_WEBHOOK_URL", ""),
		LeadWebhookURL: getEnv("LEAD_WEBHOOK_URL", ""),
		CRMWebhookURL:  getEnv("CRM_WEBHOOK_URL", ""),
		SinkTimeout:    getDurationEnv("SINK_TIMEOUT", 10*time.Second),

		// Dispatch
		LogQueueSize:    getIntEnv("LOG_QUEUE_SIZE", 256),
		LogDrainTimeout: getDurationEnv("LOG_DRAIN_TIMEOUT", 10*time.Second),

		// CORS
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "*")},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
