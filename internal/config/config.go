package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port  int
	Bind  string
	Debug bool

	// Database. A postgres:// URL selects the Postgres backend; anything
	// else is treated as a SQLite file path.
	DatabaseURL string

	// AI provider
	LLMProvider string // openrouter, ollama
	APIKey      string
	BaseURL     string
	Model       string
	OllamaURL   string

	// Rate limiting (per session identifier)
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration

	// RabbitMQ. Optional: when empty, pattern stats are updated in-process.
	RabbitMQURL string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Bind:        getEnv("BIND", "0.0.0.0"),
		Debug:       getEnvBool("DEBUG", false),
		DatabaseURL: getEnv("DATABASE_URL", "hintforge.db"),

		LLMProvider: getEnv("LLM_PROVIDER", "openrouter"),
		APIKey:      getEnv("OPENROUTER_API_KEY", ""),
		BaseURL:     getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		Model:       getEnv("OPENROUTER_MODEL", "meta-llama/llama-3.1-8b-instruct:free"),
		OllamaURL:   getEnv("OLLAMA_URL", "http://localhost:11434"),

		RateLimitMaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 20),
		RateLimitWindow:      time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 60000)) * time.Millisecond,

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),
	}

	if cfg.LLMProvider == "openrouter" && cfg.APIKey == "" && !cfg.Debug {
		return nil, fmt.Errorf("OPENROUTER_API_KEY must be set for the openrouter provider")
	}
	if cfg.RateLimitMaxRequests <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive")
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW_MS must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
