package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LocalConfig holds optional file-based configuration for self-hosted
// deployments. Values from the file fill in fields the environment left at
// their defaults; environment variables always win.
type LocalConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Limits   LimitsConfig   `yaml:"limits"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port     int    `yaml:"port"`
	Bind     string `yaml:"bind"`
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig holds storage settings
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// LLMConfig holds AI provider settings
type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	// APIKey is intentionally not read from the file; use the environment.
	OllamaURL string `yaml:"ollama_url,omitempty"`
}

// LimitsConfig holds rate limit settings
type LimitsConfig struct {
	MaxRequests int `yaml:"max_requests"`
	WindowMs    int `yaml:"window_ms"`
}

// LoadLocalConfig reads hintforge.yaml from the given path. A missing file
// is not an error; it returns nil so callers can skip the overlay.
func LoadLocalConfig(path string) (*LocalConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var local LocalConfig
	if err := yaml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &local, nil
}

// Apply overlays file values onto cfg for any field the file sets, unless
// the corresponding environment variable is set. Environment always wins.
func (l *LocalConfig) Apply(cfg *Config) {
	if l == nil {
		return
	}
	if l.Server.Port != 0 && !envSet("PORT") {
		cfg.Port = l.Server.Port
	}
	if l.Server.Bind != "" && !envSet("BIND") {
		cfg.Bind = l.Server.Bind
	}
	if l.Database.URL != "" && !envSet("DATABASE_URL") {
		cfg.DatabaseURL = l.Database.URL
	}
	if l.LLM.Provider != "" && !envSet("LLM_PROVIDER") {
		cfg.LLMProvider = l.LLM.Provider
	}
	if l.LLM.BaseURL != "" && !envSet("OPENROUTER_BASE_URL") {
		cfg.BaseURL = l.LLM.BaseURL
	}
	if l.LLM.Model != "" && !envSet("OPENROUTER_MODEL") {
		cfg.Model = l.LLM.Model
	}
	if l.LLM.OllamaURL != "" && !envSet("OLLAMA_URL") {
		cfg.OllamaURL = l.LLM.OllamaURL
	}
	if l.Limits.MaxRequests != 0 && !envSet("RATE_LIMIT_MAX_REQUESTS") {
		cfg.RateLimitMaxRequests = l.Limits.MaxRequests
	}
	if l.Limits.WindowMs != 0 && !envSet("RATE_LIMIT_WINDOW_MS") {
		cfg.RateLimitWindow = time.Duration(l.Limits.WindowMs) * time.Millisecond
	}
}

func envSet(key string) bool {
	return os.Getenv(key) != ""
}

// LogLevel returns the configured log level string, defaulting to info.
func (l *LocalConfig) LogLevel() string {
	if l == nil || l.Server.LogLevel == "" {
		return "info"
	}
	return l.Server.LogLevel
}
