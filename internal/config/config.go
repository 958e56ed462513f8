// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment variables or CLI flags.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP port for serve

	// Conversation defaults
	UserID  string `json:"user_id,omitempty"`  // User that owns documents created from the CLI
	StyleID int    `json:"style_id,omitempty"` // Default resume style

	// Providers
	Provider          string  `json:"provider,omitempty"`            // Primary provider: gemini, openai, anthropic, ollama
	APIKey            string  `json:"api_key,omitempty"`             // Primary provider API key
	SecondaryProvider string  `json:"secondary_provider,omitempty"`  // Optional fallback provider
	SecondaryAPIKey   string  `json:"secondary_api_key,omitempty"`   // Fallback provider API key
	OllamaURL         string  `json:"ollama_url,omitempty"`          // Ollama server when it is one of the providers
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"` // Provider call rate limit, 0 disables
	AttemptTimeoutSec int     `json:"attempt_timeout_sec,omitempty"` // Per-provider attempt timeout
	CacheTTLMinutes   int     `json:"cache_ttl_minutes,omitempty"`   // Result cache lifetime, 0 disables

	// Storage and events
	DatabaseURL   string `json:"database_url,omitempty"`   // PostgreSQL connection URL; in-memory when empty
	RedisURL      string `json:"redis_url,omitempty"`      // Redis URL for section.updated events
	TemplatesFile string `json:"templates_file,omitempty"` // Extra styles in YAML

	// Behavior
	Verbose  bool   `json:"verbose,omitempty"`   // Print detailed debug information
	LogFile  string `json:"log_file,omitempty"`  // JSON log file, stderr only when empty
	LogLevel string `json:"log_level,omitempty"` // DEBUG, INFO, WARN or ERROR
}

var knownProviders = []string{"gemini", "openai", "anthropic", "ollama"}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.StyleID < 0 {
		return fmt.Errorf("config error: 'style_id' must be non-negative")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("config error: 'requests_per_second' must be non-negative")
	}
	if c.AttemptTimeoutSec < 0 || c.CacheTTLMinutes < 0 {
		return fmt.Errorf("config error: timeouts must be non-negative")
	}

	if c.Provider != "" && !isKnownProvider(c.Provider) {
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}
	if c.SecondaryProvider != "" {
		if !isKnownProvider(c.SecondaryProvider) {
			return fmt.Errorf("config error: unknown secondary provider %q", c.SecondaryProvider)
		}
		if c.SecondaryProvider == c.Provider {
			return fmt.Errorf("config error: 'provider' and 'secondary_provider' must differ")
		}
	}

	if c.TemplatesFile != "" {
		if _, err := os.Stat(c.TemplatesFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: templates file not found: %s", c.TemplatesFile)
		}
	}

	return nil
}

func isKnownProvider(name string) bool {
	for _, p := range knownProviders {
		if p == name {
			return true
		}
	}
	return false
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.SecondaryProvider == "" {
		result.SecondaryProvider = defaults.SecondaryProvider
	}
	if result.SecondaryAPIKey == "" {
		result.SecondaryAPIKey = defaults.SecondaryAPIKey
	}
	if result.OllamaURL == "" {
		result.OllamaURL = defaults.OllamaURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.TemplatesFile == "" {
		result.TemplatesFile = defaults.TemplatesFile
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.StyleID == 0 {
		result.StyleID = defaults.StyleID
	}
	if result.RequestsPerSecond == 0 {
		result.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if result.AttemptTimeoutSec == 0 {
		result.AttemptTimeoutSec = defaults.AttemptTimeoutSec
	}
	if result.CacheTTLMinutes == 0 {
		result.CacheTTLMinutes = defaults.CacheTTLMinutes
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults are used for anything left unset by the file, the environment and the flags.
func Defaults() Config {
	return Config{
		Port:              8080,
		UserID:            "local",
		StyleID:           1,
		Provider:          "gemini",
		OllamaURL:         "http://localhost:11434",
		RequestsPerSecond: 2,
		AttemptTimeoutSec: 30,
		CacheTTLMinutes:   30,
		LogLevel:          "INFO",
	}
}

// ApplyEnv overlays environment variables onto the configuration.
// Variables win over file values; CLI flags are applied afterwards by the caller.
func (c *Config) ApplyEnv() {
	setString(&c.Provider, "LLM_PROVIDER")
	setString(&c.SecondaryProvider, "SECONDARY_PROVIDER")
	setString(&c.OllamaURL, "OLLAMA_HOST")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.TemplatesFile, "RESUME_TEMPLATES_FILE")
	setString(&c.LogFile, "RESUME_LOG_FILE")
	setString(&c.LogLevel, "RESUME_LOG_LEVEL")
	setString(&c.UserID, "RESUME_USER_ID")

	if v, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		c.Port = v
	}

	if key := APIKeyFromEnv(c.Provider); key != "" {
		c.APIKey = key
	}
	if key := APIKeyFromEnv(c.SecondaryProvider); key != "" {
		c.SecondaryAPIKey = key
	}
}

// APIKeyFromEnv returns the conventional API key variable of a provider
func APIKeyFromEnv(provider string) string {
	switch provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

// ParseLogLevel maps a level name onto slog, defaulting to INFO
func ParseLogLevel(s string) slog.Level {
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
